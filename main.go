// Command form.report replays a recorded pose log through the push-up
// analysis pipeline, printing a running rep count and a score breakdown
// for every completed repetition. With -db the session and its reps are
// also written to sqlite for later review.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/form.report/internal/config"
	"github.com/banshee-data/form.report/internal/db"
	"github.com/banshee-data/form.report/internal/monitoring"
	"github.com/banshee-data/form.report/internal/pose"
	"github.com/banshee-data/form.report/internal/session"
	"github.com/banshee-data/form.report/internal/version"
)

var (
	configPath  = flag.String("config", "", "Tuning config path (defaults to config/tuning.defaults.json found upward)")
	dbPath      = flag.String("db", "", "Record the session to this sqlite database")
	lenient     = flag.Bool("lenient", false, "Skip the plank position check")
	fps         = flag.Float64("fps", 0, "Override the capture frame rate used for tempo scoring")
	debug       = flag.Bool("debug", false, "Log per-frame diagnostics")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Printf("form.report %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	monitoring.SetDebug(*debug)

	cfg, source, err := buildConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	analyzer, err := session.NewAnalyzer(cfg)
	if err != nil {
		log.Fatalf("Failed to build analysis pipeline: %v", err)
	}

	input, inputName, err := openInput(flag.Args())
	if err != nil {
		log.Fatalf("Failed to open pose log: %v", err)
	}
	defer input.Close()

	var store *db.DB
	var record *db.Session
	if *dbPath != "" {
		store, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()

		record = &db.Session{Source: inputName, FPS: cfg.FPS, Lenient: cfg.Lenient}
		if err := store.CreateSession(record); err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		monitoring.Logf("Recording session %s to %s", record.SessionID, *dbPath)
	}

	monitoring.Logf("Replaying %s (config: %s, fps: %.1f, lenient: %v)",
		inputName, source, cfg.FPS, cfg.Lenient)

	frames, reps, err := replay(analyzer, input, store, record)
	if err != nil {
		log.Fatalf("Replay failed: %v", err)
	}

	monitoring.Logf("Done: %d frames, %d reps", frames, reps)
	if store != nil {
		summary, err := store.SummarizeSession(record.SessionID)
		if err != nil {
			log.Fatalf("Failed to summarize session: %v", err)
		}
		monitoring.Logf("Session %s: %d reps, avg %.1f, best %.1f",
			summary.SessionID, summary.RepCount, summary.AvgScore, summary.BestScore)
	}
}

// buildConfig resolves the tuning file and applies command-line
// overrides. It reports which file the tuning came from.
func buildConfig() (session.Config, string, error) {
	var tuning *config.TuningConfig
	source := "compiled defaults"
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			return session.Config{}, "", err
		}
		tuning = loaded
		source = *configPath
	} else {
		tuning = config.MustLoadDefaultConfig()
		source = "config/tuning.defaults.json"
	}

	cfg := session.ConfigFromTuning(tuning)
	if *lenient {
		cfg.Lenient = true
	}
	if *fps > 0 {
		cfg.FPS = *fps
	}
	return cfg, source, nil
}

// openInput returns the pose log reader: the first positional argument
// as a file path, or stdin when absent or "-".
func openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, "stdin", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}

// replay drives every frame through the analyzer, printing each
// completed rep and recording it when a store is attached.
func replay(analyzer *session.Analyzer, input io.Reader, store *db.DB, record *db.Session) (frames, reps int, err error) {
	reader := pose.NewLogReader(input)
	for {
		frame, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frames, reps, err
		}
		frames++

		res := analyzer.Process(&frame)
		monitoring.Debugf("frame %d: tracked=%v elbow=%.1f phase_reps=%d position=%q",
			frames, res.Tracked, res.ElbowAvg, res.Reps, res.PositionReason)

		if !res.RepCompleted {
			continue
		}
		reps = res.Reps
		printBreakdown(res)

		if store != nil && res.Score != nil {
			if err := store.RecordRep(record.SessionID, res.Reps, res.Score, res.ScoredFrames, frame.TimestampNanos); err != nil {
				return frames, reps, fmt.Errorf("record rep %d: %w", res.Reps, err)
			}
		}
	}
	return frames, reps, nil
}

func printBreakdown(res session.Result) {
	if res.Score == nil {
		monitoring.Logf("Rep %d complete (no scored frames)", res.Reps)
		return
	}
	b := res.Score
	monitoring.Logf("Rep %d: score %.1f (rom %.0f, depth %.0f, line %.0f, tempo %.0f, stability %.0f, symmetry %.0f; down %.2fs, up %.2fs)",
		res.Reps, b.Score, b.ROM, b.Depth, b.BodyLine, b.Tempo, b.Stability, b.Symmetry, b.DownSeconds, b.UpSeconds)
	for _, note := range b.Notes {
		monitoring.Logf("       note: %s", note)
	}
}
