// Command gen-poselog generates synthetic push-up pose logs for
// testing replay.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/banshee-data/form.report/internal/pose"
)

func main() {
	output := flag.String("o", "sample.jsonl", "output path")
	repCount := flag.Int("reps", 5, "number of repetitions")
	fps := flag.Float64("fps", 30, "frames per second")
	repSeconds := flag.Float64("rep-seconds", 2, "seconds per repetition")
	bottom := flag.Float64("bottom", 90, "elbow angle at the bottom of the rep")
	noise := flag.Float64("noise", 0, "uniform keypoint jitter amplitude")
	seed := flag.Int64("seed", 0, "jitter random seed")
	flag.Parse()

	cfg := pose.DefaultSynthConfig()
	cfg.FPS = *fps
	cfg.RepSeconds = *repSeconds
	cfg.BottomAngle = *bottom
	cfg.Noise = *noise
	cfg.Seed = *seed

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	w := pose.NewLogWriter(f)
	gen := pose.NewSynthesizer(cfg)
	frames := int(float64(*repCount) * cfg.RepSeconds * cfg.FPS)
	for i := 0; i < frames; i++ {
		if err := w.Write(gen.NextFrame()); err != nil {
			log.Fatalf("failed to write frame %d: %v", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("failed to flush output: %v", err)
	}
	log.Printf("✓ Created: %s (%d frames, %d reps)", *output, frames, *repCount)
}
