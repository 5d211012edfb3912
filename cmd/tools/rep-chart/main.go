// Command rep-chart renders an HTML chart of the elbow angle trace and
// per-rep scores from a recorded pose log, for offline form review.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/form.report/internal/pose"
	"github.com/banshee-data/form.report/internal/session"
)

func main() {
	output := flag.String("o", "rep-chart.html", "output HTML path")
	lenient := flag.Bool("lenient", false, "skip the plank position check")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("Usage: rep-chart [flags] <pose-log.jsonl>")
	}
	logPath := flag.Arg(0)

	cfg := session.DefaultConfig()
	cfg.Lenient = *lenient
	analyzer, err := session.NewAnalyzer(cfg)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	input, err := os.Open(logPath)
	if err != nil {
		log.Fatalf("failed to open pose log: %v", err)
	}
	defer input.Close()

	var times []string
	var elbows []opts.LineData
	var repScores []opts.ScatterData

	reader := pose.NewLogReader(input)
	for {
		frame, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("failed to read pose log: %v", err)
		}

		res := analyzer.Process(&frame)
		times = append(times, fmt.Sprintf("%.2f", frame.Timestamp()))
		elbows = append(elbows, opts.LineData{Value: res.ElbowAvg})
		if res.RepCompleted && res.Score != nil {
			repScores = append(repScores, opts.ScatterData{
				Value:  []interface{}{fmt.Sprintf("%.2f", frame.Timestamp()), res.Score.Score},
				Name:   fmt.Sprintf("rep %d", res.Reps),
				Symbol: "diamond",
			})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Push-up Form Review",
			Theme:     "dark",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Elbow angle and rep scores",
			Subtitle: fmt.Sprintf("source=%s frames=%d reps=%d", logPath, len(times), analyzer.Reps()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "elbow angle (°) / score", Min: 0, Max: 180}),
	)
	line.SetXAxis(times)
	line.AddSeries("elbow angle", elbows,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	scatter := charts.NewScatter()
	scatter.AddSeries("rep score", repScores,
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	line.Overlap(scatter)

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		log.Fatalf("failed to render chart: %v", err)
	}
	log.Printf("✓ Created: %s (%d reps)", *output, analyzer.Reps())
}
