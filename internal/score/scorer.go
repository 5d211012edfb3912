// Package score grades the quality of a completed push-up repetition.
// A Scorer buffers per-frame metrics for exactly one repetition, then
// reduces the sequence to six weighted sub-scores and a 0–100 total.
package score

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/form.report/internal/units"
)

// Metric weights. Fixed: the breakdown always reports all six.
const (
	weightROM       = 0.35
	weightDepth     = 0.15
	weightBodyLine  = 0.20
	weightTempo     = 0.10
	weightStability = 0.10
	weightSymmetry  = 0.10
)

// FrameMetrics is one frame's measurements recorded while a repetition
// is in progress. Shoulder and hip heights are normalised [0,1] image
// coordinates; angles are degrees.
type FrameMetrics struct {
	ElbowLeft     float64 // Left elbow angle
	ElbowRight    float64 // Right elbow angle
	ShoulderY     float64 // Normalised shoulder midpoint height
	HipY          float64 // Normalised hip midpoint height
	LineDeviation float64 // Shoulder-hip-ankle deviation angle
}

// Breakdown is the scored result for one completed repetition. Values
// are immutable once returned; every sub-score is clamped to [0,100].
type Breakdown struct {
	Score float64 `json:"score"` // Weighted total, one decimal

	ROM       float64 `json:"rom"`
	Depth     float64 `json:"depth"`
	BodyLine  float64 `json:"body_line"`
	Tempo     float64 `json:"tempo"`
	Stability float64 `json:"stability"`
	Symmetry  float64 `json:"symmetry"`

	DownSeconds float64 `json:"down_seconds"` // Measured descent duration
	UpSeconds   float64 `json:"up_seconds"`   // Measured ascent duration

	Notes []string `json:"notes,omitempty"`
}

// Scorer accumulates FrameMetrics across one repetition. The buffer is
// owned exclusively by the scorer; the caller resets it at the start of
// each repetition attempt and finalises when the counter signals
// completion.
type Scorer struct {
	frames []FrameMetrics
}

// NewScorer returns a scorer with an empty buffer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Reset clears the frame buffer for the next repetition.
func (s *Scorer) Reset() {
	s.frames = s.frames[:0]
}

// AddFrame records one frame's metrics.
func (s *Scorer) AddFrame(m FrameMetrics) {
	s.frames = append(s.frames, m)
}

// FrameCount returns the number of buffered frames.
func (s *Scorer) FrameCount() int {
	return len(s.frames)
}

// interp linearly maps v from [x0,x1] onto [y0,y1], saturating at the
// bounds. x0 may exceed x1 for inverted ranges (lower input scores
// higher).
func interp(v, x0, x1, y0, y1 float64) float64 {
	if x0 == x1 {
		return y0
	}
	frac := (v - x0) / (x1 - x0)
	frac = units.Clamp(frac, 0, 1)
	return y0 + frac*(y1-y0)
}

// percentile returns the p-th percentile (0–100) of xs using linear
// interpolation between order statistics.
func percentile(xs []float64, p float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.LinInterp, sorted, nil)
}

// Finalize reduces the buffered repetition to a Breakdown. An empty
// buffer is not an error: it yields a zero score with an explanatory
// note. targetDownSeconds and targetUpSeconds are the coaching tempo
// targets; fps is the capture rate used to convert frame indices to
// durations.
func (s *Scorer) Finalize(targetDownSeconds, targetUpSeconds, fps float64) Breakdown {
	if len(s.frames) == 0 {
		return Breakdown{Notes: []string{"no frames captured"}}
	}

	n := len(s.frames)
	elbowL := make([]float64, n)
	elbowR := make([]float64, n)
	hipY := make([]float64, n)
	lineDev := make([]float64, n)

	minElbow := math.Inf(1)
	maxElbow := math.Inf(-1)
	maxDepth := math.Inf(-1)
	minMeanIdx := 0
	minMean := math.Inf(1)

	for i, m := range s.frames {
		elbowL[i] = m.ElbowLeft
		elbowR[i] = m.ElbowRight
		hipY[i] = m.HipY
		lineDev[i] = m.LineDeviation

		minElbow = math.Min(minElbow, math.Min(m.ElbowLeft, m.ElbowRight))
		maxElbow = math.Max(maxElbow, math.Max(m.ElbowLeft, m.ElbowRight))
		maxDepth = math.Max(maxDepth, m.ShoulderY-m.HipY)

		if mean := (m.ElbowLeft + m.ElbowRight) / 2; mean < minMean {
			minMean = mean
			minMeanIdx = i
		}
	}

	// Range of motion: deep flexion at the bottom, full extension at
	// the top.
	romBottom := interp(minElbow, 110, 70, 0, 100)
	romTop := interp(maxElbow, 120, 160, 0, 100)
	rom := 0.6*romBottom + 0.4*romTop

	// Depth: how far the shoulders dropped relative to the hips.
	depth := interp(maxDepth, 0.00, 0.08, 0, 100)

	// Body line: 90th percentile of the deviation angle is robust to
	// brief alignment glitches.
	bodyLine := interp(100-percentile(lineDev, 90), 60, 100, 0, 100)

	// Tempo: split the repetition at the global minimum of the mean
	// elbow angle. A noisy double-dip rep splits at whichever dip is
	// deepest; the single-minimum assumption is deliberate.
	downSeconds := math.Max(float64(minMeanIdx), 1) / fps
	upSeconds := math.Max(float64(n-1-minMeanIdx), 1) / fps
	tempoDown := 100 - math.Min(math.Abs(downSeconds-targetDownSeconds)/math.Max(1e-6, targetDownSeconds), 1.0)*100
	tempoUp := 100 - math.Min(math.Abs(upSeconds-targetUpSeconds)/math.Max(1e-6, targetUpSeconds), 1.0)*100
	tempo := 0.6*tempoDown + 0.4*tempoUp

	// Stability: hip height variance across the rep.
	stability := 100 - interp(stat.PopStdDev(hipY, nil), 0.00, 0.03, 0, 100)

	// Symmetry: left/right elbow gap at the turning point and at the
	// final frame.
	symBottom := math.Abs(elbowL[minMeanIdx] - elbowR[minMeanIdx])
	symTop := math.Abs(elbowL[n-1] - elbowR[n-1])
	symmetry := 100 - interp((symBottom+symTop)/2, 0, 15, 0, 100)

	b := Breakdown{
		ROM:         units.Clamp(rom, 0, 100),
		Depth:       units.Clamp(depth, 0, 100),
		BodyLine:    units.Clamp(bodyLine, 0, 100),
		Tempo:       units.Clamp(tempo, 0, 100),
		Stability:   units.Clamp(stability, 0, 100),
		Symmetry:    units.Clamp(symmetry, 0, 100),
		DownSeconds: math.Round(downSeconds*100) / 100,
		UpSeconds:   math.Round(upSeconds*100) / 100,
	}

	total := weightROM*b.ROM +
		weightDepth*b.Depth +
		weightBodyLine*b.BodyLine +
		weightTempo*b.Tempo +
		weightStability*b.Stability +
		weightSymmetry*b.Symmetry
	b.Score = math.Round(total*10) / 10

	return b
}
