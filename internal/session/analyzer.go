// Package session wires the analysis stages into a per-frame pipeline:
// raw keypoints are filtered, reduced to angles and a position judgment,
// then fed to the repetition counter and the quality scorer. One
// Analyzer owns all mutable state for one exercise session; callers
// driving multiple sessions use independent instances.
package session

import (
	"fmt"

	"github.com/banshee-data/form.report/internal/config"
	"github.com/banshee-data/form.report/internal/filter"
	"github.com/banshee-data/form.report/internal/geom"
	"github.com/banshee-data/form.report/internal/pose"
	"github.com/banshee-data/form.report/internal/reps"
	"github.com/banshee-data/form.report/internal/score"
)

// Config holds every tuning parameter the pipeline needs.
type Config struct {
	Filter   filter.Config
	Counter  reps.CounterConfig
	Position geom.PositionConfig

	TargetDownSeconds float64 // Coaching target for the descent phase
	TargetUpSeconds   float64 // Coaching target for the ascent phase
	FPS               float64 // Capture rate used for tempo scoring

	MinConfidence float64 // Keypoint confidence floor for counting/scoring
	RepStartAngle float64 // Elbow angle below which a rep attempt begins

	// Lenient skips the position check and the arm-to-torso
	// parallelism requirement.
	Lenient bool
}

// DefaultConfig returns pipeline defaults matching the tuning defaults
// file.
func DefaultConfig() Config {
	return ConfigFromTuning(config.EmptyTuningConfig())
}

// ConfigFromTuning builds a pipeline Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		Filter: filter.Config{
			Freq:      cfg.GetFilterFreq(),
			MinCutoff: cfg.GetFilterMinCutoff(),
			Beta:      cfg.GetFilterBeta(),
			DCutoff:   cfg.GetFilterDCutoff(),
		},
		Counter: reps.CounterConfig{
			DownAngle:         cfg.GetDownAngle(),
			AngleTolerance:    cfg.GetAngleTolerance(),
			UpThreshold:       cfg.GetUpThreshold(),
			ParallelThreshold: cfg.GetParallelThreshold(),
			MinDownFrames:     cfg.GetMinDownFrames(),
			MinUpFrames:       cfg.GetMinUpFrames(),
		},
		Position: geom.PositionConfig{
			MinPlankAngle:     cfg.GetMinPlankAngle(),
			MaxBodyTilt:       cfg.GetMaxBodyTilt(),
			FaceDownThreshold: cfg.GetFaceDownThreshold(),
		},
		TargetDownSeconds: cfg.GetTargetDownSeconds(),
		TargetUpSeconds:   cfg.GetTargetUpSeconds(),
		FPS:               cfg.GetFPS(),
		MinConfidence:     cfg.GetMinConfidence(),
		RepStartAngle:     cfg.GetRepStartAngle(),
	}
}

// Validate checks the session-level parameters. The sub-configs are
// validated by their own constructors.
func (c Config) Validate() error {
	if c.TargetDownSeconds <= 0 || c.TargetUpSeconds <= 0 {
		return fmt.Errorf("tempo targets must be positive, got down=%f up=%f",
			c.TargetDownSeconds, c.TargetUpSeconds)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %f", c.FPS)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0, 1], got %f", c.MinConfidence)
	}
	if c.RepStartAngle <= 0 || c.RepStartAngle > 180 {
		return fmt.Errorf("rep_start_angle must be in (0, 180], got %f", c.RepStartAngle)
	}
	return nil
}

// Result is everything the pipeline derives from one frame. Filtered
// positions and the running rep count are always populated; the
// remaining fields only when the frame's keypoints were trusted.
type Result struct {
	Filtered [pose.NumKeypoints]pose.Point

	// Tracked reports whether every analysis keypoint met the
	// confidence floor this frame.
	Tracked bool

	ElbowLeft     float64
	ElbowRight    float64
	ElbowAvg      float64
	ArmTorsoDiff  float64
	LineDeviation float64

	PositionValid  bool
	PositionReason string

	Reps         int
	RepCompleted bool
	// Score is set when a completed repetition had buffered frames to
	// grade; ScoredFrames is how many frames that grade covers.
	Score        *score.Breakdown
	ScoredFrames int
}

// Analyzer runs the per-frame pipeline for one session. It is not safe
// for concurrent use; frames must arrive one at a time in capture
// order.
type Analyzer struct {
	cfg     Config
	bank    *filter.Bank
	counter *reps.Counter
	scorer  *score.Scorer
	inRep   bool
}

// NewAnalyzer constructs a session pipeline, failing fast if any part
// of the configuration is invalid.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bank, err := filter.NewBank(cfg.Filter)
	if err != nil {
		return nil, err
	}
	counter, err := reps.NewCounter(cfg.Counter)
	if err != nil {
		return nil, err
	}
	if err := cfg.Position.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{
		cfg:     cfg,
		bank:    bank,
		counter: counter,
		scorer:  score.NewScorer(),
	}, nil
}

// Process runs one frame through the pipeline. Low-confidence frames
// are filtered but not counted or scored; the upstream estimator's
// confidence is only consulted here, never inside the geometry layer.
func (a *Analyzer) Process(frame *pose.Frame) Result {
	res := Result{
		Filtered: a.bank.Filter(frame),
		Reps:     a.counter.Reps(),
	}

	if frame.MinConfidence(pose.AnalysisKeypoints) < a.cfg.MinConfidence {
		return res
	}
	res.Tracked = true

	p := res.Filtered
	shoulder := pose.Midpoint(p[pose.LeftShoulder], p[pose.RightShoulder])
	hip := pose.Midpoint(p[pose.LeftHip], p[pose.RightHip])
	knee := pose.Midpoint(p[pose.LeftKnee], p[pose.RightKnee])
	ankle := pose.Midpoint(p[pose.LeftAnkle], p[pose.RightAnkle])
	nose := p[pose.Nose]

	res.ElbowLeft = geom.Angle(p[pose.LeftShoulder], p[pose.LeftElbow], p[pose.LeftWrist])
	res.ElbowRight = geom.Angle(p[pose.RightShoulder], p[pose.RightElbow], p[pose.RightWrist])
	res.ElbowAvg = (res.ElbowLeft + res.ElbowRight) / 2
	res.LineDeviation = geom.Collinearity(shoulder, hip, ankle)

	diffL := geom.ArmTorsoAngleDiff(p[pose.LeftShoulder], p[pose.LeftElbow], p[pose.LeftHip])
	diffR := geom.ArmTorsoAngleDiff(p[pose.RightShoulder], p[pose.RightElbow], p[pose.RightHip])
	res.ArmTorsoDiff = (diffL + diffR) / 2

	if a.cfg.Lenient {
		res.PositionValid = true
		res.PositionReason = "Position check disabled"
	} else {
		res.PositionValid, res.PositionReason = geom.CheckPushupPosition(
			shoulder, hip, knee, ankle, nose, a.cfg.Position)
	}
	if !res.PositionValid {
		return res
	}

	// The scorer's rep boundary is independent of the counter: a rep
	// attempt starts when the elbows first leave full extension.
	if !a.inRep && res.ElbowAvg < a.cfg.RepStartAngle {
		a.inRep = true
		a.scorer.Reset()
	}
	if a.inRep {
		a.scorer.AddFrame(score.FrameMetrics{
			ElbowLeft:     res.ElbowLeft,
			ElbowRight:    res.ElbowRight,
			ShoulderY:     shoulder.Y,
			HipY:          hip.Y,
			LineDeviation: res.LineDeviation,
		})
	}

	var armTorso *float64
	if !a.cfg.Lenient {
		armTorso = &res.ArmTorsoDiff
	}
	res.RepCompleted = a.counter.Update(res.ElbowAvg, armTorso)
	res.Reps = a.counter.Reps()

	if res.RepCompleted && a.inRep {
		res.ScoredFrames = a.scorer.FrameCount()
		b := a.scorer.Finalize(a.cfg.TargetDownSeconds, a.cfg.TargetUpSeconds, a.cfg.FPS)
		res.Score = &b
		a.inRep = false
	}

	return res
}

// Reps returns the cumulative completed repetition count.
func (a *Analyzer) Reps() int {
	return a.counter.Reps()
}

// Reset clears every stage: filters back to cold start, counter to the
// up phase with zero reps, scorer buffer empty.
func (a *Analyzer) Reset() {
	a.bank.Reset()
	a.counter.Reset()
	a.scorer.Reset()
	a.inRep = false
}
