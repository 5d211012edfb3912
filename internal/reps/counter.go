// Package reps counts completed push-up repetitions with a two-phase
// state machine driven by the per-frame elbow angle and, in strict mode,
// the arm-to-torso alignment.
package reps

import "fmt"

// Phase is the current position of the subject within a repetition.
type Phase string

const (
	PhaseUp   Phase = "up"   // Arms extended
	PhaseDown Phase = "down" // Bottom of the repetition
)

// CounterConfig holds the state machine thresholds.
type CounterConfig struct {
	DownAngle         float64 // Target elbow angle for the down position (degrees)
	AngleTolerance    float64 // Accepted deviation around DownAngle (degrees)
	UpThreshold       float64 // Elbow angle above which the arms count as extended (degrees)
	ParallelThreshold float64 // Maximum arm-to-torso heading difference in the down position (degrees)
	MinDownFrames     int     // Consecutive qualifying frames to confirm the down position
	MinUpFrames       int     // Consecutive qualifying frames to confirm the up position
}

// DefaultCounterConfig returns thresholds tuned for webcam push-up
// counting: a generous 50–110° down window and a modest extension
// requirement.
func DefaultCounterConfig() CounterConfig {
	return CounterConfig{
		DownAngle:         80,
		AngleTolerance:    30,
		UpThreshold:       120,
		ParallelThreshold: 40,
		MinDownFrames:     1,
		MinUpFrames:       1,
	}
}

// Validate checks that the configuration is usable. The down window must
// sit below the up threshold or the machine could satisfy both tests at
// once.
func (c CounterConfig) Validate() error {
	if c.DownAngle <= 0 || c.DownAngle >= 180 {
		return fmt.Errorf("down_angle must be in (0, 180), got %f", c.DownAngle)
	}
	if c.AngleTolerance < 0 {
		return fmt.Errorf("angle_tolerance must be non-negative, got %f", c.AngleTolerance)
	}
	if c.UpThreshold <= c.DownAngle+c.AngleTolerance {
		return fmt.Errorf("up_threshold %f must exceed down_angle+tolerance %f",
			c.UpThreshold, c.DownAngle+c.AngleTolerance)
	}
	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("parallel_threshold must be positive, got %f", c.ParallelThreshold)
	}
	if c.MinDownFrames < 1 || c.MinUpFrames < 1 {
		return fmt.Errorf("min frame counts must be at least 1, got down=%d up=%d",
			c.MinDownFrames, c.MinUpFrames)
	}
	return nil
}

// Counter is the repetition state machine. State is owned exclusively by
// one instance and persists for the whole session; a caller driving
// multiple sessions uses one Counter per session.
type Counter struct {
	cfg CounterConfig

	phase      Phase
	reps       int
	downFrames int
	upFrames   int
}

// NewCounter constructs a counter in the up phase, failing fast on
// invalid config.
func NewCounter(cfg CounterConfig) (*Counter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Counter{cfg: cfg, phase: PhaseUp}, nil
}

// Update advances the state machine by one frame. armTorsoDiff is the
// arm-to-torso heading difference in degrees; passing nil skips the
// parallelism requirement (lenient mode). Returns true when this frame
// completes a repetition.
//
// A repetition only completes on the down→up transition; confirming the
// down position never counts by itself.
func (c *Counter) Update(elbowAngle float64, armTorsoDiff *float64) bool {
	inDownWindow := elbowAngle >= c.cfg.DownAngle-c.cfg.AngleTolerance &&
		elbowAngle <= c.cfg.DownAngle+c.cfg.AngleTolerance
	inDownPosition := inDownWindow
	if armTorsoDiff != nil {
		inDownPosition = inDownWindow && *armTorsoDiff <= c.cfg.ParallelThreshold
	}

	switch {
	case inDownPosition:
		c.downFrames++
		c.upFrames = 0
		if c.phase == PhaseUp && c.downFrames >= c.cfg.MinDownFrames {
			c.phase = PhaseDown
		}

	case elbowAngle > c.cfg.UpThreshold:
		c.upFrames++
		c.downFrames = 0
		if c.phase == PhaseDown && c.upFrames >= c.cfg.MinUpFrames {
			c.phase = PhaseUp
			c.reps++
			return true
		}

	default:
		// Transition zone: decay the counters instead of resetting them
		// so single noisy frames near a threshold cannot erase progress.
		if c.downFrames > 0 {
			c.downFrames--
		}
		if c.upFrames > 0 {
			c.upFrames--
		}
	}

	return false
}

// Phase returns the current phase.
func (c *Counter) Phase() Phase { return c.phase }

// Reps returns the cumulative completed repetition count.
func (c *Counter) Reps() int { return c.reps }

// Reset reinitialises the machine: up phase, frame counters and the
// cumulative repetition count all zero.
func (c *Counter) Reset() {
	c.phase = PhaseUp
	c.reps = 0
	c.downFrames = 0
	c.upFrames = 0
}
