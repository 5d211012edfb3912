// Package filter implements the One Euro adaptive low-pass filter
// (Casiez et al., 2012) used to stabilise noisy keypoint trajectories.
// The cutoff frequency rises with measured signal speed, so the filter
// smooths aggressively when the subject is still but adds little lag
// during fast movement.
package filter

import (
	"fmt"
	"math"

	"github.com/banshee-data/form.report/internal/pose"
)

// minDt is the smallest time delta accepted between samples. Duplicate or
// out-of-order timestamps clamp to this rather than producing an infinite
// instantaneous frequency.
const minDt = 1e-6

// Config holds One Euro tuning parameters. One Config is shared by every
// axis filter in a Bank.
type Config struct {
	Freq      float64 // Expected sample frequency hint (Hz)
	MinCutoff float64 // Minimum cutoff frequency (Hz)
	Beta      float64 // Cutoff slope: how fast cutoff rises with speed
	DCutoff   float64 // Fixed cutoff for the derivative estimate (Hz)
}

// DefaultConfig returns filter parameters suitable for webcam-rate pose
// streams.
func DefaultConfig() Config {
	return Config{
		Freq:      60.0,
		MinCutoff: 1.0,
		Beta:      0.1,
		DCutoff:   1.0,
	}
}

// Validate checks that the configuration is usable. Invalid parameters are
// a caller programming error and are rejected at construction time.
func (c Config) Validate() error {
	if c.Freq <= 0 {
		return fmt.Errorf("filter freq must be positive, got %f", c.Freq)
	}
	if c.MinCutoff <= 0 {
		return fmt.Errorf("filter min_cutoff must be positive, got %f", c.MinCutoff)
	}
	if c.DCutoff <= 0 {
		return fmt.Errorf("filter d_cutoff must be positive, got %f", c.DCutoff)
	}
	if c.Beta < 0 {
		return fmt.Errorf("filter beta must be non-negative, got %f", c.Beta)
	}
	return nil
}

// OneEuro filters a single scalar axis. State is owned exclusively by one
// instance and mutated on every Filter call; an uninitialised instance
// passes its first sample through unchanged.
type OneEuro struct {
	cfg Config

	initialized bool
	xPrev       float64 // previous filtered value
	dxPrev      float64 // previous filtered derivative
	tPrev       float64 // previous timestamp (seconds)
}

// NewOneEuro constructs a scalar filter, failing fast on invalid config.
func NewOneEuro(cfg Config) (*OneEuro, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &OneEuro{cfg: cfg}, nil
}

// alpha derives the exponential smoothing coefficient for a cutoff
// frequency at the given sample frequency.
func alpha(cutoff, freq float64) float64 {
	tau := 1.0 / (2.0 * math.Pi * cutoff)
	te := 1.0 / freq
	return 1.0 / (1.0 + tau/te)
}

func expSmooth(a, x, xPrev float64) float64 {
	return a*x + (1.0-a)*xPrev
}

// Filter smooths one sample taken at time t (seconds). The first sample
// initialises the state and is returned unchanged, so there is no cold
// start lag.
func (f *OneEuro) Filter(x, t float64) float64 {
	if !f.initialized {
		f.initialized = true
		f.xPrev = x
		f.dxPrev = 0
		f.tPrev = t
		return x
	}

	dt := math.Max(minDt, t-f.tPrev)
	freq := 1.0 / dt

	// Smooth the derivative with a fixed cutoff, then let derivative
	// magnitude raise the value cutoff.
	dx := (x - f.xPrev) * freq
	dxHat := expSmooth(alpha(f.cfg.DCutoff, freq), dx, f.dxPrev)

	cutoff := f.cfg.MinCutoff + f.cfg.Beta*math.Abs(dxHat)
	xHat := expSmooth(alpha(cutoff, freq), x, f.xPrev)

	f.xPrev = xHat
	f.dxPrev = dxHat
	f.tPrev = t
	return xHat
}

// Reset clears the state; the next sample passes through unchanged.
func (f *OneEuro) Reset() {
	f.initialized = false
	f.xPrev = 0
	f.dxPrev = 0
	f.tPrev = 0
}

// OneEuro2D filters a 2D point with two independent axis filters. The axes
// are never coupled.
type OneEuro2D struct {
	fx, fy *OneEuro
}

// NewOneEuro2D constructs a 2D filter from one shared config.
func NewOneEuro2D(cfg Config) (*OneEuro2D, error) {
	fx, err := NewOneEuro(cfg)
	if err != nil {
		return nil, err
	}
	fy, err := NewOneEuro(cfg)
	if err != nil {
		return nil, err
	}
	return &OneEuro2D{fx: fx, fy: fy}, nil
}

// Filter smooths one point sampled at time t (seconds).
func (f *OneEuro2D) Filter(p pose.Point, t float64) pose.Point {
	return pose.Point{
		X: f.fx.Filter(p.X, t),
		Y: f.fy.Filter(p.Y, t),
	}
}

// Reset clears both axis filters.
func (f *OneEuro2D) Reset() {
	f.fx.Reset()
	f.fy.Reset()
}

// Bank holds one 2D filter per tracked keypoint for the lifetime of a
// session.
type Bank struct {
	filters [pose.NumKeypoints]*OneEuro2D
}

// NewBank constructs a filter bank with one shared config for all
// keypoints.
func NewBank(cfg Config) (*Bank, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Bank{}
	for i := range b.filters {
		f, err := NewOneEuro2D(cfg)
		if err != nil {
			return nil, err
		}
		b.filters[i] = f
	}
	return b, nil
}

// Filter smooths every keypoint of a frame at the frame's timestamp and
// returns the filtered positions. Confidence values are untouched.
func (b *Bank) Filter(f *pose.Frame) [pose.NumKeypoints]pose.Point {
	t := f.Timestamp()
	var out [pose.NumKeypoints]pose.Point
	for i := range b.filters {
		out[i] = b.filters[i].Filter(f.Points[i], t)
	}
	return out
}

// Reset clears every keypoint filter.
func (b *Bank) Reset() {
	for _, f := range b.filters {
		f.Reset()
	}
}
