package reps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strictConfig() CounterConfig {
	return CounterConfig{
		DownAngle:         90,
		AngleTolerance:    15,
		UpThreshold:       140,
		ParallelThreshold: 20,
		MinDownFrames:     3,
		MinUpFrames:       3,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestCounterConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CounterConfig)
		wantErr bool
	}{
		{"defaults valid", func(c *CounterConfig) {}, false},
		{"strict valid", func(c *CounterConfig) { *c = strictConfig() }, false},
		{"zero down angle", func(c *CounterConfig) { c.DownAngle = 0 }, true},
		{"negative tolerance", func(c *CounterConfig) { c.AngleTolerance = -1 }, true},
		{"up threshold inside down window", func(c *CounterConfig) { c.UpThreshold = 100 }, true},
		{"zero parallel threshold", func(c *CounterConfig) { c.ParallelThreshold = 0 }, true},
		{"zero min down frames", func(c *CounterConfig) { c.MinDownFrames = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCounterConfig()
			tt.mutate(&cfg)
			_, err := NewCounter(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSingleRepCycle(t *testing.T) {
	c, err := NewCounter(strictConfig())
	require.NoError(t, err)

	require.Equal(t, PhaseUp, c.Phase())

	// Confirm the down position.
	for i := 0; i < 3; i++ {
		assert.False(t, c.Update(90, floatPtr(10)))
	}
	assert.Equal(t, PhaseDown, c.Phase())
	assert.Equal(t, 0, c.Reps(), "reaching the bottom does not count a rep")

	// Return to extension: the third up frame completes the rep.
	assert.False(t, c.Update(150, floatPtr(10)))
	assert.False(t, c.Update(150, floatPtr(10)))
	assert.True(t, c.Update(150, floatPtr(10)))
	assert.Equal(t, PhaseUp, c.Phase())
	assert.Equal(t, 1, c.Reps())
}

func TestHysteresisNearThreshold(t *testing.T) {
	c, err := NewCounter(strictConfig())
	require.NoError(t, err)

	// minDownFrames-1 qualifying frames followed by a transition-zone
	// frame must not confirm the down position.
	c.Update(90, floatPtr(10))
	c.Update(90, floatPtr(10))
	c.Update(120, floatPtr(10)) // between down window and up threshold
	assert.Equal(t, PhaseUp, c.Phase())

	// The decay only dropped the counter to 1, so two more qualifying
	// frames still confirm.
	c.Update(90, floatPtr(10))
	c.Update(90, floatPtr(10))
	assert.Equal(t, PhaseDown, c.Phase())
}

func TestTransitionZoneDecayNeverGoesNegative(t *testing.T) {
	c, err := NewCounter(strictConfig())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		c.Update(120, floatPtr(10))
	}
	assert.Equal(t, PhaseUp, c.Phase())
	assert.Equal(t, 0, c.Reps())

	// Still takes the full minDownFrames to confirm afterwards.
	c.Update(90, floatPtr(10))
	c.Update(90, floatPtr(10))
	assert.Equal(t, PhaseUp, c.Phase())
	c.Update(90, floatPtr(10))
	assert.Equal(t, PhaseDown, c.Phase())
}

func TestParallelismRequirement(t *testing.T) {
	c, err := NewCounter(strictConfig())
	require.NoError(t, err)

	// Correct elbow angle but flared arms: never confirms down.
	for i := 0; i < 5; i++ {
		c.Update(90, floatPtr(45))
	}
	assert.Equal(t, PhaseUp, c.Phase())

	// Lenient mode skips the parallelism check entirely.
	lenient, err := NewCounter(strictConfig())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		lenient.Update(90, nil)
	}
	assert.Equal(t, PhaseDown, lenient.Phase())
}

func TestDownWindowBounds(t *testing.T) {
	c, err := NewCounter(strictConfig())
	require.NoError(t, err)

	tests := []struct {
		angle  float64
		inside bool
	}{
		{75, true},  // lower edge
		{105, true}, // upper edge
		{74.9, false},
		{105.1, false},
	}
	for _, tt := range tests {
		c.Reset()
		for i := 0; i < 3; i++ {
			c.Update(tt.angle, nil)
		}
		if tt.inside {
			assert.Equalf(t, PhaseDown, c.Phase(), "angle %f should confirm down", tt.angle)
		} else {
			assert.Equalf(t, PhaseUp, c.Phase(), "angle %f should not confirm down", tt.angle)
		}
	}
}

func TestOnlyDownToUpCompletesRep(t *testing.T) {
	c, err := NewCounter(strictConfig())
	require.NoError(t, err)

	// Extension frames while already up never complete anything.
	for i := 0; i < 10; i++ {
		assert.False(t, c.Update(160, floatPtr(5)))
	}
	assert.Equal(t, 0, c.Reps())
}

func TestMultipleReps(t *testing.T) {
	c, err := NewCounter(strictConfig())
	require.NoError(t, err)

	completed := 0
	for rep := 0; rep < 4; rep++ {
		for i := 0; i < 3; i++ {
			if c.Update(90, floatPtr(10)) {
				completed++
			}
		}
		for i := 0; i < 3; i++ {
			if c.Update(150, floatPtr(10)) {
				completed++
			}
		}
	}
	assert.Equal(t, 4, completed)
	assert.Equal(t, 4, c.Reps())
}

func TestReset(t *testing.T) {
	c, err := NewCounter(strictConfig())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		c.Update(90, floatPtr(10))
	}
	for i := 0; i < 3; i++ {
		c.Update(150, floatPtr(10))
	}
	require.Equal(t, 1, c.Reps())

	c.Reset()
	assert.Equal(t, PhaseUp, c.Phase())
	assert.Equal(t, 0, c.Reps())

	// Counters are genuinely zeroed: confirming down takes the full
	// minDownFrames again.
	c.Update(90, floatPtr(10))
	c.Update(90, floatPtr(10))
	assert.Equal(t, PhaseUp, c.Phase())
}
