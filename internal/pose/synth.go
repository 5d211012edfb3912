package pose

import (
	"math"
	"math/rand"
)

// SynthConfig controls the synthetic push-up generator.
type SynthConfig struct {
	FPS         float64 // Frames per second
	RepSeconds  float64 // Duration of one full descent-ascent cycle
	TopAngle    float64 // Elbow angle at full extension (degrees)
	BottomAngle float64 // Elbow angle at the bottom of the rep (degrees)
	Noise       float64 // Uniform keypoint jitter amplitude (normalized units)
	Seed        int64
}

// DefaultSynthConfig generates clean two-second reps at 30fps.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		FPS:         30,
		RepSeconds:  2,
		TopAngle:    170,
		BottomAngle: 90,
	}
}

// Synthesizer produces side-view plank frames with a sinusoidal elbow
// angle, useful for exercising the replay pipeline without a camera.
type Synthesizer struct {
	cfg SynthConfig
	rng *rand.Rand
	i   int
}

func NewSynthesizer(cfg SynthConfig) *Synthesizer {
	return &Synthesizer{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NextFrame returns the next synthetic frame. The subject holds a
// plank with the torso near horizontal; the elbow angle oscillates
// between TopAngle and BottomAngle once per RepSeconds.
func (s *Synthesizer) NextFrame() Frame {
	t := float64(s.i) / s.cfg.FPS
	s.i++

	// Cosine oscillation starting at full extension.
	mid := (s.cfg.TopAngle + s.cfg.BottomAngle) / 2
	amp := (s.cfg.TopAngle - s.cfg.BottomAngle) / 2
	elbowDeg := mid + amp*math.Cos(2*math.Pi*t/s.cfg.RepSeconds)

	shoulder := Point{X: 0.3, Y: 0.5}
	hip := Point{X: 0.5, Y: 0.52}
	knee := Point{X: 0.65, Y: 0.54}
	ankle := Point{X: 0.8, Y: 0.56}
	nose := Point{X: 0.25, Y: 0.56}

	const armHeading = 20.0 // degrees below horizontal, y-down coords
	elbow := Point{
		X: shoulder.X + 0.12*math.Cos(armHeading*math.Pi/180),
		Y: shoulder.Y + 0.12*math.Sin(armHeading*math.Pi/180),
	}
	wristHeading := (armHeading + 180 - elbowDeg) * math.Pi / 180
	wrist := Point{
		X: elbow.X + 0.10*math.Cos(wristHeading),
		Y: elbow.Y + 0.10*math.Sin(wristHeading),
	}

	var f Frame
	f.TimestampNanos = int64(t * 1e9)
	for i := range f.Confidence {
		f.Confidence[i] = 0.9
	}
	f.Points[Nose] = s.jitter(nose)
	f.Points[LeftShoulder] = s.jitter(shoulder)
	f.Points[RightShoulder] = s.jitter(shoulder)
	f.Points[LeftElbow] = s.jitter(elbow)
	f.Points[RightElbow] = s.jitter(elbow)
	f.Points[LeftWrist] = s.jitter(wrist)
	f.Points[RightWrist] = s.jitter(wrist)
	f.Points[LeftHip] = s.jitter(hip)
	f.Points[RightHip] = s.jitter(hip)
	f.Points[LeftKnee] = s.jitter(knee)
	f.Points[RightKnee] = s.jitter(knee)
	f.Points[LeftAnkle] = s.jitter(ankle)
	f.Points[RightAnkle] = s.jitter(ankle)
	return f
}

func (s *Synthesizer) jitter(p Point) Point {
	if s.cfg.Noise == 0 {
		return p
	}
	return Point{
		X: p.X + (s.rng.Float64()*2-1)*s.cfg.Noise,
		Y: p.Y + (s.rng.Float64()*2-1)*s.cfg.Noise,
	}
}
