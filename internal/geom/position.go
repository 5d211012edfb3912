package geom

import (
	"fmt"
	"math"

	"github.com/banshee-data/form.report/internal/pose"
	"github.com/banshee-data/form.report/internal/units"
)

// PositionConfig holds the plank position check thresholds.
type PositionConfig struct {
	MinPlankAngle     float64 // Minimum hip-knee-ankle angle for straight legs (degrees)
	MaxBodyTilt       float64 // Maximum torso heading from horizontal (degrees)
	FaceDownThreshold float64 // Minimum (nose.y - shoulder.y) / body height ratio
}

// DefaultPositionConfig returns thresholds tuned for webcam push-up
// checking.
func DefaultPositionConfig() PositionConfig {
	return PositionConfig{
		MinPlankAngle:     160,
		MaxBodyTilt:       30,
		FaceDownThreshold: 0.2,
	}
}

// Validate checks that the thresholds are usable.
func (c PositionConfig) Validate() error {
	if c.MinPlankAngle <= 0 || c.MinPlankAngle > 180 {
		return fmt.Errorf("min_plank_angle must be in (0, 180], got %f", c.MinPlankAngle)
	}
	if c.MaxBodyTilt <= 0 || c.MaxBodyTilt > 90 {
		return fmt.Errorf("max_body_tilt must be in (0, 90], got %f", c.MaxBodyTilt)
	}
	return nil
}

// CheckPushupPosition validates that the subject is in a proper plank:
// legs straight, body roughly horizontal, and face toward the ground.
// The three checks run in order and short-circuit on the first failure,
// each with a distinct human-readable reason. Coordinates use the image
// convention where y increases downward.
//
// The face-down check is skipped when body height is zero; with shoulder
// and ankle at the same height there is no ratio to judge.
func CheckPushupPosition(shoulder, hip, knee, ankle, nose pose.Point, cfg PositionConfig) (bool, string) {
	kneeAngle := Angle(hip, knee, ankle)
	if kneeAngle < cfg.MinPlankAngle {
		return false, fmt.Sprintf("Legs bent (%d° < %d°)", int(kneeAngle), int(cfg.MinPlankAngle))
	}

	torsoTilt := math.Abs(units.Degrees(math.Atan2(hip.Y-shoulder.Y, hip.X-shoulder.X)))
	if torsoTilt > cfg.MaxBodyTilt {
		return false, fmt.Sprintf("Not horizontal (%d° > %d°)", int(torsoTilt), int(cfg.MaxBodyTilt))
	}

	bodyHeight := math.Abs(shoulder.Y - ankle.Y)
	if bodyHeight > 0 {
		faceRatio := (nose.Y - shoulder.Y) / bodyHeight
		if faceRatio < cfg.FaceDownThreshold {
			return false, "Face not pointing down"
		}
	}

	return true, "Valid push-up position"
}
