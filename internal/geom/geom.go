// Package geom provides the pure geometric measurements the analysis
// pipeline derives from filtered keypoint positions: joint angles,
// body-line collinearity, arm-to-torso parallelism, and the plank
// position check. All functions are stateless and never reject input
// on confidence grounds; degenerate geometry degrades to defined
// values rather than errors.
package geom

import (
	"math"

	"github.com/banshee-data/form.report/internal/pose"
	"github.com/banshee-data/form.report/internal/units"
)

// nearZero is the squared-length floor below which an angle ray is
// treated as degenerate.
const nearZero = 1e-9

// Angle returns the angle at vertex b between the rays b→a and b→c, in
// degrees within [0, 180]. If either ray has near-zero length the angle
// is 0 rather than an error.
func Angle(a, b, c pose.Point) float64 {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	nba := math.Hypot(bax, bay)
	nbc := math.Hypot(bcx, bcy)
	if nba < nearZero || nbc < nearZero {
		return 0
	}

	cosv := (bax*bcx + bay*bcy) / (nba * nbc)
	cosv = units.Clamp(cosv, -1, 1)
	return units.Degrees(math.Acos(cosv))
}

// Collinearity measures how close three points are to a straight line:
// the angle at b, where smaller values mean better alignment. Used for
// plank quality over the shoulder-hip-ankle chain.
func Collinearity(a, b, c pose.Point) float64 {
	return Angle(a, b, c)
}

// ArmTorsoAngleDiff returns the absolute difference between the upper
// arm's heading (elbow relative to shoulder) and the torso's heading
// (hip relative to shoulder), folded into [0, 180]. Small values mean
// the upper arm is parallel to the torso.
func ArmTorsoAngleDiff(shoulder, elbow, hip pose.Point) float64 {
	armHeading := units.Degrees(math.Atan2(elbow.Y-shoulder.Y, elbow.X-shoulder.X))
	torsoHeading := units.Degrees(math.Atan2(hip.Y-shoulder.Y, hip.X-shoulder.X))
	return units.FoldDegrees(armHeading - torsoHeading)
}
