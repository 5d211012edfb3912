// Package pose defines the 2D keypoint model produced by an upstream pose
// estimator, plus the newline-delimited JSON recording format used to replay
// captured sessions through the analysis pipeline.
package pose

// Keypoint indices in MoveNet/COCO SinglePose order.
const (
	Nose = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle

	// NumKeypoints is the fixed keypoint count per frame.
	NumKeypoints = 17
)

// KeypointNames lists keypoint names in index order.
var KeypointNames = [NumKeypoints]string{
	"nose", "left_eye", "right_eye", "left_ear", "right_ear",
	"left_shoulder", "right_shoulder", "left_elbow", "right_elbow",
	"left_wrist", "right_wrist", "left_hip", "right_hip",
	"left_knee", "right_knee", "left_ankle", "right_ankle",
}

// NameToIndex maps keypoint names to their index.
var NameToIndex = func() map[string]int {
	m := make(map[string]int, NumKeypoints)
	for i, name := range KeypointNames {
		m[name] = i
	}
	return m
}()

// SkeletonPairs lists the keypoint index pairs that form the drawable
// skeleton. Rendering is a downstream concern; the table lives here so
// every consumer agrees on the topology.
var SkeletonPairs = [][2]int{
	{LeftShoulder, LeftElbow}, {LeftElbow, LeftWrist},
	{RightShoulder, RightElbow}, {RightElbow, RightWrist},
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftHip}, {RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee}, {LeftKnee, LeftAnkle},
	{RightHip, RightKnee}, {RightKnee, RightAnkle},
}

// Point is a 2D keypoint position. Coordinates are normalised to [0,1]
// with y increasing downward (image convention); the whole pipeline uses
// the same space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Frame is one pose-estimator output: all keypoint positions and their
// confidence scores for a single video frame. Frames are immutable once
// produced.
type Frame struct {
	TimestampNanos int64                 `json:"timestamp_nanos"`
	Points         [NumKeypoints]Point   `json:"points"`
	Confidence     [NumKeypoints]float64 `json:"confidence"`
}

// Timestamp returns the frame time in seconds, the unit the signal filter
// works in.
func (f *Frame) Timestamp() float64 {
	return float64(f.TimestampNanos) / 1e9
}

// MidShoulder returns the midpoint of the two shoulder keypoints.
func (f *Frame) MidShoulder() Point { return Midpoint(f.Points[LeftShoulder], f.Points[RightShoulder]) }

// MidHip returns the midpoint of the two hip keypoints.
func (f *Frame) MidHip() Point { return Midpoint(f.Points[LeftHip], f.Points[RightHip]) }

// MidKnee returns the midpoint of the two knee keypoints.
func (f *Frame) MidKnee() Point { return Midpoint(f.Points[LeftKnee], f.Points[RightKnee]) }

// MidAnkle returns the midpoint of the two ankle keypoints.
func (f *Frame) MidAnkle() Point { return Midpoint(f.Points[LeftAnkle], f.Points[RightAnkle]) }

// MinConfidence returns the lowest confidence among the given keypoint
// indices. Callers gate on this before trusting a frame's geometry.
func (f *Frame) MinConfidence(indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	min := f.Confidence[indices[0]]
	for _, idx := range indices[1:] {
		if f.Confidence[idx] < min {
			min = f.Confidence[idx]
		}
	}
	return min
}

// AnalysisKeypoints are the keypoints the analysis pipeline requires per
// frame. Eyes and ears are not used.
var AnalysisKeypoints = []int{
	Nose,
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}
