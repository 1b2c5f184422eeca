package landmarks

// Fixed 33-point skeletal topology. Indices are positional and must never be
// reordered: every downstream consumer addresses joints by these constants.
const (
	Nose = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex

	// Count is the size of the fixed topology.
	Count = 33
)

// Keypoint is one estimated joint location on the normalized image plane.
// Coordinates are in [0,1]; Z is depth and unused by the 2D math.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Record is one frame's full keypoint set in fixed topology order.
// Joints irrelevant to squat analysis (facial points) are zero-filled rather
// than omitted so positional addressing holds for all consumers.
type Record [Count]Keypoint

// Relevant lists the joints kept for squat analysis; everything else is
// zero-filled by the adapter.
var Relevant = [...]int{
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
	LeftHeel, RightHeel,
	LeftFootIndex, RightFootIndex,
}

// Usable reports whether a joint's value is trusted for measurement: its
// confidence meets the threshold, or its coordinates are non-zero (some
// oracles report low confidence on otherwise valid points). This is the
// single visibility gate for the whole pipeline.
func (k Keypoint) Usable(threshold float64) bool {
	return k.Visibility >= threshold || k.X != 0 || k.Y != 0
}

// AllUsable applies the gate to every listed joint of the record.
func (r *Record) AllUsable(threshold float64, joints ...int) bool {
	for _, j := range joints {
		if !r[j].Usable(threshold) {
			return false
		}
	}
	return true
}
