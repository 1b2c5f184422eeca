package analysis

import (
	"math"

	"squatanalyzer/internal/geometry"
	"squatanalyzer/internal/landmarks"
	"squatanalyzer/internal/measure"
)

// Thresholds for live form feedback.
const (
	kneeHipAlignmentLimit = 0.1
	minBackAngle          = 45
	bentKneeAngle         = 90
	shoulderArrowLimit    = 2
)

// Annotation is a drawable form cue anchored between two landmarks.
type Annotation struct {
	Type     string             `json:"type"`
	Message  string             `json:"message"`
	Position AnnotationPosition `json:"position"`
}

// AnnotationPosition names the landmark span and text placement for an
// annotation overlay.
type AnnotationPosition struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	TextX float64 `json:"textX"`
	TextY float64 `json:"textY"`
}

// Arrow is a directional form cue drawn over the frame.
type Arrow struct {
	Start   Point  `json:"start"`
	End     Point  `json:"end"`
	Color   string `json:"color"`
	Message string `json:"message"`
}

// Point is a normalized image coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FormFeedback derives posture annotations from one frame's landmarks:
// knee/hip lateral misalignment and an over-bent back.
func FormFeedback(record *landmarks.Record) []Annotation {
	if record == nil {
		return nil
	}
	feedback := []Annotation{}

	kneeMidX := (record[landmarks.LeftKnee].X + record[landmarks.RightKnee].X) / 2
	hipMidX := (record[landmarks.LeftHip].X + record[landmarks.RightHip].X) / 2
	if math.Abs(kneeMidX-hipMidX) > kneeHipAlignmentLimit {
		feedback = append(feedback, Annotation{
			Type:    "annotation",
			Message: "Keep knees aligned with hips",
			Position: AnnotationPosition{
				Start: landmarks.LeftHip,
				End:   landmarks.LeftKnee,
				TextX: 0.1,
				TextY: 0.1,
			},
		})
	}

	shoulderMid := midpoint(record[landmarks.LeftShoulder], record[landmarks.RightShoulder])
	hipMid := midpoint(record[landmarks.LeftHip], record[landmarks.RightHip])
	kneeMid := midpoint(record[landmarks.LeftKnee], record[landmarks.RightKnee])
	if geometry.Angle(shoulderMid, hipMid, kneeMid) < minBackAngle {
		feedback = append(feedback, Annotation{
			Type:    "annotation",
			Message: "Keep back straight",
			Position: AnnotationPosition{
				Start: landmarks.LeftShoulder,
				End:   landmarks.LeftHip,
				TextX: 0.7,
				TextY: 0.2,
			},
		})
	}

	return feedback
}

// FeedbackArrows derives directional cues from one frame's measurements.
func FeedbackArrows(record *landmarks.Record, m measure.Measurements) []Arrow {
	if record == nil {
		return nil
	}
	arrows := []Arrow{}

	knee := record[landmarks.RightKnee]
	if m.KneeAngle != nil && *m.KneeAngle < bentKneeAngle {
		arrows = append(arrows, Arrow{
			Start:   Point{X: knee.X, Y: knee.Y},
			End:     Point{X: knee.X, Y: knee.Y - 0.1},
			Color:   "yellow",
			Message: "Knees too bent",
		})
	}

	shoulder := record[landmarks.RightShoulder]
	ankle := record[landmarks.RightAnkle]
	if m.ShoulderMidfootDiff != nil && math.Abs(*m.ShoulderMidfootDiff) > shoulderArrowLimit {
		arrows = append(arrows, Arrow{
			Start:   Point{X: shoulder.X, Y: shoulder.Y},
			End:     Point{X: ankle.X, Y: shoulder.Y},
			Color:   "red",
			Message: "Keep shoulders over midfoot",
		})
	}

	return arrows
}

func midpoint(a, b landmarks.Keypoint) landmarks.Keypoint {
	return landmarks.Keypoint{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Visibility: math.Min(a.Visibility, b.Visibility),
	}
}
