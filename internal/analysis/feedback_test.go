package analysis

import (
	"testing"

	"squatanalyzer/internal/landmarks"
	"squatanalyzer/internal/measure"
)

func uprightRecord() *landmarks.Record {
	var r landmarks.Record
	set := func(idx int, x, y float64) {
		r[idx] = landmarks.Keypoint{X: x, Y: y, Visibility: 0.9}
	}
	set(landmarks.LeftShoulder, 0.45, 0.2)
	set(landmarks.RightShoulder, 0.55, 0.2)
	set(landmarks.LeftHip, 0.45, 0.5)
	set(landmarks.RightHip, 0.55, 0.5)
	set(landmarks.LeftKnee, 0.45, 0.7)
	set(landmarks.RightKnee, 0.55, 0.7)
	set(landmarks.LeftAnkle, 0.45, 0.9)
	set(landmarks.RightAnkle, 0.55, 0.9)
	return &r
}

func TestFormFeedbackCleanPosture(t *testing.T) {
	if fb := FormFeedback(uprightRecord()); len(fb) != 0 {
		t.Errorf("clean posture produced feedback: %+v", fb)
	}
}

func TestFormFeedbackKneeHipMisalignment(t *testing.T) {
	r := uprightRecord()
	r[landmarks.LeftKnee].X += 0.2
	r[landmarks.RightKnee].X += 0.2

	fb := FormFeedback(r)
	if len(fb) == 0 {
		t.Fatal("misaligned knees produced no feedback")
	}
	if fb[0].Message != "Keep knees aligned with hips" {
		t.Errorf("message = %q", fb[0].Message)
	}
}

func TestFormFeedbackNilRecord(t *testing.T) {
	if fb := FormFeedback(nil); fb != nil {
		t.Error("nil record produced feedback")
	}
}

func TestFeedbackArrows(t *testing.T) {
	r := uprightRecord()
	knee := 80.0
	diff := -6.0
	arrows := FeedbackArrows(r, measure.Measurements{
		KneeAngle:           &knee,
		ShoulderMidfootDiff: &diff,
	})

	if len(arrows) != 2 {
		t.Fatalf("got %d arrows, want bent-knee and shoulder cues", len(arrows))
	}
	if arrows[0].Color != "yellow" || arrows[1].Color != "red" {
		t.Errorf("arrow colors = %q, %q", arrows[0].Color, arrows[1].Color)
	}
}

func TestFeedbackArrowsNullMeasurements(t *testing.T) {
	if arrows := FeedbackArrows(uprightRecord(), measure.Measurements{}); len(arrows) != 0 {
		t.Errorf("null measurements produced arrows: %+v", arrows)
	}
}
