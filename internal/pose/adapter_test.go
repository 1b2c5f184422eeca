package pose

import (
	"context"
	"errors"
	"image"
	"testing"

	"squatanalyzer/internal/landmarks"
)

type fakeOracle struct {
	keypoints []landmarks.Keypoint
	err       error
}

func (f *fakeOracle) Detect(context.Context, image.Image) ([]landmarks.Keypoint, error) {
	return f.keypoints, f.err
}

func fullBody(offset float64) []landmarks.Keypoint {
	kps := make([]landmarks.Keypoint, landmarks.Count)
	for i := range kps {
		kps[i] = landmarks.Keypoint{
			X:          0.5 + offset,
			Y:          float64(i) / landmarks.Count,
			Visibility: 0.9,
		}
	}
	return kps
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func TestDetectZeroFillsFacialPoints(t *testing.T) {
	a := NewAdapter(&fakeOracle{keypoints: fullBody(0)}, nil)

	record, _ := a.Detect(context.Background(), testImage())
	if record == nil {
		t.Fatal("no record for detected pose")
	}
	if record[landmarks.Nose] != (landmarks.Keypoint{}) {
		t.Error("facial landmark not zero-filled")
	}
	if record[landmarks.LeftKnee].Visibility != 0.9 {
		t.Error("relevant landmark dropped during normalization")
	}
}

func TestDetectNoPerson(t *testing.T) {
	a := NewAdapter(&fakeOracle{}, nil)
	if record, _ := a.Detect(context.Background(), testImage()); record != nil {
		t.Error("record produced with no detection")
	}
}

func TestDetectAbsorbsOracleFailure(t *testing.T) {
	a := NewAdapter(&fakeOracle{err: errors.New("inference timeout")}, nil)
	record, advisory := a.Detect(context.Background(), testImage())
	if record != nil || advisory != nil {
		t.Error("oracle failure was not absorbed")
	}
}

func TestNormalizeMoveNetOrder(t *testing.T) {
	raw := make([]landmarks.Keypoint, 17)
	// MoveNet slot 13 is the left knee.
	raw[13] = landmarks.Keypoint{X: 0.4, Y: 0.6, Visibility: 0.8}

	record := Normalize(raw)
	if record == nil {
		t.Fatal("17-point set rejected")
	}
	if got := record[landmarks.LeftKnee]; got.X != 0.4 || got.Y != 0.6 {
		t.Errorf("left knee = %+v, want MoveNet slot 13 mapped in", got)
	}
}

func TestNormalizeRejectsUnknownCount(t *testing.T) {
	if record := Normalize(make([]landmarks.Keypoint, 21)); record != nil {
		t.Error("unknown keypoint count accepted")
	}
}

func TestCrossCheckAdvisory(t *testing.T) {
	primary := &fakeOracle{keypoints: fullBody(0)}
	secondary := &fakeOracle{keypoints: fullBody(0.2)} // 20 pixel-like units off

	a := NewAdapter(primary, secondary)
	record, advisory := a.Detect(context.Background(), testImage())
	if record == nil {
		t.Fatal("no record")
	}
	if advisory == nil {
		t.Fatal("no advisory despite large divergence")
	}
	if advisory.MeanDisplacement < a.DivergenceThreshold {
		t.Errorf("mean displacement = %v, want above threshold", advisory.MeanDisplacement)
	}
}

func TestCrossCheckAgreementIsQuiet(t *testing.T) {
	a := NewAdapter(&fakeOracle{keypoints: fullBody(0)}, &fakeOracle{keypoints: fullBody(0.01)})
	record, advisory := a.Detect(context.Background(), testImage())
	if record == nil {
		t.Fatal("no record")
	}
	if advisory != nil {
		t.Errorf("advisory %+v attached for agreeing oracles", advisory)
	}
}

func TestCrossCheckFailureNeverBlocks(t *testing.T) {
	a := NewAdapter(&fakeOracle{keypoints: fullBody(0)}, &fakeOracle{err: errors.New("down")})
	record, advisory := a.Detect(context.Background(), testImage())
	if record == nil {
		t.Fatal("secondary failure blocked the primary result")
	}
	if advisory != nil {
		t.Error("advisory attached on secondary failure")
	}
}
