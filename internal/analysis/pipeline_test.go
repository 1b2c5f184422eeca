package analysis

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"math"
	"strconv"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"squatanalyzer/internal/landmarks"
	"squatanalyzer/internal/pose"
	"squatanalyzer/internal/sampler"
	"squatanalyzer/internal/video"
	"squatanalyzer/internal/videometa"
)

// stubSource serves synthetic frames by index.
type stubSource struct {
	frames int
	pos    int
}

func (s *stubSource) frame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	img.SetRGBA(0, 0, color.RGBA{R: 9, A: 255})
	return img
}

func (s *stubSource) ReadFrameAt(index int) (image.Image, error) {
	if index >= s.frames {
		return nil, errors.New("out of range")
	}
	return s.frame(), nil
}

func (s *stubSource) ReadNext() (image.Image, error) {
	if s.pos >= s.frames {
		return nil, io.EOF
	}
	s.pos++
	return s.frame(), nil
}

func (s *stubSource) Reset() error { s.pos = 0; return nil }
func (s *stubSource) Close() error { return nil }

// scriptedOracle replays a descent-then-ascent knee sequence across frames.
type scriptedOracle struct {
	angles []float64
	calls  int
}

// legFor builds a body whose right knee bends to the requested angle.
func legFor(angle float64) []landmarks.Keypoint {
	kps := make([]landmarks.Keypoint, landmarks.Count)
	vis := 0.9
	place := func(idx int, x, y float64) {
		kps[idx] = landmarks.Keypoint{X: x, Y: y, Visibility: vis}
	}
	// Vertical thigh; shank rotated by (180 - angle) from straight down.
	place(landmarks.RightHip, 0.5, 0.4)
	place(landmarks.RightKnee, 0.5, 0.6)
	rad := (180 - angle) * math.Pi / 180
	place(landmarks.RightAnkle, 0.5+0.2*math.Sin(rad), 0.6+0.2*math.Cos(rad))
	place(landmarks.RightShoulder, 0.5, 0.2)
	return kps
}

func (o *scriptedOracle) Detect(context.Context, image.Image) ([]landmarks.Keypoint, error) {
	if o.calls >= len(o.angles) {
		return nil, nil
	}
	angle := o.angles[o.calls]
	o.calls++
	return legFor(angle), nil
}

func probeJSON(duration string, frames, width, height int) videometa.Prober {
	return func(string) (string, error) {
		return `{
			"streams": [{"codec_type": "video", "width": ` + itoa(width) + `, "height": ` + itoa(height) + `,
				"nb_frames": "` + itoa(frames) + `", "r_frame_rate": "30/1", "avg_frame_rate": "30/1"}],
			"format": {"duration": "` + duration + `"}
		}`, nil
	}
}

func newTestPipeline(oracle pose.Oracle, src video.Source, prober videometa.Prober) *Pipeline {
	cfg := DefaultConfig()
	cfg.Workers = 1 // deterministic scripted oracle ordering
	return NewWithDependencies(
		cfg,
		videometa.NewResolverWithProber(prober),
		sampler.New(cfg.Sampler),
		pose.NewAdapter(oracle, nil),
		func(string, videometa.Properties) video.Source { return src },
	)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	angles := []float64{180, 150, 120, 90, 70, 90, 120, 150, 180,
		180, 180, 180, 180, 180, 180, 180, 180, 180, 180, 180}
	p := newTestPipeline(
		&scriptedOracle{angles: angles},
		&stubSource{frames: 200},
		probeJSON("6.67", 200, 640, 480),
	)

	result, err := p.Analyze(context.Background(), "testdata/fake.mp4")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if result.TotalFramesProcessed != 20 {
		t.Errorf("processed %d frames, want 20", result.TotalFramesProcessed)
	}
	if result.OriginalFrameCount != 200 {
		t.Errorf("original frame count = %d, want 200", result.OriginalFrameCount)
	}
	if !scalar.EqualWithinAbs(result.FPS, 30, 1e-9) {
		t.Errorf("fps = %v, want 30", result.FPS)
	}

	// The rep bottoms out at 70 degrees: full depth.
	if !scalar.EqualWithinAbs(result.Scores.KneeDepthScore, 100, 1e-9) {
		t.Errorf("knee depth score = %v, want 100", result.Scores.KneeDepthScore)
	}

	// Frames arrive ordered with monotonically non-decreasing indices.
	for i := 1; i < len(result.Frames); i++ {
		if result.Frames[i].Frame <= result.Frames[i-1].Frame {
			t.Fatalf("frame order violated at %d", i)
		}
	}
}

func TestAnalyzeTerminalOnUndecodableVideo(t *testing.T) {
	p := newTestPipeline(
		&scriptedOracle{},
		&stubSource{frames: 0},
		probeJSON("10.0", 300, 640, 480),
	)

	_, err := p.Analyze(context.Background(), "testdata/garbage.mp4")
	if !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("err = %v, want ErrDecodeFailed", err)
	}
}

func TestAnalyzeNoDetectionsStillSucceeds(t *testing.T) {
	// Oracle never sees a person: the pipeline returns frames with nil
	// landmarks and neutral-default scores rather than failing.
	p := newTestPipeline(
		&scriptedOracle{angles: nil},
		&stubSource{frames: 100},
		probeJSON("3.33", 100, 640, 480),
	)

	result, err := p.Analyze(context.Background(), "testdata/fake.mp4")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(result.Frames) == 0 {
		t.Fatal("no frames in result")
	}
	for _, f := range result.Frames {
		if f.Landmarks != nil {
			t.Fatal("landmarks present without detection")
		}
		if f.Measurements.KneeAngle != nil {
			t.Fatal("measurement fabricated without detection")
		}
	}
	if !scalar.EqualWithinAbs(result.Scores.ShoulderAlignmentScore, 100, 1e-9) {
		t.Errorf("shoulder score = %v, want neutral 100", result.Scores.ShoulderAlignmentScore)
	}
}

func TestTargetIndicesBudget(t *testing.T) {
	cfg := DefaultConfig()
	p := &Pipeline{cfg: cfg}

	targets := p.targetIndices(videometa.Properties{FrameCount: 1500, FPS: 30})
	if len(targets) > cfg.MaxFramesToProcess {
		t.Errorf("targets = %d, want at most %d", len(targets), cfg.MaxFramesToProcess)
	}
	// Short video: every frame is a candidate until the cap.
	targets = p.targetIndices(videometa.Properties{FrameCount: 10, FPS: 30})
	if len(targets) != 10 {
		t.Errorf("short video targets = %d, want 10", len(targets))
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
