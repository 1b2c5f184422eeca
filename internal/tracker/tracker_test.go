package tracker

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"squatanalyzer/internal/measure"
)

func fptr(v float64) *float64 { return &v }

func frame(index int, kneeAngle float64, descending bool) FrameInput {
	return FrameInput{
		Index:        index,
		Descending:   descending,
		Measurements: measure.Measurements{KneeAngle: fptr(kneeAngle)},
	}
}

func TestDepthScoreMapping(t *testing.T) {
	cases := []struct {
		angle    float64
		hipBelow bool
		want     float64
	}{
		{70, false, 100},
		{60, false, 100},
		{90, false, 0},
		{120, false, 0},
		{80, false, 50},
		{75, false, 75},
		{85, false, 25},
		{95, true, 100}, // hip below knee confirms full depth
	}
	tr := New(DefaultConfig())
	for _, tc := range cases {
		got := tr.depthScore(tc.angle, tc.hipBelow)
		if !scalar.EqualWithinAbs(got, tc.want, 1e-9) {
			t.Errorf("depthScore(%v, %v) = %v, want %v", tc.angle, tc.hipBelow, got, tc.want)
		}
	}
}

func TestShoulderScoreMapping(t *testing.T) {
	cases := []struct {
		diff float64
		want float64
	}{
		{0, 100},
		{2, 100},
		{10, 0},
		{15, 0},
		{6, 50},
		{4, 75},
	}
	tr := New(DefaultConfig())
	for _, tc := range cases {
		got := tr.shoulderScore(tc.diff)
		if !scalar.EqualWithinAbs(got, tc.want, 1e-9) {
			t.Errorf("shoulderScore(%v) = %v, want %v", tc.diff, got, tc.want)
		}
	}
}

func TestOverallWeightsPreserved(t *testing.T) {
	// The 0.4/0.3 weights intentionally sum to 0.7; the overall is a
	// weighted partial score, never renormalized.
	tr := New(DefaultConfig())
	if got := tr.overall(100, 100); !scalar.EqualWithinAbs(got, 70, 1e-9) {
		t.Errorf("overall(100,100) = %v, want 70", got)
	}
}

func TestBestKneeMonotoneWithinPhase(t *testing.T) {
	// Descent then ascent within a single phase: depth score reaches 100 at
	// the bottom and never decreases as the angle rises again.
	angles := []float64{180, 150, 120, 90, 70, 90, 120, 150, 180}
	tr := New(DefaultConfig())

	var prevDepth float64
	for i, angle := range angles {
		a := tr.Observe(frame(i, angle, true))
		if a.Scores.KneeDepth < prevDepth {
			t.Fatalf("depth score decreased within phase: %v -> %v at frame %d", prevDepth, a.Scores.KneeDepth, i)
		}
		prevDepth = a.Scores.KneeDepth
	}
	if !scalar.EqualWithinAbs(prevDepth, 100, 1e-9) {
		t.Errorf("final depth score = %v, want 100", prevDepth)
	}

	final := tr.Final()
	if !scalar.EqualWithinAbs(final.KneeDepth, 100, 1e-9) {
		t.Errorf("aggregate depth score = %v, want 100", final.KneeDepth)
	}
}

func TestNeutralDefaultBeforeFirstPhase(t *testing.T) {
	tr := New(DefaultConfig())
	a := tr.Observe(FrameInput{Index: 0, Descending: false})

	want := Scores{KneeDepth: 0, ShoulderAlignment: 100, Overall: 0}
	if a.Scores != want {
		t.Errorf("pre-phase scores = %+v, want neutral %+v", a.Scores, want)
	}
}

func TestScorePropagationOutsidePhase(t *testing.T) {
	tr := New(DefaultConfig())
	tr.Observe(frame(0, 80, true))
	inPhase := tr.Observe(frame(1, 75, true))

	// The ascent frame after the phase closes inherits the last tuple.
	after := tr.Observe(frame(2, 110, false))
	if after.Scores != inPhase.Scores {
		t.Errorf("post-phase scores = %+v, want inherited %+v", after.Scores, inPhase.Scores)
	}
}

func TestInsufficientDataPropagatesLastScore(t *testing.T) {
	tr := New(DefaultConfig())
	known := tr.Observe(frame(0, 80, true))

	gap := tr.Observe(FrameInput{Index: 1, Descending: true})
	if gap.Scores != known.Scores {
		t.Errorf("gap frame scores = %+v, want propagated %+v", gap.Scores, known.Scores)
	}
}

func TestFinalAggregatesAcrossPhases(t *testing.T) {
	tr := New(DefaultConfig())
	// First rep: shallow (80 degrees, depth 50).
	tr.Observe(frame(0, 80, true))
	tr.Observe(frame(1, 80, false))
	// Second rep: full depth.
	tr.Observe(frame(2, 65, true))
	tr.Observe(frame(3, 65, false))

	final := tr.Final()
	if !scalar.EqualWithinAbs(final.KneeDepth, 100, 1e-9) {
		t.Errorf("aggregate depth = %v, want best phase's 100", final.KneeDepth)
	}
	if got := len(tr.Phases()); got != 2 {
		t.Errorf("phases = %d, want 2", got)
	}
}

func TestFinalFallsBackToUnsegmentedStream(t *testing.T) {
	tr := New(DefaultConfig())
	// Measurements arrive but the phase signal never fires.
	tr.Observe(FrameInput{Index: 0, Measurements: measure.Measurements{KneeAngle: fptr(75)}})
	tr.Observe(FrameInput{Index: 1, Measurements: measure.Measurements{KneeAngle: fptr(85)}})

	final := tr.Final()
	// Best unsegmented knee angle 75 maps to depth 75.
	if !scalar.EqualWithinAbs(final.KneeDepth, 75, 1e-9) {
		t.Errorf("fallback depth = %v, want 75", final.KneeDepth)
	}
}

func TestFinalNoDataIsNeutral(t *testing.T) {
	tr := New(DefaultConfig())
	final := tr.Final()
	if final != (Scores{KneeDepth: 0, ShoulderAlignment: 100, Overall: 0}) {
		t.Errorf("no-data final = %+v, want neutral", final)
	}
}

func TestStatusGrading(t *testing.T) {
	tr := New(DefaultConfig())
	a := tr.Observe(FrameInput{
		Index:      0,
		Descending: true,
		Measurements: measure.Measurements{
			KneeAngle:           fptr(65),
			ShoulderMidfootDiff: fptr(-6), // magnitude 6, warn band
		},
	})
	if a.Status.Knee != StatusGood {
		t.Errorf("knee status = %v, want good at full depth", a.Status.Knee)
	}
	if a.Status.Spine != StatusWarn {
		t.Errorf("spine status = %v, want warn at offset 6", a.Status.Spine)
	}
}

func TestClassifierHysteresis(t *testing.T) {
	c := NewClassifier(2)

	if c.Observe(fptr(180)) {
		t.Error("descending before any trend")
	}
	if !c.Observe(fptr(150)) {
		t.Error("large drop did not start descent")
	}
	// Jitter below hysteresis holds the state.
	if !c.Observe(fptr(151)) {
		t.Error("1 degree jitter ended the descent")
	}
	if c.Observe(fptr(170)) {
		t.Error("large rise did not end descent")
	}
	// Unknown angles hold the current state.
	if c.Observe(nil) {
		t.Error("nil angle changed state")
	}
}
