package timeline

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestReconcileScalesUniformly(t *testing.T) {
	// Last sampled timestamp 9.0s against a true 10.0s duration: the 1.111
	// scale factor applies to every frame.
	in := []float64{0, 3, 6, 9}
	out := Reconcile(in, 10)

	if !scalar.EqualWithinAbs(out[len(out)-1], 10, 1e-9) {
		t.Errorf("last timestamp = %v, want 10", out[len(out)-1])
	}
	for i, ts := range in {
		want := ts * 10.0 / 9.0
		if !scalar.EqualWithinAbs(out[i], want, 1e-9) {
			t.Errorf("timestamp[%d] = %v, want %v", i, out[i], want)
		}
	}
}

func TestReconcileBelowToleranceIsNoOp(t *testing.T) {
	// 0.9% drift sits under the 1% activation threshold.
	in := []float64{0, 5, 9.91}
	out := Reconcile(in, 10)

	for i := range in {
		if out[i] != in[i] {
			t.Errorf("timestamp[%d] changed on sub-tolerance drift", i)
		}
	}
}

func TestReconcileAtToleranceTriggers(t *testing.T) {
	// 1.1% drift is past the threshold and triggers the correction.
	in := []float64{0, 5, 9.89}
	out := Reconcile(in, 10)

	if !scalar.EqualWithinAbs(out[len(out)-1], 10, 1e-9) {
		t.Errorf("last timestamp = %v, want rescaled to 10", out[len(out)-1])
	}
}

func TestReconcileDegenerateInputs(t *testing.T) {
	if out := Reconcile(nil, 10); out != nil {
		t.Error("nil timestamps not passed through")
	}
	in := []float64{0, 0}
	if out := Reconcile(in, 10); !scalar.EqualWithinAbs(out[1], 0, 1e-12) {
		t.Error("zero last timestamp rescaled")
	}
	in = []float64{1, 2}
	if out := Reconcile(in, 0); out[1] != 2 {
		t.Error("unknown true duration rescaled timestamps")
	}
}
