// Package geometry holds the pure 2D measurement math. Every function
// degrades to a neutral zero value on malformed input and never panics;
// callers must treat zero as "unknown" when input confidence is also low.
package geometry

import (
	"math"

	"squatanalyzer/internal/landmarks"
)

// minSpan guards division by a near-zero hip-to-ankle span.
const minSpan = 1e-6

// Angle returns the angle at vertex b between rays b->a and b->c, in degrees,
// range [0,180]. A zero-length ray yields 0.
func Angle(a, b, c landmarks.Keypoint) float64 {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	normBA := math.Hypot(bax, bay)
	normBC := math.Hypot(bcx, bcy)
	if normBA == 0 || normBC == 0 || math.IsNaN(normBA) || math.IsNaN(normBC) {
		return 0
	}

	cos := (bax*bcx + bay*bcy) / (normBA * normBC)
	if math.IsNaN(cos) {
		return 0
	}
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// DepthRatio expresses the knee's vertical position as a fraction of the
// hip-to-ankle vertical span. A span below minSpan yields 0.
func DepthRatio(hip, knee, ankle landmarks.Keypoint) float64 {
	span := math.Abs(hip.Y - ankle.Y)
	if span < minSpan {
		return 0
	}
	return math.Abs(knee.Y-ankle.Y) / span
}

// ShoulderMidfootOffset is the signed horizontal shoulder-to-ankle distance
// scaled x100 for pixel-like magnitude. Sign convention: positive means the
// shoulder sits ahead of the ankle in the +x image direction. Consumers that
// only care about alignment severity compare magnitudes with math.Abs.
func ShoulderMidfootOffset(shoulder, ankle landmarks.Keypoint) float64 {
	return (shoulder.X - ankle.X) * 100
}

// HipBelowKnee reports whether the hip has geometrically dropped below the
// knee (image y grows downward).
func HipBelowKnee(hip, knee landmarks.Keypoint) bool {
	return hip.Y > knee.Y
}
