package pose

import (
	"context"
	"image"
	"log"
	"math"

	"squatanalyzer/internal/landmarks"
)

// moveNetToTopology places the 17 MoveNet body points into the fixed
// 33-point topology. Remaining indices stay zero-filled.
var moveNetToTopology = [17]int{
	landmarks.Nose,
	landmarks.LeftEye, landmarks.RightEye,
	landmarks.LeftEar, landmarks.RightEar,
	landmarks.LeftShoulder, landmarks.RightShoulder,
	landmarks.LeftElbow, landmarks.RightElbow,
	landmarks.LeftWrist, landmarks.RightWrist,
	landmarks.LeftHip, landmarks.RightHip,
	landmarks.LeftKnee, landmarks.RightKnee,
	landmarks.LeftAnkle, landmarks.RightAnkle,
}

// Advisory is a non-fatal note attached to a frame when the secondary oracle
// diverges from the primary. It never blocks or alters measurements.
type Advisory struct {
	Message          string  `json:"message"`
	MeanDisplacement float64 `json:"mean_displacement"`
}

// Adapter turns raw oracle output into a normalized landmark record with a
// consistent visibility gate.
type Adapter struct {
	primary   Oracle
	secondary Oracle // optional cross-check, may be nil

	// DivergenceThreshold is the mean keypoint displacement (x100,
	// pixel-like scale) above which an advisory is attached.
	DivergenceThreshold float64
}

// NewAdapter wraps the primary oracle. Secondary may be nil.
func NewAdapter(primary, secondary Oracle) *Adapter {
	return &Adapter{
		primary:             primary,
		secondary:           secondary,
		DivergenceThreshold: 5,
	}
}

// Detect runs the primary oracle on one frame. A nil record means no person
// was detected; oracle failures are absorbed, never propagated.
func (a *Adapter) Detect(ctx context.Context, img image.Image) (*landmarks.Record, *Advisory) {
	raw, err := a.primary.Detect(ctx, img)
	if err != nil {
		log.Printf("pose: primary oracle failed: %v", err)
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, nil
	}

	record := Normalize(raw)
	if record == nil {
		return nil, nil
	}

	var advisory *Advisory
	if a.secondary != nil {
		advisory = a.crossCheck(ctx, img, record)
	}
	return record, advisory
}

// Normalize maps an oracle's native point set onto the fixed topology,
// zero-filling the facial points that squat analysis never reads. Unknown
// point counts are rejected.
func Normalize(raw []landmarks.Keypoint) *landmarks.Record {
	var full landmarks.Record
	switch len(raw) {
	case landmarks.Count:
		copy(full[:], raw)
	case len(moveNetToTopology):
		for i, idx := range moveNetToTopology {
			full[idx] = raw[i]
		}
	default:
		log.Printf("pose: unexpected keypoint count %d", len(raw))
		return nil
	}

	// Keep only the biomechanically relevant subset; everything else is
	// zero-filled rather than omitted to preserve positional addressing.
	var record landmarks.Record
	for _, idx := range landmarks.Relevant {
		record[idx] = full[idx]
	}
	return &record
}

// crossCheck compares the primary record with the secondary oracle's
// estimate and attaches an advisory when the two disagree.
func (a *Adapter) crossCheck(ctx context.Context, img image.Image, primary *landmarks.Record) *Advisory {
	raw, err := a.secondary.Detect(ctx, img)
	if err != nil {
		log.Printf("pose: secondary oracle failed: %v", err)
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	second := Normalize(raw)
	if second == nil {
		return nil
	}

	var sum float64
	var n int
	for _, idx := range landmarks.Relevant {
		p, q := primary[idx], second[idx]
		if (p.X == 0 && p.Y == 0) || (q.X == 0 && q.Y == 0) {
			continue
		}
		sum += math.Hypot(p.X-q.X, p.Y-q.Y) * 100
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	if mean <= a.DivergenceThreshold {
		return nil
	}
	return &Advisory{
		Message:          "pose estimates diverge between models; landmark accuracy may be reduced",
		MeanDisplacement: mean,
	}
}
