// Package measure converts one frame's landmark record into biomechanical
// measurements, preferring the deeper or worse of the two body sides.
package measure

import (
	"math"

	"squatanalyzer/internal/geometry"
	"squatanalyzer/internal/landmarks"
)

// Measurements holds one frame's nullable measurements. A nil field means
// the joints it needs were not usable; nil propagates as "unknown" and is
// never collapsed to zero.
type Measurements struct {
	KneeAngle           *float64 `json:"kneeAngle"`
	DepthRatio          *float64 `json:"depthRatio"`
	ShoulderMidfootDiff *float64 `json:"shoulderMidfootDiff"`

	// HipBelowKnee is set when the selected side's hip geometrically
	// dropped below its knee, confirming full depth.
	HipBelowKnee bool `json:"-"`
}

// Extractor applies the visibility gate and side-selection policy.
type Extractor struct {
	// VisibilityThreshold is the single gate used for every joint.
	VisibilityThreshold float64
}

// NewExtractor returns an extractor with the given gate threshold.
func NewExtractor(visibilityThreshold float64) *Extractor {
	return &Extractor{VisibilityThreshold: visibilityThreshold}
}

type sideJoints struct {
	shoulder, hip, knee, ankle int
}

var (
	leftSide  = sideJoints{landmarks.LeftShoulder, landmarks.LeftHip, landmarks.LeftKnee, landmarks.LeftAnkle}
	rightSide = sideJoints{landmarks.RightShoulder, landmarks.RightHip, landmarks.RightKnee, landmarks.RightAnkle}
)

// Extract computes knee angle, depth ratio and shoulder-midfoot offset from
// one landmark record. Each side is computed independently; when both are
// usable the knee angle is the minimum (deeper) of the two, the shoulder
// offset is the one with larger magnitude (worse alignment), and the depth
// ratio comes from the side that supplied the selected knee angle.
func (e *Extractor) Extract(record *landmarks.Record) Measurements {
	var m Measurements
	if record == nil {
		return m
	}

	type sideResult struct {
		kneeAngle    float64
		depthRatio   float64
		hipBelowKnee bool
	}

	var selected *sideResult
	for _, side := range []sideJoints{leftSide, rightSide} {
		if !record.AllUsable(e.VisibilityThreshold, side.hip, side.knee, side.ankle) {
			continue
		}
		hip, knee, ankle := record[side.hip], record[side.knee], record[side.ankle]
		r := sideResult{
			kneeAngle:    geometry.Angle(hip, knee, ankle),
			depthRatio:   geometry.DepthRatio(hip, knee, ankle),
			hipBelowKnee: geometry.HipBelowKnee(hip, knee),
		}
		if selected == nil || r.kneeAngle < selected.kneeAngle {
			r := r
			selected = &r
		}
	}
	if selected != nil {
		m.KneeAngle = &selected.kneeAngle
		m.DepthRatio = &selected.depthRatio
		m.HipBelowKnee = selected.hipBelowKnee
	}

	var worstOffset *float64
	for _, side := range []sideJoints{leftSide, rightSide} {
		if !record.AllUsable(e.VisibilityThreshold, side.shoulder, side.ankle) {
			continue
		}
		offset := geometry.ShoulderMidfootOffset(record[side.shoulder], record[side.ankle])
		if worstOffset == nil || math.Abs(offset) > math.Abs(*worstOffset) {
			offset := offset
			worstOffset = &offset
		}
	}
	m.ShoulderMidfootDiff = worstOffset

	return m
}
