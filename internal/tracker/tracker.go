// Package tracker segments the ordered frame stream into squat phases and
// reduces frame measurements into progressive and final quality scores.
package tracker

import (
	"math"

	"squatanalyzer/internal/measure"
)

// Status grades one aspect of squat form on a frame.
type Status string

const (
	StatusGood Status = "good"
	StatusWarn Status = "warn"
	StatusBad  Status = "bad"
)

// Config holds the score mapping thresholds.
type Config struct {
	// Depth score: 100 at or below DepthFullAngle (or hip-below-knee
	// confirmed), 0 at or above DepthZeroAngle, linear in between.
	DepthFullAngle float64
	DepthZeroAngle float64

	// Shoulder score: 100 at or below ShoulderGoodDiff, 0 at or above
	// ShoulderBadDiff, linear in between.
	ShoulderGoodDiff float64
	ShoulderBadDiff  float64

	// Weighted overall formula. The weights intentionally sum to 0.7: the
	// overall is a weighted partial score, not a percentage.
	DepthWeight    float64
	ShoulderWeight float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		DepthFullAngle:   70,
		DepthZeroAngle:   90,
		ShoulderGoodDiff: 2,
		ShoulderBadDiff:  10,
		DepthWeight:      0.4,
		ShoulderWeight:   0.3,
	}
}

// Scores is one score tuple, each component in [0,100].
type Scores struct {
	KneeDepth         float64 `json:"kneeDepth"`
	ShoulderAlignment float64 `json:"shoulderAlignment"`
	Overall           float64 `json:"overall"`
}

// StatusPair grades spine and knee form for one frame.
type StatusPair struct {
	Spine Status `json:"spine"`
	Knee  Status `json:"knee"`
}

// FrameInput is one frame's contribution to the reduction, in stream order.
type FrameInput struct {
	Index        int
	Measurements measure.Measurements

	// Descending is the external phase classification signal.
	Descending bool
}

// Assessment is the tracker's per-frame output.
type Assessment struct {
	Status StatusPair
	Scores Scores
}

// Phase is one closed descent cycle: a maximal run of descending frames.
type Phase struct {
	StartIndex   int
	EndIndex     int
	FrameIndices []int
}

// Tracker is a stateful single-pass-forward reducer over the ordered frame
// sequence. It must run single-threaded after all measurements are available.
type Tracker struct {
	cfg Config

	inPhase       bool
	phaseStart    int
	phaseFrames   []int
	bestKnee      float64
	worstShoulder float64
	hipBelow      bool

	phases []Phase

	// Cross-phase maxima for the final aggregate.
	maxDepthScore    float64
	maxShoulderScore float64
	anyPhaseData     bool

	// Unsegmented best/worst, the fallback when no phase ever opens.
	globalBestKnee      float64
	globalWorstShoulder float64
	globalHipBelow      bool
	anyMeasurement      bool

	last      Assessment
	seenFrame bool
}

// New returns a tracker with the given thresholds.
func New(cfg Config) *Tracker {
	return &Tracker{
		cfg:            cfg,
		bestKnee:       180,
		globalBestKnee: 180,
	}
}

// neutral is the default tuple inherited by frames before the first phase.
func neutral() Assessment {
	return Assessment{
		Status: StatusPair{Spine: StatusGood, Knee: StatusBad},
		Scores: Scores{KneeDepth: 0, ShoulderAlignment: 100, Overall: 0},
	}
}

// Observe consumes the next frame in order and returns its assessment.
// Inside a phase, sub-scores are monotonically non-decreasing: they reflect
// the best form achieved so far in the rep. Frames outside any phase, or
// with insufficient data, inherit the previous frame's assessment.
func (t *Tracker) Observe(f FrameInput) Assessment {
	t.trackGlobal(f.Measurements)

	if f.Descending && !t.inPhase {
		t.openPhase(f.Index)
	} else if !f.Descending && t.inPhase {
		t.closePhase()
	}

	if !t.inPhase {
		return t.inherit()
	}

	t.phaseFrames = append(t.phaseFrames, f.Index)
	m := f.Measurements
	if m.KneeAngle != nil {
		t.bestKnee = math.Min(t.bestKnee, *m.KneeAngle)
	}
	if m.ShoulderMidfootDiff != nil {
		t.worstShoulder = math.Max(t.worstShoulder, math.Abs(*m.ShoulderMidfootDiff))
	}
	if m.HipBelowKnee {
		t.hipBelow = true
	}
	if m.KneeAngle == nil && m.ShoulderMidfootDiff == nil {
		// Insufficient data: propagate the last known assessment.
		return t.inherit()
	}

	a := t.assess(t.bestKnee, t.worstShoulder, t.hipBelow)
	t.last = a
	t.seenFrame = true
	t.anyPhaseData = true
	t.maxDepthScore = math.Max(t.maxDepthScore, a.Scores.KneeDepth)
	t.maxShoulderScore = math.Max(t.maxShoulderScore, a.Scores.ShoulderAlignment)
	return a
}

// Phases returns the closed phases observed so far.
func (t *Tracker) Phases() []Phase {
	return t.phases
}

// Final closes any open phase and returns the aggregate scores: the maximum
// per-component score across all phases, recombined with the same weighted
// formula. With no phase data it derives the same scores from the full
// unsegmented measurement stream.
func (t *Tracker) Final() Scores {
	if t.inPhase {
		t.closePhase()
	}
	if t.anyPhaseData {
		return Scores{
			KneeDepth:         t.maxDepthScore,
			ShoulderAlignment: t.maxShoulderScore,
			Overall:           t.overall(t.maxDepthScore, t.maxShoulderScore),
		}
	}
	if t.anyMeasurement {
		a := t.assess(t.globalBestKnee, t.globalWorstShoulder, t.globalHipBelow)
		return a.Scores
	}
	return neutral().Scores
}

func (t *Tracker) openPhase(index int) {
	t.inPhase = true
	t.phaseStart = index
	t.phaseFrames = nil
	t.bestKnee = 180
	t.worstShoulder = 0
	t.hipBelow = false
}

func (t *Tracker) closePhase() {
	t.inPhase = false
	if len(t.phaseFrames) == 0 {
		return
	}
	t.phases = append(t.phases, Phase{
		StartIndex:   t.phaseStart,
		EndIndex:     t.phaseFrames[len(t.phaseFrames)-1],
		FrameIndices: t.phaseFrames,
	})
	t.phaseFrames = nil
}

func (t *Tracker) inherit() Assessment {
	if !t.seenFrame {
		return neutral()
	}
	return t.last
}

func (t *Tracker) trackGlobal(m measure.Measurements) {
	if m.KneeAngle != nil {
		t.globalBestKnee = math.Min(t.globalBestKnee, *m.KneeAngle)
		t.anyMeasurement = true
	}
	if m.ShoulderMidfootDiff != nil {
		t.globalWorstShoulder = math.Max(t.globalWorstShoulder, math.Abs(*m.ShoulderMidfootDiff))
		t.anyMeasurement = true
	}
	if m.HipBelowKnee {
		t.globalHipBelow = true
	}
}

// assess maps running best values to scores and form statuses.
func (t *Tracker) assess(bestKnee, worstShoulder float64, hipBelow bool) Assessment {
	depth := t.depthScore(bestKnee, hipBelow)
	shoulder := t.shoulderScore(worstShoulder)
	return Assessment{
		Status: StatusPair{
			Spine: grade(shoulder),
			Knee:  grade(depth),
		},
		Scores: Scores{
			KneeDepth:         depth,
			ShoulderAlignment: shoulder,
			Overall:           t.overall(depth, shoulder),
		},
	}
}

func (t *Tracker) depthScore(bestKnee float64, hipBelow bool) float64 {
	if bestKnee <= t.cfg.DepthFullAngle || hipBelow {
		return 100
	}
	if bestKnee >= t.cfg.DepthZeroAngle {
		return 0
	}
	span := t.cfg.DepthZeroAngle - t.cfg.DepthFullAngle
	return (t.cfg.DepthZeroAngle - bestKnee) / span * 100
}

func (t *Tracker) shoulderScore(worstShoulder float64) float64 {
	if worstShoulder <= t.cfg.ShoulderGoodDiff {
		return 100
	}
	if worstShoulder >= t.cfg.ShoulderBadDiff {
		return 0
	}
	span := t.cfg.ShoulderBadDiff - t.cfg.ShoulderGoodDiff
	return (t.cfg.ShoulderBadDiff - worstShoulder) / span * 100
}

func (t *Tracker) overall(depth, shoulder float64) float64 {
	return t.cfg.DepthWeight*depth + t.cfg.ShoulderWeight*shoulder
}

// grade maps a component score onto a three-step status.
func grade(score float64) Status {
	switch {
	case score >= 100:
		return StatusGood
	case score > 0:
		return StatusWarn
	default:
		return StatusBad
	}
}
