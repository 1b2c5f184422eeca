package analysis

import "time"

// SquatState is the live-session movement state.
type SquatState string

const (
	StateStanding  SquatState = "standing"
	StateSquatting SquatState = "squatting"
)

// Knee-height crossings (normalized image y, growing downward) that flip the
// squat state.
const (
	squatEnterKneeY = 0.6
	squatExitKneeY  = 0.4
)

// Session is the explicit per-session context for live frame analysis. The
// caller owns its lifecycle: created on first use, reset on request. It
// replaces process-wide state keyed by session id.
type Session struct {
	State     SquatState `json:"currentState"`
	Count     int        `json:"squatCount"`
	Timings   []float64  `json:"squatTimings"`
	StartedAt time.Time  `json:"-"`
}

// NewSession returns a fresh standing session started at now.
func NewSession(now time.Time) *Session {
	return &Session{
		State:     StateStanding,
		Timings:   []float64{},
		StartedAt: now,
	}
}

// Reset returns the session to its initial state and realigns its clock.
func (s *Session) Reset(now time.Time) {
	s.State = StateStanding
	s.Count = 0
	s.Timings = []float64{}
	s.StartedAt = now
}

// Elapsed is the session-relative time in seconds.
func (s *Session) Elapsed(now time.Time) float64 {
	return now.Sub(s.StartedAt).Seconds()
}

// ObserveKneeY advances the squat state machine with the average knee
// height of one frame. Dropping past the enter threshold records a rep
// start time; rising past the exit threshold completes the rep.
func (s *Session) ObserveKneeY(avgKneeY float64, now time.Time) SquatState {
	switch {
	case s.State == StateStanding && avgKneeY > squatEnterKneeY:
		s.State = StateSquatting
		s.Timings = append(s.Timings, s.Elapsed(now))
	case s.State == StateSquatting && avgKneeY < squatExitKneeY:
		s.State = StateStanding
		s.Count++
	}
	return s.State
}
