package daemon

import (
	"squatanalyzer/internal/analysis"
	"squatanalyzer/internal/landmarks"
	"squatanalyzer/internal/measure"
)

// ErrorResponse represents a standard error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"description of the error"`
}

// HealthResponse describes the health endpoint payload.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version" example:"0.1.0"`
}

// PingResponse is the keep-warm payload.
type PingResponse struct {
	Message string `json:"message" example:"pong"`
}

// StatusResponse is a generic status wrapper.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// LiveFrameRequest carries one camera frame for live analysis. Image is a
// base64-encoded JPEG or PNG, with or without a data URL prefix. An empty
// SessionID starts a new session.
type LiveFrameRequest struct {
	SessionID string `json:"sessionId" example:"ses_abcd1234"`
	Image     string `json:"image" example:"data:image/jpeg;base64,/9j/4AAQ..."`
}

// LiveFrameResponse returns per-frame posture feedback plus the running
// session state.
type LiveFrameResponse struct {
	SessionID    string                `json:"sessionId" example:"ses_abcd1234"`
	Landmarks    *landmarks.Record     `json:"landmarks,omitempty"`
	Measurements measure.Measurements  `json:"measurements"`
	Feedback     []analysis.Annotation `json:"feedback"`
	Arrows       []analysis.Arrow      `json:"arrows"`
	State        analysis.SquatState   `json:"currentState" example:"standing"`
	SquatCount   int                   `json:"squatCount" example:"3"`
	SquatTimings []float64             `json:"squatTimings"`
}

// ResetSessionRequest names the live session to reset.
type ResetSessionRequest struct {
	SessionID string `json:"sessionId" example:"ses_abcd1234"`
}

// SessionDataResponse snapshots a live session.
type SessionDataResponse struct {
	SessionID    string              `json:"sessionId" example:"ses_abcd1234"`
	State        analysis.SquatState `json:"currentState" example:"squatting"`
	SquatCount   int                 `json:"squatCount" example:"3"`
	SquatTimings []float64           `json:"squatTimings"`
	ElapsedSecs  float64             `json:"elapsedSeconds" example:"42.5"`
}
