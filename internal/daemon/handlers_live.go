package daemon

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/http"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"squatanalyzer/internal/analysis"
	"squatanalyzer/internal/landmarks"
)

// handleAnalyzeSquat godoc
// @Summary Analyze one live camera frame
// @Description Runs pose inference on a single base64-encoded frame, advances the session's squat state machine and returns posture feedback.
// @Tags live
// @Accept json
// @Produce json
// @Param request body LiveFrameRequest true "Frame to analyze"
// @Success 200 {object} LiveFrameResponse
// @Failure 400 {object} ErrorResponse
// @Router /analyze-squat [post]
func (s *Server) handleAnalyzeSquat(w http.ResponseWriter, r *http.Request) {
	var req LiveFrameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	img, err := decodeBase64Image(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image payload")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = newID("ses_")
	}
	sess := s.session(sessionID)

	resp := LiveFrameResponse{SessionID: sessionID}

	record, _ := s.adapter.Detect(r.Context(), img)
	if record != nil {
		m := s.extractor.Extract(record)
		resp.Landmarks = record
		resp.Measurements = m
		resp.Feedback = analysis.FormFeedback(record)
		resp.Arrows = analysis.FeedbackArrows(record, m)

		avgKneeY := (record[landmarks.LeftKnee].Y + record[landmarks.RightKnee].Y) / 2
		s.mu.Lock()
		sess.ObserveKneeY(avgKneeY, s.now())
		s.mu.Unlock()
	}

	s.mu.RLock()
	resp.State = sess.State
	resp.SquatCount = sess.Count
	resp.SquatTimings = append([]float64{}, sess.Timings...)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

// handleResetSession godoc
// @Summary Reset a live session
// @Description Clears the squat count, timings and state of the named session.
// @Tags live
// @Accept json
// @Produce json
// @Param request body ResetSessionRequest true "Session to reset"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse
// @Router /reset-session [post]
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	var req ResetSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	sess := s.session(req.SessionID)
	s.mu.Lock()
	sess.Reset(s.now())
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, StatusResponse{Status: "reset"})
}

// handleSessionData godoc
// @Summary Get live session data
// @Description Returns the squat count, rep timings and current state for a session.
// @Tags live
// @Produce json
// @Param sessionId query string true "Session ID"
// @Success 200 {object} SessionDataResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /get-session-data [get]
func (s *Server) handleSessionData(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.RUnlock()
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	resp := SessionDataResponse{
		SessionID:    sessionID,
		State:        sess.State,
		SquatCount:   sess.Count,
		SquatTimings: append([]float64{}, sess.Timings...),
		ElapsedSecs:  sess.Elapsed(s.now()),
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

// handlePing godoc
// @Summary Keep-warm ping
// @Tags health
// @Produce json
// @Success 200 {object} PingResponse
// @Router /ping [get]
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PingResponse{Message: "pong"})
}

// handleHealth godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: "0.1.0"})
}

// decodeBase64Image decodes a base64 frame, tolerating a data URL prefix.
func decodeBase64Image(data string) (image.Image, error) {
	if data == "" {
		return nil, fmt.Errorf("empty image")
	}
	if idx := strings.Index(data, ","); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
