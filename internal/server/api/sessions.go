// Package api provides the HTTP API handlers for session management and
// offline analysis.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/fitmirror/fitmirror/internal/analyzer"
	"github.com/fitmirror/fitmirror/internal/pose"
	"github.com/fitmirror/fitmirror/internal/store"
)

// SessionHandler handles HTTP requests for session resources.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions or /api/sessions/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

// createSessionRequest creates a session either by analyzing recorded
// landmark frames server-side or by recording an already computed
// summary.
type createSessionRequest struct {
	Exercise string            `json:"exercise"`
	Frames   []*pose.Frame     `json:"frames,omitempty"`
	Summary  *analyzer.Summary `json:"summary,omitempty"`
}

type sessionErrorResponse struct {
	Label     string  `json:"label"`
	Count     int     `json:"count"`
	FirstSeen float64 `json:"first_seen"`
}

type repScoreResponse struct {
	RepIndex  int     `json:"rep_index"`
	Time      float64 `json:"time"`
	Standard  float64 `json:"standard"`
	Stability float64 `json:"stability"`
	Depth     float64 `json:"depth"`
}

type sessionResponse struct {
	ID        string  `json:"id"`
	Exercise  string  `json:"exercise"`
	Reps      int     `json:"reps"`
	Duration  float64 `json:"duration"`
	Standard  float64 `json:"standard"`
	Stability float64 `json:"stability"`
	Depth     float64 `json:"depth"`
	Frequency float64 `json:"frequency"`
	Overall   float64 `json:"overall"`
	CreatedAt string  `json:"created_at"`

	Errors    []sessionErrorResponse `json:"errors,omitempty"`
	RepScores []repScoreResponse     `json:"rep_scores,omitempty"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Session to a sessionResponse.
func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		Exercise:  s.Exercise,
		Reps:      s.Reps,
		Duration:  s.Duration,
		Standard:  s.Standard,
		Stability: s.Stability,
		Depth:     s.Depth,
		Frequency: s.Frequency,
		Overall:   s.Overall,
		CreatedAt: s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, e := range s.Errors {
		resp.Errors = append(resp.Errors, sessionErrorResponse{
			Label: e.Label, Count: e.Count, FirstSeen: e.FirstSeen,
		})
	}
	for _, q := range s.RepScores {
		resp.RepScores = append(resp.RepScores, repScoreResponse{
			RepIndex: q.RepIndex, Time: q.Time,
			Standard: q.Standard, Stability: q.Stability, Depth: q.Depth,
		})
	}
	return resp
}

// SessionFromSummary converts an analysis summary into a storable
// session with a fresh ID.
func SessionFromSummary(sum analyzer.Summary) *store.Session {
	sess := &store.Session{
		ID:        uuid.New().String(),
		Exercise:  sum.Exercise,
		Reps:      sum.Reps,
		Duration:  sum.Duration,
		Standard:  sum.Quality.Standard,
		Stability: sum.Quality.Stability,
		Depth:     sum.Quality.Depth,
		Frequency: sum.Quality.Frequency,
		Overall:   sum.Quality.Overall,
	}
	for _, e := range sum.Errors {
		sess.Errors = append(sess.Errors, store.SessionError{
			Label: e.Label, Count: e.Count, FirstSeen: e.FirstSeen,
		})
	}
	for i, q := range sum.RepQualities {
		sess.RepScores = append(sess.RepScores, store.RepScore{
			RepIndex: i + 1, Time: q.Time,
			Standard: q.Standard, Stability: q.Stability, Depth: q.Depth,
		})
	}
	return sess
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions and returns all sessions, optionally
// filtered by ?exercise=.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	var sessions []*store.Session
	var err error

	if exercise := r.URL.Query().Get("exercise"); exercise != "" {
		sessions, err = h.store.Sessions().ListByExercise(exercise)
	} else {
		sessions, err = h.store.Sessions().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id} and returns a single session with
// its errors and rep scores.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(session))
}

// create handles POST /api/sessions. With frames it runs the analysis
// server-side; with a summary it records the result as-is.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var sum analyzer.Summary
	switch {
	case len(req.Frames) > 0:
		a, err := analyzer.New(req.Exercise)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		for _, f := range req.Frames {
			a.ProcessFrame(f)
		}
		sum = a.Summary()

	case req.Summary != nil:
		if _, err := analyzer.ProfileFor(req.Exercise); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sum = *req.Summary
		sum.Exercise = req.Exercise

	default:
		writeError(w, http.StatusBadRequest, "Either frames or summary is required")
		return
	}

	session := SessionFromSummary(sum)
	if err := h.store.Sessions().Create(session); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(session))
}

// delete handles DELETE /api/sessions/{id} and removes a session.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Sessions().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
