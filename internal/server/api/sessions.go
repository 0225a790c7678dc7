// Package api provides the JSON handlers for session history.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/hastaview/internal/store"
)

// SessionHandler serves /api/sessions and /api/sessions/{id}.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a SessionHandler backed by s.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP routes collection and item requests.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
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

type sessionResponse struct {
	ID           string  `json:"id"`
	Image        string  `json:"image"`
	Source       string  `json:"source"`
	StartedAt    string  `json:"started_at"`
	EndedAt      string  `json:"ended_at,omitempty"`
	Active       bool    `json:"active"`
	Frames       int     `json:"frames"`
	Scale        float64 `json:"scale"`
	Angle        float64 `json:"angle"`
	TranslationX float64 `json:"translation_x"`
	TranslationY float64 `json:"translation_y"`
}

type transitionResponse struct {
	Frame int    `json:"frame"`
	From  string `json:"from"`
	To    string `json:"to"`
	At    string `json:"at"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type sessionDetailResponse struct {
	sessionResponse
	Transitions []transitionResponse `json:"transitions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:           s.ID,
		Image:        s.Image,
		Source:       string(s.Source),
		StartedAt:    s.StartedAt.Format(time.RFC3339),
		Active:       s.Active(),
		Frames:       s.Frames,
		Scale:        s.Scale,
		Angle:        s.Angle,
		TranslationX: s.TranslationX,
		TranslationY: s.TranslationY,
	}
	if s.EndedAt != nil {
		resp.EndedAt = s.EndedAt.Format(time.RFC3339)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions?limit=N, newest first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(limit)
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

// get handles GET /api/sessions/{id} and includes the mode transitions.
func (h *SessionHandler) get(w http.ResponseWriter, _ *http.Request, id string) {
	sess, err := h.store.Sessions().Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	transitions, err := h.store.Transitions().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transitions")
		return
	}

	response := sessionDetailResponse{
		sessionResponse: toResponse(sess),
		Transitions:     make([]transitionResponse, 0, len(transitions)),
	}
	for _, t := range transitions {
		response.Transitions = append(response.Transitions, transitionResponse{
			Frame: t.Frame,
			From:  t.From,
			To:    t.To,
			At:    t.At.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, _ *http.Request, id string) {
	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
