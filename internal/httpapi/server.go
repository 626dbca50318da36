// Package httpapi exposes the daemon's state over HTTP for attached
// presentation surfaces. The mobile screens render entirely from these
// read-only endpoints; nothing here mutates the session.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/user/newsradio/internal/health"
	"github.com/user/newsradio/internal/session"
	"github.com/user/newsradio/internal/sources"
	"github.com/user/newsradio/internal/types"
)

// SessionInfo is the slice of the bridge the API reports on.
type SessionInfo interface {
	ConversationID() types.ConversationID
	Active() bool
}

// Server serves the observation API.
type Server struct {
	store   *session.Store
	sources *sources.Store
	info    SessionInfo
	monitor *health.Monitor
	mux     *http.ServeMux
}

// NewServer creates the observation API server.
func NewServer(store *session.Store, src *sources.Store, info SessionInfo, monitor *health.Monitor) *Server {
	s := &Server{
		store:   store,
		sources: src,
		info:    info,
		monitor: monitor,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/topics", s.handleTopics)
	s.mux.HandleFunc("GET /api/backend", s.handleBackend)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

type stateResponse struct {
	session.Snapshot
	ConversationID string          `json:"conversation_id,omitempty"`
	Active         bool            `json:"active"`
	Sources        map[string]bool `json:"sources"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stateResponse{
		Snapshot:       s.store.Snapshot(),
		ConversationID: string(s.info.ConversationID()),
		Active:         s.info.Active(),
		Sources:        s.sources.Snapshot(),
	})
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	topics := s.store.Snapshot().CoveredTopics
	if topics == nil {
		topics = []types.CoveredTopic{}
	}
	writeJSON(w, topics)
}

type backendResponse struct {
	Online bool                `json:"online"`
	Status *types.HealthStatus `json:"status,omitempty"`
}

func (s *Server) handleBackend(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, backendResponse{
		Online: s.monitor.Online(),
		Status: s.monitor.Last(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
