package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// runAgent triggers a full analysis run for the user and persists important
// findings. Errors are surfaced to the caller rather than swallowed; a
// scheduler that prefers silent degradation can ignore the status code.
func (s *Server) runAgent(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := s.runner.Run(r.Context(), userID)
	if err != nil {
		agentRunsTotal.WithLabelValues("error").Inc()
		s.writeError(w, err)
		return
	}

	agentRunsTotal.WithLabelValues("ok").Inc()
	agentFindingsPersisted.Add(float64(result.Persisted))
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) listAgentNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := s.store.ListAgentNotifications(r.Context(), userID, unreadOnly)
	if err != nil {
		s.writeError(w, err)
		return
	}
	unread, err := s.store.UnreadAgentNotificationCount(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

func (s *Server) markAgentNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkAgentNotificationRead(r.Context(), chi.URLParam(r, "notificationID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
