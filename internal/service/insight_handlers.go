package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finsight/backend/internal/insights"
)

// getAnomalies recomputes anomaly findings live from the stored snapshot.
// Nothing is persisted; this is the unsaved view the UI polls.
func (s *Server) getAnomalies(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	txns, err := s.store.ListTransactions(r.Context(), userID, nil, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}

	anomalies := s.engine.DetectAnomalies(txns)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"anomalies": anomalies,
		"summary":   insights.SummarizeAnomalies(anomalies),
	})
}

func (s *Server) getRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	txns, err := s.store.ListTransactions(r.Context(), userID, nil, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	budgets, err := s.store.ListBudgets(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	recs := s.engine.RecommendBudgets(txns, categories, budgets)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"recommendations":   recs,
		"total_recommended": insights.TotalRecommendedBudget(recs),
		"differences":       insights.BudgetDifferences(recs, budgets),
	})
}

func (s *Server) getNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	txns, err := s.store.ListTransactions(r.Context(), userID, nil, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	categories, err := s.store.ListCategories(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	budgets, err := s.store.ListBudgets(r.Context(), userID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	notifications := s.engine.GenerateNotifications(txns, budgets, categories)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"summary":       insights.SummarizeNotifications(notifications),
	})
}
