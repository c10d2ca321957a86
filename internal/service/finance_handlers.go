package service

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/finsight/backend/internal/model"
)

// Transaction handlers

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var t model.Transaction
	if err := decodeBody(r, &t); err != nil {
		s.writeError(w, err)
		return
	}
	if t.Type != model.TransactionTypeIncome && t.Type != model.TransactionTypeExpense {
		s.writeError(w, badRequest("type must be income or expense"))
		return
	}
	if t.Date.IsZero() {
		s.writeError(w, badRequest("date is required"))
		return
	}

	t.ID = uuid.New().String()
	t.UserID = chi.URLParam(r, "userID")
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt

	if err := s.store.CreateTransaction(r.Context(), &t); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, t)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var startDate, endDate *time.Time
	if v := r.URL.Query().Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.writeError(w, badRequest("start_date must be YYYY-MM-DD"))
			return
		}
		startDate = &t
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			s.writeError(w, badRequest("end_date must be YYYY-MM-DD"))
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		endDate = &end
	}

	txns, err := s.store.ListTransactions(r.Context(), userID, startDate, endDate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var t model.Transaction
	if err := decodeBody(r, &t); err != nil {
		s.writeError(w, err)
		return
	}
	t.ID = chi.URLParam(r, "txnID")
	t.UserID = chi.URLParam(r, "userID")
	t.UpdatedAt = time.Now()

	if err := s.store.UpdateTransaction(r.Context(), &t); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTransaction(r.Context(), chi.URLParam(r, "txnID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Category handlers

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var c model.Category
	if err := decodeBody(r, &c); err != nil {
		s.writeError(w, err)
		return
	}
	if c.Name == "" {
		s.writeError(w, badRequest("name is required"))
		return
	}
	if c.Type != model.TransactionTypeIncome && c.Type != model.TransactionTypeExpense {
		s.writeError(w, badRequest("type must be income or expense"))
		return
	}

	c.ID = uuid.New().String()
	c.UserID = chi.URLParam(r, "userID")

	if err := s.store.CreateCategory(r.Context(), &c); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// Budget handlers

func (s *Server) createBudget(w http.ResponseWriter, r *http.Request) {
	var b model.Budget
	if err := decodeBody(r, &b); err != nil {
		s.writeError(w, err)
		return
	}
	if b.CategoryID == "" {
		s.writeError(w, badRequest("category_id is required"))
		return
	}
	if b.Amount <= 0 {
		s.writeError(w, badRequest("amount must be positive"))
		return
	}

	b.ID = uuid.New().String()
	b.UserID = chi.URLParam(r, "userID")

	if err := s.store.CreateBudget(r.Context(), &b); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, b)
}

func (s *Server) listBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
}

func (s *Server) updateBudget(w http.ResponseWriter, r *http.Request) {
	var b model.Budget
	if err := decodeBody(r, &b); err != nil {
		s.writeError(w, err)
		return
	}
	if b.Amount <= 0 {
		s.writeError(w, badRequest("amount must be positive"))
		return
	}
	b.ID = chi.URLParam(r, "budgetID")
	b.UserID = chi.URLParam(r, "userID")

	if err := s.store.UpdateBudget(r.Context(), &b); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) deleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBudget(r.Context(), chi.URLParam(r, "budgetID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
