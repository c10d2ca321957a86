// Package service exposes the store and the insights engine over an HTTP
// JSON API.
package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/finsight/backend/internal/agent"
	"github.com/finsight/backend/internal/insights"
	"github.com/finsight/backend/internal/store"
)

// Server holds the service dependencies and the router.
type Server struct {
	store  store.Store
	engine *insights.Engine
	runner *agent.Runner
	log    zerolog.Logger
}

// New wires a server.
func New(st store.Store, engine *insights.Engine, runner *agent.Runner, log zerolog.Logger) *Server {
	return &Server{store: st, engine: engine, runner: runner, log: log}
}

// Handler builds the chi router for the full API surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/users/{userID}", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", s.createTransaction)
			r.Get("/", s.listTransactions)
			r.Put("/{txnID}", s.updateTransaction)
			r.Delete("/{txnID}", s.deleteTransaction)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.createCategory)
			r.Get("/", s.listCategories)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", s.createBudget)
			r.Get("/", s.listBudgets)
			r.Put("/{budgetID}", s.updateBudget)
			r.Delete("/{budgetID}", s.deleteBudget)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/anomalies", s.getAnomalies)
			r.Get("/recommendations", s.getRecommendations)
			r.Get("/notifications", s.getNotifications)
		})

		r.Route("/agent", func(r chi.Router) {
			r.Post("/run", s.runAgent)
			r.Get("/notifications", s.listAgentNotifications)
			r.Post("/notifications/{notificationID}/read", s.markAgentNotificationRead)
		})
	})

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNotFound) {
		status = http.StatusNotFound
	}
	var badReq *badRequestError
	if errors.As(err, &badReq) {
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(msg string) error { return &badRequestError{msg: msg} }

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}
