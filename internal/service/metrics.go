package service

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "code"})

	agentRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "agent_runs_total",
		Help:      "Agent runs by outcome.",
	}, []string{"outcome"})

	agentFindingsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finsight",
		Name:      "agent_findings_persisted_total",
		Help:      "Agent findings persisted as notifications.",
	})
)

// metricsMiddleware counts requests per chi route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
	})
}
