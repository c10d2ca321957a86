package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/finsight/backend/internal/agent"
	"github.com/finsight/backend/internal/config"
	"github.com/finsight/backend/internal/insights"
	"github.com/finsight/backend/internal/logging"
	"github.com/finsight/backend/internal/service"
	"github.com/finsight/backend/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback := logging.New("info", true)
		fallback.Fatal().Err(err).Msg("load config")
	}

	log := logging.New(cfg.Server.LogLevel, cfg.Server.PrettyLogs)

	var st store.Store
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLiteStore(cfg.Store.DSN)
		if err != nil {
			log.Fatal().Err(err).Str("dsn", cfg.Store.DSN).Msg("open sqlite store")
		}
		log.Info().Str("dsn", cfg.Store.DSN).Msg("using sqlite store")
	default:
		st = store.NewMemoryStore()
		log.Info().Msg("using in-memory store")
	}
	defer st.Close()

	engine := insights.NewEngine(cfg.Insights)
	runner := agent.NewRunner(st, engine, agent.Config{
		MinTransactions: cfg.Agent.MinTransactions,
		DedupWindow:     time.Duration(cfg.Agent.DedupWindowHours) * time.Hour,
	}, log)

	srv := service.New(st, engine, runner, log)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	})

	// h2c lets gRPC-style HTTP/2 clients connect without TLS behind a
	// terminating proxy.
	handler := h2c.NewHandler(c.Handler(srv.Handler()), &http2.Server{})

	addr := ":" + cfg.Server.Port
	log.Info().Str("addr", addr).Msg("server listening")
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
