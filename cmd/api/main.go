package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	server "shiny_stats/internal/adapters/http_server"
	"shiny_stats/internal/adapters/observability"
	redisad "shiny_stats/internal/adapters/redis"
	"shiny_stats/internal/app"
	"shiny_stats/internal/sentiment"
	"shiny_stats/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pipeline := app.NewPipeline(cfg.DataDir, cache, sentiment.DefaultConfig(), cfg.CacheTTL)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{P: pipeline})

	log.Info().Str("addr", cfg.HTTPAddr).Str("data_dir", cfg.DataDir).Msg("dashboard API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
