package main

import (
	"context"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"shiny_stats/internal/adapters/observability"
	"shiny_stats/internal/adapters/yelp"
	"shiny_stats/internal/app"
	"shiny_stats/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.YelpBase).
		Str("term", cfg.SearchTerm).
		Str("location", cfg.SearchLoc).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	client, err := yelp.New(cfg.YelpBase, cfg.YelpKey, 2)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Yelp client")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("cannot create data dir")
	}

	ing := app.NewIngestionService(client, cfg.DataDir)
	ing.Term = cfg.SearchTerm
	ing.Location = cfg.SearchLoc
	ing.MaxBusinesses = cfg.MaxResults
	ing.Workers = cfg.Workers

	run := func() {
		if err := ing.Run(ctx); err != nil {
			log.Error().Err(err).Msg("ingestion failed")
			return
		}
		log.Info().Str("dir", cfg.DataDir).Msg("ingestion completed")
	}

	// One-shot batch by default; INGEST_CRON turns it into a scheduled refresh.
	if cfg.IngestCron == "" {
		run()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.IngestCron, run); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.IngestCron).Msg("invalid INGEST_CRON")
	}
	log.Info().Str("spec", cfg.IngestCron).Msg("scheduled ingestion enabled")
	run()
	c.Run()
}
