package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	DataDir     string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	YelpBase    string
	YelpKey     string
	SearchTerm  string
	SearchLoc   string
	MaxResults  int
	Workers     int
	IngestCron  string
	CacheTTL    time.Duration
}

func Load() Config {
	// best-effort; a missing .env just means the environment is already set
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		DataDir:     env("DATA_DIR", "Datasets"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		YelpBase:    env("YELP_BASE_URL", "https://api.yelp.com/v3"),
		YelpKey:     env("YELP_API_KEY", ""),
		SearchTerm:  env("SEARCH_TERM", "car detailing"),
		SearchLoc:   env("SEARCH_LOCATION", "Florida"),
		MaxResults:  atoi("SEARCH_MAX_RESULTS", 500),
		Workers:     atoi("INGEST_WORKERS", 8),
		IngestCron:  env("INGEST_CRON", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.YelpKey == "" {
		log.Warn().Msg("YELP_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
