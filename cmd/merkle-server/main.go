package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // Postgres driver for internal/ledger
	"github.com/redis/go-redis/v9"

	"github.com/ocx/merkle/internal/config"
	"github.com/ocx/merkle/internal/ledger"
	"github.com/ocx/merkle/internal/merkleserver"
	"github.com/ocx/merkle/internal/metrics"
	"github.com/ocx/merkle/internal/telemetry"
	"github.com/ocx/merkle/pkg/digest"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("merkle-server: no .env file found, continuing with process environment")
	}

	cfg := config.Get()
	logger := telemetry.New("merkle-server")

	adapter, err := digest.New(cfg.Digest.Algorithm)
	if err != nil {
		log.Fatalf("merkle-server: %v", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
	}

	var db *sql.DB
	if cfg.Ledger.PostgresDSN != "" {
		db, err = sql.Open("postgres", cfg.Ledger.PostgresDSN)
		if err != nil {
			log.Fatalf("merkle-server: connect postgres: %v", err)
		}
	}

	var cache *redis.Client
	if cfg.Ledger.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr: cfg.Ledger.RedisAddr,
			DB:   cfg.Ledger.RedisDB,
		})
	}

	cacheTTL := time.Duration(cfg.Proof.CacheTTLSec) * time.Second
	if !cfg.Proof.CacheEnable {
		cache = nil
	}
	led := ledger.New(db, cache, adapter, cacheTTL)

	srv := merkleserver.New(adapter, m, logger, led)

	httpServer := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}

	logger.Info("starting merkle-server",
		"addr", cfg.Server.ListenAddr, "env", cfg.Server.Env, "digest", adapter.Name())

	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("merkle-server: %v", err)
	}
}
