package config

import (
	"log/slog"
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v2"
)

// =============================================================================
// Merkle service configuration with environment overrides
// =============================================================================

// Config is the root configuration for cmd/merkle-server and the
// internal/ledger service it wraps.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Digest  DigestConfig  `yaml:"digest"`
	Proof   ProofConfig   `yaml:"proof"`
	Ledger  LedgerConfig  `yaml:"ledger"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig controls cmd/merkle-server's HTTP listener.
type ServerConfig struct {
	ListenAddr      string `yaml:"listen_addr"`
	Env             string `yaml:"env"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	IdleTimeoutSec  int    `yaml:"idle_timeout_sec"`
}

// DigestConfig selects the hash adapter trees and proofs are built with.
// See pkg/digest for the recognized algorithm names.
type DigestConfig struct {
	Algorithm string `yaml:"algorithm"`
}

// ProofConfig controls proof caching in internal/ledger.
type ProofConfig struct {
	CacheTTLSec int  `yaml:"cache_ttl_sec"`
	CacheEnable bool `yaml:"cache_enable"`
}

// LedgerConfig points at the backing Postgres and Redis instances.
type LedgerConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
}

// MetricsConfig toggles registration of the service's Prometheus
// collectors. The /metrics route itself is always mounted.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// =============================================================================
// Singleton pattern with environment overrides
// =============================================================================

var (
	instance *Config
	once     sync.Once
)

// Get returns the singleton config instance, loading it on first use.
func Get() *Config {
	once.Do(func() {
		cfg, err := LoadConfig(getEnv("CONFIG_PATH", "config.yaml"))
		if err != nil {
			slog.Warn("config: failed to load config file, using defaults", "error", err)
		}
		if cfg == nil {
			cfg = &Config{}
		}
		cfg.applyEnvOverrides()
		cfg.applyDefaults()
		instance = cfg
	})
	return instance
}

// LoadConfig loads config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides onto a loaded
// (or zero-value) Config.
func (c *Config) applyEnvOverrides() {
	c.Server.ListenAddr = getEnv("MERKLE_LISTEN_ADDR", c.Server.ListenAddr)
	c.Server.Env = getEnv("MERKLE_ENV", c.Server.Env)
	if v := getEnvInt("MERKLE_READ_TIMEOUT_SEC", 0); v > 0 {
		c.Server.ReadTimeoutSec = v
	}
	if v := getEnvInt("MERKLE_WRITE_TIMEOUT_SEC", 0); v > 0 {
		c.Server.WriteTimeoutSec = v
	}
	if v := getEnvInt("MERKLE_IDLE_TIMEOUT_SEC", 0); v > 0 {
		c.Server.IdleTimeoutSec = v
	}

	c.Digest.Algorithm = getEnv("MERKLE_DIGEST", c.Digest.Algorithm)

	if v := getEnvInt("MERKLE_PROOF_CACHE_TTL_SEC", 0); v > 0 {
		c.Proof.CacheTTLSec = v
	}
	c.Proof.CacheEnable = getEnvBool("MERKLE_PROOF_CACHE_ENABLE", c.Proof.CacheEnable)

	c.Ledger.PostgresDSN = getEnv("MERKLE_POSTGRES_DSN", c.Ledger.PostgresDSN)
	c.Ledger.RedisAddr = getEnv("MERKLE_REDIS_ADDR", c.Ledger.RedisAddr)
	if v := getEnvInt("MERKLE_REDIS_DB", -1); v >= 0 {
		c.Ledger.RedisDB = v
	}

	c.Metrics.Enabled = getEnvBool("MERKLE_METRICS_ENABLED", c.Metrics.Enabled)
}

// applyDefaults fills in zero-valued fields a fresh deployment needs to
// run without a config file at all.
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.ReadTimeoutSec == 0 {
		c.Server.ReadTimeoutSec = 15
	}
	if c.Server.WriteTimeoutSec == 0 {
		c.Server.WriteTimeoutSec = 15
	}
	if c.Server.IdleTimeoutSec == 0 {
		c.Server.IdleTimeoutSec = 60
	}
	if c.Digest.Algorithm == "" {
		c.Digest.Algorithm = "sha256"
	}
	if c.Proof.CacheTTLSec == 0 {
		c.Proof.CacheTTLSec = 300
	}
	if c.Ledger.RedisAddr == "" {
		c.Ledger.RedisAddr = "localhost:6379"
	}
}

// =============================================================================
// Helper functions
// =============================================================================

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
