// Package metrics registers the Prometheus collectors cmd/merkle-server
// exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector for the Merkle service.
type Metrics struct {
	TreeBuilds        *prometheus.CounterVec
	TreeBuildDuration *prometheus.HistogramVec
	ProofGenerations  *prometheus.CounterVec
	ProofValidations  *prometheus.CounterVec
	ProofCacheHits    *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		TreeBuilds: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "merkle_tree_builds_total",
				Help: "Total number of Merkle trees built",
			},
			[]string{"digest"},
		),

		TreeBuildDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "merkle_tree_build_duration_seconds",
				Help:    "Duration of tree construction",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"digest"},
		),

		ProofGenerations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "merkle_proof_generations_total",
				Help: "Total number of proofs generated",
			},
			[]string{"digest", "status"}, // status: ok, invalid_size, expected_leaf_hash, error
		),

		ProofValidations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "merkle_proof_validations_total",
				Help: "Total number of proof validations",
			},
			[]string{"digest", "result"}, // result: valid, root_hash_mismatch, error
		),

		ProofCacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "merkle_proof_cache_hits_total",
				Help: "Total number of proof cache lookups",
			},
			[]string{"result"}, // result: hit, miss
		),
	}
}
