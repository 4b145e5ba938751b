// Package merkleserver wires pkg/merkletree and pkg/merkleproof behind an
// HTTP API: build a tree from posted leaves, fetch an inclusion proof for
// one of its leaves, or verify a proof posted by someone else.
package merkleserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ocx/merkle/internal/ledger"
	"github.com/ocx/merkle/internal/metrics"
	"github.com/ocx/merkle/pkg/digest"
	"github.com/ocx/merkle/pkg/merkleproof"
	"github.com/ocx/merkle/pkg/merkletree"
)

// Server holds every tree built by POST /trees, keyed by the UUID minted
// for it, and the shared digest/metrics/ledger the routes below use.
type Server struct {
	mu    sync.RWMutex
	trees map[string]*merkletree.MerkleTree

	adapter digest.Adapter
	metrics *metrics.Metrics
	logger  *slog.Logger
	ledger  *ledger.Ledger
}

// New constructs a Server. adapter is the digest every tree and proof on
// this server is built and verified with. l is the persistent,
// Postgres/Redis-backed ledger exposed under /ledger; it may be nil to
// disable those routes.
func New(adapter digest.Adapter, m *metrics.Metrics, logger *slog.Logger, l *ledger.Ledger) *Server {
	return &Server{
		trees:   make(map[string]*merkletree.MerkleTree),
		adapter: adapter,
		metrics: m,
		logger:  logger,
		ledger:  l,
	}
}

// Router builds the mux.Router exposing this server's routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/trees", s.handleCreateTree).Methods("POST")
	r.HandleFunc("/trees/{id}/proof/{leaf}", s.handleGenerateProof).Methods("GET")
	r.HandleFunc("/verify", s.handleVerify).Methods("POST")
	if s.ledger != nil {
		r.HandleFunc("/ledger/entries", s.handleLedgerAppend).Methods("POST")
		r.HandleFunc("/ledger/root", s.handleLedgerRoot).Methods("GET")
		r.HandleFunc("/ledger/proof/{index}", s.handleLedgerProof).Methods("GET")
	}
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return r
}

type createTreeRequest struct {
	Leaves [][]byte `json:"leaves"`
}

type createTreeResponse struct {
	ID        string `json:"id"`
	RootHash  string `json:"root_hash"`
	LeafCount int    `json:"leaf_count"`
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	tree, err := merkletree.Build(req.Leaves, s.adapter, merkletree.WithLogger(s.logger))
	if s.metrics != nil {
		s.metrics.TreeBuildDuration.WithLabelValues(s.adapter.Name()).Observe(time.Since(start).Seconds())
		s.metrics.TreeBuilds.WithLabelValues(s.adapter.Name()).Inc()
	}
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.trees[id] = tree
	s.mu.Unlock()

	root, _ := tree.TryRootHash()
	writeJSON(w, http.StatusCreated, createTreeResponse{
		ID:        id,
		RootHash:  fmt.Sprintf("%x", root),
		LeafCount: len(tree.LeafIndices()),
	})
}

func (s *Server) handleGenerateProof(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]
	var leafPos int
	if _, err := fmt.Sscanf(vars["leaf"], "%d", &leafPos); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("invalid leaf index: %w", err))
		return
	}

	s.mu.RLock()
	tree, ok := s.trees[id]
	s.mu.RUnlock()
	if !ok {
		httpError(w, http.StatusNotFound, fmt.Errorf("no tree with id %q", id))
		return
	}

	leaves := tree.LeafIndices()
	if leafPos < 0 || leafPos >= len(leaves) {
		httpError(w, http.StatusBadRequest, fmt.Errorf("leaf index %d out of range [0, %d)", leafPos, len(leaves)))
		return
	}
	leafIdx := leaves[leafPos]

	proof, err := merkleproof.Generate(tree, leafIdx, merkleproof.WithLogger(s.logger))
	status := "ok"
	if err != nil {
		status = statusFromProofErr(err)
	}
	if s.metrics != nil {
		s.metrics.ProofGenerations.WithLabelValues(s.adapter.Name(), status).Inc()
	}
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	leafNode, _ := tree.Get(leafIdx)
	if err := proof.UpdateLeafHash(0, leafNode.Hash); err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	data, err := proof.MarshalJSON()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	proof, err := merkleproof.Deserialize(body, s.adapter)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	valid, err := proof.Validate()
	result := "valid"
	var pe *merkleproof.ProofError
	switch {
	case errors.As(err, &pe) && pe.Kind == merkleproof.ProofErrorRootHashMismatch:
		result = "root_hash_mismatch"
	case err != nil:
		result = "error"
	case !valid:
		result = "invalid"
	}
	if s.metrics != nil {
		s.metrics.ProofValidations.WithLabelValues(s.adapter.Name(), result).Inc()
	}
	if err != nil {
		writeJSON(w, http.StatusOK, verifyResponse{Valid: false})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Valid: valid})
}

type ledgerAppendRequest struct {
	Payload []byte `json:"payload"`
}

type ledgerAppendResponse struct {
	Index    int    `json:"index"`
	RootHash string `json:"root_hash"`
}

func (s *Server) handleLedgerAppend(w http.ResponseWriter, r *http.Request) {
	var req ledgerAppendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	index, root, err := s.ledger.Append(r.Context(), req.Payload)
	if s.metrics != nil {
		s.metrics.TreeBuilds.WithLabelValues(s.adapter.Name()).Inc()
	}
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusCreated, ledgerAppendResponse{
		Index:    index,
		RootHash: fmt.Sprintf("%x", root),
	})
}

type ledgerRootResponse struct {
	RootHash string `json:"root_hash"`
}

func (s *Server) handleLedgerRoot(w http.ResponseWriter, r *http.Request) {
	root, err := s.ledger.Root(r.Context())
	if err != nil {
		httpError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerRootResponse{RootHash: fmt.Sprintf("%x", root)})
}

func (s *Server) handleLedgerProof(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var index int
	if _, err := fmt.Sscanf(vars["index"], "%d", &index); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Errorf("invalid ledger index: %w", err))
		return
	}

	proof, err := s.ledger.GenerateProof(r.Context(), index)
	status := "ok"
	if err != nil {
		status = statusFromProofErr(err)
	}
	if s.metrics != nil {
		s.metrics.ProofGenerations.WithLabelValues(s.adapter.Name(), status).Inc()
	}
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	data, err := proof.MarshalJSON()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func statusFromProofErr(err error) string {
	var pe *merkleproof.ProofError
	if e, ok := err.(*merkleproof.ProofError); ok {
		pe = e
	}
	if pe == nil {
		return "error"
	}
	switch pe.Kind {
	case merkleproof.ProofErrorInvalidSize:
		return "invalid_size"
	case merkleproof.ProofErrorExpectedLeafHash:
		return "expected_leaf_hash"
	default:
		return "error"
	}
}

func httpError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
