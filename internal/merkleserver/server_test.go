package merkleserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx/merkle/internal/ledger"
	"github.com/ocx/merkle/pkg/digest"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(digest.NewSHA256(), nil, nil, nil)
}

func TestCreateTree_GenerateProof_Verify(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	body, err := json.Marshal(createTreeRequest{Leaves: [][]byte{
		[]byte("a"), []byte("b"), []byte("c"), []byte("d"),
	}})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/trees", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created createTreeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 4, created.LeafCount)

	proofReq := httptest.NewRequest(http.MethodGet, "/trees/"+created.ID+"/proof/2", nil)
	proofRec := httptest.NewRecorder()
	router.ServeHTTP(proofRec, proofReq)
	require.Equal(t, http.StatusOK, proofRec.Code)

	verifyReq := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(proofRec.Body.Bytes()))
	verifyRec := httptest.NewRecorder()
	router.ServeHTTP(verifyRec, verifyReq)
	require.Equal(t, http.StatusOK, verifyRec.Code)

	var verified verifyResponse
	require.NoError(t, json.Unmarshal(verifyRec.Body.Bytes(), &verified))
	assert.True(t, verified.Valid)
}

func TestGenerateProof_UnknownTree(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodGet, "/trees/does-not-exist/proof/0", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGenerateProof_LeafOutOfRange(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	body, _ := json.Marshal(createTreeRequest{Leaves: [][]byte{[]byte("a"), []byte("b")}})
	req := httptest.NewRequest(http.MethodPost, "/trees", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created createTreeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	proofReq := httptest.NewRequest(http.MethodGet, "/trees/"+created.ID+"/proof/9", nil)
	proofRec := httptest.NewRecorder()
	router.ServeHTTP(proofRec, proofReq)
	assert.Equal(t, http.StatusBadRequest, proofRec.Code)
}

func TestLedgerAppend_Root_Proof(t *testing.T) {
	l := ledger.New(nil, nil, digest.NewSHA256(), time.Minute)
	s := New(digest.NewSHA256(), nil, nil, l)
	router := s.Router()

	for _, entry := range []string{"a", "b", "c"} {
		body, _ := json.Marshal(ledgerAppendRequest{Payload: []byte(entry)})
		req := httptest.NewRequest(http.MethodPost, "/ledger/entries", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rootReq := httptest.NewRequest(http.MethodGet, "/ledger/root", nil)
	rootRec := httptest.NewRecorder()
	router.ServeHTTP(rootRec, rootReq)
	require.Equal(t, http.StatusOK, rootRec.Code)
	var root ledgerRootResponse
	require.NoError(t, json.Unmarshal(rootRec.Body.Bytes(), &root))
	assert.NotEmpty(t, root.RootHash)

	proofReq := httptest.NewRequest(http.MethodGet, "/ledger/proof/1", nil)
	proofRec := httptest.NewRecorder()
	router.ServeHTTP(proofRec, proofReq)
	require.Equal(t, http.StatusOK, proofRec.Code)

	verifyReq := httptest.NewRequest(http.MethodPost, "/verify", bytes.NewReader(proofRec.Body.Bytes()))
	verifyRec := httptest.NewRecorder()
	router.ServeHTTP(verifyRec, verifyReq)
	require.Equal(t, http.StatusOK, verifyRec.Code)
	var verified verifyResponse
	require.NoError(t, json.Unmarshal(verifyRec.Body.Bytes(), &verified))
	assert.True(t, verified.Valid)
}

func TestLedgerRoot_NoLedgerConfigured_RouteAbsent(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodGet, "/ledger/root", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
