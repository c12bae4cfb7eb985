package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria-lang/conseq-go/pkg/conseq"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	strategy, err := conseq.NewStrategy("pairwise", conseq.Options{Logger: logger, Workers: 2})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api", NewConsensus(strategy, logger).Routes)
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerate(t *testing.T) {
	h := newRouter(t)

	rec := post(t, h, "/api/consensus", `{"label":"7","reads":["AACCGGTT","AACCGGTT","AACGGTT"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "7", got["label"])
	assert.Equal(t, "AACCGGTT", got["sequence"])
	assert.Equal(t, 3.0, got["read_count"])
	assert.Equal(t, "rejected", got["termination"])
}

func TestGenerateErrors(t *testing.T) {
	h := newRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"reads":`, http.StatusBadRequest},
		{"no reads", `{"label":"x","reads":[]}`, http.StatusBadRequest},
		{"bad base", `{"label":"x","reads":["ACGT","ACNT"]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/api/consensus", tt.body)
			assert.Equal(t, tt.want, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestGenerateBatch(t *testing.T) {
	h := newRouter(t)

	rec := post(t, h, "/api/consensus/batch", `{"bins":[
		{"label":"a","reads":["GATTACA","GATTACA"]},
		{"label":"b","reads":["ACGT","ACXT"]},
		{"reads":["AACCGGTT","AACCGGTT","AACGGTT"]}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	_, err := uuid.Parse(got.BatchID)
	assert.NoError(t, err)
	require.Len(t, got.Records, 2)
	assert.Equal(t, "a", got.Records[0].Label)
	assert.Equal(t, "GATTACA", got.Records[0].Sequence)
	assert.Equal(t, "2", got.Records[1].Label)
	require.Len(t, got.Failures, 1)
	assert.Equal(t, 1, got.Failures[0].Index)
	assert.Equal(t, "b", got.Failures[0].Label)

	rec = post(t, h, "/api/consensus/batch", `{"bins":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeedHandler(t *testing.T) {
	h := newRouter(t)

	rec := post(t, h, "/api/seed", `{"reads":["AACCGGTT","AACCGGTT","AACGGTT"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got SeedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, SeedResponse{Seed: "AACCGGTT", Length: 8}, got)

	rec = post(t, h, "/api/seed", `{"reads":["ACGU"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlignmentHandlers(t *testing.T) {
	h := newRouter(t)

	rec := post(t, h, "/api/alignment/score", `{"sequence1":"AACCGGTT","sequence2":"AACGGTT"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var score ScoreResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &score))
	assert.Equal(t, 6.0, score.Score)

	rec = post(t, h, "/api/alignment/global", `{"sequence1":"AACCGGTT","sequence2":"AACGGTT"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var aln AlignmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aln))
	assert.Equal(t, "AA-CGGTT", aln.AlignedSeq2)
	assert.Equal(t, 7.0, aln.Score)
	assert.Equal(t, "2=1D5=", aln.CIGAR)

	rec = post(t, h, "/api/alignment/global", `{"sequence1":"AACCGGTT","sequence2":"AACGGTT","penalized":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aln))
	assert.Equal(t, 6.0, aln.Score)

	rec = post(t, h, "/api/alignment/score", `{"sequence1":"ACGT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, "/api/alignment/score", `{"sequence1":"ACGT","sequence2":"AXGT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "sequence2")
}

func TestReadsHandlers(t *testing.T) {
	h := newRouter(t)

	rec := post(t, h, "/api/reads/validate", `{"reads":["ACGT","ACGT"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var v ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.True(t, v.Valid)

	rec = post(t, h, "/api/reads/validate", `{"reads":["ACGT","ACGN"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v = ValidateResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.False(t, v.Valid)
	assert.Equal(t, "validate/1", v.ReadID)
	assert.Contains(t, v.Error, "invalid base")

	rec = post(t, h, "/api/reads/stats", `{"reads":["ACGT","ACG","ACGTA"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var st map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, 3.0, st["count"])
	assert.Equal(t, 4.0, st["median_length"])
}
