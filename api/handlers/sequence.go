package handlers

import (
	"errors"
	"net/http"

	"github.com/aria-lang/conseq-go/pkg/conseq"
)

// ReadsRequest carries a set of reads.
type ReadsRequest struct {
	Reads []string `json:"reads" validate:"required,min=1"`
}

// SeedResponse represents the response for seed estimation.
type SeedResponse struct {
	Seed   string `json:"seed"`
	Length int    `json:"length"`
}

// SeedHandler returns the positional-vote seed of the reads.
func SeedHandler(w http.ResponseWriter, r *http.Request) {
	var req ReadsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bin := conseq.NewBin("seed", req.Reads...)
	if err := bin.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s, err := conseq.EstimateSeed(req.Reads)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SeedResponse{Seed: s, Length: len(s)})
}

// ValidateResponse represents the response for read validation.
type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	ReadID string `json:"read_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ValidateHandler reports whether the reads form a usable bin.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req ReadsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := conseq.NewBin("validate", req.Reads...).Validate()
	if err == nil {
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: true})
		return
	}

	resp := ValidateResponse{Valid: false, Error: err.Error()}
	var binErr *conseq.InvalidBinError
	if errors.As(err, &binErr) {
		resp.ReadID = binErr.ReadID
		resp.Error = binErr.Reason
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReadSetStatsHandler summarises read lengths.
func ReadSetStatsHandler(w http.ResponseWriter, r *http.Request) {
	var req ReadsRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := conseq.BinStats(conseq.NewBin("stats", req.Reads...))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, st)
}
