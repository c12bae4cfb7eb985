package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aria-lang/conseq-go/pkg/conseq"
)

// BinRequest is one bin of reads.
type BinRequest struct {
	Label string   `json:"label"`
	Reads []string `json:"reads" validate:"required,min=1"`
}

// BatchRequest carries several bins.
type BatchRequest struct {
	Bins []BinRequest `json:"bins" validate:"required,min=1,dive"`
}

// FailureResponse describes a bin that produced no consensus.
type FailureResponse struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Error string `json:"error"`
}

// BatchResponse lists records and failures in request order.
type BatchResponse struct {
	BatchID  string            `json:"batch_id"`
	Records  []*conseq.Record  `json:"records"`
	Failures []FailureResponse `json:"failures"`
}

// Consensus serves consensus requests with one configured strategy.
type Consensus struct {
	strategy conseq.Strategy
	logger   *slog.Logger
}

// NewConsensus returns handlers backed by strategy.
func NewConsensus(strategy conseq.Strategy, logger *slog.Logger) *Consensus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consensus{strategy: strategy, logger: logger}
}

func (req BinRequest) bin(fallback string) conseq.Bin {
	label := req.Label
	if label == "" {
		label = fallback
	}
	return conseq.NewBin(label, req.Reads...)
}

// statusFor maps a bin failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, conseq.ErrInvalidBin):
		return http.StatusBadRequest
	case errors.Is(err, conseq.ErrAlignmentFailure):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Generate handles POST /api/consensus.
func (c *Consensus) Generate(w http.ResponseWriter, r *http.Request) {
	var req BinRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := c.strategy.Generate(r.Context(), req.bin("0"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GenerateBatch handles POST /api/consensus/batch. Failed bins are listed
// alongside the records; the request itself succeeds.
func (c *Consensus) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bins := make([]conseq.Bin, len(req.Bins))
	for i, b := range req.Bins {
		bins[i] = b.bin(fmt.Sprint(i))
	}

	id := uuid.New().String()
	batch := c.strategy.GenerateAll(r.Context(), bins)

	resp := BatchResponse{
		BatchID:  id,
		Records:  batch.Records(),
		Failures: []FailureResponse{},
	}
	if resp.Records == nil {
		resp.Records = []*conseq.Record{}
	}
	for _, f := range batch.Failures() {
		resp.Failures = append(resp.Failures, FailureResponse{Index: f.Index, Label: f.Label, Error: f.Err.Error()})
	}

	c.logger.Info("batch complete",
		"batch_id", id,
		"strategy", c.strategy.Name(),
		"bins", len(bins),
		"failures", len(resp.Failures),
	)
	writeJSON(w, http.StatusOK, resp)
}

// Routes mounts every API endpoint under r.
func (c *Consensus) Routes(r chi.Router) {
	r.Route("/consensus", func(r chi.Router) {
		r.Post("/", c.Generate)
		r.Post("/batch", c.GenerateBatch)
	})

	r.Post("/seed", SeedHandler)

	r.Route("/reads", func(r chi.Router) {
		r.Post("/validate", ValidateHandler)
		r.Post("/stats", ReadSetStatsHandler)
	})

	r.Route("/alignment", func(r chi.Router) {
		r.Post("/global", GlobalAlignHandler)
		r.Post("/score", AlignmentScoreHandler)
	})
}
