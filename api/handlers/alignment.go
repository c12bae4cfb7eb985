package handlers

import (
	"net/http"

	"github.com/aria-lang/conseq-go/pkg/conseq"
)

// AlignmentRequest represents an alignment request.
type AlignmentRequest struct {
	Sequence1 string `json:"sequence1" validate:"required"`
	Sequence2 string `json:"sequence2" validate:"required"`
	Penalized bool   `json:"penalized"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	AlignedSeq1 string  `json:"aligned_seq1"`
	AlignedSeq2 string  `json:"aligned_seq2"`
	Score       float64 `json:"score"`
	Identity    float64 `json:"identity"`
	CIGAR       string  `json:"cigar"`
	Matches     int     `json:"matches"`
	Mismatches  int     `json:"mismatches"`
	Gaps        int     `json:"gaps"`
}

func parsePair(w http.ResponseWriter, r *http.Request) (*AlignmentRequest, *conseq.Sequence, *conseq.Sequence, bool) {
	var req AlignmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, nil, nil, false
	}

	seq1, err := conseq.NewSequence(req.Sequence1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sequence1: "+err.Error())
		return nil, nil, nil, false
	}

	seq2, err := conseq.NewSequence(req.Sequence2)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sequence2: "+err.Error())
		return nil, nil, nil, false
	}
	return &req, seq1, seq2, true
}

// GlobalAlignHandler handles global alignment requests. Alignments are
// unweighted unless the request asks for the penalized scheme.
func GlobalAlignHandler(w http.ResponseWriter, r *http.Request) {
	req, seq1, seq2, ok := parsePair(w, r)
	if !ok {
		return
	}

	align := conseq.Align
	if req.Penalized {
		align = conseq.AlignPenalized
	}
	alignment, err := align(seq1, seq2)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AlignmentResponse{
		AlignedSeq1: alignment.AlignedSeq1,
		AlignedSeq2: alignment.AlignedSeq2,
		Score:       alignment.Score,
		Identity:    alignment.Identity,
		CIGAR:       alignment.ToCIGAR(),
		Matches:     alignment.MatchCount(),
		Mismatches:  alignment.MismatchCount(),
		Gaps:        alignment.TotalGaps(),
	})
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score float64 `json:"score"`
}

// AlignmentScoreHandler returns the penalized score a candidate would get
// against one read.
func AlignmentScoreHandler(w http.ResponseWriter, r *http.Request) {
	_, seq1, seq2, ok := parsePair(w, r)
	if !ok {
		return
	}

	score, err := conseq.AlignmentScore(seq1, seq2)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ScoreResponse{Score: score})
}
