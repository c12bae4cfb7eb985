package consensus

import (
	"errors"
	"fmt"

	"github.com/aria-lang/conseq-go/internal/alignment"
)

var (
	// ErrInvalidBin marks bins rejected before any alignment work.
	ErrInvalidBin = errors.New("invalid bin")
	// ErrAlignmentFailure is shared with the aligner so either package's
	// sentinel matches.
	ErrAlignmentFailure = alignment.ErrAlignmentFailure
	// ErrUnknownStrategy is returned by New for an unregistered name.
	ErrUnknownStrategy = errors.New("unknown consensus strategy")
)

// InvalidBinError describes why a bin cannot be refined.
type InvalidBinError struct {
	Label  string
	ReadID string
	Reason string
}

func (e *InvalidBinError) Error() string {
	if e.ReadID != "" {
		return fmt.Sprintf("invalid bin %q: read %q: %s", e.Label, e.ReadID, e.Reason)
	}
	return fmt.Sprintf("invalid bin %q: %s", e.Label, e.Reason)
}

func (e *InvalidBinError) Unwrap() error { return ErrInvalidBin }

// AlignmentError records which read the aligner failed on.
type AlignmentError struct {
	ReadID string
	Err    error
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("aligning read %q: %v", e.ReadID, e.Err)
}

func (e *AlignmentError) Unwrap() error { return e.Err }

// Is reports every AlignmentError as an alignment failure, whatever the
// wrapped cause.
func (e *AlignmentError) Is(target error) bool {
	return target == ErrAlignmentFailure
}
