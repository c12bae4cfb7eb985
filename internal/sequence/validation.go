package sequence

import "fmt"

// SequenceError is the base error type for sequence operations.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence is empty.
type EmptySequenceError struct{}

func (e *EmptySequenceError) Error() string {
	return "sequence must have at least one base"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidBaseError is returned when an invalid base is encountered.
type InvalidBaseError struct {
	Position int
	Found    rune
}

func (e *InvalidBaseError) Error() string {
	return fmt.Sprintf("invalid base '%c' at position %d", e.Found, e.Position)
}

func (e *InvalidBaseError) IsSequenceError() {}

// ValidateDNA validates that a string contains only A, C, G and T.
func ValidateDNA(bases string) error {
	for i, b := range bases {
		if !ValidBases[b] {
			return &InvalidBaseError{Position: i, Found: b}
		}
	}
	return nil
}

// IsValidBase checks if a character is an accepted nucleotide.
func IsValidBase(c rune) bool {
	return ValidBases[c]
}
