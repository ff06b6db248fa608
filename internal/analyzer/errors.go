package analyzer

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData means a series was empty or a window failed its size check.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNumericalDegeneracy means the statistics produced a non-finite value.
	ErrNumericalDegeneracy = errors.New("numerical degeneracy")
)

// SourceError reports that price data for Symbol could not be obtained.
type SourceError struct {
	Symbol string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("price source for %s: %v", e.Symbol, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
