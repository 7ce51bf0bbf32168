package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means no source produced any ballots.
	ErrDataUnavailable = errors.New("no vote data available")
	// ErrMalformedPayload means a source exists but is not a JSON array of ballots.
	ErrMalformedPayload = errors.New("malformed vote payload")
)

// ParseError reports a payload that could not be decoded.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedPayload, e.Err}
}
