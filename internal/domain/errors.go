package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// SourceKind classifies input failures.
type SourceKind string

const (
	SourceKindOpen   SourceKind = "open"
	SourceKindDecode SourceKind = "decode"
	SourceKindFetch  SourceKind = "fetch"
)

// SourceError reports a failure to read raw hotels from a file or feed.
type SourceError struct {
	Kind    SourceKind
	Source  string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Kind, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Source, e.Message)
}

func (e *SourceError) Unwrap() error { return e.Err }

// IsRetryable reports whether re-reading the source may succeed.
func (e *SourceError) IsRetryable() bool {
	return e.Kind == SourceKindFetch && !errors.Is(e.Err, ErrNotFound)
}

func NewSourceError(kind SourceKind, source, message string, err error) *SourceError {
	return &SourceError{Kind: kind, Source: source, Message: message, Err: err}
}
