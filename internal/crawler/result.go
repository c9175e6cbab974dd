// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawler

import (
	"errors"

	"github.com/pdiddy/grantscope/internal/extract"
)

// ErrNoRule marks keys that no publisher rule handles.
var ErrNoRule = errors.New("no publisher rule matches")

// Status classifies the outcome of resolving one key.
type Status int

const (
	// StatusFound means text was extracted.
	StatusFound Status = iota
	// StatusNotApplicable means the source has no extractable text for this
	// key: no rule matched or the document is not open access.
	StatusNotApplicable
	// StatusUnreachable means the source could not be fetched.
	StatusUnreachable
	// StatusUnexpectedShape means the document was fetched but lacked the
	// expected structure.
	StatusUnexpectedShape
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotApplicable:
		return "not_applicable"
	case StatusUnreachable:
		return "unreachable"
	case StatusUnexpectedShape:
		return "unexpected_shape"
	default:
		return "unknown"
	}
}

// Failed reports whether the status is a fetch or parse failure.
func (s Status) Failed() bool {
	return s == StatusUnreachable || s == StatusUnexpectedShape
}

// Result is the outcome of resolving an abstract or full text for Key.
type Result struct {
	Key    string
	Source string
	Text   string
	Status Status
	Err    error
}

// newResult classifies err into a Result.
func newResult(key, source, text string, err error) Result {
	r := Result{Key: key, Source: source, Text: text, Err: err}
	switch {
	case err == nil:
		r.Status = StatusFound
	case errors.Is(err, extract.ErrNotOpenAccess), errors.Is(err, ErrNoRule):
		r.Status = StatusNotApplicable
	case errors.Is(err, extract.ErrUnexpectedShape):
		r.Status = StatusUnexpectedShape
	default:
		// Transport errors, HTTP status failures, and cancellation.
		r.Status = StatusUnreachable
	}
	return r
}
