package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrEmptyResponse is returned when the model produced no usable content.
var ErrEmptyResponse = errors.New("llm: empty response")

// Client is the extraction collaborator contract. GenerateJSON sends the
// fixed instruction text plus the request input and returns the model's raw
// text output, expected (but not guaranteed) to be a JSON document.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}

// PermanentError indicates a failure that will not resolve with retries,
// e.g. an auth rejection. The Retry middleware gives up on it immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
