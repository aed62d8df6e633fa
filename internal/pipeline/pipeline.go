package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cadparse/internal/llm"
	"cadparse/internal/schema"
)

// ErrExtraction marks a failed, timed-out, or empty extraction call. Like
// every other failure in the run it resolves to a fallback record, so a
// caller driving many prompts never has one bad prompt abort the batch.
var ErrExtraction = errors.New("pipeline: extraction failed")

// FallbackNote is the fixed note carried by every fallback record.
const FallbackNote = "Fallback used due to parsing/validation failure."

// State is the per-request record threaded through the three stages and
// returned to the caller. Fallback and success records share this one shape;
// callers branch on Valid, never on the absence of an error value.
type State struct {
	Input   string          `json:"input"`
	RawJSON string          `json:"raw_json,omitempty"`
	CADJSON json.RawMessage `json:"cad_json"`
	Error   string          `json:"error,omitempty"`
	Valid   bool            `json:"valid"`
	Note    string          `json:"note,omitempty"`
}

// Pipeline runs extract -> validate -> {accept | fallback} for one prompt
// per invocation. It holds no state across runs; independent runs are safe
// to execute concurrently as long as the client tolerates concurrent calls.
type Pipeline struct {
	LLM llm.Client
}

// Run processes a single prompt. It never returns an error: every failure,
// including extraction transport faults, terminates in the fallback state.
func (p *Pipeline) Run(ctx context.Context, input string) State {
	st := State{Input: input}

	raw, err := p.extract(ctx, input)
	if err != nil {
		st.Error = err.Error()
		return fallback(st)
	}
	st.RawJSON = raw

	obj, err := schema.ValidateCADObject([]byte(raw))
	if err != nil {
		st.Error = err.Error()
		return fallback(st)
	}
	cad, err := json.Marshal(obj)
	if err != nil {
		st.Error = err.Error()
		return fallback(st)
	}

	st.CADJSON = cad
	st.Valid = true
	return st
}

// extract invokes the collaborator exactly once and captures its raw text
// output with surrounding whitespace trimmed.
func (p *Pipeline) extract(ctx context.Context, input string) (string, error) {
	if p.LLM == nil {
		return "", fmt.Errorf("%w: no client configured", ErrExtraction)
	}
	raw, err := p.LLM.GenerateJSON(ctx, SystemPrompt(), input)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	out := strings.TrimSpace(string(raw))
	if out == "" {
		return "", fmt.Errorf("%w: empty model output", ErrExtraction)
	}
	return out, nil
}

func fallback(st State) State {
	st.Valid = false
	st.CADJSON = nil
	st.Note = FallbackNote
	if st.Error == "" {
		st.Error = "Unknown error"
	}
	return st
}
