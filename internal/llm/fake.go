package llm

import (
	"context"
	"encoding/json"
)

// FakeClient returns a fixed payload, for tests and offline runs.
type FakeClient struct {
	Output json.RawMessage
	Err    error
}

func NewFakeClient(output string) *FakeClient {
	return &FakeClient{Output: json.RawMessage(output)}
}

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Output, nil
}
