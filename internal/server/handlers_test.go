package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cadparse/internal/pipeline"
)

// stubRunner echoes the input back inside a canned success state.
type stubRunner struct{}

func (stubRunner) Run(ctx context.Context, input string) pipeline.State {
	return pipeline.State{
		Input:   input,
		RawJSON: `{}`,
		CADJSON: json.RawMessage(`{"base_shape":{"type":"sphere","dimensions":{"diameter":"5mm"}},"features":[]}`),
		Valid:   true,
	}
}

func newTestMux(t *testing.T) http.Handler {
	t.Helper()
	recent, err := NewRecentResults(8)
	if err != nil {
		t.Fatalf("NewRecentResults: %v", err)
	}
	return NewMux(NewAPI(stubRunner{}, recent))
}

func TestHandleParse(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(`{"input":"make a sphere"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	id := rec.Header().Get("X-Parse-Id")
	if id == "" {
		t.Fatal("missing X-Parse-Id header")
	}

	var st pipeline.State
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !st.Valid || st.Input != "make a sphere" {
		t.Fatalf("unexpected state: %+v", st)
	}

	// The result is replayable under its id.
	req = httptest.NewRequest(http.MethodGet, "/v1/parse/"+id, nil)
	rec2 := httptest.NewRecorder()
	mux.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("replay status = %d, want 200", rec2.Code)
	}
	if rec2.Body.String() != rec.Body.String() {
		t.Fatal("replayed body differs from original")
	}
}

func TestHandleParseBadRequests(t *testing.T) {
	mux := newTestMux(t)
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"input":`},
		{"missing input", `{}`},
		{"blank input", `{"input":"   "}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestHandleResultUnknownID(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/parse/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	mux := newTestMux(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRecentResultsEviction(t *testing.T) {
	recent, err := NewRecentResults(2)
	if err != nil {
		t.Fatalf("NewRecentResults: %v", err)
	}
	recent.Add("a", pipeline.State{Input: "a"})
	recent.Add("b", pipeline.State{Input: "b"})
	recent.Add("c", pipeline.State{Input: "c"})

	if _, ok := recent.Get("a"); ok {
		t.Fatal("oldest entry should have been evicted")
	}
	if st, ok := recent.Get("c"); !ok || st.Input != "c" {
		t.Fatalf("newest entry missing: %+v", st)
	}
}
