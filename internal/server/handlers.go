package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cadparse/internal/pipeline"
	"cadparse/internal/util/jsonutil"
)

// Runner abstracts the parse pipeline so handlers can be tested without a
// live collaborator.
type Runner interface {
	Run(ctx context.Context, input string) pipeline.State
}

// API serves the parse surface. Fallback results are normal responses:
// validation outcome is reported in the body, not via HTTP status.
type API struct {
	Pipe   Runner
	Recent *RecentResults
}

func NewAPI(pipe Runner, recent *RecentResults) *API {
	return &API{Pipe: pipe, Recent: recent}
}

func (a *API) handleParse(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	input := strings.TrimSpace(in.Input)
	if input == "" {
		http.Error(w, "input is required", http.StatusBadRequest)
		return
	}

	st := a.Pipe.Run(r.Context(), input)
	id := uuid.NewString()
	a.Recent.Add(id, st)
	w.Header().Set("X-Parse-Id", id)
	writeJSON(w, http.StatusOK, st)
}

func (a *API) handleResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	st, ok := a.Recent.Get(id)
	if !ok {
		http.Error(w, "unknown parse id", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		http.Error(w, "encoding failure", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
