package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadparse/internal/llm"
)

const circleExtraction = `{
  "base_shape": {
    "type": "circle",
    "dimensions": {"radius": "10mm", "thickness": "5mm"}
  },
  "features": [
    {"type": "hole", "location": "center", "dimensions": {"diameter": "2mm"}}
  ]
}`

func TestRunValidPrompt(t *testing.T) {
	pipe := &Pipeline{LLM: llm.NewFakeClient(circleExtraction)}
	st := pipe.Run(context.Background(), "Create a circle with a radius of 10mm and a 2mm hole at the center")

	require.True(t, st.Valid)
	assert.Empty(t, st.Error)
	assert.Empty(t, st.Note)
	assert.NotEmpty(t, st.RawJSON)

	var cad struct {
		BaseShape struct {
			Type       string            `json:"type"`
			Dimensions map[string]string `json:"dimensions"`
		} `json:"base_shape"`
		Features []struct {
			Type string `json:"type"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(st.CADJSON, &cad))
	assert.Equal(t, "circle", cad.BaseShape.Type)
	assert.Equal(t, "20mm", cad.BaseShape.Dimensions["diameter"])
	require.Len(t, cad.Features, 1)
	assert.Equal(t, "hole", cad.Features[0].Type)
}

func TestRunValidationFailure(t *testing.T) {
	// Closed schemas reject the extra field on an otherwise valid box.
	out := `{
	  "base_shape": {
	    "type": "box",
	    "dimensions": {"width": "10mm", "height": "20mm", "depth": "30mm", "color": "red"}
	  },
	  "features": []
	}`
	pipe := &Pipeline{LLM: llm.NewFakeClient(out)}
	st := pipe.Run(context.Background(), "make a red box")

	assert.False(t, st.Valid)
	assert.Nil(t, st.CADJSON)
	assert.Equal(t, FallbackNote, st.Note)
	assert.Contains(t, st.Error, "color")
}

func TestRunMalformedDocument(t *testing.T) {
	pipe := &Pipeline{LLM: llm.NewFakeClient(`{"base_shape": {"type": "circ`)}
	st := pipe.Run(context.Background(), "truncated")

	assert.False(t, st.Valid)
	assert.Nil(t, st.CADJSON)
	assert.Equal(t, FallbackNote, st.Note)
	assert.NotEmpty(t, st.Error)
}

func TestRunExtractionError(t *testing.T) {
	pipe := &Pipeline{LLM: &llm.FakeClient{Err: errors.New("network down")}}
	st := pipe.Run(context.Background(), "anything")

	assert.False(t, st.Valid)
	assert.Nil(t, st.CADJSON)
	assert.Equal(t, FallbackNote, st.Note)
	assert.Contains(t, st.Error, "extraction failed")
	assert.Empty(t, st.RawJSON)
}

func TestRunEmptyExtractionOutput(t *testing.T) {
	pipe := &Pipeline{LLM: llm.NewFakeClient("  \n ")}
	st := pipe.Run(context.Background(), "anything")

	assert.False(t, st.Valid)
	assert.Contains(t, st.Error, "empty model output")
	assert.Equal(t, FallbackNote, st.Note)
}

func TestRunNoClientConfigured(t *testing.T) {
	pipe := &Pipeline{}
	st := pipe.Run(context.Background(), "anything")

	assert.False(t, st.Valid)
	assert.Contains(t, st.Error, "no client configured")
}

func TestStateJSONContract(t *testing.T) {
	pipe := &Pipeline{LLM: llm.NewFakeClient("not json at all")}
	st := pipe.Run(context.Background(), "garbage in")

	b, err := json.Marshal(st)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "garbage in", m["input"])
	assert.Equal(t, false, m["valid"])
	// Fallback records carry an explicit null cad_json, not an absent key.
	v, ok := m["cad_json"]
	require.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, FallbackNote, m["note"])
	assert.NotEmpty(t, m["error"])
}

func TestStateJSONContractSuccess(t *testing.T) {
	pipe := &Pipeline{LLM: llm.NewFakeClient(circleExtraction)}
	st := pipe.Run(context.Background(), "circle")

	b, err := json.Marshal(st)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, true, m["valid"])
	assert.NotNil(t, m["cad_json"])
	_, hasNote := m["note"]
	assert.False(t, hasNote)
	_, hasError := m["error"]
	assert.False(t, hasError)
}
