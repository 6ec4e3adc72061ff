package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbook-analytics/jbook-extract/dto"
)

func TestParseTagContent(t *testing.T) {
	result, err := ParseTagContent(`{"label": "High", "rationale": "core deliverable"}`)

	require.NoError(t, err)
	assert.Equal(t, dto.RelevanceHigh, result.Relevance)
	assert.Equal(t, "core deliverable", result.Rationale)
}

func TestParseTagContentStripsCodeFences(t *testing.T) {
	content := "```json\n{\"label\": \"Medium\", \"rationale\": \"secondary area\"}\n```"

	result, err := ParseTagContent(content)

	require.NoError(t, err)
	assert.Equal(t, dto.RelevanceMedium, result.Relevance)
}

func TestParseTagContentUnknownLabelBecomesLow(t *testing.T) {
	result, err := ParseTagContent(`{"label": "Critical", "rationale": "made up"}`)

	require.NoError(t, err)
	assert.Equal(t, dto.RelevanceLow, result.Relevance)
}

func TestParseTagContentRejectsNonJSON(t *testing.T) {
	_, err := ParseTagContent("the record looks relevant to me")

	assert.Error(t, err)
}

func TestTagRelevanceRequiresAPIKey(t *testing.T) {
	c := NewLLMClient("http://localhost:9", "", "test-model")

	_, err := c.TagRelevance("corpus", []string{"hypersonics"}, nil)

	assert.Error(t, err)
}

func TestTagRelevance(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"label\":\"High\",\"rationale\":\"primary focus\"}"}}]}`))
	}))
	defer server.Close()

	c := NewLLMClient(server.URL+"/", "test-key", "test-model")

	result, err := c.TagRelevance("Developing hypersonics.", []string{"hypersonics"}, map[string]string{"hypersonics": "Mach 5+ flight"})

	require.NoError(t, err)
	assert.Equal(t, dto.RelevanceHigh, result.Relevance)
	assert.Equal(t, "primary focus", result.Rationale)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotBody["model"])
}

func TestTagRelevanceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewLLMClient(server.URL, "test-key", "test-model")

	_, err := c.TagRelevance("corpus", nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
