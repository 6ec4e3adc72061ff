package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbook-analytics/jbook-extract/client"
	"github.com/jbook-analytics/jbook-extract/dto"
)

func TestBuildCorpusJoinsNarrativeFields(t *testing.T) {
	rec := dto.EnrichedRecord{
		AccomplishmentsText:     strPtr("Built Y."),
		AcquisitionStrategyText: strPtr("  Sole source.  "),
		MissionDescriptionText:  strPtr("Develops X."),
	}

	corpus := BuildCorpus(rec)

	assert.Equal(t, "Built Y.\n\nSole source.\n\nDevelops X.", corpus)
}

func TestBuildCorpusSkipsEmptyFields(t *testing.T) {
	rec := dto.EnrichedRecord{
		AccomplishmentsText:    strPtr("   "),
		MissionDescriptionText: strPtr("Develops X."),
	}

	assert.Equal(t, "Develops X.", BuildCorpus(rec))
	assert.Equal(t, "", BuildCorpus(dto.EnrichedRecord{}))
}

func TestBuildCorpusTruncatesOversizedParts(t *testing.T) {
	big := strings.Repeat("a", maxCorpusLength)
	rec := dto.EnrichedRecord{
		AccomplishmentsText:    &big,
		MissionDescriptionText: strPtr("Develops X."),
	}

	corpus := BuildCorpus(rec)

	// One bloated section cannot crowd out the others.
	assert.LessOrEqual(t, len(corpus), maxCorpusLength+len("... [truncated]"))
	assert.Contains(t, corpus, "... [truncated]")
	assert.Contains(t, corpus, "Develops X.")
}

func TestRuleBasedRelevance(t *testing.T) {
	keywords := []string{"hypersonics", "quantum"}

	high := RuleBasedRelevance("The effort is developing hypersonics test assets.", keywords)
	assert.Equal(t, dto.RelevanceHigh, high.Relevance)

	medium := RuleBasedRelevance("Results feed adjacent hypersonics studies.", keywords)
	assert.Equal(t, dto.RelevanceMedium, medium.Relevance)

	low := RuleBasedRelevance("General facility maintenance.", keywords)
	assert.Equal(t, dto.RelevanceLow, low.Relevance)
}

func TestRuleBasedRelevanceIsCaseInsensitiveAndDeterministic(t *testing.T) {
	corpus := "Focus on HYPERSONICS flight testing."
	keywords := []string{"Hypersonics"}

	first := RuleBasedRelevance(corpus, keywords)
	assert.Equal(t, dto.RelevanceHigh, first.Relevance)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, RuleBasedRelevance(corpus, keywords))
	}
}

func taggableRecords() []dto.EnrichedRecord {
	return []dto.EnrichedRecord{
		{MissionDescriptionText: strPtr("Developing hypersonics glide vehicles.")},
		{MissionDescriptionText: strPtr("Mentions hypersonics once.")},
		{MissionDescriptionText: strPtr("Unrelated basic research.")},
	}
}

func TestTagBatchSequentialPreservesOrder(t *testing.T) {
	svc := NewTaggingService(nil)

	results := svc.TagBatch(taggableRecords(), []string{"hypersonics"}, nil, false, 1)

	require.Len(t, results, 3)
	assert.Equal(t, dto.RelevanceHigh, results[0].Relevance)
	assert.Equal(t, dto.RelevanceMedium, results[1].Relevance)
	assert.Equal(t, dto.RelevanceLow, results[2].Relevance)
}

func TestTagBatchWithoutClientFallsBackToRules(t *testing.T) {
	svc := NewTaggingService(nil)

	// useLLM requested but no client configured: every record still gets a
	// deterministic answer.
	results := svc.TagBatch(taggableRecords(), []string{"hypersonics"}, nil, true, 4)

	require.Len(t, results, 3)
	assert.Equal(t, dto.RelevanceHigh, results[0].Relevance)
	assert.Equal(t, dto.RelevanceLow, results[2].Relevance)
}

func TestTagBatchConcurrentPreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"label\":\"High\",\"rationale\":\"primary focus\"}"}}]}`))
	}))
	defer server.Close()

	svc := NewTaggingService(client.NewLLMClient(server.URL, "test-key", "test-model"))

	results := svc.TagBatch(taggableRecords(), []string{"hypersonics"}, nil, true, 4)

	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, dto.RelevanceHigh, r.Relevance)
		assert.Equal(t, "primary focus", r.Rationale)
	}
}

func TestTagBatchLLMFailureDegradesPerRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewTaggingService(client.NewLLMClient(server.URL, "test-key", "test-model"))

	results := svc.TagBatch(taggableRecords(), []string{"hypersonics"}, nil, true, 2)

	require.Len(t, results, 3)
	assert.Equal(t, dto.RelevanceHigh, results[0].Relevance)
	assert.Equal(t, dto.RelevanceMedium, results[1].Relevance)
	assert.Equal(t, dto.RelevanceLow, results[2].Relevance)
}
