package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jbook-analytics/jbook-extract/client"
	"github.com/jbook-analytics/jbook-extract/dto"
)

// maxCorpusLength bounds the narrative corpus sent to the tagger; oversized
// parts are truncated rather than dropped.
const maxCorpusLength = 8000

// TaggingService attaches a relevance label and rationale to enriched
// records. An LLM client is optional; without one (or on any LLM failure)
// the deterministic rule-based tagger answers.
type TaggingService struct {
	llmClient *client.LLMClient
}

func NewTaggingService(llmClient *client.LLMClient) *TaggingService {
	return &TaggingService{llmClient: llmClient}
}

// BuildCorpus concatenates a record's narrative fields, truncating each part
// and the total so a single bloated section cannot starve the rest.
func BuildCorpus(rec dto.EnrichedRecord) string {
	partLimit := maxCorpusLength / 3
	var parts []string
	for _, field := range []*string{rec.AccomplishmentsText, rec.AcquisitionStrategyText, rec.MissionDescriptionText} {
		if field == nil {
			continue
		}
		text := strings.TrimSpace(*field)
		if text == "" {
			continue
		}
		if len(text) > partLimit {
			text = text[:partLimit] + "... [truncated]"
		}
		parts = append(parts, text)
	}

	corpus := strings.Join(parts, "\n\n")
	if len(corpus) > maxCorpusLength {
		corpus = corpus[:maxCorpusLength] + "... [truncated]"
	}
	return corpus
}

// RuleBasedRelevance is the deterministic fallback tagger: High when a
// primary-focus phrase around a keyword matches, Medium on any keyword hit,
// Low otherwise.
func RuleBasedRelevance(corpus string, keywords []string) dto.TagResult {
	c := strings.ToLower(corpus)
	keywordHits := 0
	primaryHits := 0

	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || !strings.Contains(c, k) {
			continue
		}
		keywordHits++
		for _, phrase := range []string{
			fmt.Sprintf("focus on %s", k),
			fmt.Sprintf("developing %s", k),
			fmt.Sprintf("%s program", k),
			fmt.Sprintf("%s system", k),
			fmt.Sprintf("%s capability", k),
		} {
			if strings.Contains(c, phrase) {
				primaryHits++
				break
			}
		}
	}

	switch {
	case primaryHits >= 1:
		return dto.TagResult{Relevance: dto.RelevanceHigh, Rationale: "Primary focus phrases matched"}
	case keywordHits >= 1:
		return dto.TagResult{Relevance: dto.RelevanceMedium, Rationale: "Keyword mentioned in context"}
	default:
		return dto.TagResult{Relevance: dto.RelevanceLow, Rationale: "No direct keyword match"}
	}
}

// TagBatch tags every record, preserving input order. With useLLM and
// concurrency > 1, records are tagged on a bounded worker pool; each failure
// degrades to the rule-based tagger for that record only.
func (s *TaggingService) TagBatch(records []dto.EnrichedRecord, keywords []string, definitions map[string]string, useLLM bool, concurrency int) []dto.TagResult {
	results := make([]dto.TagResult, len(records))

	if !useLLM || s.llmClient == nil || concurrency <= 1 {
		for i, rec := range records {
			results[i] = s.tagOne(rec, keywords, definitions, useLLM)
		}
		return results
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	for i, rec := range records {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rec dto.EnrichedRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.tagOne(rec, keywords, definitions, true)
		}(i, rec)
	}
	wg.Wait()

	return results
}

func (s *TaggingService) tagOne(rec dto.EnrichedRecord, keywords []string, definitions map[string]string, useLLM bool) dto.TagResult {
	corpus := BuildCorpus(rec)
	if useLLM && s.llmClient != nil {
		if result, err := s.llmClient.TagRelevance(corpus, keywords, definitions); err == nil {
			return result
		}
	}
	return RuleBasedRelevance(corpus, keywords)
}
