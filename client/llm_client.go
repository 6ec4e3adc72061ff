package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jbook-analytics/jbook-extract/dto"
)

// LLMClient calls an OpenAI-compatible chat-completions endpoint to classify
// how relevant a budget line's narrative text is to a set of technology
// keywords. The model must answer with a strict JSON object.
type LLMClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewLLMClient(baseURL, apiKey, model string) *LLMClient {
	return &LLMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

const taggingSystemPrompt = "You are a defense technology analyst. Classify relevance of budget text to target technologies.\n" +
	"Return a strict JSON object with keys: label (one of High, Medium, Low) and rationale (short string)."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// TagRelevance classifies one record's narrative corpus. Any transport or
// parse failure is returned as an error so the caller can fall back to the
// rule-based tagger.
func (c *LLMClient) TagRelevance(corpus string, keywords []string, definitions map[string]string) (dto.TagResult, error) {
	if c.apiKey == "" {
		return dto.TagResult{}, fmt.Errorf("LLM API key not configured")
	}

	userContent, err := json.Marshal(map[string]interface{}{
		"keywords":    keywords,
		"definitions": definitions,
		"corpus":      corpus,
		"instructions": map[string]string{
			"High":   "technology is a primary focus or core deliverable",
			"Medium": "technology is a secondary component or enabling area",
			"Low":    "technology only mentioned in passing or unrelated",
		},
	})
	if err != nil {
		return dto.TagResult{}, fmt.Errorf("failed to marshal prompt: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: taggingSystemPrompt},
			{Role: "user", Content: string(userContent)},
		},
		Temperature: 0.0,
	})
	if err != nil {
		return dto.TagResult{}, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return dto.TagResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return dto.TagResult{}, fmt.Errorf("failed to call LLM API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return dto.TagResult{}, fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return dto.TagResult{}, fmt.Errorf("failed to decode LLM response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return dto.TagResult{}, fmt.Errorf("LLM response contained no choices")
	}

	result, err := ParseTagContent(chat.Choices[0].Message.Content)
	if err != nil {
		return dto.TagResult{}, err
	}

	log.Printf("LLM tagged corpus (%d chars) as %s", len(corpus), result.Relevance)
	return result, nil
}

// ParseTagContent parses the model's answer, stripping markdown code fences
// some models wrap around JSON. Labels outside the allowed set become Low.
func ParseTagContent(content string) (dto.TagResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var data struct {
		Label     string `json:"label"`
		Rationale string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return dto.TagResult{}, fmt.Errorf("failed to parse LLM answer: %w", err)
	}

	label := data.Label
	switch label {
	case dto.RelevanceHigh, dto.RelevanceMedium, dto.RelevanceLow:
	default:
		label = dto.RelevanceLow
	}
	return dto.TagResult{Relevance: label, Rationale: data.Rationale}, nil
}
