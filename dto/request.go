package dto

import (
	"errors"
	"mime/multipart"
)

// PipelineRequest represents one extraction run: an optional container PDF
// (J-Book) plus any number of loose spreadsheet/XML exhibits.
type PipelineRequest struct {
	JBookPDF       *multipart.FileHeader   `form:"jbook"`
	Exhibits       []*multipart.FileHeader `form:"exhibits[]"`
	SkipNarratives bool                    `form:"skip_narratives"`
	UseR1DFallback bool                    `form:"use_r1d_fallback"`
}

// Validate performs basic validation on the request
func (r *PipelineRequest) Validate() error {
	if r.JBookPDF == nil && len(r.Exhibits) == 0 {
		return errors.New("at least one input file is required")
	}
	return nil
}

// TaggingRequest carries enriched records back for relevance tagging.
type TaggingRequest struct {
	Records     []EnrichedRecord  `json:"records" binding:"required"`
	Keywords    []string          `json:"keywords" binding:"required"`
	Definitions map[string]string `json:"definitions,omitempty"`
	UseLLM      bool              `json:"use_llm"`
	Concurrency int               `json:"concurrency"`
}

// Validate performs basic validation on the request
func (r *TaggingRequest) Validate() error {
	if len(r.Records) == 0 {
		return errors.New("records are required")
	}
	if len(r.Keywords) == 0 {
		return errors.New("keywords are required")
	}
	return nil
}
