package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jbook-analytics/jbook-extract/dto"
	"github.com/jbook-analytics/jbook-extract/service"
)

type TaggingHandler struct {
	taggingService *service.TaggingService
}

func NewTaggingHandler(taggingService *service.TaggingService) *TaggingHandler {
	return &TaggingHandler{
		taggingService: taggingService,
	}
}

// RunTagging handles POST /tagging/run: attach relevance labels to enriched
// records produced by a previous pipeline run.
func (h *TaggingHandler) RunTagging(c *gin.Context) {
	var request dto.TaggingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse request body", err)
		return
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	concurrency := request.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	log.Printf("Tagging %d records against %d keywords", len(request.Records), len(request.Keywords))
	tags := h.taggingService.TagBatch(request.Records, request.Keywords, request.Definitions, request.UseLLM, concurrency)

	tagged := make([]dto.TaggedRecord, len(request.Records))
	for i, rec := range request.Records {
		tagged[i] = dto.TaggedRecord{
			EnrichedRecord: rec,
			Relevance:      tags[i].Relevance,
			Rationale:      tags[i].Rationale,
		}
	}

	c.JSON(http.StatusOK, dto.TaggingResponse{
		Records:     tagged,
		ProcessedAt: time.Now().Format(time.RFC3339),
	})
}

// sendError sends a structured error response
func (h *TaggingHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "TAGGING_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}
