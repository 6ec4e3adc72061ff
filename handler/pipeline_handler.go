package handler

import (
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/jbook-analytics/jbook-extract/dto"
	"github.com/jbook-analytics/jbook-extract/service"
)

type PipelineHandler struct {
	pipelineService *service.PipelineService
	pdfProcessor    service.PDFProcessor
	workRoot        string
}

func NewPipelineHandler(pipelineService *service.PipelineService, pdfProcessor service.PDFProcessor, workRoot string) *PipelineHandler {
	return &PipelineHandler{
		pipelineService: pipelineService,
		pdfProcessor:    pdfProcessor,
		workRoot:        workRoot,
	}
}

// RunPipeline handles POST /pipeline/run: a multipart upload of an optional
// container PDF plus loose exhibit files. Responds with JSON records and
// stats, or the flat CSV when ?format=csv.
func (h *PipelineHandler) RunPipeline(c *gin.Context) {
	log.Println("Received pipeline run request")

	var request dto.PipelineRequest
	if err := c.ShouldBind(&request); err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return
	}
	if err := request.Validate(); err != nil {
		h.sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	workDir, err := os.MkdirTemp(h.workRoot, "run-*")
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to create work directory", err)
		return
	}
	defer os.RemoveAll(workDir)

	sourceLabel := "excel_only"
	var jbookPDF []byte
	if request.JBookPDF != nil {
		sourceLabel = filepath.Base(request.JBookPDF.Filename)
		jbookPDF, err = readUpload(request.JBookPDF)
		if err != nil {
			h.sendError(c, http.StatusBadRequest, "Failed to read uploaded PDF", err)
			return
		}
	}

	// Stage loose exhibits in upload order; order determines output order.
	var exhibitPaths []string
	for _, fh := range request.Exhibits {
		path := filepath.Join(workDir, filepath.Base(fh.Filename))
		if err := c.SaveUploadedFile(fh, path); err != nil {
			log.Printf("Skipping exhibit %s: %v", fh.Filename, err)
			continue
		}
		exhibitPaths = append(exhibitPaths, path)
	}

	response, err := h.pipelineService.Run(sourceLabel, jbookPDF, exhibitPaths, workDir, service.PipelineOptions{
		SkipNarratives: request.SkipNarratives,
		UseR1DFallback: request.UseR1DFallback,
	})
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Pipeline run failed", err)
		return
	}

	log.Printf("Pipeline produced %d records from %d inputs", response.Stats.RowsProduced, response.Stats.InputFiles)

	if c.Query("format") == "csv" {
		c.Header("Content-Disposition", `attachment; filename="enriched.csv"`)
		c.Header("Content-Type", "text/csv")
		if err := service.WriteEnrichedCSV(c.Writer, response.Records); err != nil {
			log.Printf("Failed streaming CSV: %v", err)
		}
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListAttachments handles POST /attachments/list: report the files embedded
// in an uploaded container PDF without running the pipeline.
func (h *PipelineHandler) ListAttachments(c *gin.Context) {
	fh, err := c.FormFile("jbook")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "A jbook PDF upload is required", err)
		return
	}

	workDir, err := os.MkdirTemp(h.workRoot, "list-*")
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to create work directory", err)
		return
	}
	defer os.RemoveAll(workDir)

	pdfPath := filepath.Join(workDir, "jbook.pdf")
	if err := c.SaveUploadedFile(fh, pdfPath); err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to read uploaded PDF", err)
		return
	}

	attachments, err := h.pdfProcessor.ListAttachments(pdfPath)
	if err != nil {
		h.sendError(c, http.StatusUnprocessableEntity, "Failed to list attachments", err)
		return
	}

	c.JSON(http.StatusOK, dto.AttachmentListResponse{
		Filename:    filepath.Base(fh.Filename),
		Attachments: attachments,
	})
}

// sendError sends a structured error response
func (h *PipelineHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log.Printf("Error: %s - %v", message, err)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   "PIPELINE_FAILED",
		Message: errorMsg,
		Code:    statusCode,
	})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
