package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/jbook-analytics/jbook-extract/client"
	"github.com/jbook-analytics/jbook-extract/config"
	"github.com/jbook-analytics/jbook-extract/handler"
	"github.com/jbook-analytics/jbook-extract/service"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize clients
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	llmClient := client.NewLLMClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)

	// Initialize collaborators
	pdfProcessor := service.NewPDFProcessor()
	spreadsheetReader := service.NewSpreadsheetReader()

	// Initialize service layer
	ingestor := service.NewTabularIngestor(spreadsheetReader)
	narrativeService := service.NewNarrativeService(pdfProcessor, tesseractClient)
	pipelineService := service.NewPipelineService(pdfProcessor, ingestor, narrativeService)
	taggingService := service.NewTaggingService(llmClient)

	// Initialize handler layer
	pipelineHandler := handler.NewPipelineHandler(pipelineService, pdfProcessor, cfg.WorkDir)
	taggingHandler := handler.NewTaggingHandler(taggingService)

	// Setup Gin router
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "J-Book Exhibit Extraction",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		pipeline := api.Group("/pipeline")
		{
			pipeline.POST("/run", pipelineHandler.RunPipeline)
		}
		attachments := api.Group("/attachments")
		{
			attachments.POST("/list", pipelineHandler.ListAttachments)
		}
		tagging := api.Group("/tagging")
		{
			tagging.POST("/run", taggingHandler.RunTagging)
		}
	}

	// Start server
	log.Printf("Starting J-Book Exhibit Extraction Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
