package service

import (
	"log"
	"os"
	"strings"

	"github.com/jbook-analytics/jbook-extract/client"
	"github.com/jbook-analytics/jbook-extract/dto"
	"github.com/jbook-analytics/jbook-extract/utils"
)

// minTextLayerChars is the threshold below which a document is treated as a
// scan without a usable text layer.
const minTextLayerChars = 20

// NarrativeService builds one NarrativeBundle per program element from a
// J-Book's R-2 pages. Page text comes from the injected PDFProcessor; for
// scanned volumes the service falls back to OCR over dumped page images.
type NarrativeService struct {
	pdfProcessor PDFProcessor
	ocrClient    *client.TesseractClient
}

func NewNarrativeService(pdfProcessor PDFProcessor, ocrClient *client.TesseractClient) *NarrativeService {
	return &NarrativeService{
		pdfProcessor: pdfProcessor,
		ocrClient:    ocrClient,
	}
}

// BuildLookup extracts the document's pages once and carves a bundle for each
// unique PE number. PEs with no matching pages map to an empty bundle so
// fusion can treat every PE uniformly.
func (s *NarrativeService) BuildLookup(pdfData []byte, peNumbers []string) map[string]dto.NarrativeBundle {
	lookup := make(map[string]dto.NarrativeBundle, len(peNumbers))

	pages, err := s.pdfProcessor.ExtractPageTexts(pdfData)
	if err != nil {
		log.Printf("Narrative extraction skipped, unreadable document: %v", err)
		for _, pe := range peNumbers {
			lookup[pe] = dto.NarrativeBundle{}
		}
		return lookup
	}

	if totalTextLen(pages) < minTextLayerChars {
		log.Printf("Document has no usable text layer, attempting OCR fallback")
		if ocrPages := s.ocrPages(pdfData); len(ocrPages) > 0 {
			pages = ocrPages
		}
	}

	for _, pe := range peNumbers {
		lookup[pe] = BundleForPE(pages, pe)
	}
	return lookup
}

// BundleForPE selects the pages belonging to one program element and carves
// its narrative sections from their concatenated text.
func BundleForPE(pages []string, peNumber string) dto.NarrativeBundle {
	pePattern := utils.CompilePEPattern(peNumber)
	var matching []string
	for _, page := range pages {
		if utils.PageMatchesPattern(page, pePattern) {
			matching = append(matching, page)
		}
	}
	if len(matching) == 0 {
		return dto.NarrativeBundle{}
	}
	return utils.CarveNarrativeSections(strings.Join(matching, "\n"))
}

// ocrPages dumps the document's page images and OCRs each one, returning one
// text block per image. Used only when the text layer is effectively empty.
func (s *NarrativeService) ocrPages(pdfData []byte) []string {
	if s.ocrClient == nil {
		return nil
	}

	tempDir, err := os.MkdirTemp("", "jbook_pages")
	if err != nil {
		log.Printf("OCR fallback failed to create temp dir: %v", err)
		return nil
	}
	defer os.RemoveAll(tempDir)

	images, err := s.pdfProcessor.ExtractPageImages(pdfData, tempDir)
	if err != nil || len(images) == 0 {
		log.Printf("OCR fallback found no page images: %v", err)
		return nil
	}

	var pages []string
	for _, img := range images {
		text, err := s.ocrClient.ExtractTextFromImage(img)
		if err != nil {
			log.Printf("OCR failed for page image %s: %v", img, err)
			continue
		}
		pages = append(pages, text)
	}
	log.Printf("OCR fallback recovered text from %d of %d page images", len(pages), len(images))
	return pages
}

func totalTextLen(pages []string) int {
	total := 0
	for _, p := range pages {
		total += len(strings.TrimSpace(p))
	}
	return total
}
