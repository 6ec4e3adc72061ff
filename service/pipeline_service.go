package service

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jbook-analytics/jbook-extract/dto"
)

// PipelineOptions toggles the optional stages of a run.
type PipelineOptions struct {
	SkipNarratives bool
	UseR1DFallback bool
}

// PipelineService orchestrates one extraction run: embedded-attachment
// extraction, tabular ingestion, narrative lookup, and fusion. Each document
// is processed to completion before the next; a failing file contributes
// zero records without aborting the batch.
type PipelineService struct {
	pdfProcessor PDFProcessor
	ingestor     *TabularIngestor
	narratives   *NarrativeService
}

func NewPipelineService(pdfProcessor PDFProcessor, ingestor *TabularIngestor, narratives *NarrativeService) *PipelineService {
	return &PipelineService{
		pdfProcessor: pdfProcessor,
		ingestor:     ingestor,
		narratives:   narratives,
	}
}

// Run executes the pipeline for one container PDF (optional) plus loose
// exhibit files, and reports aggregate counts alongside the fused records.
func (s *PipelineService) Run(sourceLabel string, jbookPDF []byte, exhibitPaths []string, workDir string, opts PipelineOptions) (*dto.PipelineResponse, error) {
	stats := dto.PipelineStats{
		PEsUnresolved:    []string{},
		FilesWithoutRows: []string{},
	}

	// 1) Pull embedded exhibits out of the container PDF.
	inputs := s.collectInputs(jbookPDF, exhibitPaths, workDir, &stats)
	stats.InputFiles = len(inputs)

	// 2) Parse cost lines file by file, in input order.
	var rows []dto.CostLineRecord
	for _, path := range inputs {
		parsed := s.ingestor.ParseFile(path)
		if len(parsed) == 0 {
			stats.FilesWithoutRows = append(stats.FilesWithoutRows, filepath.Base(path))
		}
		rows = append(rows, parsed...)
	}
	stats.RowsProduced = len(rows)

	// 3) Build one narrative bundle per unique PE.
	uniquePEs := uniquePENumbers(rows)
	stats.UniquePEs = len(uniquePEs)

	lookup := map[string]dto.NarrativeBundle{}
	if !opts.SkipNarratives && len(jbookPDF) > 0 {
		lookup = s.narratives.BuildLookup(jbookPDF, uniquePEs)
	}
	for _, pe := range uniquePEs {
		if bundle, ok := lookup[pe]; ok && bundle != (dto.NarrativeBundle{}) {
			stats.PEsResolved++
		} else {
			stats.PEsUnresolved = append(stats.PEsUnresolved, pe)
		}
	}
	log.Printf("Resolved narratives for %d of %d PEs", stats.PEsResolved, stats.UniquePEs)

	// 4) Fuse.
	records := FuseRecords(sourceLabel, rows, lookup, opts.UseR1DFallback)

	return &dto.PipelineResponse{
		SourceFile:  sourceLabel,
		Records:     records,
		Stats:       stats,
		ProcessedAt: time.Now().Format(time.RFC3339),
	}, nil
}

// collectInputs writes the container PDF to the work dir, extracts its
// attachments, and appends the caller-provided exhibit paths in order.
func (s *PipelineService) collectInputs(jbookPDF []byte, exhibitPaths []string, workDir string, stats *dto.PipelineStats) []string {
	var inputs []string

	if len(jbookPDF) > 0 {
		pdfPath := filepath.Join(workDir, "jbook.pdf")
		if err := os.WriteFile(pdfPath, jbookPDF, 0o644); err != nil {
			log.Printf("Failed to stage container PDF: %v", err)
		} else {
			attachDir := filepath.Join(workDir, "attachments")
			extracted, err := s.pdfProcessor.ExtractAttachments(pdfPath, attachDir)
			if err != nil {
				log.Printf("No attachments extracted from container PDF: %v", err)
			}
			stats.AttachmentsFound = len(extracted)
			inputs = append(inputs, extracted...)
		}
	}

	inputs = append(inputs, exhibitPaths...)
	return inputs
}

func uniquePENumbers(rows []dto.CostLineRecord) []string {
	seen := make(map[string]bool)
	var pes []string
	for _, r := range rows {
		pe := strings.TrimSpace(r.PENumber)
		if pe == "" || seen[pe] {
			continue
		}
		seen[pe] = true
		pes = append(pes, pe)
	}
	sort.Strings(pes)
	return pes
}
