package service

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/cli"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jbook-analytics/jbook-extract/dto"
)

// PDFProcessor is the document collaborator the pipeline depends on. The
// extraction core never decodes PDF containers itself; it only consumes
// page-indexed text, embedded-file listings, and page-image dumps for the
// scanned-document OCR fallback.
type PDFProcessor interface {
	ExtractPageTexts(pdfData []byte) ([]string, error)
	ListAttachments(pdfPath string) ([]dto.AttachmentInfo, error)
	ExtractAttachments(pdfPath, outDir string) ([]string, error)
	ExtractPageImages(pdfData []byte, outDir string) ([]string, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractPageTexts returns one plain-text string per page, in page order.
// Pages that fail to decode contribute an empty string so indices stay
// aligned with the document.
func (p *pdfProcessor) ExtractPageTexts(pdfData []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	totalPage := r.NumPage()
	texts := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}

		var textBuilder strings.Builder
		rows, _ := page.GetTextByRow()
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					textBuilder.WriteString(" ")
				}
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
		texts = append(texts, textBuilder.String())
	}
	return texts, nil
}

// ListAttachments lists files embedded in the container PDF.
func (p *pdfProcessor) ListAttachments(pdfPath string) ([]dto.AttachmentInfo, error) {
	conf := model.NewDefaultConfiguration()

	names, err := cli.ListAttachmentsFile(pdfPath, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	attachments := make([]dto.AttachmentInfo, 0, len(names))
	for i, name := range names {
		attachments = append(attachments, dto.AttachmentInfo{
			Index:    i,
			Filename: strings.TrimSpace(name),
		})
	}
	return attachments, nil
}

// ExtractAttachments writes every embedded file into outDir and returns the
// written paths in the PDF's embedded-file listing order.
func (p *pdfProcessor) ExtractAttachments(pdfPath, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractAttachmentsFile(pdfPath, outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract attachments: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output dir: %w", err)
	}

	var written []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		written = append(written, filepath.Join(outDir, entry.Name()))
	}
	if attachments, err := p.ListAttachments(pdfPath); err == nil {
		names := make([]string, 0, len(attachments))
		for _, a := range attachments {
			names = append(names, a.Filename)
		}
		orderByListing(written, names)
	}
	return written, nil
}

// ExtractPageImages dumps the document's page images into outDir and returns
// their paths. Used only when a document has no usable text layer.
func (p *pdfProcessor) ExtractPageImages(pdfData []byte, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	tempFile, err := os.CreateTemp("", "jbook-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile.Name(), outDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output dir: %w", err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		images = append(images, filepath.Join(outDir, entry.Name()))
	}
	sortImagesByPage(images)
	return images, nil
}

// pdfcpu names dumped page images <base>_<pageNr>_<resource>.<ext> with
// unpadded page numbers, so a lexicographic directory listing puts page 10
// before page 2. Reorder by the parsed page number; OCR text must come back
// in page order or section carving spans pages in the wrong sequence.
func sortImagesByPage(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return imagePageNumber(paths[i]) < imagePageNumber(paths[j])
	})
}

func imagePageNumber(path string) int {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return math.MaxInt32
	}
	n, err := strconv.Atoi(parts[len(parts)-2])
	if err != nil {
		return math.MaxInt32
	}
	return n
}

// orderByListing rearranges written attachment paths to follow the embedded
// file listing. Paths the listing does not name keep their relative order at
// the end.
func orderByListing(paths, names []string) {
	rank := make(map[string]int, len(names))
	for i, n := range names {
		rank[n] = i
	}
	sort.SliceStable(paths, func(i, j int) bool {
		ri, iListed := rank[filepath.Base(paths[i])]
		rj, jListed := rank[filepath.Base(paths[j])]
		if iListed && jListed {
			return ri < rj
		}
		return iListed && !jListed
	})
}
