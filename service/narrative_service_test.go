package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbook-analytics/jbook-extract/dto"
)

type stubPDFProcessor struct {
	pages       []string
	pagesErr    error
	attachments []string
}

func (s *stubPDFProcessor) ExtractPageTexts(pdfData []byte) ([]string, error) {
	return s.pages, s.pagesErr
}

func (s *stubPDFProcessor) ListAttachments(pdfPath string) ([]dto.AttachmentInfo, error) {
	return nil, nil
}

func (s *stubPDFProcessor) ExtractAttachments(pdfPath, outDir string) ([]string, error) {
	return s.attachments, nil
}

func (s *stubPDFProcessor) ExtractPageImages(pdfData []byte, outDir string) ([]string, error) {
	return nil, errors.New("no images")
}

var jbookPages = []string{
	"Department of Defense\nRDT&E Budget Estimates Cover Page",
	"Exhibit R-2, RDT&E Budget Item Justification\nPE 0604123X Hypersonics\n" +
		"A. Mission Description and Budget Item Justification Develops X.\n" +
		"C. Accomplishments/Planned Programs Built Y.\n" +
		"D. Acquisition Strategy Sole source.\n" +
		"E. Other Program Funding Summary\n" +
		"New Start: Yes",
	"Exhibit R-2, RDT&E Budget Item Justification\nPE 0605999Z Directed Energy\n" +
		"A. Mission Description and Budget Item Justification Fields lasers.",
}

func TestBundleForPE(t *testing.T) {
	bundle := BundleForPE(jbookPages, "0604123X")

	require.NotNil(t, bundle.Mission)
	assert.Equal(t, "Develops X.", *bundle.Mission)
	require.NotNil(t, bundle.Accomplishments)
	assert.Equal(t, "Built Y.", *bundle.Accomplishments)
	require.NotNil(t, bundle.Acquisition)
	assert.Equal(t, "Sole source.", *bundle.Acquisition)
	require.NotNil(t, bundle.IsNewStart)
	assert.True(t, *bundle.IsNewStart)
}

func TestBundleForPEOnlyReadsOwnPages(t *testing.T) {
	bundle := BundleForPE(jbookPages, "0605999Z")

	require.NotNil(t, bundle.Mission)
	assert.Equal(t, "Fields lasers.", *bundle.Mission)
	assert.Nil(t, bundle.Accomplishments)
	assert.Nil(t, bundle.Acquisition)
	assert.Nil(t, bundle.IsNewStart)
}

func TestBundleForPENoMatchingPages(t *testing.T) {
	assert.Equal(t, dto.NarrativeBundle{}, BundleForPE(jbookPages, "0699999Q"))
}

func TestBuildLookupCoversEveryPE(t *testing.T) {
	svc := NewNarrativeService(&stubPDFProcessor{pages: jbookPages}, nil)

	lookup := svc.BuildLookup([]byte("pdf"), []string{"0604123X", "0699999Q"})

	require.Len(t, lookup, 2)
	require.NotNil(t, lookup["0604123X"].Mission)
	assert.Equal(t, "Develops X.", *lookup["0604123X"].Mission)
	// Unmatched PEs still get an entry, so fusion treats all PEs uniformly.
	assert.Equal(t, dto.NarrativeBundle{}, lookup["0699999Q"])
}

func TestBuildLookupUnreadableDocument(t *testing.T) {
	svc := NewNarrativeService(&stubPDFProcessor{pagesErr: errors.New("corrupt xref")}, nil)

	lookup := svc.BuildLookup([]byte("pdf"), []string{"0604123X"})

	require.Len(t, lookup, 1)
	assert.Equal(t, dto.NarrativeBundle{}, lookup["0604123X"])
}

func TestBuildLookupEmptyTextLayerWithoutOCR(t *testing.T) {
	// A scanned volume with no text layer and no OCR client degrades to empty
	// bundles instead of failing the run.
	svc := NewNarrativeService(&stubPDFProcessor{pages: []string{"", "  ", ""}}, nil)

	lookup := svc.BuildLookup([]byte("pdf"), []string{"0604123X"})

	assert.Equal(t, dto.NarrativeBundle{}, lookup["0604123X"])
}
