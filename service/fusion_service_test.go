package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbook-analytics/jbook-extract/dto"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }

func sampleRows() []dto.CostLineRecord {
	return []dto.CostLineRecord{
		{PENumber: "0604123X", ProjectNumber: "001", CostCategory: "Project Totals", FY2023Cost: floatPtr(10)},
		{PENumber: "0604123X", ProjectNumber: "001", CostCategory: "Wind Tunnel", R1DDescription: strPtr("Facility usage")},
		{PENumber: "0699999Z", ProjectNumber: "002", CostCategory: "Project Totals"},
	}
}

func TestFuseCardinalityAndOrder(t *testing.T) {
	rows := sampleRows()
	lookup := map[string]dto.NarrativeBundle{
		"0604123X": {Mission: strPtr("Develops X."), IsNewStart: boolPtr(true)},
	}

	records := FuseRecords("vol1.pdf", rows, lookup, false)

	// One output per input, same order, even for the PE with no bundle.
	require.Len(t, records, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].PENumber, records[i].PENumber)
		assert.Equal(t, rows[i].CostCategory, records[i].CostCategory)
		assert.Equal(t, "vol1.pdf", records[i].SourceFile)
	}

	require.NotNil(t, records[0].MissionDescriptionText)
	assert.Equal(t, "Develops X.", *records[0].MissionDescriptionText)
	require.NotNil(t, records[0].IsNewStart)
	assert.True(t, *records[0].IsNewStart)

	// Unmatched PE: narrative fields stay nil, the row is not dropped.
	assert.Nil(t, records[2].MissionDescriptionText)
	assert.Nil(t, records[2].AccomplishmentsText)
	assert.Nil(t, records[2].IsNewStart)
}

func TestFuseCopiesCostFieldsVerbatim(t *testing.T) {
	rows := sampleRows()

	records := FuseRecords("vol1.pdf", rows, nil, false)

	require.NotNil(t, records[0].FY2023Cost)
	assert.Equal(t, 10.0, *records[0].FY2023Cost)
	assert.Nil(t, records[0].FY2024Cost)
	assert.Nil(t, records[2].FY2023Cost)
}

func TestFuseNoFallbackWhenDisabled(t *testing.T) {
	rows := sampleRows()

	records := FuseRecords("vol1.pdf", rows, map[string]dto.NarrativeBundle{}, false)

	// R1D description present, fallback disabled: narrative stays nil.
	assert.Nil(t, records[1].AccomplishmentsText)
	assert.Nil(t, records[1].MissionDescriptionText)
}

func TestFuseFallbackFillsMissingNarrative(t *testing.T) {
	rows := sampleRows()

	records := FuseRecords("vol1.pdf", rows, map[string]dto.NarrativeBundle{}, true)

	require.NotNil(t, records[1].AccomplishmentsText)
	assert.Equal(t, "Facility usage", *records[1].AccomplishmentsText)
	require.NotNil(t, records[1].MissionDescriptionText)
	assert.Equal(t, "Facility usage", *records[1].MissionDescriptionText)

	// Rows without a description stay nil even with fallback on.
	assert.Nil(t, records[0].AccomplishmentsText)
}

func TestFuseFallbackNeverOverwritesNarrative(t *testing.T) {
	rows := sampleRows()
	lookup := map[string]dto.NarrativeBundle{
		"0604123X": {Mission: strPtr("Develops X."), Accomplishments: strPtr("Built Y.")},
	}

	records := FuseRecords("vol1.pdf", rows, lookup, true)

	require.NotNil(t, records[1].MissionDescriptionText)
	assert.Equal(t, "Develops X.", *records[1].MissionDescriptionText)
	require.NotNil(t, records[1].AccomplishmentsText)
	assert.Equal(t, "Built Y.", *records[1].AccomplishmentsText)
}

func TestWriteEnrichedCSV(t *testing.T) {
	records := []dto.EnrichedRecord{
		{
			SourceFile:             "vol1.pdf",
			PENumber:               "0604123X",
			CostCategory:           "Project Totals",
			FY2023Cost:             floatPtr(10.5),
			MissionDescriptionText: strPtr("Develops X."),
			IsNewStart:             boolPtr(true),
		},
		{SourceFile: "vol1.pdf", PENumber: "0699999Z"},
	}

	var buf bytes.Buffer
	err := WriteEnrichedCSV(&buf, records)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(dto.EnrichedColumns, ","), lines[0])
	assert.Equal(t, "vol1.pdf,0604123X,,,,Project Totals,10.5,,,,,True,Develops X.", lines[1])
	assert.Equal(t, "vol1.pdf,0699999Z,,,,,,,,,,,", lines[2])
}
