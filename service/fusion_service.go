package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jbook-analytics/jbook-extract/dto"
)

// FuseRecords joins cost-line records with per-PE narrative bundles into the
// canonical enriched records. Exactly one output per input, in input order;
// a PE with no bundle gets nil narrative fields, never a dropped row.
//
// When useR1DFallback is set, a hierarchical row's description substitutes a
// missing accomplishments text and, independently, a missing mission text.
// The fallback never overwrites a non-empty narrative value.
func FuseRecords(sourceFile string, rows []dto.CostLineRecord, lookup map[string]dto.NarrativeBundle, useR1DFallback bool) []dto.EnrichedRecord {
	enriched := make([]dto.EnrichedRecord, 0, len(rows))

	for _, row := range rows {
		bundle := lookup[strings.TrimSpace(row.PENumber)]

		accomplishments := bundle.Accomplishments
		mission := bundle.Mission
		if useR1DFallback && row.R1DDescription != nil {
			if desc := strings.TrimSpace(*row.R1DDescription); desc != "" {
				if accomplishments == nil || *accomplishments == "" {
					accomplishments = &desc
				}
				if mission == nil || *mission == "" {
					mission = &desc
				}
			}
		}

		enriched = append(enriched, dto.EnrichedRecord{
			SourceFile:              sourceFile,
			PENumber:                row.PENumber,
			PEName:                  row.PEName,
			ProjectNumber:           row.ProjectNumber,
			ProjectName:             row.ProjectName,
			CostCategory:            row.CostCategory,
			FY2023Cost:              row.FY2023Cost,
			FY2024Cost:              row.FY2024Cost,
			FY2025BaseCost:          row.FY2025BaseCost,
			AccomplishmentsText:     accomplishments,
			AcquisitionStrategyText: bundle.Acquisition,
			IsNewStart:              bundle.IsNewStart,
			MissionDescriptionText:  mission,
		})
	}
	return enriched
}

// WriteEnrichedCSV serializes records as one flat table in the fixed column
// order of dto.EnrichedColumns. Null fields become empty cells; booleans
// render as True/False to stay byte-compatible with existing consumers.
func WriteEnrichedCSV(w io.Writer, records []dto.EnrichedRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(dto.EnrichedColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.SourceFile,
			r.PENumber,
			r.PEName,
			r.ProjectNumber,
			r.ProjectName,
			r.CostCategory,
			formatFloat(r.FY2023Cost),
			formatFloat(r.FY2024Cost),
			formatFloat(r.FY2025BaseCost),
			formatString(r.AccomplishmentsText),
			formatString(r.AcquisitionStrategyText),
			formatBool(r.IsNewStart),
			formatString(r.MissionDescriptionText),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "True"
	}
	return "False"
}
