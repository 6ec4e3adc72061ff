package utils

import (
	"strings"

	"github.com/jbook-analytics/jbook-extract/dto"
)

// WalkContext is the accumulator the hierarchical walker threads across rows:
// the program element and project most recently declared above the current
// row. Context persists until a later marker row overwrites it.
type WalkContext struct {
	PENumber      string
	PEName        string
	ProjectNumber string
	ProjectName   string
}

// HierarchicalBlankLimit ends a walk after this many consecutive blank rows.
// R-1D sheets legitimately carry wider blank gaps than generic sheets, so the
// threshold is larger than the generic walk's.
const HierarchicalBlankLimit = 10

// StepHierarchicalRow applies one row of an R-1D sheet to the context and
// returns the updated context plus zero or one emitted records. Keeping the
// transition pure lets the state machine be tested without any workbook I/O.
//
// Transitions, keyed by the row's Type cell (upper-cased):
//   - "PE" declares a new program element and clears the project context.
//   - "PROJECT"/"PROJECTS"/"PRJ" declares a project and emits its totals row.
//   - any other non-empty type is a cost category under the current context,
//     unless its text reads as a totals summary, which would double-count.
func StepHierarchicalRow(ctx WalkContext, row []string, hdr map[string]int) (WalkContext, *dto.CostLineRecord) {
	typ := strings.ToUpper(CellAt(row, hdr, FieldType))
	title := CellAt(row, hdr, FieldTitle)
	desc := CellAt(row, hdr, FieldDescription)

	switch typ {
	case "":
		return ctx, nil

	case "PE":
		if v := CellAt(row, hdr, FieldPENumber); v != "" {
			ctx.PENumber = v
		}
		if title != "" {
			ctx.PEName = title
		}
		ctx.ProjectNumber = ""
		ctx.ProjectName = ""
		return ctx, nil

	case "PROJECT", "PROJECTS", "PRJ":
		if v := CellAt(row, hdr, FieldProjectNumber); v != "" {
			ctx.ProjectNumber = v
		}
		if title != "" {
			ctx.ProjectName = title
		}
		rec := recordFromRow(ctx, row, hdr, "Project Totals", desc)
		return ctx, &rec

	default:
		category := title
		if category == "" {
			category = desc
		}
		if category == "" {
			category = typ
		}
		// Summary rows duplicate figures already emitted for the project;
		// keeping them would double-count.
		lower := strings.ToLower(category)
		if lower == "project totals" ||
			(strings.Contains(lower, "totals") && strings.Contains(lower, "sum of")) {
			return ctx, nil
		}
		rec := recordFromRow(ctx, row, hdr, category, desc)
		if !rec.HasIdentifier() {
			return ctx, nil
		}
		return ctx, &rec
	}
}

// WalkHierarchicalRows folds StepHierarchicalRow over the data rows below the
// header. A leaf row that precedes any PE marker still emits a record with
// empty PE fields: malformed sheets should not silently lose cost data.
func WalkHierarchicalRows(rows [][]string, hdr map[string]int) []dto.CostLineRecord {
	var records []dto.CostLineRecord
	var ctx WalkContext

	blankStreak := 0
	for _, row := range rows {
		if IsBlankRow(row) {
			blankStreak++
			if blankStreak >= HierarchicalBlankLimit {
				break
			}
			continue
		}
		blankStreak = 0

		next, rec := StepHierarchicalRow(ctx, row, hdr)
		ctx = next
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}

func recordFromRow(ctx WalkContext, row []string, hdr map[string]int, category, desc string) dto.CostLineRecord {
	return dto.CostLineRecord{
		PENumber:       ctx.PENumber,
		PEName:         ctx.PEName,
		ProjectNumber:  ctx.ProjectNumber,
		ProjectName:    ctx.ProjectName,
		CostCategory:   category,
		FY2023Cost:     ParseFloatSafe(CellAt(row, hdr, FieldFY2023Cost)),
		FY2024Cost:     ParseFloatSafe(CellAt(row, hdr, FieldFY2024Cost)),
		FY2025BaseCost: ParseFloatSafe(CellAt(row, hdr, FieldFY2025BaseCost)),
		R1DDescription: &desc,
	}
}
