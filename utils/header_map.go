package utils

import "strings"

// Canonical field keys a header cell can map to.
const (
	FieldPENumber       = "PENumber"
	FieldPEName         = "PEName"
	FieldProjectNumber  = "ProjectNumber"
	FieldProjectName    = "ProjectName"
	FieldCostCategory   = "CostCategory"
	FieldType           = "Type"
	FieldTitle          = "Title"
	FieldDescription    = "Description"
	FieldFY2023Cost     = "FY2023_Cost"
	FieldFY2024Cost     = "FY2024_Cost"
	FieldFY2025BaseCost = "FY2025_Base_Cost"
)

// headerRule maps a case-folded header cell to a canonical field. Rules are
// evaluated in order for every cell; the first cell that matches a field wins
// it and the field is never remapped by a later column. Exhibit variants are
// added by appending rules, not by new branching.
type headerRule struct {
	field string
	match func(v string) bool
}

var headerRules = []headerRule{
	{FieldPENumber, func(v string) bool {
		return strings.Contains(v, "program element") &&
			(strings.Contains(v, "number") || strings.HasSuffix(v, "program element"))
	}},
	{FieldPEName, func(v string) bool {
		return strings.Contains(v, "program element name") ||
			strings.Contains(v, "pe name") ||
			(strings.HasSuffix(v, "title") && strings.Contains(v, "program element"))
	}},
	{FieldProjectNumber, func(v string) bool {
		return strings.Contains(v, "project number") || v == "project" || v == "project#"
	}},
	{FieldProjectName, func(v string) bool {
		return strings.Contains(v, "project name") || strings.Contains(v, "project title")
	}},
	{FieldCostCategory, func(v string) bool {
		return strings.Contains(v, "cost category") ||
			strings.Contains(v, "cost element") ||
			strings.Contains(v, "line item")
	}},
	// R-1D variants
	{FieldPENumber, func(v string) bool { return v == "pe#" }},
	{FieldType, func(v string) bool { return v == "type" }},
	{FieldTitle, func(v string) bool {
		return strings.Contains(v, "accomplishments/planned programs title") ||
			strings.HasPrefix(v, "pe/project/")
	}},
	{FieldDescription, func(v string) bool { return v == "description" }},
	// FY columns, tolerant of separator variants
	{FieldFY2023Cost, func(v string) bool {
		return strings.Contains(v, "fy2023") || v == "fy 2023" || v == "fy23"
	}},
	{FieldFY2024Cost, func(v string) bool {
		return strings.Contains(v, "fy2024") || v == "fy 2024" || v == "fy24"
	}},
	{FieldFY2025BaseCost, func(v string) bool {
		return strings.Contains(v, "fy 2025 base") || v == "fy25 base" ||
			(strings.Contains(v, "fy2025") && strings.Contains(v, "base"))
	}},
}

// MaxHeaderSearchRows bounds how many leading rows are scanned for a header.
const MaxHeaderSearchRows = 50

// FindHeaderRow scans up to MaxHeaderSearchRows leading rows for a header and
// returns its zero-based index, or -1 when no row qualifies. Three signatures
// are recognized: the generic keyword trio, the "program element"+"project"
// pair, and the hierarchical Type/PE#/Project# layout. The scan is pure so
// re-running it on the same rows always yields the same index.
func FindHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > MaxHeaderSearchRows {
		limit = MaxHeaderSearchRows
	}
	for i := 0; i < limit; i++ {
		values := make([]string, len(rows[i]))
		for j, c := range rows[i] {
			values[j] = strings.ToLower(strings.TrimSpace(c))
		}
		joined := strings.Join(values, " ")
		if strings.Contains(joined, "project") &&
			strings.Contains(joined, "program") &&
			strings.Contains(joined, "element") {
			return i
		}
		// common case: headers in a single row
		if containsFunc(values, func(v string) bool { return strings.Contains(v, "program element") }) &&
			containsFunc(values, func(v string) bool { return strings.Contains(v, "project") }) {
			return i
		}
		// R-1D style headers: Type, PE#, Project#, Title, Description, FY columns
		if containsFunc(values, func(v string) bool { return v == "type" }) &&
			containsFunc(values, func(v string) bool { return strings.Contains(v, "pe#") }) &&
			containsFunc(values, func(v string) bool { return strings.Contains(v, "project#") }) {
			return i
		}
	}
	return -1
}

// MapHeader maps each non-empty header cell to at most one canonical field
// using the ordered rule list. Returns field -> column index.
func MapHeader(header []string) map[string]int {
	mapping := make(map[string]int)
	for idx, cell := range header {
		v := strings.ToLower(strings.TrimSpace(cell))
		if v == "" {
			continue
		}
		for _, rule := range headerRules {
			if _, taken := mapping[rule.field]; taken {
				continue
			}
			if rule.match(v) {
				mapping[rule.field] = idx
			}
		}
	}
	return mapping
}

// IsHierarchicalHeader reports whether a mapped header describes an R-1D
// style sheet, which is parsed by the row walker instead of the generic walk.
func IsHierarchicalHeader(mapping map[string]int) bool {
	_, hasType := mapping[FieldType]
	_, hasPE := mapping[FieldPENumber]
	_, hasProj := mapping[FieldProjectNumber]
	return hasType && hasPE && hasProj
}

func containsFunc(values []string, match func(string) bool) bool {
	for _, v := range values {
		if match(v) {
			return true
		}
	}
	return false
}
