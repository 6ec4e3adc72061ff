package dto

// CostLineRecord is one structured budget line parsed from an R-3 or R-1D
// style exhibit (spreadsheet or XML). String fields are trimmed and empty
// when absent, never null; cost fields are nil when the cell was blank or
// unparseable so that zero and absent stay distinguishable.
type CostLineRecord struct {
	PENumber       string   `json:"pe_number"`
	PEName         string   `json:"pe_name"`
	ProjectNumber  string   `json:"project_number"`
	ProjectName    string   `json:"project_name"`
	CostCategory   string   `json:"cost_category"`
	FY2023Cost     *float64 `json:"fy2023_cost"`
	FY2024Cost     *float64 `json:"fy2024_cost"`
	FY2025BaseCost *float64 `json:"fy2025_base_cost"`

	// R1DDescription is only set for rows sourced from a hierarchical
	// (R-1D style) sheet and feeds the narrative fallback in fusion.
	R1DDescription *string `json:"r1d_description,omitempty"`
}

// HasIdentifier reports whether the record carries at least one identifying
// field. Records without any are discarded at the source.
func (r CostLineRecord) HasIdentifier() bool {
	return r.PENumber != "" || r.ProjectNumber != "" || r.CostCategory != ""
}

// NarrativeBundle holds the R-2 narrative sections for one program element.
// Section texts are whitespace-collapsed and trimmed; a section whose anchor
// was not found is nil, as is IsNewStart when no New Start marker appeared.
type NarrativeBundle struct {
	Mission         *string `json:"mission"`
	Accomplishments *string `json:"accomplishments"`
	Acquisition     *string `json:"acquisition"`
	IsNewStart      *bool   `json:"is_new_start"`
}

// EnrichedRecord is the canonical fused record: one per cost line, narrative
// fields nil when no R-2 match existed. It is immutable after fusion.
type EnrichedRecord struct {
	SourceFile              string   `json:"source_file"`
	PENumber                string   `json:"pe_number"`
	PEName                  string   `json:"pe_name"`
	ProjectNumber           string   `json:"project_number"`
	ProjectName             string   `json:"project_name"`
	CostCategory            string   `json:"cost_category"`
	FY2023Cost              *float64 `json:"fy2023_cost"`
	FY2024Cost              *float64 `json:"fy2024_cost"`
	FY2025BaseCost          *float64 `json:"fy2025_base_cost"`
	AccomplishmentsText     *string  `json:"accomplishments_text"`
	AcquisitionStrategyText *string  `json:"acquisition_strategy_text"`
	IsNewStart              *bool    `json:"is_new_start"`
	MissionDescriptionText  *string  `json:"mission_description_text"`
}

// EnrichedColumns is the fixed column order of the flat output table. It is a
// compatibility contract consumed by the tagging collaborator and review UI;
// do not reorder.
var EnrichedColumns = []string{
	"SourceFile",
	"PENumber",
	"PEName",
	"ProjectNumber",
	"ProjectName",
	"CostCategory",
	"FY2023_Cost",
	"FY2024_Cost",
	"FY2025_Base_Cost",
	"AccomplishmentsText",
	"AcquisitionStrategyText",
	"IsNewStart",
	"MissionDescriptionText",
}

// AttachmentInfo describes one file embedded in a container PDF.
type AttachmentInfo struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
}

// SheetData is one worksheet exposed by the spreadsheet collaborator: the
// sheet name plus rows of string cells with stable column positions.
type SheetData struct {
	Name string
	Rows [][]string
}

// TagResult is the relevance label and rationale attached to one enriched
// record by the tagging collaborator.
type TagResult struct {
	Relevance string `json:"relevance"`
	Rationale string `json:"rationale"`
}

// Relevance labels produced by tagging.
const (
	RelevanceHigh   = "High"
	RelevanceMedium = "Medium"
	RelevanceLow    = "Low"
)
