package service

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/jbook-analytics/jbook-extract/dto"
	"github.com/jbook-analytics/jbook-extract/utils"
)

// GenericBlankLimit ends a generic sheet walk after this many consecutive
// blank rows, protecting against trailing empty regions in large sheets.
const GenericBlankLimit = 5

// TabularIngestor turns spreadsheet and XML exhibits into flat cost-line
// records. Parsing is best-effort: a file that cannot be read contributes
// zero records and the batch continues.
type TabularIngestor struct {
	sheets SpreadsheetReader
}

func NewTabularIngestor(sheets SpreadsheetReader) *TabularIngestor {
	return &TabularIngestor{sheets: sheets}
}

// ParseFiles parses every input in order and concatenates the records, so
// output order is file order then in-file row order.
func (t *TabularIngestor) ParseFiles(paths []string) []dto.CostLineRecord {
	var results []dto.CostLineRecord
	for _, path := range paths {
		results = append(results, t.ParseFile(path)...)
	}
	return results
}

// ParseFile dispatches one exhibit by extension: Excel 2003 era XML formats
// go to the XML walker, modern workbooks to the spreadsheet walker, and
// anything else tries XML first with a spreadsheet fallback.
func (t *TabularIngestor) ParseFile(path string) []dto.CostLineRecord {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".xls", ".xlt", ".mxl":
		return ParseXMLCostLines(path)
	case ".xlsx", ".xlsm":
		return t.parseWorkbook(path)
	default:
		if parsed := ParseXMLCostLines(path); len(parsed) > 0 {
			return parsed
		}
		return t.parseWorkbook(path)
	}
}

func (t *TabularIngestor) parseWorkbook(path string) []dto.CostLineRecord {
	sheets, err := t.sheets.ReadSheets(path)
	if err != nil {
		log.Printf("Skipping unreadable workbook %s: %v", path, err)
		return nil
	}

	var results []dto.CostLineRecord
	for _, sheet := range sheets {
		results = append(results, parseSheet(sheet)...)
	}
	return results
}

// parseSheet locates the header row, classifies the sheet, and walks its data
// rows. Sheets with no recognizable header yield no records.
func parseSheet(sheet dto.SheetData) []dto.CostLineRecord {
	headerRow := utils.FindHeaderRow(sheet.Rows)
	if headerRow < 0 {
		return nil
	}
	hdr := utils.MapHeader(sheet.Rows[headerRow])
	if len(hdr) == 0 {
		return nil
	}
	dataRows := sheet.Rows[headerRow+1:]

	if utils.IsHierarchicalHeader(hdr) {
		return utils.WalkHierarchicalRows(dataRows, hdr)
	}
	return walkGenericRows(dataRows, hdr)
}

func walkGenericRows(rows [][]string, hdr map[string]int) []dto.CostLineRecord {
	var results []dto.CostLineRecord

	blankStreak := 0
	for _, row := range rows {
		if utils.IsBlankRow(row) {
			blankStreak++
			if blankStreak >= GenericBlankLimit {
				break
			}
			continue
		}
		blankStreak = 0

		rec := dto.CostLineRecord{
			PENumber:       utils.CellAt(row, hdr, utils.FieldPENumber),
			PEName:         utils.CellAt(row, hdr, utils.FieldPEName),
			ProjectNumber:  utils.CellAt(row, hdr, utils.FieldProjectNumber),
			ProjectName:    utils.CellAt(row, hdr, utils.FieldProjectName),
			CostCategory:   utils.CellAt(row, hdr, utils.FieldCostCategory),
			FY2023Cost:     utils.ParseFloatSafe(utils.CellAt(row, hdr, utils.FieldFY2023Cost)),
			FY2024Cost:     utils.ParseFloatSafe(utils.CellAt(row, hdr, utils.FieldFY2024Cost)),
			FY2025BaseCost: utils.ParseFloatSafe(utils.CellAt(row, hdr, utils.FieldFY2025BaseCost)),
		}
		// Rows with neither identifier are banners or spacers, not data.
		if rec.PENumber == "" && rec.ProjectNumber == "" {
			continue
		}
		results = append(results, rec)
	}
	return results
}
