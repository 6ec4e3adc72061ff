package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jbook-analytics/jbook-extract/dto"
)

// SpreadsheetReader is the workbook collaborator: it exposes a file's
// worksheets as rows of string cells with stable column positions.
type SpreadsheetReader interface {
	ReadSheets(path string) ([]dto.SheetData, error)
}

type excelizeReader struct{}

func NewSpreadsheetReader() SpreadsheetReader {
	return &excelizeReader{}
}

// ReadSheets loads every worksheet of an .xlsx/.xlsm workbook. The workbook
// handle is closed before returning on every path; documents can be numerous
// and handles are a bounded resource.
func (r *excelizeReader) ReadSheets(path string) ([]dto.SheetData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var sheets []dto.SheetData
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		sheets = append(sheets, dto.SheetData{Name: name, Rows: rows})
	}
	return sheets, nil
}
