package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/talentwire/cvscan/internal/batch"
)

const sheetName = "Candidatos"

// XLSX renders the result set as an XLSX workbook.
func XLSX(rs *batch.ResultSet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for i, h := range rs.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("xlsx header style: %w", err)
		}
	}

	for r, row := range Rows(rs) {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx cell %s: %w", cell, err)
			}
		}
	}

	// Widen the name and error columns; defaults elsewhere.
	_ = f.SetColWidth(sheetName, "A", "A", 28)
	last, _ := excelize.ColumnNumberToName(len(rs.Columns))
	_ = f.SetColWidth(sheetName, last, last, 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
