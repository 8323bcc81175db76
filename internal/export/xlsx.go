package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"creditpipe/internal/domain"
)

// WriteXLSX renders tradelines as an XLSX workbook and returns its bytes.
func WriteXLSX(tls []domain.Tradeline) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Tradelines"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx := range tls {
		row := tradelineToRow(&tls[rowIdx])
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // creditor
	_ = f.SetColWidth(sheet, "B", "B", 18) // account number
	_ = f.SetColWidth(sheet, "C", "E", 14) // amounts
	_ = f.SetColWidth(sheet, "F", "I", 14) // date and enums
	_ = f.SetColWidth(sheet, "L", "M", 22) // timestamps

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
