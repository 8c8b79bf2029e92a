package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Filename builds a timestamped download name, e.g. stocks_20260829_143000.xlsx.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}

// Sheet is a generic tabular export: one header row plus data rows.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Build renders the sheet into xlsx bytes with a bold, filled header row.
func Build(s Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if s.Name != "" && s.Name != defaultSheet {
		if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
			return nil, err
		}
	}
	sheet := s.Name
	if sheet == "" {
		sheet = defaultSheet
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range s.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for r, row := range s.Rows {
		for i, v := range row {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	// Reasonable fixed width; excelize has no auto-size on write.
	if len(s.Headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(s.Headers))
		_ = f.SetColWidth(sheet, "A", last, 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
