// Package parser reads spreadsheet files into header-plus-records tables.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadCells returns the raw cell text of a sheet. An empty sheetName selects the first sheet,
// which is also the sheet returned.
func ReadCells(f *excelize.File, sheetName string) (string, [][]string, error) {
	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return "", nil, fmt.Errorf("workbook has no sheets")
		}
		sheetName = sheets[0]
	}

	// Raw values keep numbers free of display formats such as "#,##0" or "0.00%".
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheetName, nil, err
	}
	return sheetName, rows, nil
}

// ParseNumber parses a measure cell. Blank cells count as zero, so a blank bar is drawn with no
// height; sorting places blanks last (see frame.SortDesc). Thousands separators are ignored.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), nil
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return f, nil
	}
	return 0, fmt.Errorf("%q is not a number", s)
}

// FormatLabel renders a category cell as axis text. Integral floats such as "2021.0" lose the
// fraction so that year, quarter and pincode columns read naturally.
func FormatLabel(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && strings.Contains(s, ".") {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return s
}
