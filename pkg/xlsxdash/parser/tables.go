package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// TableBounds is the zero-based bounding box of non-empty cells.
type TableBounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Range returns the bounds in Excel range notation (e.g., "A1:D10").
func (b TableBounds) Range() string {
	startCell, _ := excelize.CoordinatesToCellName(b.MinCol+1, b.MinRow+1)
	endCell, _ := excelize.CoordinatesToCellName(b.MaxCol+1, b.MaxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// SplitTable locates the data block in rows and splits it into a header and records.
// The first row of the block is the header. Records are padded to the header width and fully
// blank records are dropped. Header names are made unique, see normalizeHeader.
func SplitTable(rows [][]string) (header []string, records [][]string, bounds TableBounds, err error) {
	bounds, ok := findDataBounds(rows)
	if !ok {
		return nil, nil, bounds, fmt.Errorf("no data found")
	}

	width := bounds.MaxCol - bounds.MinCol + 1
	header = normalizeHeader(sliceRow(rows[bounds.MinRow], bounds.MinCol, width))

	for rowIdx := bounds.MinRow + 1; rowIdx <= bounds.MaxRow; rowIdx++ {
		rec := sliceRow(rows[rowIdx], bounds.MinCol, width)
		if isBlank(rec) {
			continue
		}
		records = append(records, rec)
	}

	return header, records, bounds, nil
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (TableBounds, bool) {
	b := TableBounds{MinRow: -1, MaxRow: -1, MinCol: -1, MaxCol: -1}

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if b.MinRow < 0 || rowIdx < b.MinRow {
				b.MinRow = rowIdx
			}
			if rowIdx > b.MaxRow {
				b.MaxRow = rowIdx
			}
			if b.MinCol < 0 || colIdx < b.MinCol {
				b.MinCol = colIdx
			}
			if colIdx > b.MaxCol {
				b.MaxCol = colIdx
			}
		}
	}

	return b, b.MinRow >= 0
}

// sliceRow copies width cells starting at col, padding short rows with blanks.
func sliceRow(row []string, col, width int) []string {
	out := make([]string, width)
	for i := 0; i < width; i++ {
		if col+i < len(row) {
			out[i] = row[col+i]
		}
	}
	return out
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeHeader names blank header cells "Unnamed: <i>" (i is the 0-based column in the block)
// and suffixes repeated names as "name.1", "name.2".
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		seen[name] = true
		out[i] = name
	}

	counts := make(map[string]int, len(header))
	for i, name := range out {
		n, dup := counts[name]
		if !dup {
			counts[name] = 1
			continue
		}
		candidate := fmt.Sprintf("%s.%d", name, n)
		for seen[candidate] {
			n++
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[candidate] = true
		counts[name] = n + 1
		out[i] = candidate
	}
	return out
}
