package models

// Table is a header row plus the data records below it, as read from one sheet.
type Table struct {
	// Source is the file the table was read from.
	Source string `json:"source"`
	// Sheet is the sheet name (empty for CSV sources).
	Sheet string `json:"sheet,omitempty"`
	// Range is the cell range covered by the table, e.g. "A1:D10".
	Range string `json:"range,omitempty"`
	// Header holds the column names.
	Header []string `json:"header"`
	// Records holds one slice per data row, padded to len(Header).
	Records [][]string `json:"records"`
}
