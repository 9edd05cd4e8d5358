// Package frame provides the small set of immutable table operations the dashboard needs:
// column access, descending sort, top-N and group-by-sum.
package frame

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/parser"
)

// Frame is a named-column table of raw cell text. Operations never modify the receiver.
type Frame struct {
	columns []string
	index   map[string]int
	records [][]string
}

// MissingColumnError reports required columns absent from a table.
type MissingColumnError struct {
	Missing   []string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column(s) %s (available: %s)",
		quoteAll(e.Missing), quoteAll(e.Available))
}

// ValueError reports a measure cell that is not numeric.
type ValueError struct {
	Column string
	Row    int // 1-based data row
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("column %q row %d: %v", e.Column, e.Row, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// New builds a Frame. Every record must have exactly len(columns) cells.
func New(columns []string, records [][]string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, rec := range records {
		if len(rec) != len(columns) {
			return nil, fmt.Errorf("record %d has %d cells, expected %d", i+1, len(rec), len(columns))
		}
	}
	return &Frame{columns: columns, index: index, records: records}, nil
}

// FromTable builds a Frame from a parsed table.
func FromTable(t *models.Table) (*Frame, error) {
	return New(t.Header, t.Records)
}

// Columns returns the column names in source order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// Len returns the number of records.
func (f *Frame) Len() int {
	return len(f.records)
}

// Has reports whether the frame has a column.
func (f *Frame) Has(col string) bool {
	_, ok := f.index[col]
	return ok
}

// Require returns a *MissingColumnError naming every absent column.
func (f *Frame) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !f.Has(c) && !contains(missing, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnError{Missing: missing, Available: f.Columns()}
	}
	return nil
}

// Strings returns a column as axis labels.
func (f *Frame) Strings(col string) ([]string, error) {
	i, err := f.column(col)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(f.records))
	for r, rec := range f.records {
		out[r] = parser.FormatLabel(rec[i])
	}
	return out, nil
}

// Floats parses a column as numbers.
func (f *Frame) Floats(col string) ([]float64, error) {
	i, err := f.column(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(f.records))
	for r, rec := range f.records {
		v, err := parser.ParseNumber(rec[i])
		if err != nil {
			return nil, &ValueError{Column: col, Row: r + 1, Value: rec[i], Err: err}
		}
		out[r] = v
	}
	return out, nil
}

// SortDesc returns the records ordered by a numeric column, largest first. Blank cells sort
// after every number, negatives included. Equal values keep their relative order.
func (f *Frame) SortDesc(col string) (*Frame, error) {
	vals, err := f.Floats(col)
	if err != nil {
		return nil, err
	}
	ci, _ := f.column(col)
	blank := make([]bool, len(f.records))
	for r, rec := range f.records {
		blank[r] = strings.TrimSpace(rec[ci]) == ""
	}

	order := make([]int, len(f.records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		x, y := order[a], order[b]
		if blank[x] != blank[y] {
			return blank[y]
		}
		return vals[x] > vals[y]
	})

	records := make([][]string, len(order))
	for i, src := range order {
		records[i] = f.records[src]
	}
	return f.with(f.columns, records), nil
}

// Head returns at most the first n records. n <= 0 keeps every record.
func (f *Frame) Head(n int) *Frame {
	if n <= 0 || n >= len(f.records) {
		return f
	}
	return f.with(f.columns, f.records[:n])
}

// GroupBySum combines records sharing a key by summing the measures. The result has the key
// column followed by the measures, one record per key in ascending key order.
func (f *Frame) GroupBySum(key string, measures ...string) (*Frame, error) {
	if err := f.Require(append([]string{key}, measures...)...); err != nil {
		return nil, err
	}
	keys, err := f.Strings(key)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]int)
	var order []string
	for r, k := range keys {
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	sort.Strings(order)

	columns := append([]string{key}, measures...)
	records := make([][]string, len(order))
	for g, k := range order {
		records[g] = make([]string, len(columns))
		records[g][0] = k
	}

	for m, measure := range measures {
		vals, err := f.Floats(measure)
		if err != nil {
			return nil, err
		}
		for g, k := range order {
			data := make(stats.Float64Data, 0, len(groups[k]))
			for _, r := range groups[k] {
				data = append(data, vals[r])
			}
			sum, err := stats.Sum(data)
			if err != nil {
				return nil, fmt.Errorf("sum %q for %q: %w", measure, k, err)
			}
			records[g][m+1] = strconv.FormatFloat(sum, 'f', -1, 64)
		}
	}

	return New(columns, records)
}

// WithColumn returns a frame with a column appended, or replaced if it already exists.
func (f *Frame) WithColumn(name string, values []string) (*Frame, error) {
	if len(values) != len(f.records) {
		return nil, fmt.Errorf("column %q has %d values, expected %d", name, len(values), len(f.records))
	}
	columns := f.columns
	pos, exists := f.index[name]
	if !exists {
		columns = append(append([]string(nil), f.columns...), name)
		pos = len(columns) - 1
	}
	records := make([][]string, len(f.records))
	for r, rec := range f.records {
		row := make([]string, len(columns))
		copy(row, rec)
		row[pos] = values[r]
		records[r] = row
	}
	return New(columns, records)
}

// WithPeriod adds a column labelling each record "<year> Q<quarter>".
func (f *Frame) WithPeriod(name, yearCol, quarterCol string) (*Frame, error) {
	if err := f.Require(yearCol, quarterCol); err != nil {
		return nil, err
	}
	years, err := f.Strings(yearCol)
	if err != nil {
		return nil, err
	}
	quarters, err := f.Strings(quarterCol)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(years))
	for i := range years {
		labels[i] = years[i] + " Q" + quarters[i]
	}
	return f.WithColumn(name, labels)
}

func (f *Frame) column(col string) (int, error) {
	i, ok := f.index[col]
	if !ok {
		return 0, &MissingColumnError{Missing: []string{col}, Available: f.Columns()}
	}
	return i, nil
}

func (f *Frame) with(columns []string, records [][]string) *Frame {
	return &Frame{columns: columns, index: f.index, records: records}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = strconv.Quote(n)
	}
	return strings.Join(quoted, ", ")
}
