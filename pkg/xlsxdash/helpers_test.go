package xlsxdash

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
	"github.com/xuri/excelize/v2"
)

// writeSheet saves header and rows as <dir>/<key>.xlsx on the first sheet.
func writeSheet(t *testing.T, dir, key string, header []string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &cells))
	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+2), &row))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, key+".xlsx")))
}

// writeFixture writes n well-formed rows for a chart. Measures differ per column so
// independently sorted panels disagree on order.
func writeFixture(t *testing.T, dir string, spec models.ChartSpec, n int) {
	t.Helper()

	header := spec.SourceColumns()
	rows := make([][]interface{}, n)
	for i := range rows {
		row := make([]interface{}, len(header))
		col := 0
		if spec.Period != nil {
			row[0] = 2020 + i/4
			row[1] = i%4 + 1
			col = 2
		} else {
			row[0] = fmt.Sprintf("%s-%02d", spec.Category.Name, i)
			col = 1
		}
		for j := col; j < len(header); j++ {
			if j%2 == 0 {
				row[j] = (i*37+j*11)%97 + 1
			} else {
				row[j] = float64((n-i)*13%89) + 0.5
			}
		}
		rows[i] = row
	}
	writeSheet(t, dir, spec.Key, header, rows)
}

func testOptions(dir string) Options {
	opts := DefaultOptions()
	opts.DataDir = dir
	opts.DPI = 30
	return opts
}
