package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/xlsxdash-go/pkg/xlsxdash/models"
	"github.com/xuri/excelize/v2"
)

// ErrUnreadable indicates the source path exists but cannot be opened as a file.
var ErrUnreadable = errors.New("source file is unreadable")

// ReadTable reads the table on the first sheet of an .xlsx workbook, or the rows of a .csv
// file. Errors from a missing file wrap fs.ErrNotExist; a path that cannot be opened (no
// permission, a directory) wraps ErrUnreadable. Anything else is a content error.
func ReadTable(path string) (*models.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".xlsx", ".xlsm", ".xltx", ".xltm":
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}

	file, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var (
		sheet string
		rows  [][]string
	)
	if ext == ".csv" {
		rows, err = readCSV(file)
	} else {
		sheet, rows, err = readWorkbook(file)
	}
	if err != nil {
		return nil, err
	}

	header, records, bounds, err := SplitTable(rows)
	if err != nil {
		if sheet != "" {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		return nil, err
	}

	return &models.Table{
		Source:  filepath.Base(path),
		Sheet:   sheet,
		Range:   bounds.Range(),
		Header:  header,
		Records: records,
	}, nil
}

// openSource opens path for reading. Open failures other than a missing file wrap ErrUnreadable.
func openSource(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnreadable, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return file, nil
}

func readWorkbook(r io.Reader) (string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	return ReadCells(f, "")
}

func readCSV(file io.Reader) ([][]string, error) {
	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	// Strip a UTF-8 byte order mark left by spreadsheet exports.
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}
