package parser

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadTableXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// Data on the first sheet only; a second sheet must be ignored.
	f.SetSheetRow("Sheet1", "A1", &[]interface{}{"pincode", "total_registered_users"})
	f.SetSheetRow("Sheet1", "A2", &[]interface{}{560001, 1500})
	f.SetSheetRow("Sheet1", "A3", &[]interface{}{110001, 2500})
	f.NewSheet("Other")
	f.SetCellValue("Other", "A1", "ignored")

	path := filepath.Join(t.TempDir(), "8.1.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if table.Source != "8.1.xlsx" || table.Sheet != "Sheet1" {
		t.Errorf("Unexpected source %q sheet %q", table.Source, table.Sheet)
	}
	if !reflect.DeepEqual(table.Header, []string{"pincode", "total_registered_users"}) {
		t.Errorf("Unexpected header %v", table.Header)
	}
	if len(table.Records) != 2 || table.Records[1][0] != "110001" {
		t.Errorf("Unexpected records %v", table.Records)
	}
	if table.Range != "A1:B3" {
		t.Errorf("Expected range A1:B3, got %s", table.Range)
	}
}

func TestReadTableCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "5.2.csv")
	data := "\ufeffstate,avg_app_opens_per_user\nKerala,12.5\nGoa,\"1,024\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write CSV: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if table.Header[0] != "state" {
		t.Errorf("Expected BOM-free header 'state', got %q", table.Header[0])
	}
	if table.Records[1][1] != "1,024" {
		t.Errorf("Expected quoted cell '1,024', got %q", table.Records[1][1])
	}
}

func TestReadTableMissing(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "1.1.xlsx"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
}

func TestReadTableUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.1.txt")
	if err := os.WriteFile(path, []byte("a\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTable(path); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestReadTableCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.1.xlsx")
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadTable(path)
	if err == nil {
		t.Fatal("Expected error for corrupt workbook")
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, ErrUnreadable) {
		t.Errorf("Corrupt workbook must not look like a missing file: %v", err)
	}
}

func TestReadTableUnreadable(t *testing.T) {
	t.Run("directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "1.1.xlsx")
		if err := os.Mkdir(path, 0755); err != nil {
			t.Fatal(err)
		}
		_, err := ReadTable(path)
		if !errors.Is(err, ErrUnreadable) {
			t.Errorf("Expected ErrUnreadable, got %v", err)
		}
	})

	t.Run("no permission", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root ignores file modes")
		}
		path := filepath.Join(t.TempDir(), "1.1.csv")
		if err := os.WriteFile(path, []byte("state,x\nGoa,1\n"), 0000); err != nil {
			t.Fatal(err)
		}
		_, err := ReadTable(path)
		if !errors.Is(err, ErrUnreadable) || !errors.Is(err, fs.ErrPermission) {
			t.Errorf("Expected ErrUnreadable wrapping fs.ErrPermission, got %v", err)
		}
	})
}

func TestReadTableHeaderNames(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// Index column with a blank header, as written by DataFrame exports.
	f.SetSheetRow("Sheet1", "A1", &[]interface{}{"", "state", "note", "note"})
	f.SetSheetRow("Sheet1", "A2", &[]interface{}{0, "Kerala", "a", "b"})

	path := filepath.Join(t.TempDir(), "8.2.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	want := []string{"Unnamed: 0", "state", "note", "note.1"}
	if !reflect.DeepEqual(table.Header, want) {
		t.Errorf("header = %q, expected %q", table.Header, want)
	}
}
