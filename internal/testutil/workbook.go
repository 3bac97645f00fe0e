package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named grid of cell values for building workbook fixtures.
type Sheet struct {
	Name string
	Rows [][]string
}

// WriteWorkbook writes an XLSX file with the given sheets in order.
func WriteWorkbook(t testing.TB, path string, sheets ...Sheet) {
	t.Helper()
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("add sheet %q: %v", sheet.Name, err)
		}
		for r, cells := range sheet.Rows {
			for c, value := range cells {
				if value == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
					t.Fatalf("set cell %s: %v", cell, err)
				}
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}
