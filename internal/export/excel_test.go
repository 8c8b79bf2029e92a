package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestFilename(t *testing.T) {
	at := time.Date(2025, time.August, 29, 14, 30, 0, 0, time.UTC)
	if got := Filename("stocks", at); got != "stocks_20250829_143000.xlsx" {
		t.Errorf("Filename = %q", got)
	}
}

func TestBuild(t *testing.T) {
	data, err := Build(Sheet{
		Name:    "Products",
		Headers: []string{"ID", "Name"},
		Rows: [][]any{
			{1, "Milk"},
			{2, "Bread"},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open built file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Products")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][1] != "Name" || rows[2][1] != "Bread" {
		t.Errorf("unexpected cell contents: %v", rows)
	}
}
