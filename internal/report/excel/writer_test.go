package excel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"routeanalyzer/internal/service"
)

func TestNewWriter(t *testing.T) {
	tests := []struct {
		name     string
		timezone *time.Location
		wantTZ   string
	}{
		{name: "nil timezone defaults to Asia/Shanghai", timezone: nil, wantTZ: "Asia/Shanghai"},
		{name: "custom timezone", timezone: time.UTC, wantTZ: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(tt.timezone)
			if w.timezone.String() != tt.wantTZ {
				t.Errorf("timezone = %v, want %v", w.timezone.String(), tt.wantTZ)
			}
		})
	}
}

func TestWriter_Write_ProducesOneRowPerCluster(t *testing.T) {
	w := NewWriter(time.UTC)
	outputPath := filepath.Join(t.TempDir(), "report.xlsx")

	summaries := []service.ClusterSummary{
		{
			Seed:    "www.example.com",
			Members: []string{"www.example.com", "api.example.com"},
			Winner:  "domestic",
			Scores:  map[string]float64{"central": 1.0, "domestic": 2.0, "ap": -1},
		},
		{
			Seed:    "other.example.com",
			Members: []string{"other.example.com"},
			Winner:  "central",
			Scores:  map[string]float64{"central": 0, "domestic": 0, "ap": 1.0},
		},
	}

	if err := w.Write(summaries, []string{"domestic", "ap"}, time.Unix(0, 0), outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenFile(outputPath)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetClusters)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}

	// Header + 2 cluster rows + blank-adjacent generated-at row.
	if len(rows) < 3 {
		t.Fatalf("got %d rows, want at least 3", len(rows))
	}
	if rows[0][0] != "种子主机" {
		t.Errorf("header[0] = %q, want 种子主机", rows[0][0])
	}
	if rows[1][0] != "other.example.com" {
		t.Errorf("row 1 sorts after seed ordering, got %q", rows[1][0])
	}
	if rows[2][0] != "www.example.com" {
		t.Errorf("row 2 = %q, want www.example.com", rows[2][0])
	}
}

func TestWriter_Write_AppendsXlsxExtension(t *testing.T) {
	w := NewWriter(time.UTC)
	outputPath := filepath.Join(t.TempDir(), "report")

	if err := w.Write(nil, nil, time.Unix(0, 0), outputPath); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(outputPath + ".xlsx"); err != nil {
		t.Errorf("expected %s.xlsx to exist: %v", outputPath, err)
	}
}
