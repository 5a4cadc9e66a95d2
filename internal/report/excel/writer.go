// Package excel generates the optional diagnostic workbook for a route
// analysis run: one row per cluster showing its seed host, its members,
// the winning egress region, and every region's raw score.
package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"routeanalyzer/internal/service"
)

const (
	sheetClusters = "路由聚类"

	defaultSheet = "Sheet1"

	colorWarningBg  = "FFEB9C"
	colorWarningFg  = "9C6500"
	colorCriticalBg = "FFC7CE"
	colorCriticalFg = "9C0006"
	colorHeaderBg   = "4472C4"
	colorHeaderFg   = "FFFFFF"
	colorNormalBg   = "C6EFCE"
	colorNormalFg   = "006100"

	poisonedScore = -1.0
)

// Writer renders a run's ClusterSummary set as an .xlsx diagnostic report.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a Writer. If timezone is nil it defaults to
// Asia/Shanghai, matching the operations team's reporting convention.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Asia/Shanghai")
	}
	return &Writer{timezone: timezone}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Write generates the diagnostic workbook at outputPath from summaries
// and the run's configured region set (used to produce a stable column
// order across runs).
func (w *Writer) Write(summaries []service.ClusterSummary, regions []string, generatedAt time.Time, outputPath string) error {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.createClustersSheet(f, summaries, regions, generatedAt); err != nil {
		return fmt.Errorf("create clusters sheet: %w", err)
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		// Sheet1 may already be gone; nothing to do.
	}

	idx, _ := f.GetSheetIndex(sheetClusters)
	f.SetActiveSheet(idx)

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save %q: %w", outputPath, err)
	}
	return nil
}

func (w *Writer) createClustersSheet(f *excelize.File, summaries []service.ClusterSummary, regions []string, generatedAt time.Time) error {
	if _, err := f.NewSheet(sheetClusters); err != nil {
		return err
	}

	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return err
	}
	warningStyle, err := w.createWarningStyle(f)
	if err != nil {
		return err
	}
	criticalStyle, err := w.createCriticalStyle(f)
	if err != nil {
		return err
	}
	normalStyle, err := w.createNormalStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"种子主机", "成员主机", "命中区域"}
	for _, r := range regions {
		headers = append(headers, fmt.Sprintf("得分:%s", r))
	}

	f.SetColWidth(sheetClusters, "A", "A", 24)
	f.SetColWidth(sheetClusters, "B", "B", 50)
	f.SetColWidth(sheetClusters, "C", "C", 14)
	for i := range regions {
		col := columnName(4 + i)
		f.SetColWidth(sheetClusters, col, col, 14)
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheetClusters, cell, header)
		f.SetCellStyle(sheetClusters, cell, cell, headerStyle)
	}
	f.SetRowHeight(sheetClusters, 1, 25)

	f.SetPanes(sheetClusters, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	sorted := make([]service.ClusterSummary, len(summaries))
	copy(sorted, summaries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Seed < sorted[j].Seed })

	for i, cs := range sorted {
		row := i + 2
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetClusters, "A"+rowStr, cs.Seed)
		f.SetCellValue(sheetClusters, "B"+rowStr, strings.Join(cs.Members, ", "))
		f.SetCellValue(sheetClusters, "C"+rowStr, cs.Winner)

		for j, region := range regions {
			col := columnName(4 + j)
			cell := col + rowStr
			score, ok := cs.Scores[region]
			if !ok {
				f.SetCellValue(sheetClusters, cell, "N/A")
				continue
			}
			f.SetCellValue(sheetClusters, cell, score)

			var style int
			switch {
			case score == poisonedScore:
				style = criticalStyle
			case region == cs.Winner:
				style = normalStyle
			default:
				style = warningStyle
			}
			f.SetCellStyle(sheetClusters, cell, cell, style)
		}
	}

	f.SetCellValue(sheetClusters, fmt.Sprintf("A%d", len(sorted)+3), "生成时间")
	f.SetCellValue(sheetClusters, fmt.Sprintf("B%d", len(sorted)+3), generatedAt.In(w.timezone).Format("2006-01-02 15:04:05"))

	return nil
}

func (w *Writer) createHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: colorHeaderFg},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeaderBg}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func (w *Writer) createWarningStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: colorWarningFg},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorWarningBg}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func (w *Writer) createCriticalStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: colorCriticalFg},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorCriticalBg}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func (w *Writer) createNormalStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Color: colorNormalFg},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorNormalBg}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

// columnName converts a 1-based column index to an Excel column name (A,
// B, ..., Z, AA, AB, ...).
func columnName(index int) string {
	result := ""
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
}
