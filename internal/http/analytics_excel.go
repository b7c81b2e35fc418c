package httpapi

import (
	"bytes"
	"fmt"

	"bekind-internal/internal/service"

	"github.com/xuri/excelize/v2"
)

// GenerateAnalyticsExport 每个报表一张工作表：姓名 | 各状态 | Tổng，末行为合计
func GenerateAnalyticsExport(reports ...*service.StatusReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create total style: %w", err)
	}

	for i, report := range reports {
		if report == nil {
			continue
		}
		sheet := report.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeReportSheet(f, sheet, report, headerStyle, totalStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeReportSheet(f *excelize.File, sheet string, report *service.StatusReport, headerStyle, totalStyle int) error {
	header := make([]any, 0, len(report.Columns)+2)
	header = append(header, report.Title)
	for _, c := range report.Columns {
		header = append(header, c)
	}
	header = append(header, "Tổng")

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 25); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for i, row := range report.Rows {
		values := make([]any, 0, len(header))
		values = append(values, row.OwnerName)
		for _, c := range report.Columns {
			values = append(values, row.Counts[c])
		}
		values = append(values, row.Total)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	totals := make([]any, 0, len(header))
	totals = append(totals, "Tổng")
	for _, c := range report.Columns {
		totals = append(totals, report.Totals[c])
	}
	totals = append(totals, report.Total)
	rowNum := len(report.Rows) + 2
	first, _ := excelize.CoordinatesToCellName(1, rowNum)
	end, _ := excelize.CoordinatesToCellName(len(totals), rowNum)
	if err := f.SetSheetRow(sheet, first, &totals); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}
	if err := f.SetCellStyle(sheet, first, end, totalStyle); err != nil {
		return fmt.Errorf("failed to set total style: %w", err)
	}
	return nil
}
