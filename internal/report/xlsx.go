package report

import (
	"fmt"
	"io"

	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/xuri/excelize/v2"
)

// Workbook layout.
const (
	ResultsSheet = "계산결과"
	ChartSheet   = "비용분석"
)

// WriteXLSX writes a workbook holding the results table and the two cost
// charts, each drawn from data cells on the chart sheet.
func WriteXLSX(w io.Writer, rep Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeResultsSheet(f, rep.Rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(ChartSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeChartSheet(f, rep.Breakdown); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeResultsSheet(f *excelize.File, rows []Row) error {
	for col, header := range []string{HeaderItem, HeaderValue} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(ResultsSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for i, row := range rows {
		if err := f.SetSheetRow(ResultsSheet, fmt.Sprintf("A%d", i+2), &[]interface{}{row.Item, row.Value}); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row.Item, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(ResultsSheet, "A1", "B1", style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(ResultsSheet, "A", "A", 26); err != nil {
		return err
	}
	return f.SetColWidth(ResultsSheet, "B", "B", 22)
}

// Composition data sits in A1:C4 and material data in A7:C10 of the chart
// sheet; charts are anchored to the right of them.
func writeChartSheet(f *excelize.File, b costmodel.CostBreakdown) error {
	if err := writeShares(f, 1, CompositionChartTitle, b.Composition); err != nil {
		return err
	}
	if err := writeShares(f, 7, MaterialChartTitle, b.Material); err != nil {
		return err
	}
	if err := f.SetColWidth(ChartSheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(ChartSheet, "B", "B", 18); err != nil {
		return err
	}

	pie := &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$A$1", ChartSheet),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$4", ChartSheet),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$4", ChartSheet),
		}},
		Title:     []excelize.RichTextRun{{Text: CompositionChartTitle}},
		Legend:    excelize.ChartLegend{Position: "right"},
		PlotArea:  excelize.ChartPlotArea{ShowPercent: true},
		Dimension: excelize.ChartDimension{Width: 480, Height: 320},
	}
	if err := f.AddChart(ChartSheet, "E1", pie); err != nil {
		return fmt.Errorf("failed to add composition chart: %w", err)
	}

	bar := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$A$7", ChartSheet),
			Categories: fmt.Sprintf("'%s'!$A$8:$A$10", ChartSheet),
			Values:     fmt.Sprintf("'%s'!$B$8:$B$10", ChartSheet),
		}},
		Title:     []excelize.RichTextRun{{Text: MaterialChartTitle}},
		Legend:    excelize.ChartLegend{Position: "none"},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: MaterialAxisTitle}}},
		Dimension: excelize.ChartDimension{Width: 480, Height: 320},
	}
	if err := f.AddChart(ChartSheet, "E18", bar); err != nil {
		return fmt.Errorf("failed to add material chart: %w", err)
	}
	return nil
}

func writeShares(f *excelize.File, startRow int, title string, shares []costmodel.CostShare) error {
	header := &[]interface{}{title, "금액 (원)", "비율 (%)"}
	if err := f.SetSheetRow(ChartSheet, fmt.Sprintf("A%d", startRow), header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", title, err)
	}
	for i, s := range shares {
		row := &[]interface{}{s.Label, s.Amount, s.Percent}
		if err := f.SetSheetRow(ChartSheet, fmt.Sprintf("A%d", startRow+i+1), row); err != nil {
			return fmt.Errorf("failed to write %s data: %w", title, err)
		}
	}
	return nil
}
