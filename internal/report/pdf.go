package report

import (
	"fmt"
	"io"
	"os"

	"github.com/8wontae4/cost-calculation/pkg/format"
	"github.com/phpdave11/gofpdf"
)

const pdfFontFamily = "report"

// PDFOptions controls PDF rendering. Without a UTF-8 TrueType font the core
// Helvetica font is used, which cannot draw Hangul, so labels switch to
// English.
type PDFOptions struct {
	FontPath string
}

type pdfText struct {
	title       string
	tableTitle  string
	item, value string
	shareTitle  string
	rows        []Row
	composition []Row
}

// WritePDF writes a one-page summary of the report.
func WritePDF(w io.Writer, rep Report, opts PDFOptions) error {
	pdf := gofpdf.New("P", "mm", "A4", "")

	text := englishText(rep)
	family := "Helvetica"
	if opts.FontPath != "" {
		if _, err := os.Stat(opts.FontPath); err != nil {
			return fmt.Errorf("pdf font %s: %w", opts.FontPath, err)
		}
		pdf.AddUTF8Font(pdfFontFamily, "", opts.FontPath)
		family = pdfFontFamily
		text = koreanText(rep)
	}
	pdf.SetTitle(text.title, true)
	pdf.AddPage()

	pdf.SetFont(family, "", 16)
	pdf.Cell(0, 10, text.title)
	pdf.Ln(14)

	pdf.SetFont(family, "", 12)
	pdf.Cell(0, 8, text.tableTitle)
	pdf.Ln(9)
	table(pdf, family, text.item, text.value, text.rows)

	pdf.Ln(6)
	pdf.SetFont(family, "", 12)
	pdf.Cell(0, 8, text.shareTitle)
	pdf.Ln(9)
	table(pdf, family, text.item, text.value, text.composition)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func table(pdf *gofpdf.Fpdf, family, item, value string, rows []Row) {
	pdf.SetFont(family, "", 10)
	pdf.SetFillColor(230, 236, 245)
	pdf.CellFormat(80, 7, item, "1", 0, "L", true, 0, "")
	pdf.CellFormat(80, 7, value, "1", 1, "R", true, 0, "")
	for _, row := range rows {
		pdf.CellFormat(80, 7, row.Item, "1", 0, "L", false, 0, "")
		pdf.CellFormat(80, 7, row.Value, "1", 1, "R", false, 0, "")
	}
}

func koreanText(rep Report) pdfText {
	var composition []Row
	for _, s := range rep.Breakdown.Composition {
		composition = append(composition, Row{s.Label, fmt.Sprintf("%s (%s)", format.Won(int64(s.Amount)), format.Percent(s.Percent))})
	}
	return pdfText{
		title:       "광모듈 생산 비용 계산 결과",
		tableTitle:  "상세 계산 결과",
		item:        HeaderItem,
		value:       HeaderValue,
		shareTitle:  CompositionChartTitle,
		rows:        rep.Rows,
		composition: composition,
	}
}

func englishText(rep Report) pdfText {
	in, r := rep.Inputs, rep.Result
	won := func(v int64) string { return format.Grouped(v) + " KRW" }

	labels := []string{"Material", "Labor", "Depreciation"}
	var composition []Row
	for i, s := range rep.Breakdown.Composition {
		label := s.Label
		if i < len(labels) {
			label = labels[i]
		}
		composition = append(composition, Row{label, fmt.Sprintf("%s (%s)", won(int64(s.Amount)), format.Percent(s.Percent))})
	}

	return pdfText{
		title:      "Optical Module Production Cost Estimate",
		tableTitle: "Calculation results",
		item:       "Item",
		value:      "Value",
		shareTitle: "Total cost composition",
		rows: []Row{
			{"Production period", fmt.Sprintf("%d months", in.ProductionPeriodMonths)},
			{"Target GLAB sales", format.Grouped(in.TargetGLABSales) + " units"},
			{"Monthly GLAB capacity", format.Rate(in.MonthlyGLABCapacity, " units/month")},
			{"Annual GLAB capacity", format.Rate(r.AnnualGLABCapacity, " units/year")},
			{"Optical modules required (total)", format.Grouped(r.TotalOpticalModules)},
			{"Monthly module output", format.Grouped(r.MonthlyOpticalModules) + " /month"},
			{"Daily module output", format.Grouped(r.DailyOpticalModules) + " /day"},
			{"Optical block manufacturing cost", won(r.OpticalBlockManufacturingCost) + " /unit"},
			{"Total material cost", won(r.TotalMaterialCost)},
			{"Total labor cost", won(r.TotalLaborCost)},
			{"12-module set price", fmt.Sprintf("%.1f x 10M KRW", rep.Plan.SetPrice)},
			{"Annual depreciation", won(r.AnnualDepreciation)},
			{"Total production cost", won(r.TotalProductionCost)},
			{"Annual revenue", won(r.AnnualRevenue)},
			{"Annual profit", fmt.Sprintf("%s (%s)", won(r.AnnualProfit), format.Percent(r.ProfitMargin))},
		},
		composition: composition,
	}
}
