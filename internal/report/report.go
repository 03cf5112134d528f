// Package report turns a calculated plan into the metrics, chart datasets and
// results table the calculator displays, and exports them as CSV, XLSX or PDF.
package report

import (
	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/8wontae4/cost-calculation/pkg/format"
)

// Chart titles.
const (
	CompositionChartTitle = "총 비용 구성"
	MaterialChartTitle    = "재료비 세부 구성"
	MaterialAxisTitle     = "비용 (원)"
)

// Table header.
const (
	HeaderItem  = "항목"
	HeaderValue = "값"
)

// Metric is one labeled figure.
type Metric struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Help    string `json:"help,omitempty"`
	Caption string `json:"caption,omitempty"`
	Delta   string `json:"delta,omitempty"`
}

// MetricGroup is a titled block of metrics.
type MetricGroup struct {
	Title   string   `json:"title"`
	Metrics []Metric `json:"metrics"`
}

// Row is one line of the results table.
type Row struct {
	Item  string `json:"item"`
	Value string `json:"value"`
}

// Report is everything shown for one calculation.
type Report struct {
	Plan      costmodel.PlanInputs    `json:"plan"`
	Inputs    costmodel.Inputs        `json:"inputs"`
	Result    costmodel.Result        `json:"result"`
	Metrics   []MetricGroup           `json:"metrics"`
	Breakdown costmodel.CostBreakdown `json:"breakdown"`
	Rows      []Row                   `json:"rows"`
}

// Build assembles the report for a plan and its calculated result.
func Build(plan costmodel.PlanInputs, in costmodel.Inputs, r costmodel.Result) Report {
	return Report{
		Plan:      plan,
		Inputs:    in,
		Result:    r,
		Metrics:   metrics(r),
		Breakdown: costmodel.Breakdown(in, r),
		Rows:      Rows(plan, in, r),
	}
}

// FileName returns the download name for an export extension.
func FileName(ext string) string {
	return constants.ExportBaseName + "." + ext
}

func metrics(r costmodel.Result) []MetricGroup {
	feasibility := "가능"
	if !r.ProductionFeasible {
		feasibility = "불가"
	}

	return []MetricGroup{
		{
			Title: "📈 생산 계획 분석",
			Metrics: []Metric{
				{Label: "연간 GLAB 생산 Capacity", Value: format.Rate(r.AnnualGLABCapacity, "대")},
				{Label: "필요 광모듈 수량 (총)", Value: format.Count(r.TotalOpticalModules, "개")},
				{Label: "월간 광모듈 생산량", Value: format.Count(r.MonthlyOpticalModules, "개/월")},
				{Label: "일간 광모듈 생산량", Value: format.Count(r.DailyOpticalModules, "개/일")},
				{Label: "생산 가능 여부", Value: feasibility, Help: "월간 필요 생산량이 월간 생산 가능량 이내인지 여부"},
				{Label: "생산 부족량", Value: format.Count(r.CapacityShortage, "대")},
			},
		},
		{
			Title: "💵 비용 분석",
			Metrics: []Metric{
				{Label: "광블럭 제조원가", Value: format.WonPerUnit(r.OpticalBlockManufacturingCost)},
				{Label: "총 재료비", Value: format.Won(r.TotalMaterialCost)},
				{Label: "총 인건비", Value: format.Won(r.TotalLaborCost)},
				{Label: "총 생산 비용", Value: format.Won(r.TotalProductionCost), Help: "재료비 + 인건비 + 감가상각비"},
				{Label: "연간 감가상각비", Value: format.Won(r.AnnualDepreciation)},
				{Label: "기간 감가상각비", Value: format.Won(r.DepreciationCost)},
			},
		},
		{
			Title: "💰 매출이익 예상",
			Metrics: []Metric{
				{Label: "연간 예상 매출", Value: format.Won(r.AnnualRevenue), Caption: format.Eok(r.AnnualRevenue)},
				{Label: "연간 총 생산비용", Value: format.Won(r.AnnualProductionCost), Caption: format.Eok(r.AnnualProductionCost)},
				{Label: "연간 예상 이익", Value: format.Won(r.AnnualProfit), Caption: format.Eok(r.AnnualProfit),
					Delta: format.Percent(r.ProfitMargin)},
			},
		},
	}
}

// Rows returns the 15-row results table in display order.
func Rows(plan costmodel.PlanInputs, in costmodel.Inputs, r costmodel.Result) []Row {
	return []Row{
		{"생산 기간", format.Months(in.ProductionPeriodMonths)},
		{"목표 GLAB 판매량", format.Count(in.TargetGLABSales, "대")},
		{"월간 GLAB 생산 가능량", format.Rate(in.MonthlyGLABCapacity, "대/월")},
		{"연간 GLAB 생산 Capacity", format.Rate(r.AnnualGLABCapacity, "대/년")},
		{"필요 광모듈 수량 (총)", format.Count(r.TotalOpticalModules, "개")},
		{"월간 광모듈 생산량", format.Count(r.MonthlyOpticalModules, "개/월")},
		{"일간 광모듈 생산량", format.Count(r.DailyOpticalModules, "개/일")},
		{"광블럭 제조원가", format.WonPerUnit(r.OpticalBlockManufacturingCost)},
		{"총 재료비", format.Won(r.TotalMaterialCost)},
		{"총 인건비", format.Won(r.TotalLaborCost)},
		{"광모듈 12대 납품가격", format.SetPrice(plan.SetPrice)},
		{"연간 감가상각비", format.Won(r.AnnualDepreciation)},
		{"총 생산 비용", format.Won(r.TotalProductionCost)},
		{"연간 예상 매출", format.Won(r.AnnualRevenue)},
		{"연간 예상 이익", format.Won(r.AnnualProfit)},
	}
}
