// Package form describes the calculator's input form: which fields exist,
// their labels, defaults and accepted ranges, and how submitted values are
// parsed into a plan.
package form

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/8wontae4/cost-calculation/pkg/validation"
)

// Field keys, shared by form submissions, JSON payloads and config files.
const (
	KeyProductionPeriodMonths  = "productionPeriodMonths"
	KeyTargetGLABSales         = "targetGLABSales"
	KeyMonthlyGLABCapacity     = "monthlyGLABCapacity"
	KeySetPrice                = "setPrice"
	KeyOpticalBlockPrice       = "opticalBlockPrice"
	KeyOpticalQuartzPrice      = "opticalQuartzPrice"
	KeyOtherPartsPrice         = "otherPartsPrice"
	KeyRequiredWorkers         = "requiredWorkers"
	KeyAnnualSalary            = "annualSalary"
	KeyInitialSetupCost        = "initialSetupCost"
	KeyDepreciationPeriodYears = "depreciationPeriodYears"
)

// Field describes one input of the form.
type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Help     string   `json:"help"`
	Default  float64  `json:"default"`
	Min      float64  `json:"min"`
	Max      *float64 `json:"max,omitempty"`
	Step     float64  `json:"step"`
	Integer  bool     `json:"integer"`
	Format   string   `json:"format"`
	Grouping bool     `json:"grouping"` // show thousands separators next to the input
	ReadOnly bool     `json:"readOnly,omitempty"`
}

// Section groups related fields under a heading.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

func maxOf(v float64) *float64 { return &v }

// Sections returns the form layout in display order.
func Sections() []Section {
	d := costmodel.DefaultPlan()
	return []Section{
		{
			Title: "🏭 생산 계획",
			Fields: []Field{
				{Key: KeyProductionPeriodMonths, Label: "생산 기간 (개월)", Help: "GLAB 장비를 생산할 기간을 개월 단위로 입력하세요",
					Default: float64(d.ProductionPeriodMonths), Min: constants.MinProductionPeriodMonths, Max: maxOf(constants.MaxProductionPeriodMonths),
					Step: 1, Integer: true, Format: "%d"},
				{Key: KeyTargetGLABSales, Label: "목표 GLAB 판매량 (대)", Help: "생산 기간 동안 판매할 GLAB 장비 수량",
					Default: float64(d.TargetGLABSales), Min: constants.MinTargetGLABSales, Max: maxOf(constants.MaxTargetGLABSales), Step: 1, Integer: true, Format: "%d", Grouping: true},
				{Key: KeyMonthlyGLABCapacity, Label: "월간 GLAB 생산 가능량 (대/월)", Help: "목표 판매량을 생산 기간으로 나눈 값으로 자동 계산됩니다",
					Default: costmodel.MonthlyCapacity(d.TargetGLABSales, d.ProductionPeriodMonths), Step: 0.1, Format: "%.1f", ReadOnly: true},
			},
		},
		{
			Title: "💰 광모듈 납품 가격",
			Fields: []Field{
				{Key: KeySetPrice, Label: "광모듈 12대 납품가격 (천만원)", Help: "광모듈 12대 세트(GLAB 1대분)의 납품 가격 (천만원 단위)",
					Default: d.SetPrice, Min: constants.MinSetPrice, Max: maxOf(constants.MaxSetPrice), Step: 0.1, Format: "%.1f"},
			},
		},
		{
			Title: "💰 부품 단가",
			Fields: []Field{
				{Key: KeyOpticalBlockPrice, Label: "광블럭 단가 (원/개)", Help: "광블럭 1개의 단가",
					Default: d.OpticalBlockPrice, Max: maxOf(constants.MaxPriceWon), Step: 1, Integer: true, Format: "%d", Grouping: true},
				{Key: KeyOpticalQuartzPrice, Label: "광석영 단가 (원/개)", Help: "광석영 1개의 단가 (광블럭 1개당 16개 필요)",
					Default: d.OpticalQuartzPrice, Max: maxOf(constants.MaxPriceWon), Step: 1, Integer: true, Format: "%d", Grouping: true},
				{Key: KeyOtherPartsPrice, Label: "기타 부품 단가 (원/개)", Help: "기타 부품의 단가",
					Default: d.OtherPartsPrice, Max: maxOf(constants.MaxPriceWon), Step: 1, Integer: true, Format: "%d", Grouping: true},
			},
		},
		{
			Title: "👥 인력 비용",
			Fields: []Field{
				{Key: KeyRequiredWorkers, Label: "조립 작업 필요 인력 (명)", Help: "광모듈 조립 작업에 필요한 인력 수",
					Default: float64(d.RequiredWorkers), Min: constants.MinRequiredWorkers, Max: maxOf(constants.MaxRequiredWorkers), Step: 1, Integer: true, Format: "%d"},
				{Key: KeyAnnualSalary, Label: "인력당 연봉 (원/년)", Help: "조립 작업 인력 1명의 연봉",
					Default: d.AnnualSalary, Max: maxOf(constants.MaxPriceWon), Step: 1, Integer: true, Format: "%d", Grouping: true},
			},
		},
		{
			Title: "🏗️ 초기 투자",
			Fields: []Field{
				{Key: KeyInitialSetupCost, Label: "초기 설비 투자 비용 (원)", Help: "장비, 작업대 등 초기 셋팅 비용",
					Default: d.InitialSetupCost, Max: maxOf(constants.MaxPriceWon), Step: 1, Integer: true, Format: "%d", Grouping: true},
				{Key: KeyDepreciationPeriodYears, Label: "감가상각 기간 (년)", Help: "초기 설비 투자비용의 감가상각 기간",
					Default: float64(d.DepreciationPeriodYears), Min: constants.MinDepreciationPeriodYears, Max: maxOf(constants.MaxDepreciationPeriodYears),
					Step: 1, Integer: true, Format: "%d"},
			},
		},
	}
}

// Fields returns every field of the form in display order.
func Fields() []Field {
	var fields []Field
	for _, s := range Sections() {
		fields = append(fields, s.Fields...)
	}
	return fields
}

// Defaults returns the plan described by the field defaults.
func Defaults() costmodel.PlanInputs {
	return costmodel.DefaultPlan()
}

// ParseValues reads a form submission into a plan. Absent or blank fields
// keep their defaults; numbers may carry thousands separators. Read-only
// fields are ignored.
func ParseValues(values url.Values) (costmodel.PlanInputs, error) {
	p := costmodel.DefaultPlan()

	var err error
	if p.ProductionPeriodMonths, err = parseInt(values, KeyProductionPeriodMonths, p.ProductionPeriodMonths); err != nil {
		return p, err
	}
	var sales int
	if sales, err = parseInt(values, KeyTargetGLABSales, int(p.TargetGLABSales)); err != nil {
		return p, err
	}
	p.TargetGLABSales = int64(sales)
	if p.SetPrice, err = parseFloat(values, KeySetPrice, p.SetPrice); err != nil {
		return p, err
	}
	if p.OpticalBlockPrice, err = parseFloat(values, KeyOpticalBlockPrice, p.OpticalBlockPrice); err != nil {
		return p, err
	}
	if p.OpticalQuartzPrice, err = parseFloat(values, KeyOpticalQuartzPrice, p.OpticalQuartzPrice); err != nil {
		return p, err
	}
	if p.OtherPartsPrice, err = parseFloat(values, KeyOtherPartsPrice, p.OtherPartsPrice); err != nil {
		return p, err
	}
	if p.RequiredWorkers, err = parseInt(values, KeyRequiredWorkers, p.RequiredWorkers); err != nil {
		return p, err
	}
	if p.AnnualSalary, err = parseFloat(values, KeyAnnualSalary, p.AnnualSalary); err != nil {
		return p, err
	}
	if p.InitialSetupCost, err = parseFloat(values, KeyInitialSetupCost, p.InitialSetupCost); err != nil {
		return p, err
	}
	if p.DepreciationPeriodYears, err = parseInt(values, KeyDepreciationPeriodYears, p.DepreciationPeriodYears); err != nil {
		return p, err
	}

	return p, validation.ValidatePlan(p)
}

func rawValue(values url.Values, key string) string {
	return strings.ReplaceAll(strings.TrimSpace(values.Get(key)), ",", "")
}

func parseInt(values url.Values, key string, fallback int) (int, error) {
	raw := rawValue(values, key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &costmodel.InvalidInputError{Field: key, Value: raw, Reason: "must be a whole number"}
	}
	return v, nil
}

func parseFloat(values url.Values, key string, fallback float64) (float64, error) {
	raw := rawValue(values, key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &costmodel.InvalidInputError{Field: key, Value: raw, Reason: fmt.Sprintf("must be numeric: %v", err)}
	}
	return v, nil
}
