// Package costmodel computes optical module production cost, revenue and
// profit for a GLAB production plan.
package costmodel

import (
	"math"

	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/8wontae4/cost-calculation/pkg/mathutil"
)

// Inputs holds every value the cost model needs for one calculation.
// MonthlyGLABCapacity and OpticalModulePriceWon are derived from a PlanInputs
// by DerivePlan.
type Inputs struct {
	ProductionPeriodMonths  int     `json:"production_period_months"`
	TargetGLABSales         int64   `json:"target_glab_sales"`
	MonthlyGLABCapacity     float64 `json:"monthly_glab_capacity"`
	OpticalBlockPrice       float64 `json:"optical_block_price"`
	OpticalQuartzPrice      float64 `json:"optical_quartz_price"`
	OtherPartsPrice         float64 `json:"other_parts_price"`
	RequiredWorkers         int     `json:"required_workers"`
	AnnualSalary            float64 `json:"annual_salary"`
	InitialSetupCost        float64 `json:"initial_setup_cost"`
	DepreciationPeriodYears int     `json:"depreciation_period_years"`
	OpticalModulePriceWon   float64 `json:"optical_module_price_won"`
}

// Result holds the outputs of one calculation. Whole-number outputs are
// truncated toward zero from their real-valued computation.
type Result struct {
	AnnualGLABCapacity            float64 `json:"annual_glab_capacity"`
	TotalOpticalModules           int64   `json:"total_optical_modules"`
	MonthlyOpticalModules         int64   `json:"monthly_optical_modules"`
	DailyOpticalModules           int64   `json:"daily_optical_modules"`
	ProductionFeasible            bool    `json:"production_feasible"`
	CapacityShortage              int64   `json:"capacity_shortage"`
	OpticalBlockManufacturingCost int64   `json:"optical_block_manufacturing_cost"`
	TotalMaterialCost             int64   `json:"total_material_cost"`
	TotalLaborCost                int64   `json:"total_labor_cost"`
	TotalProductionCost           int64   `json:"total_production_cost"`
	AnnualDepreciation            int64   `json:"annual_depreciation"`
	DepreciationCost              int64   `json:"depreciation_cost"`
	AnnualRevenue                 int64   `json:"annual_revenue"`
	AnnualProductionCost          int64   `json:"annual_production_cost"`
	AnnualProfit                  int64   `json:"annual_profit"`
	ProfitMargin                  float64 `json:"profit_margin"`
}

// Calculate maps a set of inputs to the production, cost and profit outputs.
// Truncation happens only where a named output is produced; intermediate
// values keep full precision. A named output that does not fit in an int64 is
// reported as an *InvalidInputError naming that output.
func Calculate(in Inputs) (Result, error) {
	if err := in.checkDenominators(); err != nil {
		return Result{}, err
	}

	months := float64(in.ProductionPeriodMonths)
	target := float64(in.TargetGLABSales)
	periodFraction := months / constants.MonthsPerYear
	annualization := constants.MonthsPerYear / months

	var r Result
	var t truncator

	// Volume
	r.AnnualGLABCapacity = in.MonthlyGLABCapacity * constants.MonthsPerYear
	totalModules := target * constants.ModulesPerGLAB
	r.TotalOpticalModules = t.trunc("total_optical_modules", totalModules)
	monthlyModules := float64(r.TotalOpticalModules) / months
	r.MonthlyOpticalModules = t.trunc("monthly_optical_modules", monthlyModules)
	r.DailyOpticalModules = t.trunc("daily_optical_modules", monthlyModules/constants.DaysPerMonth)

	// Feasibility
	requiredPerMonth := target / months
	r.ProductionFeasible = requiredPerMonth <= in.MonthlyGLABCapacity
	r.CapacityShortage = t.trunc("capacity_shortage", mathutil.Max(0, target-r.AnnualGLABCapacity*months/constants.MonthsPerYear))

	// Cost
	quartzCostPerBlock := in.OpticalQuartzPrice * constants.QuartzPerBlock
	blockCost := in.OpticalBlockPrice + quartzCostPerBlock + in.OtherPartsPrice
	r.OpticalBlockManufacturingCost = t.trunc("optical_block_manufacturing_cost", blockCost)

	materialCost := blockCost * float64(r.TotalOpticalModules)
	r.TotalMaterialCost = t.trunc("total_material_cost", materialCost)
	laborCost := in.AnnualSalary * float64(in.RequiredWorkers) * periodFraction
	r.TotalLaborCost = t.trunc("total_labor_cost", laborCost)

	annualDepreciation := in.InitialSetupCost / float64(in.DepreciationPeriodYears)
	r.AnnualDepreciation = t.trunc("annual_depreciation", annualDepreciation)
	r.DepreciationCost = t.trunc("depreciation_cost", annualDepreciation*periodFraction)

	r.TotalProductionCost = t.sum("total_production_cost", r.TotalMaterialCost, r.TotalLaborCost, r.DepreciationCost)

	// Revenue and profit, annualized
	annualModules := float64(r.TotalOpticalModules) * annualization
	annualRevenue := annualModules * in.OpticalModulePriceWon
	r.AnnualRevenue = t.trunc("annual_revenue", annualRevenue)
	annualProductionCost := (materialCost+laborCost)*annualization + annualDepreciation
	r.AnnualProductionCost = t.trunc("annual_production_cost", annualProductionCost)
	annualProfit := annualRevenue - annualProductionCost
	r.AnnualProfit = t.trunc("annual_profit", annualProfit)
	if t.err != nil {
		return Result{}, t.err
	}
	if r.AnnualRevenue > 0 {
		r.ProfitMargin = mathutil.CalculatePercentage(annualProfit, annualRevenue)
	}

	return r, nil
}

func (in Inputs) checkDenominators() error {
	switch {
	case in.ProductionPeriodMonths <= 0:
		return &InvalidInputError{Field: "production_period_months", Value: in.ProductionPeriodMonths, Reason: "must be at least 1"}
	case in.DepreciationPeriodYears <= 0:
		return &InvalidInputError{Field: "depreciation_period_years", Value: in.DepreciationPeriodYears, Reason: "must be at least 1"}
	case in.MonthlyGLABCapacity <= 0:
		return &InvalidInputError{Field: "monthly_glab_capacity", Value: in.MonthlyGLABCapacity, Reason: "must be positive"}
	}
	return nil
}

// maxWhole is 2^63, the first float64 that no longer fits in an int64.
const maxWhole = float64(math.MaxInt64)

// truncator truncates named outputs and remembers the first one that does not
// fit in an int64, so a plan too large to report fails instead of wrapping.
type truncator struct {
	err error
}

func (t *truncator) trunc(output string, v float64) int64 {
	if t.err != nil {
		return 0
	}
	if math.IsNaN(v) || v >= maxWhole || v < -maxWhole {
		t.err = overflow(output, v)
		return 0
	}
	return mathutil.Trunc(v)
}

func (t *truncator) sum(output string, values ...int64) int64 {
	var total int64
	for _, v := range values {
		if (v > 0 && total > math.MaxInt64-v) || (v < 0 && total < math.MinInt64-v) {
			if t.err == nil {
				t.err = overflow(output, float64(total)+float64(v))
			}
			return 0
		}
		total += v
	}
	return total
}

func overflow(output string, v float64) error {
	return &InvalidInputError{Field: output, Value: v, Reason: "inputs are too large for a whole-number result"}
}
