package validation

import (
	"fmt"
	"math"

	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"go.uber.org/multierr"
)

// ValidatePlan checks every entered value against its accepted range. All
// violations are reported together; each one is a *costmodel.InvalidInputError.
func ValidatePlan(p costmodel.PlanInputs) error {
	var err error

	err = multierr.Append(err, intRange("productionPeriodMonths", p.ProductionPeriodMonths,
		constants.MinProductionPeriodMonths, constants.MaxProductionPeriodMonths))
	if p.TargetGLABSales < constants.MinTargetGLABSales || p.TargetGLABSales > constants.MaxTargetGLABSales {
		err = multierr.Append(err, invalid("targetGLABSales", p.TargetGLABSales,
			fmt.Sprintf("must be between %d and %d", constants.MinTargetGLABSales, constants.MaxTargetGLABSales)))
	}
	err = multierr.Append(err, floatRange("setPrice", p.SetPrice, constants.MinSetPrice, constants.MaxSetPrice))
	err = multierr.Append(err, floatRange("opticalBlockPrice", p.OpticalBlockPrice, 0, constants.MaxPriceWon))
	err = multierr.Append(err, floatRange("opticalQuartzPrice", p.OpticalQuartzPrice, 0, constants.MaxPriceWon))
	err = multierr.Append(err, floatRange("otherPartsPrice", p.OtherPartsPrice, 0, constants.MaxPriceWon))
	err = multierr.Append(err, intRange("requiredWorkers", p.RequiredWorkers,
		constants.MinRequiredWorkers, constants.MaxRequiredWorkers))
	err = multierr.Append(err, floatRange("annualSalary", p.AnnualSalary, 0, constants.MaxPriceWon))
	err = multierr.Append(err, floatRange("initialSetupCost", p.InitialSetupCost, 0, constants.MaxPriceWon))
	err = multierr.Append(err, intRange("depreciationPeriodYears", p.DepreciationPeriodYears,
		constants.MinDepreciationPeriodYears, constants.MaxDepreciationPeriodYears))

	return err
}

// FieldErrors splits an error returned by ValidatePlan into its parts.
func FieldErrors(err error) []error {
	return multierr.Errors(err)
}

// PlanWarnings flags results that are valid but likely need attention.
func PlanWarnings(scenario string, r costmodel.Result) []string {
	var warnings []string

	if !r.ProductionFeasible {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' cannot meet its sales target: short by %d GLAB units",
			scenario, r.CapacityShortage))
	}
	if r.AnnualRevenue == 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has no revenue; profit margin is reported as 0", scenario))
	} else if r.AnnualProfit < 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' runs at a loss of %d won per year (margin %.1f%%)",
			scenario, -r.AnnualProfit, r.ProfitMargin))
	}

	return warnings
}

func intRange(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return invalid(field, v, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
	return nil
}

func floatRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(field, v, "must be a finite number")
	}
	if v < lo || v > hi {
		return invalid(field, v, fmt.Sprintf("must be between %g and %g", lo, hi))
	}
	return nil
}

func invalid(field string, v interface{}, reason string) error {
	return &costmodel.InvalidInputError{Field: field, Value: v, Reason: reason}
}
