package costmodel

import "github.com/8wontae4/cost-calculation/pkg/constants"

// PlanInputs are the values a user enters. The monthly capacity and per-module
// price are not entered directly; DerivePlan computes them.
type PlanInputs struct {
	ProductionPeriodMonths  int     `json:"productionPeriodMonths" yaml:"productionPeriodMonths" mapstructure:"productionPeriodMonths"`
	TargetGLABSales         int64   `json:"targetGLABSales" yaml:"targetGLABSales" mapstructure:"targetGLABSales"`
	SetPrice                float64 `json:"setPrice" yaml:"setPrice" mapstructure:"setPrice"` // 천만원 per 12-module set
	OpticalBlockPrice       float64 `json:"opticalBlockPrice" yaml:"opticalBlockPrice" mapstructure:"opticalBlockPrice"`
	OpticalQuartzPrice      float64 `json:"opticalQuartzPrice" yaml:"opticalQuartzPrice" mapstructure:"opticalQuartzPrice"`
	OtherPartsPrice         float64 `json:"otherPartsPrice" yaml:"otherPartsPrice" mapstructure:"otherPartsPrice"`
	RequiredWorkers         int     `json:"requiredWorkers" yaml:"requiredWorkers" mapstructure:"requiredWorkers"`
	AnnualSalary            float64 `json:"annualSalary" yaml:"annualSalary" mapstructure:"annualSalary"`
	InitialSetupCost        float64 `json:"initialSetupCost" yaml:"initialSetupCost" mapstructure:"initialSetupCost"`
	DepreciationPeriodYears int     `json:"depreciationPeriodYears" yaml:"depreciationPeriodYears" mapstructure:"depreciationPeriodYears"`
}

// DefaultPlan returns the plan the calculator opens with.
func DefaultPlan() PlanInputs {
	return PlanInputs{
		ProductionPeriodMonths:  12,
		TargetGLABSales:         600,
		SetPrice:                5.0,
		OpticalBlockPrice:       140000,
		OpticalQuartzPrice:      3750,
		OtherPartsPrice:         1000,
		RequiredWorkers:         1,
		AnnualSalary:            40000000,
		InitialSetupCost:        30000000,
		DepreciationPeriodYears: 5,
	}
}

// MonthlyCapacity spreads the sales target evenly over the production period.
func MonthlyCapacity(targetSales int64, months int) float64 {
	if months <= 0 {
		return 0
	}
	return float64(targetSales) / float64(months)
}

// ModulePriceFromSetPrice converts a 12-module set price in 천만원 into the
// won price of a single module.
func ModulePriceFromSetPrice(setPrice float64) float64 {
	return setPrice * constants.SetPriceUnitWon / constants.ModulesPerGLAB
}

// DerivePlan turns entered plan values into model inputs.
func DerivePlan(p PlanInputs) Inputs {
	return Inputs{
		ProductionPeriodMonths:  p.ProductionPeriodMonths,
		TargetGLABSales:         p.TargetGLABSales,
		MonthlyGLABCapacity:     MonthlyCapacity(p.TargetGLABSales, p.ProductionPeriodMonths),
		OpticalBlockPrice:       p.OpticalBlockPrice,
		OpticalQuartzPrice:      p.OpticalQuartzPrice,
		OtherPartsPrice:         p.OtherPartsPrice,
		RequiredWorkers:         p.RequiredWorkers,
		AnnualSalary:            p.AnnualSalary,
		InitialSetupCost:        p.InitialSetupCost,
		DepreciationPeriodYears: p.DepreciationPeriodYears,
		OpticalModulePriceWon:   ModulePriceFromSetPrice(p.SetPrice),
	}
}

// PlanOverrides changes selected fields of a plan; nil fields are left alone.
type PlanOverrides struct {
	ProductionPeriodMonths  *int     `json:"productionPeriodMonths,omitempty" yaml:"productionPeriodMonths,omitempty" mapstructure:"productionPeriodMonths"`
	TargetGLABSales         *int64   `json:"targetGLABSales,omitempty" yaml:"targetGLABSales,omitempty" mapstructure:"targetGLABSales"`
	SetPrice                *float64 `json:"setPrice,omitempty" yaml:"setPrice,omitempty" mapstructure:"setPrice"`
	OpticalBlockPrice       *float64 `json:"opticalBlockPrice,omitempty" yaml:"opticalBlockPrice,omitempty" mapstructure:"opticalBlockPrice"`
	OpticalQuartzPrice      *float64 `json:"opticalQuartzPrice,omitempty" yaml:"opticalQuartzPrice,omitempty" mapstructure:"opticalQuartzPrice"`
	OtherPartsPrice         *float64 `json:"otherPartsPrice,omitempty" yaml:"otherPartsPrice,omitempty" mapstructure:"otherPartsPrice"`
	RequiredWorkers         *int     `json:"requiredWorkers,omitempty" yaml:"requiredWorkers,omitempty" mapstructure:"requiredWorkers"`
	AnnualSalary            *float64 `json:"annualSalary,omitempty" yaml:"annualSalary,omitempty" mapstructure:"annualSalary"`
	InitialSetupCost        *float64 `json:"initialSetupCost,omitempty" yaml:"initialSetupCost,omitempty" mapstructure:"initialSetupCost"`
	DepreciationPeriodYears *int     `json:"depreciationPeriodYears,omitempty" yaml:"depreciationPeriodYears,omitempty" mapstructure:"depreciationPeriodYears"`
}

// Apply returns a copy of p with the overridden fields replaced.
func (o PlanOverrides) Apply(p PlanInputs) PlanInputs {
	if o.ProductionPeriodMonths != nil {
		p.ProductionPeriodMonths = *o.ProductionPeriodMonths
	}
	if o.TargetGLABSales != nil {
		p.TargetGLABSales = *o.TargetGLABSales
	}
	if o.SetPrice != nil {
		p.SetPrice = *o.SetPrice
	}
	if o.OpticalBlockPrice != nil {
		p.OpticalBlockPrice = *o.OpticalBlockPrice
	}
	if o.OpticalQuartzPrice != nil {
		p.OpticalQuartzPrice = *o.OpticalQuartzPrice
	}
	if o.OtherPartsPrice != nil {
		p.OtherPartsPrice = *o.OtherPartsPrice
	}
	if o.RequiredWorkers != nil {
		p.RequiredWorkers = *o.RequiredWorkers
	}
	if o.AnnualSalary != nil {
		p.AnnualSalary = *o.AnnualSalary
	}
	if o.InitialSetupCost != nil {
		p.InitialSetupCost = *o.InitialSetupCost
	}
	if o.DepreciationPeriodYears != nil {
		p.DepreciationPeriodYears = *o.DepreciationPeriodYears
	}
	return p
}
