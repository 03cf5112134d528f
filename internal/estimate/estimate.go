// Package estimate defines the data structures related to a cost estimate and
// includes functions for computing estimates for every configured scenario.
package estimate

import (
	"fmt"
	"time"

	"github.com/8wontae4/cost-calculation/internal/breakeven"
	"github.com/8wontae4/cost-calculation/internal/config"
	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/pkg/optimization"
	"github.com/8wontae4/cost-calculation/pkg/validation"
	"go.uber.org/zap"
)

// Estimate holds all information related to one evaluated plan.
type Estimate struct {
	Name      string                  `json:"name"`
	Plan      costmodel.PlanInputs    `json:"plan"`
	Inputs    costmodel.Inputs        `json:"inputs"`
	Result    costmodel.Result        `json:"result"`
	Breakdown costmodel.CostBreakdown `json:"breakdown"`
	Warnings  []string                `json:"warnings,omitempty"`
	BreakEven []optimization.Summary  `json:"breakEven,omitempty"`
}

// Options controls optional work done per estimate.
type Options struct {
	BreakEven bool
}

// Compute validates a single plan and evaluates it.
func Compute(logger *zap.Logger, name string, plan costmodel.PlanInputs, opts Options) (Estimate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := validation.ValidatePlan(plan); err != nil {
		return Estimate{}, err
	}

	in := costmodel.DerivePlan(plan)
	result, err := costmodel.Calculate(in)
	if err != nil {
		return Estimate{}, err
	}

	est := Estimate{
		Name:      name,
		Plan:      plan,
		Inputs:    in,
		Result:    result,
		Breakdown: costmodel.Breakdown(in, result),
		Warnings:  validation.PlanWarnings(name, result),
	}

	if opts.BreakEven {
		est.BreakEven, err = breakeven.NewSolver(logger).Run(name, plan)
		if err != nil {
			return Estimate{}, err
		}
	}

	logger.Debug(fmt.Sprintf("computed estimate for %s", name),
		zap.String("op", "estimate.Compute"),
		zap.Int64("annualProfit", result.AnnualProfit),
		zap.Bool("productionFeasible", result.ProductionFeasible),
	)
	return est, nil
}

// GetEstimates processes the base plan and every active scenario, base first.
func GetEstimates(logger *zap.Logger, conf config.Configuration, opts Options) ([]Estimate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "estimate.GetEstimates"),
			)
		}
	}

	start := time.Now()
	var results []Estimate
	for _, np := range conf.ScenarioPlans() {
		est, err := Compute(logger, np.Name, np.Plan, opts)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", np.Name, err)
		}
		results = append(results, est)
	}

	logger.Debug("estimates computed",
		zap.String("op", "estimate.GetEstimates"),
		zap.Int("count", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}
