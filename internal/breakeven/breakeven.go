// Package breakeven searches for the set price and sales volume at which a
// production plan stops losing money.
package breakeven

import (
	"fmt"

	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/8wontae4/cost-calculation/pkg/format"
	"github.com/8wontae4/cost-calculation/pkg/mathutil"
	"github.com/8wontae4/cost-calculation/pkg/optimization"
	"go.uber.org/zap"
)

// Searched fields.
const (
	FieldSetPrice        = "setPrice"
	FieldTargetGLABSales = "targetGLABSales"
)

// Solver runs bisection searches over a single plan field. Annual profit is
// non-decreasing in set price, and in sales volume whenever a module sells
// for more than it costs to make, so the first profitable value is well defined.
type Solver struct {
	logger      *zap.Logger
	maxSetPrice float64
	maxSales    int64
}

// NewSolver constructs a Solver with the default search bounds.
func NewSolver(logger *zap.Logger) *Solver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{
		logger:      logger,
		maxSetPrice: constants.DefaultBreakEvenMaxSetPrice,
		maxSales:    constants.DefaultBreakEvenMaxSales,
	}
}

// WithBounds returns a copy of the solver searching up to the given limits.
func (s *Solver) WithBounds(maxSetPrice float64, maxSales int64) *Solver {
	c := *s
	if maxSetPrice > 0 {
		c.maxSetPrice = maxSetPrice
	}
	if maxSales > 0 {
		c.maxSales = maxSales
	}
	return &c
}

type evaluation struct {
	profit int64
}

func (e evaluation) feasible() bool {
	return e.profit >= 0
}

func evaluate(plan costmodel.PlanInputs) (evaluation, error) {
	r, err := costmodel.Calculate(costmodel.DerivePlan(plan))
	if err != nil {
		return evaluation{}, err
	}
	return evaluation{profit: r.AnnualProfit}, nil
}

// Run executes every search for a named plan.
func (s *Solver) Run(scenario string, plan costmodel.PlanInputs) ([]optimization.Summary, error) {
	price, err := s.SetPrice(plan)
	if err != nil {
		return nil, fmt.Errorf("break-even set price for %s: %w", scenario, err)
	}
	sales, err := s.SalesVolume(plan)
	if err != nil {
		return nil, fmt.Errorf("break-even sales volume for %s: %w", scenario, err)
	}

	summaries := []optimization.Summary{price, sales}
	for i := range summaries {
		summaries[i].Scenario = scenario
		s.logger.Info("break-even search finished",
			zap.String("op", "breakeven.Run"),
			zap.String("scenario", scenario),
			zap.String("field", summaries[i].Field),
			zap.Float64("original", summaries[i].Original),
			zap.Float64("value", summaries[i].Value),
			zap.Int64("annualProfit", summaries[i].AnnualProfit),
			zap.Int("iterations", summaries[i].Iterations),
			zap.Bool("converged", summaries[i].Converged),
		)
	}
	return summaries, nil
}

// SetPrice finds the lowest 12-module set price (천만원) with non-negative
// annual profit, to within constants.BreakEvenPriceTolerance.
func (s *Solver) SetPrice(plan costmodel.PlanInputs) (optimization.Summary, error) {
	summary := optimization.Summary{
		Field:           FieldSetPrice,
		Original:        plan.SetPrice,
		OriginalDisplay: format.SetPrice(plan.SetPrice),
	}

	at := func(price float64) (evaluation, error) {
		p := plan
		p.SetPrice = price
		return evaluate(p)
	}

	lo, hi := 0.0, s.maxSetPrice
	upper, err := at(hi)
	if err != nil {
		return summary, err
	}
	if !upper.feasible() {
		return s.unreachable(summary, hi, upper, fmt.Sprintf("no set price up to %s breaks even", priceDisplay(hi))), nil
	}
	lower, err := at(lo)
	if err != nil {
		return summary, err
	}
	if lower.feasible() {
		return converged(summary, lo, priceDisplay(lo), lower, 0), nil
	}

	best := upper
	iterations := 0
	for !mathutil.WithinTolerance(hi, lo, constants.BreakEvenPriceTolerance) && iterations < constants.BreakEvenMaxIterations {
		iterations++
		mid := (lo + hi) / 2
		eval, err := at(mid)
		if err != nil {
			return summary, err
		}
		if eval.feasible() {
			hi, best = mid, eval
		} else {
			lo = mid
		}
	}

	s.logger.Debug("set price search converged",
		zap.String("op", "breakeven.SetPrice"),
		zap.Float64("lower", lo),
		zap.Float64("upper", hi),
		zap.Int("iterations", iterations),
	)
	return converged(summary, hi, priceDisplay(hi), best, iterations), nil
}

// SalesVolume finds the lowest GLAB sales target with non-negative annual
// profit. Monthly capacity follows the target, as it does for entered plans.
func (s *Solver) SalesVolume(plan costmodel.PlanInputs) (optimization.Summary, error) {
	summary := optimization.Summary{
		Field:           FieldTargetGLABSales,
		Original:        float64(plan.TargetGLABSales),
		OriginalDisplay: format.Count(plan.TargetGLABSales, "대"),
	}

	in := costmodel.DerivePlan(plan)
	blockCost := in.OpticalBlockPrice + in.OpticalQuartzPrice*constants.QuartzPerBlock + in.OtherPartsPrice
	if in.OpticalModulePriceWon <= blockCost {
		note := fmt.Sprintf("each module sells for %s but costs %s in material, so more volume only adds loss",
			format.Won(int64(in.OpticalModulePriceWon)), format.Won(int64(blockCost)))
		return s.unreachable(summary, summary.Original, evaluation{}, note), nil
	}

	at := func(sales int64) (evaluation, error) {
		p := plan
		p.TargetGLABSales = sales
		return evaluate(p)
	}

	lo, hi := int64(constants.MinTargetGLABSales), s.maxSales
	upper, err := at(hi)
	if err != nil {
		return summary, err
	}
	if !upper.feasible() {
		return s.unreachable(summary, float64(hi), upper, fmt.Sprintf("no sales target up to %s breaks even", format.Count(hi, "대"))), nil
	}
	lower, err := at(lo)
	if err != nil {
		return summary, err
	}
	if lower.feasible() {
		return converged(summary, float64(lo), format.Count(lo, "대"), lower, 0), nil
	}

	// Invariant: lo loses money, hi does not.
	best := upper
	iterations := 0
	for hi-lo > 1 && iterations < constants.BreakEvenMaxIterations {
		iterations++
		mid := lo + (hi-lo)/2
		eval, err := at(mid)
		if err != nil {
			return summary, err
		}
		if eval.feasible() {
			hi, best = mid, eval
		} else {
			lo = mid
		}
	}

	return converged(summary, float64(hi), format.Count(hi, "대"), best, iterations), nil
}

func (s *Solver) unreachable(summary optimization.Summary, value float64, eval evaluation, note string) optimization.Summary {
	summary.Value = value
	summary.ValueDisplay = summary.OriginalDisplay
	summary.AnnualProfit = eval.profit
	summary.Converged = false
	summary.Notes = append(summary.Notes, note)
	s.logger.Warn("break-even search could not reach a profit",
		zap.String("op", "breakeven.unreachable"),
		zap.String("field", summary.Field),
		zap.String("note", note),
	)
	return summary
}

func converged(summary optimization.Summary, value float64, display string, eval evaluation, iterations int) optimization.Summary {
	summary.Value = value
	summary.ValueDisplay = display
	summary.AnnualProfit = eval.profit
	summary.Iterations = iterations
	summary.Converged = true
	return summary
}

func priceDisplay(v float64) string {
	return fmt.Sprintf("%.4f천만원", v)
}
