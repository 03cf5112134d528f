package breakeven

import (
	"testing"

	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"go.uber.org/zap"
)

func profitAt(t *testing.T, p costmodel.PlanInputs) int64 {
	t.Helper()
	r, err := costmodel.Calculate(costmodel.DerivePlan(p))
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	return r.AnnualProfit
}

func TestSetPrice(t *testing.T) {
	solver := NewSolver(zap.NewNop())
	plan := costmodel.DefaultPlan()

	summary, err := solver.SetPrice(plan)
	if err != nil {
		t.Fatalf("SetPrice() error = %v", err)
	}
	if !summary.Converged {
		t.Fatalf("expected convergence, notes: %v", summary.Notes)
	}

	// Annual cost is 1,493,200,000 won against 6e9 won of revenue per 천만원.
	if summary.Value < 0.2488 || summary.Value > 0.2490 {
		t.Errorf("Value = %v, expected about 0.24887", summary.Value)
	}

	at := plan
	at.SetPrice = summary.Value
	if p := profitAt(t, at); p < 0 {
		t.Errorf("profit at break-even price = %d, expected >= 0", p)
	}
	below := plan
	below.SetPrice = summary.Value - constants.BreakEvenPriceTolerance
	if p := profitAt(t, below); p >= 0 {
		t.Errorf("profit just below break-even price = %d, expected < 0", p)
	}

	if summary.Original != plan.SetPrice || summary.Headroom() <= 0 {
		t.Errorf("default plan should sit above break-even: %+v", summary)
	}
	if summary.Iterations == 0 || summary.Iterations > constants.BreakEvenMaxIterations {
		t.Errorf("Iterations = %d", summary.Iterations)
	}
}

func TestSetPriceUnreachable(t *testing.T) {
	solver := NewSolver(nil).WithBounds(0.1, 0)

	summary, err := solver.SetPrice(costmodel.DefaultPlan())
	if err != nil {
		t.Fatalf("SetPrice() error = %v", err)
	}
	if summary.Converged {
		t.Errorf("expected no convergence below 0.1천만원")
	}
	if len(summary.Notes) == 0 {
		t.Errorf("expected a note explaining the failure")
	}
	if summary.AnnualProfit >= 0 {
		t.Errorf("AnnualProfit = %d, expected a loss at the upper bound", summary.AnnualProfit)
	}
}

func TestSalesVolume(t *testing.T) {
	tests := []struct {
		name      string
		setPrice  float64
		expected  float64
		converged bool
	}{
		{
			// 49,000 won margin per module against 46,000,000 won of fixed cost
			name:      "Thin margin",
			setPrice:  0.3,
			expected:  79,
			converged: true,
		},
		{
			name:      "Any volume profitable",
			setPrice:  5.0,
			expected:  1,
			converged: true,
		},
		{
			name:      "Module sells below material cost",
			setPrice:  0.2,
			expected:  600,
			converged: false,
		},
	}

	solver := NewSolver(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := costmodel.DefaultPlan()
			plan.SetPrice = tt.setPrice

			summary, err := solver.SalesVolume(plan)
			if err != nil {
				t.Fatalf("SalesVolume() error = %v", err)
			}
			if summary.Converged != tt.converged {
				t.Fatalf("Converged = %v, expected %v (notes %v)", summary.Converged, tt.converged, summary.Notes)
			}
			if summary.Value != tt.expected {
				t.Errorf("Value = %v, expected %v", summary.Value, tt.expected)
			}
			if !tt.converged {
				return
			}

			plan.TargetGLABSales = int64(summary.Value)
			if p := profitAt(t, plan); p < 0 {
				t.Errorf("profit at break-even volume = %d, expected >= 0", p)
			}
			if summary.Value > 1 {
				plan.TargetGLABSales--
				if p := profitAt(t, plan); p >= 0 {
					t.Errorf("profit one unit below break-even volume = %d, expected < 0", p)
				}
			}
		})
	}
}

func TestRun(t *testing.T) {
	summaries, err := NewSolver(zap.NewNop()).Run("base", costmodel.DefaultPlan())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Field != FieldSetPrice || summaries[1].Field != FieldTargetGLABSales {
		t.Errorf("unexpected field order: %s, %s", summaries[0].Field, summaries[1].Field)
	}
	for _, s := range summaries {
		if s.Scenario != "base" {
			t.Errorf("Scenario = %q, expected base", s.Scenario)
		}
		if s.ValueDisplay == "" || s.OriginalDisplay == "" {
			t.Errorf("missing display strings: %+v", s)
		}
	}

	invalid := costmodel.DefaultPlan()
	invalid.DepreciationPeriodYears = 0
	if _, err := NewSolver(nil).Run("broken", invalid); err == nil {
		t.Errorf("expected an error for a plan the model rejects")
	}
}
