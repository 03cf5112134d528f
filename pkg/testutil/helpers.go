// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/8wontae4/cost-calculation/internal/estimate"
	"github.com/8wontae4/cost-calculation/pkg/optimization"
)

// FindEstimate finds a scenario by name in the results slice.
// Returns a pointer to the estimate if found, nil otherwise.
func FindEstimate(results []estimate.Estimate, name string) *estimate.Estimate {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// FindBreakEven returns the break-even summary for a field, or nil.
func FindBreakEven(summaries []optimization.Summary, field string) *optimization.Summary {
	for i := range summaries {
		if summaries[i].Field == field {
			return &summaries[i]
		}
	}
	return nil
}
