package testutil

import (
	"testing"

	"github.com/8wontae4/cost-calculation/internal/costmodel"
	"github.com/8wontae4/cost-calculation/internal/estimate"
	"github.com/8wontae4/cost-calculation/pkg/optimization"
)

func TestFindEstimate(t *testing.T) {
	results := []estimate.Estimate{
		{Name: "Scenario A", Result: costmodel.Result{AnnualRevenue: 1000}},
		{Name: "Scenario B", Result: costmodel.Result{AnnualRevenue: 2000}},
		{Name: "Another Scenario", Result: costmodel.Result{AnnualRevenue: 3000}},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
		expected    int64
	}{
		{name: "Find existing scenario A", searchName: "Scenario A", expectFound: true, expected: 1000},
		{name: "Find existing scenario B", searchName: "Scenario B", expectFound: true, expected: 2000},
		{name: "Find scenario with longer name", searchName: "Another Scenario", expectFound: true, expected: 3000},
		{name: "Search for non-existent scenario", searchName: "Non-existent"},
		{name: "Names are case sensitive", searchName: "scenario a"},
		{name: "Empty name", searchName: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := FindEstimate(results, tt.searchName)
			if !tt.expectFound {
				if found != nil {
					t.Errorf("expected nil, got %+v", found)
				}
				return
			}
			if found == nil {
				t.Fatalf("expected to find %s", tt.searchName)
			}
			if found.Result.AnnualRevenue != tt.expected {
				t.Errorf("AnnualRevenue = %d, expected %d", found.Result.AnnualRevenue, tt.expected)
			}
		})
	}
}

func TestFindEstimateEmptyResults(t *testing.T) {
	if FindEstimate(nil, "base") != nil {
		t.Errorf("expected nil for nil results")
	}
	if FindEstimate([]estimate.Estimate{}, "base") != nil {
		t.Errorf("expected nil for empty results")
	}
}

func TestFindEstimateReturnsPointer(t *testing.T) {
	results := []estimate.Estimate{{Name: "base"}}

	found := FindEstimate(results, "base")
	if found == nil {
		t.Fatal("expected to find base")
	}
	found.Warnings = append(found.Warnings, "changed")
	if len(results[0].Warnings) != 1 {
		t.Errorf("expected the pointer to reference the slice element")
	}
}

func TestFindEstimateWithDuplicateNames(t *testing.T) {
	results := []estimate.Estimate{
		{Name: "dup", Result: costmodel.Result{AnnualProfit: 1}},
		{Name: "dup", Result: costmodel.Result{AnnualProfit: 2}},
	}
	if found := FindEstimate(results, "dup"); found == nil || found.Result.AnnualProfit != 1 {
		t.Errorf("expected the first match, got %+v", found)
	}
}

func TestFindBreakEven(t *testing.T) {
	summaries := []optimization.Summary{
		{Field: "setPrice", Value: 0.25},
		{Field: "targetGLABSales", Value: 79},
	}

	if found := FindBreakEven(summaries, "targetGLABSales"); found == nil || found.Value != 79 {
		t.Errorf("unexpected summary %+v", found)
	}
	if FindBreakEven(summaries, "annualSalary") != nil {
		t.Errorf("expected nil for a field that was not searched")
	}
	if FindBreakEven(nil, "setPrice") != nil {
		t.Errorf("expected nil for no summaries")
	}
}
