package costmodel

import (
	"github.com/8wontae4/cost-calculation/pkg/constants"
	"github.com/8wontae4/cost-calculation/pkg/mathutil"
)

// Chart labels.
const (
	LabelMaterial     = "재료비"
	LabelLabor        = "인건비"
	LabelDepreciation = "감가상각비"

	LabelOpticalBlock  = "광블럭"
	LabelOpticalQuartz = "광석영 (16개/블럭)"
	LabelOtherParts    = "기타 부품"
)

// CostShare is one slice or bar of a cost chart.
type CostShare struct {
	Label   string  `json:"label"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// CostBreakdown holds the two chart datasets: how total cost splits between
// material, labor and depreciation, and how material cost splits between
// component types.
type CostBreakdown struct {
	Composition []CostShare `json:"composition"`
	Material    []CostShare `json:"material"`
}

// Breakdown builds the chart datasets for a calculated result.
func Breakdown(in Inputs, r Result) CostBreakdown {
	modules := float64(r.TotalOpticalModules)

	return CostBreakdown{
		Composition: shares(
			[]string{LabelMaterial, LabelLabor, LabelDepreciation},
			[]float64{float64(r.TotalMaterialCost), float64(r.TotalLaborCost), float64(r.DepreciationCost)},
		),
		Material: shares(
			[]string{LabelOpticalBlock, LabelOpticalQuartz, LabelOtherParts},
			[]float64{
				in.OpticalBlockPrice * modules,
				in.OpticalQuartzPrice * constants.QuartzPerBlock * modules,
				in.OtherPartsPrice * modules,
			},
		),
	}
}

func shares(labels []string, amounts []float64) []CostShare {
	percents := mathutil.Share(amounts...)
	out := make([]CostShare, len(labels))
	for i := range labels {
		out[i] = CostShare{Label: labels[i], Amount: amounts[i], Percent: percents[i]}
	}
	return out
}
