// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single break-even search.
type Summary struct {
	Scenario        string   `json:"scenario"`
	Field           string   `json:"field"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	AnnualProfit    int64    `json:"annualProfit"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}

// Headroom is how far the current value sits above the break-even value.
// Negative headroom means the plan currently runs at a loss.
func (s Summary) Headroom() float64 {
	return s.Original - s.Value
}
