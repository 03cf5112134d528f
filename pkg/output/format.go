// Package output provides utilities for formatting and displaying estimate results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/8wontae4/cost-calculation/internal/estimate"
	"github.com/8wontae4/cost-calculation/internal/report"
	"golang.org/x/text/width"
)

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []estimate.Estimate) {
	for i, result := range results {
		rows := report.Rows(result.Plan, result.Inputs, result.Result)
		cols := 0
		for _, row := range rows {
			if n := displayWidth(row.Item); n > cols {
				cols = n
			}
		}

		fmt.Fprintf(w, "--- Results for scenario %s ---\n", result.Name)
		fmt.Fprintf(w, "%s | %s\n", pad(report.HeaderItem, cols), report.HeaderValue)
		fmt.Fprintf(w, "%s | %s\n", strings.Repeat("_", cols), strings.Repeat("_", 15))
		for _, row := range rows {
			fmt.Fprintf(w, "%s | %s\n", pad(row.Item, cols), row.Value)
		}
		fmt.Fprintf(w, "%s | %.1f%%\n", pad("이익률", cols), result.Result.ProfitMargin)

		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "WARNING: %s\n", warning)
		}
		for _, s := range result.BreakEven {
			if s.Converged {
				fmt.Fprintf(w, "Break-even %s: %s (current %s, headroom %s, %d iterations)\n",
					s.Field, s.ValueDisplay, s.OriginalDisplay, headroom(s.Headroom()), s.Iterations)
			} else {
				fmt.Fprintf(w, "Break-even %s: not reached (%s)\n", s.Field, strings.Join(s.Notes, "; "))
			}
		}
		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat outputs in comma-separated value format, one column per scenario.
func CsvFormat(w io.Writer, results []estimate.Estimate) error {
	if len(results) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	tables := make([][]report.Row, len(results))
	header := []string{report.HeaderItem}
	for i, result := range results {
		tables[i] = report.Rows(result.Plan, result.Inputs, result.Result)
		header = append(header, fmt.Sprintf("%s (%s)", report.HeaderValue, result.Name))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	// All results share the same row layout, so take the labels from the first
	for r, row := range tables[0] {
		record := []string{row.Item}
		for i := range tables {
			record = append(record, tables[i][r].Value)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs every estimate as an indented JSON array.
func JSONFormat(w io.Writer, results []estimate.Estimate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// displayWidth counts East Asian wide and fullwidth runes as two columns.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// headroom shows a signed difference to four decimal places at most.
func headroom(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v > 0 {
		return "+" + strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pad(s string, cols int) string {
	if n := displayWidth(s); n < cols {
		return s + strings.Repeat(" ", cols-n)
	}
	return s
}
