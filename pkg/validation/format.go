// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/8wontae4/cost-calculation/pkg/constants"
)

// Export formats accepted by ValidateExportFormat.
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
	ExportPDF  = "pdf"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateExportFormat checks if the export format is one of the supported file types.
func ValidateExportFormat(format string) error {
	switch format {
	case ExportCSV, ExportXLSX, ExportPDF:
		return nil
	}
	return fmt.Errorf("expected export format of %s, %s or %s, got %s", ExportCSV, ExportXLSX, ExportPDF, format)
}

// ExportFormatFromPath infers the export format from a file extension.
func ExportFormatFromPath(path string) (string, error) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := ValidateExportFormat(format); err != nil {
		return "", fmt.Errorf("unsupported export file %q: %w", path, err)
	}
	return format, nil
}
