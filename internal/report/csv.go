package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

const utf8BOM = "\ufeff"

// WriteCSV writes the results table as UTF-8 CSV with a byte-order mark so
// spreadsheet applications detect the encoding.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write byte-order mark: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{HeaderItem, HeaderValue}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Item, row.Value}); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", row.Item, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVString renders the results table as WriteCSV would.
func CSVString(rows []Row) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}
