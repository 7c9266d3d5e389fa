package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
)

// Row is a single query result row, keyed by column name, in the
// column order given alongside it. It mirrors internal/sqlengine/exec's
// ResultSet shape without importing that package (output stays a leaf
// dependency, as in the teacher's layering).
type Row map[string]string

// FormatRows renders columns/rows per the "myco query --sql-format"
// flag (spec.md §6.3): "table" (aligned columns via text/tabwriter,
// this project's default), "csv", or "json".
func FormatRows(columns []string, rows []Row, format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return formatRowsTable(columns, rows), nil
	case "csv":
		return formatRowsCSV(columns, rows)
	case "json":
		return formatRowsJSON(columns, rows)
	default:
		return "", fmt.Errorf("output: unknown query format %q", format)
	}
}

func formatRowsTable(columns []string, rows []Row) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	for _, r := range rows {
		vals := make([]string, len(columns))
		for i, c := range columns {
			vals[i] = r[c]
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
	w.Flush()
	return sb.String()
}

func formatRowsCSV(columns []string, rows []Row) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	if err := writer.Write(columns); err != nil {
		return "", err
	}
	for _, r := range rows {
		vals := make([]string, len(columns))
		for i, c := range columns {
			vals[i] = r[c]
		}
		if err := writer.Write(vals); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func formatRowsJSON(columns []string, rows []Row) (string, error) {
	payload := struct {
		Columns []string `json:"columns"`
		Rows    []Row    `json:"rows"`
	}{Columns: columns, Rows: rows}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
