// Package export renders a finished batch run as XLSX, CSV or JSON. Rows
// follow the result set's canonical column order so every format lines up.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/talentwire/cvscan/internal/batch"
)

// Rows flattens a result set into string cells, one row per document,
// columns per ResultSet.Columns. Failed documents keep their metadata and
// carry the error in the last column.
func Rows(rs *batch.ResultSet) [][]string {
	rows := make([][]string, 0, len(rs.Items))
	for _, item := range rs.Items {
		row := make([]string, 0, len(rs.Columns))
		for _, col := range rs.Columns {
			row = append(row, cell(item, col))
		}
		rows = append(rows, row)
	}
	return rows
}

func cell(item batch.Item, col string) string {
	switch col {
	case "archivo":
		return item.Name
	case "hash":
		return item.Hash
	case "error":
		if item.Err != nil {
			return item.Err.Error()
		}
		return ""
	}
	if item.Outcome == nil {
		return ""
	}
	return formatValue(item.Outcome.Record[col])
}

// formatValue renders one record value as a spreadsheet cell. Booleans use
// the domain vocabulary so filters read naturally.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "sí"
		}
		return "no"
	case string:
		return x
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", x), "0"), ".")
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := formatValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		return formatObject(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// formatObject renders a nested object as "k: v" pairs in key order.
func formatObject(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if m[k] != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, formatValue(m[k])))
	}
	return strings.Join(parts, ", ")
}
