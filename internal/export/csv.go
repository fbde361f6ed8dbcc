package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"github.com/talentwire/cvscan/internal/batch"
)

// CSV renders the result set as UTF-8 CSV with a header row.
func CSV(rs *batch.ResultSet) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(rs.Columns); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for _, row := range Rows(rs) {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv flush: %w", err)
	}
	return buf.Bytes(), nil
}

// jsonItem is the JSON export shape for one document.
type jsonItem struct {
	Archivo     string         `json:"archivo"`
	Hash        string         `json:"hash"`
	Campos      map[string]any `json:"campos,omitempty"`
	Preaprobado *bool          `json:"preaprobado,omitempty"`
	Intentos    int            `json:"intentos,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// jsonReport is the JSON export shape for a run.
type jsonReport struct {
	Resumen    batch.Summary `json:"resumen"`
	Candidatos []jsonItem    `json:"candidatos"`
}

// JSON renders the result set, including the run summary, as indented JSON.
func JSON(rs *batch.ResultSet) ([]byte, error) {
	report := jsonReport{
		Resumen:    rs.Summarize(),
		Candidatos: make([]jsonItem, 0, len(rs.Items)),
	}

	for _, item := range rs.Items {
		ji := jsonItem{
			Archivo: item.Name,
			Hash:    item.Hash,
		}
		if item.Err != nil {
			ji.Error = item.Err.Error()
		}
		if item.Outcome != nil {
			ji.Campos = item.Outcome.Record
			pre := item.Outcome.Preapproved
			ji.Preaprobado = &pre
			ji.Intentos = item.Outcome.Attempts
		}
		report.Candidatos = append(report.Candidatos, ji)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json export: %w", err)
	}
	return out, nil
}
