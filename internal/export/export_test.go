package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/talentwire/cvscan/internal/batch"
	"github.com/talentwire/cvscan/internal/extract"
)

func sampleResultSet() *batch.ResultSet {
	return &batch.ResultSet{
		Columns: []string{"archivo", "hash", "nombre", "hay_foto_en_cv", "idiomas", "preaprobado", "error"},
		Items: []batch.Item{
			{
				Name: "cv-1.pdf",
				Hash: "abc123",
				Outcome: &extract.Outcome{
					Preapproved: true,
					Attempts:    1,
					Record: extract.Record{
						"nombre":         "Juan Pérez",
						"hay_foto_en_cv": true,
						"idiomas": []any{
							map[string]any{"idioma": "inglés", "nivel": "B2"},
						},
						"preaprobado": true,
					},
				},
			},
			{
				Name: "cv-2.pdf",
				Hash: "def456",
				Err:  errors.New("respuesta rechazada"),
			},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleResultSet())

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first[0] != "cv-1.pdf" || first[1] != "abc123" {
		t.Errorf("metadata columns wrong: %v", first[:2])
	}
	if first[2] != "Juan Pérez" {
		t.Errorf("string cell wrong: %q", first[2])
	}
	if first[3] != "sí" {
		t.Errorf("boolean cell must use domain vocabulary, got %q", first[3])
	}
	if !strings.Contains(first[4], "idioma: inglés") {
		t.Errorf("object list cell wrong: %q", first[4])
	}
	if first[6] != "" {
		t.Errorf("error column must be empty on success: %q", first[6])
	}

	second := rows[1]
	if second[2] != "" {
		t.Errorf("failed item must have empty field cells: %q", second[2])
	}
	if second[6] != "respuesta rechazada" {
		t.Errorf("error column missing: %q", second[6])
	}
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{true, "sí"},
		{false, "no"},
		{int64(8), "8"},
		{float64(7.5), "7.5"},
		{float64(7), "7"},
		{[]any{"plomero", "gasista"}, "plomero; gasista"},
		{"texto", "texto"},
	}
	for _, tc := range cases {
		if got := formatValue(tc.in); got != tc.want {
			t.Errorf("formatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCSV(t *testing.T) {
	out, err := CSV(sampleResultSet())
	if err != nil {
		t.Fatalf("csv export failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output not valid csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "archivo" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][2] != "Juan Pérez" {
		t.Errorf("unexpected cell: %v", records[1])
	}
}

func TestJSON(t *testing.T) {
	out, err := JSON(sampleResultSet())
	if err != nil {
		t.Fatalf("json export failed: %v", err)
	}

	var report struct {
		Resumen struct {
			Total       int `json:"Total"`
			Succeeded   int `json:"Succeeded"`
			Preapproved int `json:"Preapproved"`
		} `json:"resumen"`
		Candidatos []map[string]any `json:"candidatos"`
	}
	if err := json.Unmarshal(out, &report); err != nil {
		t.Fatalf("output not valid json: %v", err)
	}
	if report.Resumen.Total != 2 || report.Resumen.Succeeded != 1 {
		t.Errorf("unexpected summary: %+v", report.Resumen)
	}
	if len(report.Candidatos) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(report.Candidatos))
	}
	if report.Candidatos[1]["error"] != "respuesta rechazada" {
		t.Errorf("failed item must carry error: %v", report.Candidatos[1])
	}
}

func TestXLSX(t *testing.T) {
	out, err := XLSX(sampleResultSet())
	if err != nil {
		t.Fatalf("xlsx export failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "archivo" {
		t.Errorf("unexpected header row: %v", rows[0])
	}
	if rows[1][2] != "Juan Pérez" {
		t.Errorf("unexpected data row: %v", rows[1])
	}
	if rows[2][6] != "respuesta rechazada" {
		t.Errorf("error cell missing: %v", rows[2])
	}
}
