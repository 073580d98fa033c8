package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, b []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGenerateProformasExcel_Rows(t *testing.T) {
	data := ExportData{
		Title:         "Proformas",
		Search:        "acme",
		GeneratedDate: "2025-01-15",
		Rows: []ExportRow{
			{Number: "12", Date: "15/01/2025", Customer: "ACME", Status: "Enviada", Item: "Widget", Quantity: 3, UnitPrice: 10.5, Total: 41.5, HasItem: true},
			{Number: "12", Date: "15/01/2025", Customer: "ACME", Status: "Enviada", Item: "Gadget", Quantity: 2, UnitPrice: 5, Total: 41.5, HasItem: true},
			{Number: "13", Date: "16/01/2025", Customer: "Beta", Status: "Aprobada", Total: 0},
		},
	}

	result, err := GenerateProformasExcel(data)
	if err != nil {
		t.Fatalf("GenerateProformasExcel() error = %v", err)
	}

	f := openWorkbook(t, result)
	sheets := f.GetSheetList()
	if len(sheets) == 0 || sheets[0] != "Proformas" {
		t.Fatalf("expected sheet 'Proformas', got %v", sheets)
	}

	header, _ := f.GetCellValue("Proformas", "A4")
	if header != "Nro Proforma" {
		t.Errorf("expected header 'Nro Proforma', got %q", header)
	}
	item, _ := f.GetCellValue("Proformas", "E6")
	if item != "Gadget" {
		t.Errorf("expected E6 = Gadget, got %q", item)
	}
	price, _ := f.GetCellValue("Proformas", "G5")
	if price != "S/ 10.50" {
		t.Errorf("expected G5 = S/ 10.50, got %q", price)
	}
	empty, _ := f.GetCellValue("Proformas", "E7")
	if empty != "" {
		t.Errorf("expected empty item cell for proforma without items, got %q", empty)
	}
	subtitle, _ := f.GetCellValue("Proformas", "A2")
	if subtitle != "Generado: 2025-01-15 · Búsqueda: acme" {
		t.Errorf("unexpected subtitle %q", subtitle)
	}
}

func TestGenerateProformasExcel_Empty(t *testing.T) {
	result, err := GenerateProformasExcel(ExportData{GeneratedDate: "2025-01-15"})
	if err != nil {
		t.Fatalf("GenerateProformasExcel() error = %v", err)
	}
	f := openWorkbook(t, result)
	if sheets := f.GetSheetList(); sheets[0] != "Proformas" {
		t.Errorf("expected default sheet name, got %v", sheets)
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"", ""},
		{"ACME", "ACME"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+51", "'+51"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.input); got != tt.expect {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.expect)
		}
	}
}
