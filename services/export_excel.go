package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// defaultExportTitle names the sheet and the PDF when the data has no title.
const defaultExportTitle = "Proformas"

// GenerateProformasExcel creates an Excel workbook from the given ExportData
// and returns the file contents as a byte slice.
func GenerateProformasExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are limited to 31 chars.
	sheetName := data.Title
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = defaultExportTitle
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	lastCol := columns[len(columns)-1]

	widths := []float64{14, 12, 32, 12, 40, 10, 16, 20, 12}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#0D6EFD"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rowStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create row style: %w", err)
	}

	// ── Header Rows (1-2) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(sheetName))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	subtitle := "Generado: " + data.GeneratedDate
	if data.Search != "" {
		subtitle += " · Búsqueda: " + data.Search
	}
	if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
		return nil, fmt.Errorf("merge subtitle: %w", err)
	}
	f.SetCellValue(sheetName, "A2", sanitizeExcelCell(subtitle))
	f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)

	// ── Row 4: Column Headers ───────────────────────────────────────────

	headers := []string{"Nro Proforma", "Fecha", "Cliente", "Estado", "Item", "Cantidad", "Precio Unitario", "Monto Total Proforma", "Incluye IGV"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+"4", h)
	}
	f.SetCellStyle(sheetName, "A4", lastCol+"4", headerStyle)

	// ── Data Rows (starting row 5) ──────────────────────────────────────

	row := 5
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(r.Number))
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Date))
		f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Customer))
		f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(r.Status))
		if r.HasItem {
			f.SetCellValue(sheetName, "E"+rowStr, sanitizeExcelCell(r.Item))
			f.SetCellValue(sheetName, "F"+rowStr, r.Quantity)
			f.SetCellValue(sheetName, "G"+rowStr, FormatSolesFloat(r.UnitPrice))
		}
		f.SetCellValue(sheetName, "H"+rowStr, FormatSolesFloat(r.Total))
		igv := "No"
		if r.IncludesIGV {
			igv = "Sí"
		}
		f.SetCellValue(sheetName, "I"+rowStr, igv)

		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, rowStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
