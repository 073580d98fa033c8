package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// pdfColumns are the table columns with their widths on the 12-column grid.
var pdfColumns = []struct {
	title string
	width int
	align align.Type
}{
	{"Nro", 1, align.Center},
	{"Fecha", 1, align.Center},
	{"Cliente", 2, align.Left},
	{"Estado", 1, align.Center},
	{"Item", 2, align.Left},
	{"Cant.", 1, align.Right},
	{"P. Unit.", 1, align.Right},
	{"Total", 2, align.Right},
	{"IGV", 1, align.Center},
}

// GenerateProformasPDF renders the proforma export as a landscape A4 table
// followed by a count and grand total.
func GenerateProformasPDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for i, r := range data.Rows {
		addTableRow(m, r, i%2 == 1)
	}
	addSummary(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ExportData) {
	title := data.Title
	if title == "" {
		title = defaultExportTitle
	}
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	search := ""
	if data.Search != "" {
		search = "Búsqueda: " + data.Search
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(search, props.Text{Size: 9, Align: align.Left, Color: grey}),
			),
			col.New(6).Add(
				text.New("Generado: "+data.GeneratedDate, props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto) {
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	white := &props.Color{Red: 255, Green: 255, Blue: 255}

	r := row.New(8)
	for _, c := range pdfColumns {
		r.Add(col.New(c.width).Add(
			text.New(c.title, props.Text{Size: 8, Style: fontstyle.Bold, Align: c.align, Color: white}),
		).WithStyle(headerCell))
	}
	m.AddRows(r)
}

func addTableRow(m core.Maroto, r ExportRow, shaded bool) {
	igv := "No"
	if r.IncludesIGV {
		igv = "Sí"
	}
	values := []string{
		r.Number,
		r.Date,
		r.Customer,
		r.Status,
		"",
		"",
		"",
		FormatSolesFloat(r.Total),
		igv,
	}
	if r.HasItem {
		values[4] = r.Item
		values[5] = FormatQuantity(r.Quantity)
		values[6] = FormatSolesFloat(r.UnitPrice)
	}

	var cell *props.Cell
	if shaded {
		cell = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	}

	line := row.New(7)
	for i, c := range pdfColumns {
		column := col.New(c.width).Add(text.New(values[i], props.Text{Size: 7, Align: c.align}))
		if cell != nil {
			column = column.WithStyle(cell)
		}
		line.Add(column)
	}
	m.AddRows(line)
}

func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	count, total := data.Summary()
	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New("Proformas", bold)).WithStyle(summaryCell),
			col.New(4).Add(text.New(fmt.Sprintf("%d", count), bold)).WithStyle(summaryCell),
		),
		row.New(8).Add(
			col.New(8).Add(text.New("Monto Total", bold)).WithStyle(summaryCell),
			col.New(4).Add(text.New(FormatSolesFloat(total), bold)).WithStyle(summaryCell),
		),
	)
}
