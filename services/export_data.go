package services

// ExportRow is one line of the proforma export: a proforma header repeated
// for each of its line items. A proforma without items yields one row with
// empty item columns.
type ExportRow struct {
	ProformaID  string
	Number      string
	Date        string
	Customer    string
	Status      string
	Item        string
	Quantity    float64
	UnitPrice   float64
	Total       float64
	IncludesIGV bool
	HasItem     bool
}

// ExportData holds all data needed for export.
type ExportData struct {
	Title         string
	Search        string
	GeneratedDate string
	Rows          []ExportRow
}

// Summary counts the distinct proformas of the export and sums their
// totals, each proforma once regardless of how many item rows it has.
func (d ExportData) Summary() (count int, total float64) {
	seen := make(map[string]bool, len(d.Rows))
	for _, r := range d.Rows {
		if seen[r.ProformaID] {
			continue
		}
		seen[r.ProformaID] = true
		count++
		total += r.Total
	}
	return count, total
}
