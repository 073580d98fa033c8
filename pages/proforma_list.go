package pages

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"proformaweb/backend"
	"proformaweb/services"
)

// List messages shown to the user.
const (
	MsgNoProformas        = "No se encontraron proformas para los criterios de búsqueda."
	MsgListLoadFailed     = "Error al cargar los datos. Revise la consola."
	MsgStatusUpdateFailed = "Error al actualizar el estado."
	MsgDeleteRejected     = "El servidor indicó un fallo."
	MsgConnectionFailed   = "No se pudo conectar con el servidor."
	MsgInvalidResponse    = "Respuesta inválida del servidor."
)

// exportConcurrency bounds the parallel page fetches of an export.
const exportConcurrency = 4

// ListBackend is the part of the backend the proforma list talks to.
type ListBackend interface {
	ListProformas(ctx context.Context, page int, search string) (backend.ProformaPage, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteProforma(ctx context.Context, id string) error
}

// ProformaList is the controller of one proforma list page.
type ProformaList struct {
	mu            sync.Mutex
	backend       ListBackend
	page          int
	search        string
	result        backend.ProformaPage
	loadFailed    bool
	pendingDelete string
	deleteError   string
}

// ListRow is one rendered proforma row.
type ListRow struct {
	ID      string
	Fecha   string
	Numero  string
	Cliente string
	Author  string
	Status  string
	Items   []string
	Total   string
}

// DeleteModal is the state of the delete confirmation dialog.
type DeleteModal struct {
	Open  bool
	ID    string
	Error string
}

// ListView is a consistent snapshot of the list for rendering.
type ListView struct {
	Search     string
	Rows       []ListRow
	Pager      services.Pager
	LoadFailed bool
	Delete     DeleteModal
}

// Empty reports whether a successful load returned no rows.
func (v ListView) Empty() bool { return !v.LoadFailed && len(v.Rows) == 0 }

// NewProformaList creates a list controller on page 1 with no search.
func NewProformaList(b ListBackend) *ProformaList {
	return &ProformaList{backend: b, page: 1}
}

// Load fetches the current page for the current search.
func (l *ProformaList) Load(ctx context.Context) ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadLocked(ctx)
	return l.viewLocked()
}

func (l *ProformaList) loadLocked(ctx context.Context) {
	res, err := l.backend.ListProformas(ctx, l.page, l.search)
	if err != nil {
		log.Printf("proforma_list: Load: page %d search %q: %v", l.page, l.search, err)
		l.result = backend.ProformaPage{}
		l.loadFailed = true
		return
	}
	l.result = res
	l.loadFailed = false
}

// Search resets to page 1 with a new term and loads.
func (l *ProformaList) Search(ctx context.Context, term string) ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = 1
	l.search = term
	l.loadLocked(ctx)
	return l.viewLocked()
}

// Next moves one page forward and loads.
func (l *ProformaList) Next(ctx context.Context) ListView {
	return l.step(ctx, 1)
}

// Prev moves one page back and loads.
func (l *ProformaList) Prev(ctx context.Context) ListView {
	return l.step(ctx, -1)
}

func (l *ProformaList) step(ctx context.Context, delta int) ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.page = services.ClampPage(l.page+delta, l.result.Pagination.TotalPages)
	l.loadLocked(ctx)
	return l.viewLocked()
}

// ChangeStatus sends a new status for proforma id. On failure the current
// page is reloaded so every row shows the stored value again, and the error
// is returned.
func (l *ProformaList) ChangeStatus(ctx context.Context, id, status string) (ListView, error) {
	st, err := services.ParseStatus(status)
	if err != nil {
		return l.View(), err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.backend.UpdateStatus(ctx, id, string(st)); err != nil {
		log.Printf("proforma_list: ChangeStatus: proforma %s: %v", id, err)
		l.loadLocked(ctx)
		return l.viewLocked(), fmt.Errorf("update status: %w", err)
	}
	for i := range l.result.Proformas {
		if l.result.Proformas[i].ID == id {
			l.result.Proformas[i].Status = string(st)
		}
	}
	return l.viewLocked(), nil
}

// OpenDelete opens the confirmation modal for proforma id.
func (l *ProformaList) OpenDelete(id string) ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pendingDelete = id
	l.deleteError = ""
	return l.viewLocked()
}

// CancelDelete closes the modal without any action.
func (l *ProformaList) CancelDelete() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pendingDelete = ""
	l.deleteError = ""
	return l.viewLocked()
}

// ConfirmDelete deletes the pending proforma. Success closes the modal and
// reloads the current page; failure keeps the modal open with the message.
func (l *ProformaList) ConfirmDelete(ctx context.Context) (ListView, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pendingDelete == "" {
		return l.viewLocked(), fmt.Errorf("confirm delete: no proforma selected")
	}
	if err := l.backend.DeleteProforma(ctx, l.pendingDelete); err != nil {
		log.Printf("proforma_list: ConfirmDelete: proforma %s: %v", l.pendingDelete, err)
		l.deleteError = DeleteErrorMessage(err)
		return l.viewLocked(), err
	}
	l.pendingDelete = ""
	l.deleteError = ""
	l.loadLocked(ctx)
	return l.viewLocked(), nil
}

// DeleteErrorMessage is the text shown in the modal for a failed delete.
func DeleteErrorMessage(err error) string {
	be, ok := backend.AsError(err)
	if !ok {
		return MsgServerError
	}
	switch be.Kind {
	case backend.KindStatus:
		if be.Message != "" {
			return be.Message
		}
		return fmt.Sprintf("Error del servidor (código: %d).", be.Status)
	case backend.KindRejected:
		if be.Message != "" {
			return be.Message
		}
		return MsgDeleteRejected
	case backend.KindTransport:
		return MsgConnectionFailed
	case backend.KindDecode:
		return MsgInvalidResponse
	}
	return MsgServerError
}

// View returns a snapshot of the current state without loading.
func (l *ProformaList) View() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.viewLocked()
}

func (l *ProformaList) viewLocked() ListView {
	v := ListView{
		Search:     l.search,
		LoadFailed: l.loadFailed,
		Pager: services.Pager{
			Page:       l.result.Pagination.Page,
			TotalPages: l.result.Pagination.TotalPages,
		},
		Delete: DeleteModal{
			Open:  l.pendingDelete != "",
			ID:    l.pendingDelete,
			Error: l.deleteError,
		},
	}
	if v.Pager.Page == 0 {
		v.Pager.Page = l.page
	}
	for _, p := range l.result.Proformas {
		v.Rows = append(v.Rows, toListRow(p))
	}
	return v
}

func toListRow(p backend.Proforma) ListRow {
	row := ListRow{
		ID:      p.ID,
		Fecha:   p.Fecha,
		Numero:  p.CotizacionNro,
		Cliente: p.Cliente,
		Author:  p.Author,
		Status:  p.Status,
		Total:   services.FormatSoles(p.MontoTotal),
	}
	for _, it := range p.Items {
		row.Items = append(row.Items, fmt.Sprintf("%s (x%d)", it.Description, it.Quantity))
	}
	return row
}

// Export fetches every proforma that matches the current search and builds
// the export rows, one per line item. Pages after the first are fetched
// concurrently.
func (l *ProformaList) Export(ctx context.Context) (services.ExportData, error) {
	l.mu.Lock()
	search := l.search
	l.mu.Unlock()

	first, err := l.backend.ListProformas(ctx, 1, search)
	if err != nil {
		return services.ExportData{}, fmt.Errorf("export page 1: %w", err)
	}

	pages := make([][]backend.Proforma, max(first.Pagination.TotalPages, 1))
	pages[0] = first.Proformas

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)
	for i := 1; i < len(pages); i++ {
		g.Go(func() error {
			res, err := l.backend.ListProformas(gctx, i+1, search)
			if err != nil {
				return fmt.Errorf("export page %d: %w", i+1, err)
			}
			pages[i] = res.Proformas
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return services.ExportData{}, err
	}

	data := services.ExportData{
		Title:         "Proformas",
		Search:        search,
		GeneratedDate: time.Now().Format("02/01/2006 15:04"),
	}
	for _, page := range pages {
		for _, p := range page {
			data.Rows = append(data.Rows, exportRows(p)...)
		}
	}
	return data, nil
}

func exportRows(p backend.Proforma) []services.ExportRow {
	base := services.ExportRow{
		ProformaID:  p.ID,
		Number:      p.CotizacionNro,
		Date:        p.Fecha,
		Customer:    p.Cliente,
		Status:      p.Status,
		Total:       p.MontoTotal.InexactFloat64(),
		IncludesIGV: p.IncluyeIGV,
	}
	if len(p.Items) == 0 {
		return []services.ExportRow{base}
	}
	rows := make([]services.ExportRow, 0, len(p.Items))
	for _, it := range p.Items {
		r := base
		r.HasItem = true
		r.Item = it.Description
		r.Quantity = float64(it.Quantity)
		r.UnitPrice = it.UnitPrice.InexactFloat64()
		rows = append(rows, r)
	}
	return rows
}
