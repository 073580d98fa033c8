package pages

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"unicode/utf8"

	"proformaweb/backend"
	"proformaweb/services"
)

// Editor messages shown to the user.
const (
	MsgEditLoadFailed = "No se pudo cargar la proforma para editar. Puede que no tenga permisos o la proforma no exista."
	MsgServerError    = "Error del servidor."
	submitErrorPrefix = "Ocurrió un error: "
)

// MinSuggestRunes is the shortest customer prefix that triggers a search.
const MinSuggestRunes = 2

// ErrSubmitInProgress is returned when a page submits while its previous
// submit is still running.
var ErrSubmitInProgress = errors.New("submit already in progress")

// EditorBackend is the part of the backend the editor talks to.
type EditorBackend interface {
	NextNumber(ctx context.Context) (string, error)
	GetProforma(ctx context.Context, id string) (backend.Proforma, error)
	CreateProforma(ctx context.Context, in backend.ProformaInput) (string, error)
	UpdateProforma(ctx context.Context, id string, in backend.ProformaInput) (string, error)
	SearchClientes(ctx context.Context, term string) ([]backend.Cliente, error)
}

// Editor is the controller of one create or edit page.
type Editor struct {
	mu         sync.Mutex
	backend    EditorBackend
	proformaID string
	header     services.Header
	items      *services.LineItems
	submitting bool
}

// EditorView is a consistent snapshot of the editor for rendering.
type EditorView struct {
	ProformaID string
	Header     services.Header
	Items      []services.LineItem
	Mode       services.Mode
	Total      string
}

// EditMode reports whether the view belongs to an existing proforma.
func (v EditorView) EditMode() bool { return v.ProformaID != "" }

// NewEditor creates an editor. An empty proformaID means create mode.
func NewEditor(b EditorBackend, proformaID string) *Editor {
	return &Editor{
		backend:    b,
		proformaID: proformaID,
		items:      services.NewLineItems(nil),
	}
}

// Init loads the initial state. In edit mode a failed load is returned and
// the page must not be shown. In create mode a failed next-number lookup is
// only logged.
func (e *Editor) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proformaID == "" {
		next, err := e.backend.NextNumber(ctx)
		if err != nil {
			log.Printf("editor: Init: next number: %v", err)
			return nil
		}
		e.header.CotizacionNro = next
		return nil
	}

	p, err := e.backend.GetProforma(ctx, e.proformaID)
	if err != nil {
		return fmt.Errorf("load proforma %s: %w", e.proformaID, err)
	}
	e.header = services.Header{
		Fecha:         p.Fecha,
		CotizacionNro: p.CotizacionNro,
		Cliente:       p.Cliente,
	}
	items := make([]services.LineItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, services.LineItem{
			Description: it.Description,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		})
	}
	e.items.Reset(items)
	return nil
}

// View returns a snapshot of the current state.
func (e *Editor) View() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Editor) viewLocked() EditorView {
	return EditorView{
		ProformaID: e.proformaID,
		Header:     e.header,
		Items:      e.items.Items(),
		Mode:       e.items.Mode(),
		Total:      services.FormatSoles(e.items.Total()),
	}
}

// SubmitItem validates the item inputs and adds the item, or replaces the
// one being edited. Invalid input leaves the state untouched.
func (e *Editor) SubmitItem(in services.ItemInput) (EditorView, error) {
	item, err := services.ParseItemInput(in)
	if err != nil {
		return e.View(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items.Submit(item)
	return e.viewLocked(), nil
}

// EditItem enters edit mode for row i and returns the row so its values can
// be put back into the inputs.
func (e *Editor) EditItem(i int) (services.LineItem, EditorView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.items.BeginEdit(i)
	return item, e.viewLocked(), err
}

// CancelEdit returns to adding mode.
func (e *Editor) CancelEdit() EditorView {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.items.CancelEdit()
	return e.viewLocked()
}

// RemoveItem deletes row i.
func (e *Editor) RemoveItem(i int) (EditorView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.items.Remove(i)
	return e.viewLocked(), err
}

// Submit validates the header and items and sends the proforma to the
// backend. It returns the id of the stored proforma.
func (e *Editor) Submit(ctx context.Context, h services.Header) (string, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return "", ErrSubmitInProgress
	}
	e.header = h
	if err := services.ValidateHeader(h, e.items.Len()); err != nil {
		e.mu.Unlock()
		return "", err
	}

	in := backend.ProformaInput{
		Fecha:         strings.TrimSpace(h.Fecha),
		CotizacionNro: strings.TrimSpace(h.CotizacionNro),
		Cliente:       strings.TrimSpace(h.Cliente),
		IncluyeIGV:    false,
	}
	for _, it := range e.items.Items() {
		in.Items = append(in.Items, backend.Item{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	id := e.proformaID
	e.submitting = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	var err error
	if id == "" {
		id, err = e.backend.CreateProforma(ctx, in)
	} else {
		id, err = e.backend.UpdateProforma(ctx, id, in)
	}
	if err != nil {
		return "", fmt.Errorf("submit proforma: %w", err)
	}
	return id, nil
}

// SubmitErrorMessage is the text shown when a submit reaches the backend
// and fails.
func SubmitErrorMessage(err error) string {
	if msg := backend.ServerMessage(err); msg != "" {
		return submitErrorPrefix + msg
	}
	return submitErrorPrefix + MsgServerError
}

// Suggest returns customers whose name starts with term. Short terms and
// failed searches yield no suggestions.
func (e *Editor) Suggest(ctx context.Context, term string) []backend.Cliente {
	if utf8.RuneCountInString(term) < MinSuggestRunes {
		return nil
	}
	clientes, err := e.backend.SearchClientes(ctx, term)
	if err != nil {
		log.Printf("editor: Suggest: search %q: %v", term, err)
		return nil
	}
	return clientes
}
