package testhelpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"proformaweb/backend"
)

// FakeItem is a stored proforma line.
type FakeItem struct {
	Descripcion    string
	Cantidad       float64
	PrecioUnitario float64
}

// FakeProforma is a stored proforma. Fecha uses the ISO date layout.
type FakeProforma struct {
	ID            int
	Fecha         string
	CotizacionNro string
	Cliente       string
	Status        string
	Author        string
	IncluyeIGV    bool
	Items         []FakeItem
}

// MontoTotal sums the stored lines.
func (p FakeProforma) MontoTotal() float64 {
	total := 0.0
	for _, it := range p.Items {
		total += it.Cantidad * it.PrecioUnitario
	}
	return total
}

// FakeCliente is a stored customer.
type FakeCliente struct {
	ID        int
	Nombre    string
	RucDNI    string
	Direccion string
	Telefono  string
	Email     string
}

type fakeFailure struct {
	status int
	body   string
}

// FakeBackend is an in-memory REST backend served by httptest. Routes are
// keyed by their ServeMux pattern, e.g. "DELETE /api/proformas/{id}", which
// is also the key FailOn and CallCount take.
type FakeBackend struct {
	Server  *httptest.Server
	PerPage int

	mu        sync.Mutex
	proformas map[int]*FakeProforma
	clientes  map[int]*FakeCliente
	nextID    int
	stats     backend.Stats
	failures  map[string]fakeFailure
	calls     map[string]int
	lastBody  map[string]json.RawMessage
}

// NewFakeBackend starts a fake backend that is shut down with the test.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		PerPage:   10,
		proformas: map[int]*FakeProforma{},
		clientes:  map[int]*FakeCliente{},
		nextID:    1,
		failures:  map[string]fakeFailure{},
		calls:     map[string]int{},
		lastBody:  map[string]json.RawMessage{},
	}

	mux := http.NewServeMux()
	f.handle(mux, "GET /api/proformas/next_number", f.nextNumber)
	f.handle(mux, "GET /api/proformas", f.listProformas)
	f.handle(mux, "POST /api/proformas", f.createProforma)
	f.handle(mux, "GET /api/proformas/export", f.export)
	f.handle(mux, "PUT /api/proformas/{id}", f.updateProforma)
	f.handle(mux, "DELETE /api/proformas/{id}", f.deleteProforma)
	f.handle(mux, "PUT /api/proformas/{id}/status", f.updateStatus)
	f.handle(mux, "GET /api/proforma/{id}", f.getProforma)
	f.handle(mux, "GET /api/proforma/{id}/preview", f.preview)
	f.handle(mux, "GET /api/proforma/{id}/pdf", f.pdf)
	f.handle(mux, "GET /api/clientes", f.listClientes)
	f.handle(mux, "GET /api/clientes/search", f.searchClientes)
	f.handle(mux, "POST /api/clientes", f.createCliente)
	f.handle(mux, "PUT /api/clientes/{id}", f.updateCliente)
	f.handle(mux, "DELETE /api/clientes/{id}", f.deleteCliente)
	f.handle(mux, "GET /api/dashboard_stats", f.dashboardStats)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// Client returns a backend client pointed at the fake.
func (f *FakeBackend) Client() *backend.Client {
	return backend.New(f.Server.URL)
}

// URL is the root of the fake backend.
func (f *FakeBackend) URL() string { return f.Server.URL }

// FailOn makes every request to pattern answer with status and body.
func (f *FakeBackend) FailOn(pattern string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[pattern] = fakeFailure{status: status, body: body}
}

// ClearFailures removes every injected failure.
func (f *FakeBackend) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = map[string]fakeFailure{}
}

// CallCount is how many requests reached pattern.
func (f *FakeBackend) CallCount(pattern string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[pattern]
}

// LastBody is the JSON body of the last request to pattern.
func (f *FakeBackend) LastBody(pattern string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody[pattern]
}

// SetStats sets the dashboard series.
func (f *FakeBackend) SetStats(labels []string, data []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = backend.Stats{Labels: labels, Data: data}
}

// AddProforma stores p under a fresh id and returns the id.
func (f *FakeBackend) AddProforma(p FakeProforma) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID
	f.nextID++
	if p.Status == "" {
		p.Status = "Enviada"
	}
	if p.Author == "" {
		p.Author = "Ana Torres"
	}
	f.proformas[p.ID] = &p
	return p.ID
}

// Proforma returns a copy of the stored proforma id.
func (f *FakeBackend) Proforma(id int) (FakeProforma, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proformas[id]
	if !ok {
		return FakeProforma{}, false
	}
	return *p, true
}

// ProformaCount is the number of stored proformas.
func (f *FakeBackend) ProformaCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.proformas)
}

// AddCliente stores c under a fresh id and returns the id.
func (f *FakeBackend) AddCliente(c FakeCliente) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID
	f.nextID++
	f.clientes[c.ID] = &c
	return c.ID
}

// Cliente returns a copy of the stored customer id.
func (f *FakeBackend) Cliente(id int) (FakeCliente, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clientes[id]
	if !ok {
		return FakeCliente{}, false
	}
	return *c, true
}

func (f *FakeBackend) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[pattern]++
		if r.Body != nil && r.ContentLength != 0 {
			var raw json.RawMessage
			if err := json.NewDecoder(r.Body).Decode(&raw); err == nil {
				f.lastBody[pattern] = raw
				r.Body = io.NopCloser(bytes.NewReader(raw))
			}
		}
		failure, failing := f.failures[pattern]
		f.mu.Unlock()

		if failing {
			w.WriteHeader(failure.status)
			fmt.Fprint(w, failure.body)
			return
		}
		h(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return -1
	}
	return id
}

// ── Proformas ───────────────────────────────────────────────────────────

func (f *FakeBackend) nextNumber(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxNum := 0
	for _, p := range f.proformas {
		if n, err := strconv.Atoi(p.CotizacionNro); err == nil && n > maxNum {
			maxNum = n
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"next_number": maxNum + 1})
}

func listDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

func (f *FakeBackend) listProformas(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	search := strings.ToLower(r.URL.Query().Get("search"))

	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*FakeProforma
	for _, p := range f.proformas {
		if search == "" ||
			strings.Contains(strings.ToLower(p.Cliente), search) ||
			strings.Contains(strings.ToLower(p.CotizacionNro), search) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	totalPages := (total + f.PerPage - 1) / f.PerPage
	start := min((page-1)*f.PerPage, total)
	end := min(start+f.PerPage, total)

	rows := make([]map[string]any, 0, end-start)
	for _, p := range matched[start:end] {
		items := make([]map[string]any, 0, len(p.Items))
		for _, it := range p.Items {
			items = append(items, map[string]any{
				"item_descripcion": it.Descripcion,
				"cantidad":         it.Cantidad,
				"precio_unitario":  it.PrecioUnitario,
			})
		}
		rows = append(rows, map[string]any{
			"id":             p.ID,
			"fecha":          listDate(p.Fecha),
			"cotizacion_nro": p.CotizacionNro,
			"cliente":        p.Cliente,
			"status":         p.Status,
			"author":         p.Author,
			"incluye_igv":    p.IncluyeIGV,
			"monto_total":    p.MontoTotal(),
			"items":          items,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"proformas": rows,
		"pagination": map[string]any{
			"page":          page,
			"per_page":      f.PerPage,
			"total_pages":   totalPages,
			"total_results": total,
		},
	})
}

type proformaBody struct {
	Fecha         string `json:"fecha"`
	CotizacionNro string `json:"cotizacion_nro"`
	Cliente       string `json:"cliente"`
	IncluyeIGV    bool   `json:"incluye_igv"`
	Items         []struct {
		Item           string  `json:"item"`
		Cantidad       float64 `json:"cantidad"`
		PrecioUnitario float64 `json:"precio_unitario"`
	} `json:"items"`
}

func (b proformaBody) items() []FakeItem {
	out := make([]FakeItem, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, FakeItem{Descripcion: it.Item, Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario})
	}
	return out
}

func (f *FakeBackend) createProforma(w http.ResponseWriter, r *http.Request) {
	var body proformaBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "JSON inválido"})
		return
	}
	id := f.AddProforma(FakeProforma{
		Fecha:         body.Fecha,
		CotizacionNro: body.CotizacionNro,
		Cliente:       body.Cliente,
		IncluyeIGV:    body.IncluyeIGV,
		Items:         body.items(),
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "proforma_id": id})
}

func (f *FakeBackend) updateProforma(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var body proformaBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "JSON inválido"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proformas[id]
	if !ok {
		writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "error": "Permiso denegado"})
		return
	}
	p.Fecha = body.Fecha
	p.CotizacionNro = body.CotizacionNro
	p.Cliente = body.Cliente
	p.IncluyeIGV = body.IncluyeIGV
	p.Items = body.items()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "proforma_id": id})
}

func (f *FakeBackend) deleteProforma(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.proformas[id]; !ok {
		writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "error": "No tiene permiso para eliminar esta proforma."})
		return
	}
	delete(f.proformas, id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *FakeBackend) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var body struct {
		Status string `json:"status"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	switch body.Status {
	case "Enviada", "Aprobada", "Rechazada":
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Estado no válido"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proformas[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Proforma no encontrada o sin permisos"})
		return
	}
	p.Status = body.Status
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "new_status": body.Status})
}

func (f *FakeBackend) getProforma(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.proformas[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Proforma no encontrada o sin permisos"})
		return
	}
	items := make([]map[string]any, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, map[string]any{
			"item":            it.Descripcion,
			"cantidad":        it.Cantidad,
			"precio_unitario": it.PrecioUnitario,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":             p.ID,
		"fecha":          p.Fecha,
		"cotizacion_nro": p.CotizacionNro,
		"cliente":        p.Cliente,
		"status":         p.Status,
		"incluye_igv":    p.IncluyeIGV,
		"monto_total":    p.MontoTotal(),
		"items":          items,
	})
}

func (f *FakeBackend) preview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<h1>Proforma %s</h1>", r.PathValue("id"))
}

func (f *FakeBackend) pdf(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="proforma_%s.pdf"`, r.PathValue("id")))
	fmt.Fprint(w, "%PDF-1.4 fake")
}

func (f *FakeBackend) export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	fmt.Fprintf(w, "xlsx search=%s", r.URL.Query().Get("search"))
}

// ── Clientes ────────────────────────────────────────────────────────────

func clienteJSON(c *FakeCliente) map[string]any {
	return map[string]any{
		"id":        c.ID,
		"nombre":    c.Nombre,
		"ruc_dni":   c.RucDNI,
		"direccion": c.Direccion,
		"telefono":  c.Telefono,
		"email":     c.Email,
	}
}

func (f *FakeBackend) sortedClientes(keep func(*FakeCliente) bool) []map[string]any {
	var list []*FakeCliente
	for _, c := range f.clientes {
		if keep(c) {
			list = append(list, c)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Nombre < list[j].Nombre })
	out := make([]map[string]any, 0, len(list))
	for _, c := range list {
		out = append(out, clienteJSON(c))
	}
	return out
}

func (f *FakeBackend) listClientes(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.sortedClientes(func(*FakeCliente) bool { return true }))
}

func (f *FakeBackend) searchClientes(w http.ResponseWriter, r *http.Request) {
	term := strings.ToLower(r.URL.Query().Get("term"))
	f.mu.Lock()
	defer f.mu.Unlock()
	if term == "" {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, f.sortedClientes(func(c *FakeCliente) bool {
		return strings.HasPrefix(strings.ToLower(c.Nombre), term)
	}))
}

type clienteBody struct {
	Nombre    string `json:"nombre"`
	RucDNI    string `json:"ruc_dni"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
}

func (f *FakeBackend) createCliente(w http.ResponseWriter, r *http.Request) {
	var body clienteBody
	json.NewDecoder(r.Body).Decode(&body)
	if body.Nombre == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "El nombre es obligatorio"})
		return
	}
	f.AddCliente(FakeCliente{Nombre: body.Nombre, RucDNI: body.RucDNI, Direccion: body.Direccion, Telefono: body.Telefono, Email: body.Email})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *FakeBackend) updateCliente(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	var body clienteBody
	json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clientes[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Cliente no encontrado o sin permisos"})
		return
	}
	*c = FakeCliente{ID: id, Nombre: body.Nombre, RucDNI: body.RucDNI, Direccion: body.Direccion, Telefono: body.Telefono, Email: body.Email}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *FakeBackend) deleteCliente(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clientes[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Cliente no encontrado o sin permisos"})
		return
	}
	delete(f.clientes, id)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (f *FakeBackend) dashboardStats(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	labels := f.stats.Labels
	if labels == nil {
		labels = []string{}
	}
	data := f.stats.Data
	if data == nil {
		data = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"labels": labels, "data": data})
}
