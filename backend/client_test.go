package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHeader("X-API-Key", "secret"))
}

func TestNextNumber_NumberOrString(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"integer", `{"next_number": 42}`, "42"},
		{"string", `{"next_number": "0042"}`, "0042"},
		{"null", `{"next_number": null}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/proformas/next_number" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				if r.Header.Get("X-API-Key") != "secret" {
					t.Errorf("expected static header to be forwarded")
				}
				io.WriteString(w, tt.body)
			})
			got, err := c.NextNumber(context.Background())
			if err != nil {
				t.Fatalf("NextNumber() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("NextNumber() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetProforma_DecodesWireShape(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": 7, "fecha": "2025-01-15", "cotizacion_nro": "12", "cliente": "ACME",
			"status": "Aprobada", "monto_total": 41.5, "incluye_igv": 0,
			"items": [{"item": "Widget", "cantidad": 3.0, "precio_unitario": 10.5},
			          {"item": "Gadget", "cantidad": 2.0, "precio_unitario": 5}]}`)
	})

	p, err := c.GetProforma(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetProforma() error = %v", err)
	}
	if p.ID != "7" || p.CotizacionNro != "12" || p.Cliente != "ACME" || p.Fecha != "2025-01-15" {
		t.Errorf("unexpected header fields: %+v", p)
	}
	if p.IncluyeIGV {
		t.Error("expected incluye_igv 0 to decode as false")
	}
	if len(p.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(p.Items))
	}
	if p.Items[0].Description != "Widget" || p.Items[0].Quantity != 3 || p.Items[0].UnitPrice.String() != "10.5" {
		t.Errorf("unexpected first item: %+v", p.Items[0])
	}
	if p.MontoTotal.StringFixed(2) != "41.50" {
		t.Errorf("expected monto_total 41.50, got %s", p.MontoTotal.StringFixed(2))
	}
}

func TestGetProforma_NotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error": "Proforma no encontrada o sin permisos"}`)
	})

	_, err := c.GetProforma(context.Background(), "9")
	if err == nil {
		t.Fatal("expected error")
	}
	be, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if be.Kind != KindStatus || be.Status != http.StatusNotFound {
		t.Errorf("unexpected error %+v", be)
	}
	if ServerMessage(err) != "Proforma no encontrada o sin permisos" {
		t.Errorf("unexpected server message %q", ServerMessage(err))
	}
}

func TestListProformas_QueryAndItems(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search"); got != "a&b" {
			t.Errorf("expected search 'a&b', got %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page 2, got %q", got)
		}
		io.WriteString(w, `{"proformas": [{"id": 3, "fecha": "15/01/2025", "cotizacion_nro": "5", "cliente": "Beta",
			"author": "Ana", "status": "Enviada", "monto_total": 20,
			"items": [{"item_descripcion": "Cable", "cantidad": 4.0, "precio_unitario": 5.0}]}],
			"pagination": {"page": 2, "per_page": 10, "total_pages": 3, "total_results": 21}}`)
	})

	res, err := c.ListProformas(context.Background(), 2, "a&b")
	if err != nil {
		t.Fatalf("ListProformas() error = %v", err)
	}
	if res.Pagination.TotalPages != 3 || res.Pagination.TotalResults != 21 {
		t.Errorf("unexpected pagination %+v", res.Pagination)
	}
	if len(res.Proformas) != 1 || res.Proformas[0].Items[0].Description != "Cable" {
		t.Fatalf("unexpected rows %+v", res.Proformas)
	}
	if res.Proformas[0].Author != "Ana" {
		t.Errorf("expected author Ana, got %q", res.Proformas[0].Author)
	}
}

func TestCreateProforma_SendsWireBody(t *testing.T) {
	var got map[string]any
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		io.WriteString(w, `{"success": true, "proforma_id": 99}`)
	})

	id, err := c.CreateProforma(context.Background(), ProformaInput{
		Fecha:         "2025-01-15",
		CotizacionNro: "12",
		Cliente:       "ACME",
		Items:         []Item{{Description: "Widget", Quantity: 3, UnitPrice: mustDecimal(t, "10.5")}},
	})
	if err != nil {
		t.Fatalf("CreateProforma() error = %v", err)
	}
	if id != "99" {
		t.Errorf("expected id 99, got %q", id)
	}
	if got["incluye_igv"] != false || got["cotizacion_nro"] != "12" {
		t.Errorf("unexpected body %v", got)
	}
	items, _ := got["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 item in body, got %v", got["items"])
	}
	item := items[0].(map[string]any)
	if item["item"] != "Widget" || item["precio_unitario"] != 10.5 || item["cantidad"] != float64(3) {
		t.Errorf("unexpected item body %v", item)
	}
}

func TestDeleteProforma_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"success", http.StatusOK, `{"success": true}`, 0, ""},
		{"forbidden with message", http.StatusForbidden, `{"success": false, "error": "No tiene permiso"}`, KindStatus, "No tiene permiso"},
		{"server error without json", http.StatusInternalServerError, `boom`, KindStatus, ""},
		{"2xx rejected", http.StatusOK, `{"success": false, "error": "Bloqueada"}`, KindRejected, "Bloqueada"},
		{"2xx without success flag", http.StatusOK, `{}`, KindRejected, ""},
		{"2xx with unrelated body", http.StatusOK, `{"deleted": 4}`, KindRejected, ""},
		{"malformed", http.StatusOK, `{`, KindDecode, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete {
					t.Errorf("expected DELETE, got %s", r.Method)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			err := c.DeleteProforma(context.Background(), "4")
			if tt.kind == 0 {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !IsKind(err, tt.kind) {
				t.Fatalf("expected kind %s, got %v", tt.kind, err)
			}
			if ServerMessage(err) != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, ServerMessage(err))
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).ListClientes(context.Background())
	if !IsKind(err, KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	var be *Error
	if !errors.As(err, &be) || be.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}

func TestClientes_NullableFields(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/clientes/search" && r.URL.Query().Get("term") != "Ac" {
			t.Errorf("unexpected term %q", r.URL.Query().Get("term"))
		}
		io.WriteString(w, `[{"id": 1, "nombre": "ACME", "ruc_dni": null, "email": "a@acme.pe", "telefono": null}]`)
	})

	for _, fetch := range []func() ([]Cliente, error){
		func() ([]Cliente, error) { return c.ListClientes(context.Background()) },
		func() ([]Cliente, error) { return c.SearchClientes(context.Background(), "Ac") },
	} {
		got, err := fetch()
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if len(got) != 1 || got[0].ID != "1" || got[0].RucDNI != "" || got[0].Email != "a@acme.pe" {
			t.Errorf("unexpected clientes %+v", got)
		}
	}
}

func TestUpdateStatus_Body(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/proformas/5/status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "Aprobada" {
			t.Errorf("unexpected body %v", body)
		}
		io.WriteString(w, `{"success": true, "new_status": "Aprobada"}`)
	})
	if err := c.UpdateStatus(context.Background(), "5", "Aprobada"); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"labels": ["2025-01", "2025-02"], "data": [3, 5]}`)
	})
	got, err := c.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats() error = %v", err)
	}
	if len(got.Labels) != 2 || got.Data[1] != 5 {
		t.Errorf("unexpected stats %+v", got)
	}
}

func TestPaths(t *testing.T) {
	if got := PreviewPath("12"); got != "/api/proforma/12/preview" {
		t.Errorf("PreviewPath() = %q", got)
	}
	if got := PDFPath("12"); got != "/api/proforma/12/pdf" {
		t.Errorf("PDFPath() = %q", got)
	}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestWithTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.NextNumber(context.Background())
	if !IsKind(err, KindTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if got := New(srv.URL, WithTimeout(0)).client.Timeout; got != 0 {
		t.Errorf("expected zero timeout to disable it, got %s", got)
	}
}
