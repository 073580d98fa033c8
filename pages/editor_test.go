package pages

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"proformaweb/services"
	"proformaweb/testhelpers"
)

func TestEditor_InitCreateFillsNextNumber(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	fb.AddProforma(testhelpers.FakeProforma{CotizacionNro: "41", Cliente: "ACME", Fecha: "2025-01-10"})

	ed := NewEditor(fb.Client(), "")
	if err := ed.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	v := ed.View()
	if v.Header.CotizacionNro != "42" {
		t.Errorf("expected next number 42, got %q", v.Header.CotizacionNro)
	}
	if v.EditMode() {
		t.Error("expected create mode")
	}
	if v.Total != "S/ 0.00" {
		t.Errorf("expected empty total S/ 0.00, got %q", v.Total)
	}
}

func TestEditor_InitCreateIgnoresNextNumberFailure(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	fb.FailOn("GET /api/proformas/next_number", http.StatusInternalServerError, `{"error": "x"}`)

	ed := NewEditor(fb.Client(), "")
	if err := ed.Init(context.Background()); err != nil {
		t.Fatalf("expected failure to be ignored, got %v", err)
	}
	if got := ed.View().Header.CotizacionNro; got != "" {
		t.Errorf("expected blank number, got %q", got)
	}
}

func TestEditor_InitEditLoadsProforma(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	id := fb.AddProforma(testhelpers.FakeProforma{
		Fecha: "2025-01-15", CotizacionNro: "12", Cliente: "ACME",
		Items: []testhelpers.FakeItem{{Descripcion: "Widget", Cantidad: 3, PrecioUnitario: 10.5}},
	})

	ed := NewEditor(fb.Client(), itoa(id))
	if err := ed.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	v := ed.View()
	if !v.EditMode() || v.Header.Fecha != "2025-01-15" || v.Header.Cliente != "ACME" || v.Header.CotizacionNro != "12" {
		t.Errorf("unexpected view %+v", v)
	}
	if len(v.Items) != 1 || v.Items[0].Quantity != 3 || v.Total != "S/ 31.50" {
		t.Errorf("unexpected items %+v total %s", v.Items, v.Total)
	}
}

func TestEditor_InitEditFailure(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	ed := NewEditor(fb.Client(), "999")
	if err := ed.Init(context.Background()); err == nil {
		t.Fatal("expected error for missing proforma")
	}
}

func TestEditor_ItemFlow(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	ed := NewEditor(fb.Client(), "")

	if _, err := ed.SubmitItem(services.ItemInput{Description: "Widget", UnitPrice: "10.50", Quantity: "3"}); err != nil {
		t.Fatalf("SubmitItem() error = %v", err)
	}
	v, err := ed.SubmitItem(services.ItemInput{Description: "Gadget", UnitPrice: "5", Quantity: "2"})
	if err != nil {
		t.Fatalf("SubmitItem() error = %v", err)
	}
	if v.Total != "S/ 41.50" {
		t.Errorf("expected total S/ 41.50, got %s", v.Total)
	}

	item, v, err := ed.EditItem(0)
	if err != nil {
		t.Fatalf("EditItem() error = %v", err)
	}
	if item.Description != "Widget" {
		t.Errorf("expected Widget in inputs, got %q", item.Description)
	}
	if idx, ok := v.Mode.Editing(); !ok || idx != 0 {
		t.Errorf("expected EditingAt(0), got %s", v.Mode)
	}

	v, err = ed.SubmitItem(services.ItemInput{Description: "Widget XL", UnitPrice: "10.50", Quantity: "4"})
	if err != nil {
		t.Fatalf("SubmitItem() error = %v", err)
	}
	if len(v.Items) != 2 || v.Items[0].Description != "Widget XL" || v.Total != "S/ 52.00" {
		t.Errorf("unexpected items after update %+v total %s", v.Items, v.Total)
	}
	if _, editing := v.Mode.Editing(); editing {
		t.Error("expected adding mode after update")
	}
}

func TestEditor_InvalidItemLeavesState(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	ed := NewEditor(fb.Client(), "")
	ed.SubmitItem(services.ItemInput{Description: "Widget", UnitPrice: "1", Quantity: "1"})

	tests := []services.ItemInput{
		{Description: "", UnitPrice: "1", Quantity: "1"},
		{Description: "X", UnitPrice: "abc", Quantity: "1"},
		{Description: "X", UnitPrice: "1", Quantity: ""},
		{Description: "X", UnitPrice: "-1", Quantity: "1"},
	}
	for _, in := range tests {
		v, err := ed.SubmitItem(in)
		var ve *services.ValidationError
		if !errors.As(err, &ve) || ve.Messages[0] != services.MsgItemIncomplete {
			t.Errorf("SubmitItem(%+v) error = %v", in, err)
		}
		if len(v.Items) != 1 {
			t.Errorf("expected state untouched, got %d items", len(v.Items))
		}
	}
}

func TestEditor_RemoveWhileEditingShiftsIndex(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	ed := NewEditor(fb.Client(), "")
	for _, d := range []string{"A", "B", "C"} {
		ed.SubmitItem(services.ItemInput{Description: d, UnitPrice: "1", Quantity: "1"})
	}
	ed.EditItem(2)

	v, err := ed.RemoveItem(0)
	if err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if idx, ok := v.Mode.Editing(); !ok || idx != 1 {
		t.Fatalf("expected EditingAt(1), got %s", v.Mode)
	}
	v, _ = ed.SubmitItem(services.ItemInput{Description: "C2", UnitPrice: "1", Quantity: "1"})
	if v.Items[1].Description != "C2" {
		t.Errorf("expected edited row to be replaced, got %+v", v.Items)
	}
}

func TestEditor_SubmitValidation(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	ed := NewEditor(fb.Client(), "")

	_, err := ed.Submit(context.Background(), services.Header{})
	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Messages) != 4 {
		t.Errorf("expected every violation, got %v", ve.Messages)
	}
	if fb.CallCount("POST /api/proformas") != 0 {
		t.Error("expected no backend call")
	}
}

func TestEditor_SubmitCreate(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	ed := NewEditor(fb.Client(), "")
	ed.SubmitItem(services.ItemInput{Description: "Widget", UnitPrice: "10.5", Quantity: "3"})

	id, err := ed.Submit(context.Background(), services.Header{Fecha: "2025-01-15", CotizacionNro: "12", Cliente: "ACME"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if id == "" {
		t.Fatal("expected new id")
	}

	var body map[string]any
	json.Unmarshal(fb.LastBody("POST /api/proformas"), &body)
	if body["incluye_igv"] != false || body["cliente"] != "ACME" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestEditor_SubmitEditUsesPut(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	id := fb.AddProforma(testhelpers.FakeProforma{
		Fecha: "2025-01-15", CotizacionNro: "12", Cliente: "ACME", IncluyeIGV: true,
		Items: []testhelpers.FakeItem{{Descripcion: "Widget", Cantidad: 1, PrecioUnitario: 1}},
	})
	ed := NewEditor(fb.Client(), itoa(id))
	ed.Init(context.Background())

	got, err := ed.Submit(context.Background(), services.Header{Fecha: "2025-01-16", CotizacionNro: "12", Cliente: "ACME SAC"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got != itoa(id) {
		t.Errorf("expected id %d, got %s", id, got)
	}
	stored, _ := fb.Proforma(id)
	if stored.Cliente != "ACME SAC" || stored.Fecha != "2025-01-16" {
		t.Errorf("expected update to be stored, got %+v", stored)
	}
	if fb.CallCount("POST /api/proformas") != 0 {
		t.Error("expected no create call in edit mode")
	}

	var body map[string]any
	if err := json.Unmarshal(fb.LastBody("PUT /api/proformas/{id}"), &body); err != nil {
		t.Fatalf("decode PUT body: %v", err)
	}
	if body["incluye_igv"] != false {
		t.Errorf("expected incluye_igv false on update, got %v", body["incluye_igv"])
	}
}

func TestEditor_SubmitFailureMessage(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	ed := NewEditor(fb.Client(), "")
	ed.SubmitItem(services.ItemInput{Description: "Widget", UnitPrice: "1", Quantity: "1"})
	h := services.Header{Fecha: "2025-01-15", CotizacionNro: "1", Cliente: "ACME"}

	fb.FailOn("POST /api/proformas", http.StatusInternalServerError, `{"success": false, "error": "Error interno del servidor."}`)
	_, err := ed.Submit(context.Background(), h)
	if got := SubmitErrorMessage(err); got != "Ocurrió un error: Error interno del servidor." {
		t.Errorf("unexpected message %q", got)
	}

	fb.FailOn("POST /api/proformas", http.StatusBadGateway, `bad gateway`)
	_, err = ed.Submit(context.Background(), h)
	if got := SubmitErrorMessage(err); got != "Ocurrió un error: Error del servidor." {
		t.Errorf("unexpected message %q", got)
	}
}

func TestEditor_SubmitRejectsConcurrent(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	ed := NewEditor(fb.Client(), "")
	ed.submitting = true

	_, err := ed.Submit(context.Background(), services.Header{Fecha: "x", CotizacionNro: "1", Cliente: "y"})
	if !errors.Is(err, ErrSubmitInProgress) {
		t.Errorf("expected ErrSubmitInProgress, got %v", err)
	}
}

func TestEditor_Suggest(t *testing.T) {
	fb := testhelpers.NewFakeBackend(t)
	fb.AddCliente(testhelpers.FakeCliente{Nombre: "ACME"})
	fb.AddCliente(testhelpers.FakeCliente{Nombre: "Acero Perú"})
	fb.AddCliente(testhelpers.FakeCliente{Nombre: "Beta"})
	ed := NewEditor(fb.Client(), "")

	if got := ed.Suggest(context.Background(), "A"); got != nil {
		t.Errorf("expected no suggestions for one character, got %v", got)
	}
	if fb.CallCount("GET /api/clientes/search") != 0 {
		t.Error("expected short term not to reach the backend")
	}

	got := ed.Suggest(context.Background(), "Ac")
	var names []string
	for _, c := range got {
		names = append(names, c.Nombre)
	}
	if strings.Join(names, ",") != "ACME,Acero Perú" {
		t.Errorf("unexpected suggestions %v", names)
	}

	fb.FailOn("GET /api/clientes/search", http.StatusInternalServerError, `[]`)
	if got := ed.Suggest(context.Background(), "Ac"); got != nil {
		t.Errorf("expected failed search to yield nothing, got %v", got)
	}
}
