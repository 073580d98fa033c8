package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"proformaweb/pages"
	"proformaweb/testhelpers"
)

func TestHandleDuplicate(t *testing.T) {
	app, env, fake := newTestEnv(t)
	id := fake.AddProforma(testhelpers.FakeProforma{
		Fecha:         "2024-01-15",
		CotizacionNro: "41",
		Cliente:       "ACME SAC",
		Items:         []testhelpers.FakeItem{{Descripcion: "Widget", Cantidad: 3, PrecioUnitario: 10.5}},
	})

	req := httptest.NewRequest(http.MethodGet, "/proforma/duplicar/"+itoa(id), nil)
	req.SetPathValue("id", itoa(id))
	rec := serve(t, app, HandleDuplicate(env), req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	newID := id + 1
	if loc := rec.Header().Get("Location"); loc != "/proforma/editar/"+itoa(newID) {
		t.Errorf("unexpected redirect %q", loc)
	}
	copied, ok := fake.Proforma(newID)
	if !ok {
		t.Fatal("expected a copy to be stored")
	}
	if copied.Cliente != "ACME SAC (Copia)" || copied.CotizacionNro != "42" || copied.Fecha != "2024-05-10" {
		t.Errorf("unexpected copy %+v", copied)
	}
	if len(copied.Items) != 1 || copied.Items[0].Descripcion != "Widget" {
		t.Errorf("unexpected copied items %+v", copied.Items)
	}
}

func TestHandleDuplicate_Missing(t *testing.T) {
	app, env, fake := newTestEnv(t)

	req := htmxRequest(http.MethodGet, "/proforma/duplicar/99", nil)
	req.SetPathValue("id", "99")
	rec := serve(t, app, HandleDuplicate(env), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/lista_proformas")
	if msg := toastMessage(t, rec); msg != pages.MsgDuplicateFailed {
		t.Errorf("expected toast %q, got %q", pages.MsgDuplicateFailed, msg)
	}
	if fake.ProformaCount() != 0 {
		t.Error("nothing should be stored")
	}
}
