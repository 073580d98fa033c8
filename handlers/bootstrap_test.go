package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"proformaweb/pages"
	"proformaweb/testhelpers"
)

func TestHandleBootstrap_Dashboard(t *testing.T) {
	app, env, fake := newTestEnv(t)
	fake.SetStats([]string{"Ene", "Feb", "Mar"}, []int{400, 350, 500})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := serve(t, app, HandleBootstrap(env), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"<!DOCTYPE html>",
		"<title>Dashboard · Proformas</title>",
		`id="proformasChart"`,
		`id="proformas-chart-data"`,
		"1,250",
		`<a href="/" class="active">Dashboard</a>`,
	)
	testhelpers.AssertHTMLNotContains(t, body, "data-close-url")
	if env.Pages.Len() != 0 {
		t.Errorf("dashboard should not register a page, got %d", env.Pages.Len())
	}
}

func TestHandleBootstrap_DashboardStatsFailure(t *testing.T) {
	app, env, fake := newTestEnv(t)
	fake.FailOn("GET /api/dashboard_stats", http.StatusInternalServerError, `{"error":"boom"}`)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := serve(t, app, HandleBootstrap(env), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "<h1>Dashboard</h1>")
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "proformasChart")
}

func TestHandleBootstrap_UnknownPath(t *testing.T) {
	app, env, _ := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/reportes", nil)
	rec := serve(t, app, HandleBootstrap(env), req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Página no encontrada")
}

func TestHandleBootstrap_EditorCreate(t *testing.T) {
	app, env, fake := newTestEnv(t)
	fake.AddProforma(testhelpers.FakeProforma{Fecha: "2024-05-01", CotizacionNro: "41", Cliente: "ACME"})

	req := httptest.NewRequest(http.MethodGet, "/crear_proforma", nil)
	rec := serve(t, app, HandleBootstrap(env), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"<title>Crear Proforma · Proformas</title>",
		`name="cotizacion_nro" value="42"`,
		`data-close-url="/pages/`,
		"Guardar Proforma",
		"S/ 0.00",
	)
	if env.Pages.Len() != 1 {
		t.Errorf("expected one registered page, got %d", env.Pages.Len())
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("expected Cache-Control no-store, got %q", got)
	}
}

func TestHandleBootstrap_EditorCreateWithoutNextNumber(t *testing.T) {
	app, env, fake := newTestEnv(t)
	fake.FailOn("GET /api/proformas/next_number", http.StatusInternalServerError, `{"error":"boom"}`)

	req := httptest.NewRequest(http.MethodGet, "/crear_proforma", nil)
	rec := serve(t, app, HandleBootstrap(env), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `name="cotizacion_nro" value=""`)
}

func TestHandleBootstrap_EditorEdit(t *testing.T) {
	app, env, fake := newTestEnv(t)
	id := fake.AddProforma(testhelpers.FakeProforma{
		Fecha:         "2024-05-01",
		CotizacionNro: "7",
		Cliente:       "ACME SAC",
		Items: []testhelpers.FakeItem{
			{Descripcion: "Widget", Cantidad: 3, PrecioUnitario: 10.5},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/proforma/editar/"+itoa(id), nil)
	req.SetPathValue("id", itoa(id))
	rec := serve(t, app, HandleBootstrap(env), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Editando Proforma",
		`value="ACME SAC"`,
		`value="2024-05-01"`,
		"Widget",
		"S/ 31.50",
		"Guardar Cambios",
	)
}

func TestHandleBootstrap_EditorEditMissing(t *testing.T) {
	app, env, _ := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/proforma/editar/99", nil)
	req.SetPathValue("id", "99")
	rec := serve(t, app, HandleBootstrap(env), req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/lista_proformas" {
		t.Errorf("expected redirect to /lista_proformas, got %q", loc)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "flash_toast=") {
		t.Error("expected flash_toast cookie")
	}
	if msg := toastMessage(t, rec); msg != pages.MsgEditLoadFailed {
		t.Errorf("expected toast %q, got %q", pages.MsgEditLoadFailed, msg)
	}
	if env.Pages.Len() != 0 {
		t.Errorf("failed edit should not register a page, got %d", env.Pages.Len())
	}
}

func TestHandleBootstrap_ProformaList(t *testing.T) {
	app, env, fake := newTestEnv(t)
	fake.AddProforma(testhelpers.FakeProforma{
		Fecha:         "2024-05-01",
		CotizacionNro: "7",
		Cliente:       "ACME SAC",
		Items:         []testhelpers.FakeItem{{Descripcion: "Widget", Cantidad: 2, PrecioUnitario: 5}},
	})

	req := httptest.NewRequest(http.MethodGet, "/lista_proformas", nil)
	rec := serve(t, app, HandleBootstrap(env), req)

	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"<h1>Lista de Proformas</h1>",
		"01/05/2024",
		"ACME SAC",
		"Widget (x2)",
		"S/ 10.00",
		`<a href="/lista_proformas" class="active">`,
	)
	if env.Pages.Len() != 1 {
		t.Errorf("expected one registered page, got %d", env.Pages.Len())
	}
}

func TestHandleBootstrap_ProformaListEmpty(t *testing.T) {
	app, env, _ := newTestEnv(t)

	req := htmxRequest(http.MethodGet, "/lista_proformas", nil)
	rec := serve(t, app, HandleBootstrap(env), req)

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, pages.MsgNoProformas)
	testhelpers.AssertHTMLNotContains(t, body, "<!DOCTYPE html>")
}

func TestHandleBootstrap_Customers(t *testing.T) {
	app, env, fake := newTestEnv(t)
	fake.AddCliente(testhelpers.FakeCliente{Nombre: "ACME SAC", RucDNI: "20123456789"})

	req := httptest.NewRequest(http.MethodGet, "/clientes", nil)
	rec := serve(t, app, HandleBootstrap(env), req)

	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Añadir Nuevo Cliente", "ACME SAC", "20123456789")
	if env.Pages.Len() != 1 {
		t.Errorf("expected one registered page, got %d", env.Pages.Len())
	}
}

func TestHandlePageClose(t *testing.T) {
	app, env, _ := newTestEnv(t)
	pageID := env.Pages.Register(pages.NewProformaList(env.Backend))

	req := pageRequest(http.MethodPost, closeURL(pageID), pageID, nil)
	rec := serve(t, app, HandlePageClose(env), req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if env.Pages.Len() != 0 {
		t.Errorf("expected page to be removed, %d left", env.Pages.Len())
	}

	// Closing twice is harmless.
	rec = serve(t, app, HandlePageClose(env), pageRequest(http.MethodPost, closeURL(pageID), pageID, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 on second close, got %d", rec.Code)
	}
}

func TestSweepPages(t *testing.T) {
	app, _, fake := newTestEnv(t)
	env := NewEnv(app, fake.Client(), time.Nanosecond)
	env.Pages.Register(pages.NewProformaList(env.Backend))

	time.Sleep(time.Millisecond)
	SweepPages(env)()

	if env.Pages.Len() != 0 {
		t.Errorf("expected idle page to be swept, %d left", env.Pages.Len())
	}
}
