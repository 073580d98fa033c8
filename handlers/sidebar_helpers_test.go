package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"proformaweb/templates"
	"proformaweb/testhelpers"
)

func TestBuildPageMeta(t *testing.T) {
	tests := []struct {
		name      string
		pageID    string
		wantClose string
	}{
		{"with controller", "abc", "/pages/abc/close"},
		{"without controller", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/crear_proforma", nil)
			meta := BuildPageMeta(req, "Crear Proforma", tt.pageID)

			if meta.Title != "Crear Proforma" {
				t.Errorf("unexpected title %q", meta.Title)
			}
			if meta.CloseURL != tt.wantClose {
				t.Errorf("expected CloseURL %q, got %q", tt.wantClose, meta.CloseURL)
			}
			if len(meta.Nav) == 0 || !meta.Nav[1].Active {
				t.Errorf("expected Crear Proforma link to be active, got %v", meta.Nav)
			}
		})
	}
}

func TestRenderPage_PartialForHTMX(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	meta := templates.PageMeta{Title: "Prueba"}

	tests := []struct {
		name     string
		htmx     bool
		wantFull bool
	}{
		{"htmx", true, false},
		{"browser", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := renderPage(e, templates.NotFoundPage(), templates.Layout(meta, templates.NotFoundPage())); err != nil {
				t.Fatalf("renderPage: %v", err)
			}
			body := rec.Body.String()
			testhelpers.AssertHTMLContains(t, body, "Página no encontrada")
			if full := strings.HasPrefix(body, "<!DOCTYPE html>"); full != tt.wantFull {
				t.Errorf("full document = %v, want %v", full, tt.wantFull)
			}
		})
	}
}
