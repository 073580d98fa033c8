package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"proformaweb/backend"
	"proformaweb/pages"
)

func TestHandleProxy(t *testing.T) {
	app, env, fake := newTestEnv(t)
	proxy, err := NewBackendProxy(env)
	if err != nil {
		t.Fatalf("NewBackendProxy: %v", err)
	}

	tests := []struct {
		name     string
		target   string
		wantType string
		wantBody string
	}{
		{"preview", "/api/proforma/17/preview", "text/html", "<h1>Proforma 17</h1>"},
		{"pdf", "/api/proforma/17/pdf", "application/pdf", "%PDF-1.4 fake"},
		{"export", "/api/proformas/export?search=acme", "application/vnd.openxmlformats", "xlsx search=acme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := serve(t, app, HandleProxy(proxy), req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.wantType) {
				t.Errorf("expected Content-Type %q, got %q", tt.wantType, ct)
			}
			if body := rec.Body.String(); body != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, body)
			}
		})
	}
	if fake.CallCount("GET /api/proforma/{id}/pdf") != 1 {
		t.Error("expected the pdf request to reach the backend")
	}
}

func TestHandleProxy_StaticHeaders(t *testing.T) {
	var gotKey, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotCookie = r.Header.Get("Cookie")
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	app, _, _ := newTestEnv(t)
	env := NewEnv(app, backend.New(srv.URL, backend.WithHeader("X-Api-Key", "secret")), pages.DefaultTTL)
	proxy, err := NewBackendProxy(env)
	if err != nil {
		t.Fatalf("NewBackendProxy: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/proforma/1/preview", nil)
	req.Header.Set("Cookie", "flash_toast=x")
	serve(t, app, HandleProxy(proxy), req)

	if gotKey != "secret" {
		t.Errorf("expected X-Api-Key to be forwarded, got %q", gotKey)
	}
	if gotCookie != "" {
		t.Errorf("expected browser cookies to be dropped, got %q", gotCookie)
	}
}

func TestHandleProxy_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	app, _, _ := newTestEnv(t)
	env := NewEnv(app, backend.New(url), pages.DefaultTTL)
	proxy, err := NewBackendProxy(env)
	if err != nil {
		t.Fatalf("NewBackendProxy: %v", err)
	}

	rec := serve(t, app, HandleProxy(proxy), httptest.NewRequest(http.MethodGet, "/api/proforma/1/pdf", nil))
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
}
