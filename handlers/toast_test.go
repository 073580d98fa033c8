package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func newToastEvent() (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	e.Response = rec
	return e, rec
}

func decodeTrigger(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	trigger := rec.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("expected HX-Trigger header to be set")
	}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trigger), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	return parsed
}

func TestSetToast_Payload(t *testing.T) {
	tests := []struct {
		name      string
		toastType string
		message   string
	}{
		{"success", ToastSuccess, "Cliente creado."},
		{"error", ToastError, "Error al eliminar el cliente."},
		{"warning", ToastWarning, "La página expiró."},
		{"quotes and markup", ToastError, `Cliente "ACME" <b>duplicado</b>`},
		{"multi line", ToastError, "Por favor, corrija los siguientes errores:\n\n- La fecha es obligatoria."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newToastEvent()
			SetToast(e, tt.toastType, tt.message)

			var toast map[string]string
			if err := json.Unmarshal(decodeTrigger(t, rec)["showToast"], &toast); err != nil {
				t.Fatalf("showToast is not valid JSON: %v", err)
			}
			if toast["type"] != tt.toastType || toast["message"] != tt.message {
				t.Errorf("unexpected toast %v", toast)
			}

			cookies := rec.Result().Cookies()
			if len(cookies) != 1 || cookies[0].Name != "flash_toast" {
				t.Fatalf("expected one flash_toast cookie, got %v", cookies)
			}
			raw, err := url.QueryUnescape(cookies[0].Value)
			if err != nil {
				t.Fatalf("cookie is not query-escaped: %v", err)
			}
			var flash map[string]string
			if err := json.Unmarshal([]byte(raw), &flash); err != nil || flash["message"] != tt.message {
				t.Errorf("unexpected flash cookie %q (%v)", raw, err)
			}
		})
	}
}

func TestSetToast_MergesWithExistingTrigger(t *testing.T) {
	e, rec := newToastEvent()
	rec.Header().Set("HX-Trigger", `{"listChanged":{"page":"2"}}`)

	SetToast(e, ToastSuccess, "Proforma eliminada.")

	parsed := decodeTrigger(t, rec)
	if _, ok := parsed["listChanged"]; !ok {
		t.Error("expected listChanged to be preserved after merge")
	}
	if _, ok := parsed["showToast"]; !ok {
		t.Error("expected showToast to be added")
	}
}

func TestSetToast_OverwritesInvalidTrigger(t *testing.T) {
	e, rec := newToastEvent()
	rec.Header().Set("HX-Trigger", "listChanged")

	SetToast(e, ToastError, "Error del servidor.")

	if _, ok := decodeTrigger(t, rec)["showToast"]; !ok {
		t.Error("expected showToast key after overwriting invalid header")
	}
}

func TestErrorToast(t *testing.T) {
	tests := []struct {
		code int
		msg  string
	}{
		{http.StatusBadRequest, "Por favor, complete todos los campos del producto."},
		{http.StatusConflict, MsgSubmitInProgress},
		{http.StatusGone, MsgPageExpired},
		{http.StatusBadGateway, "Ocurrió un error: Error del servidor."},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			e, rec := newToastEvent()
			if err := ErrorToast(e, tt.code, tt.msg); err != nil {
				t.Fatalf("ErrorToast returned error: %v", err)
			}
			if rec.Code != tt.code {
				t.Errorf("expected status %d, got %d", tt.code, rec.Code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none")
			}
			if rec.Body.String() != tt.msg {
				t.Errorf("expected body %q, got %q", tt.msg, rec.Body.String())
			}
			if got := toastType(t, rec); got != ToastError {
				t.Errorf("expected error toast, got %q", got)
			}
		})
	}
}

func TestFlashRedirect(t *testing.T) {
	tests := []struct {
		name       string
		htmx       bool
		wantCode   int
		wantHeader string
	}{
		{"htmx", true, http.StatusOK, "HX-Redirect"},
		{"plain", false, http.StatusFound, "Location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newToastEvent()
			if tt.htmx {
				e.Request.Header.Set("HX-Request", "true")
			}

			if err := FlashRedirect(e, "/lista_proformas", ToastError, "No se pudo duplicar la proforma."); err != nil {
				t.Fatalf("FlashRedirect returned error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if got := rec.Header().Get(tt.wantHeader); got != "/lista_proformas" {
				t.Errorf("expected %s /lista_proformas, got %q", tt.wantHeader, got)
			}
		})
	}
}
