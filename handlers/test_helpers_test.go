package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"proformaweb/pages"
	"proformaweb/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app core.App, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// newTestEnv wires an Env to a fresh app and fake backend. The clock is
// fixed at 2024-05-10 09:30.
func newTestEnv(t *testing.T) (core.App, *Env, *testhelpers.FakeBackend) {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	fake := testhelpers.NewFakeBackend(t)
	env := NewEnv(app, fake.Client(), pages.DefaultTTL)
	env.Now = func() time.Time { return time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC) }
	return app, env, fake
}

// htmxRequest builds an htmx request. A non-nil form is sent urlencoded.
func htmxRequest(method, target string, form url.Values) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("HX-Request", "true")
	return req
}

// pageRequest is htmxRequest for a gesture on a registered page.
func pageRequest(method, target, pageID string, form url.Values) *http.Request {
	req := htmxRequest(method, target, form)
	req.SetPathValue("pageId", pageID)
	return req
}

// serve runs handler against req and returns the recorder.
func serve(t *testing.T, app core.App, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// toastMessage extracts the showToast message from HX-Trigger.
func toastMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return toastField(t, rec, "message")
}

func toastType(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return toastField(t, rec, "type")
}

func toastField(t *testing.T, rec *httptest.ResponseRecorder, field string) string {
	t.Helper()
	trigger := rec.Header().Get("HX-Trigger")
	if trigger == "" {
		return ""
	}
	var parsed map[string]map[string]string
	if err := json.Unmarshal([]byte(trigger), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	return parsed["showToast"][field]
}

func itoa(n int) string { return strconv.Itoa(n) }
