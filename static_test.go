package main

import (
	"os"
	"strings"
	"testing"
)

// pageHideHandler returns the body of the pagehide listener in app.js.
func pageHideHandler(t *testing.T, js string) string {
	t.Helper()
	start := strings.Index(js, `addEventListener("pagehide"`)
	if start < 0 {
		t.Fatal("app.js has no pagehide listener")
	}
	end := strings.Index(js[start:], "});")
	if end < 0 {
		t.Fatal("pagehide listener is not closed")
	}
	return js[start : start+end]
}

func TestAppJS_PageCloseSkipsCachedPages(t *testing.T) {
	data, err := os.ReadFile("static/app.js")
	if err != nil {
		t.Fatalf("read app.js: %v", err)
	}
	handler := pageHideHandler(t, string(data))

	guard := strings.Index(handler, "if (evt.persisted) return;")
	beacon := strings.Index(handler, "sendBeacon")
	if guard < 0 || beacon < 0 || guard > beacon {
		t.Errorf("pagehide must return on persisted pages before sending the close beacon:\n%s", handler)
	}
	if !strings.Contains(string(data), `addEventListener("pageshow"`) {
		t.Error("expected a pageshow listener that reloads restored pages")
	}
}
