package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"proformaweb/backend"
	"proformaweb/config"
)

func TestPingBackendCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/proformas/next_number" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"next_number": 42}`))
	}))
	defer srv.Close()

	cmd := newPingBackendCmd(backend.New(srv.URL))
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("ping-backend failed: %v", err)
	}
}

func TestPingBackendCmd_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cmd := newPingBackendCmd(backend.New(url))
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error for an unreachable backend")
	}
}

func TestWriteConfigCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "proformas.yaml")
	cfg := config.Default()
	cfg.Backend.URL = "https://api.example.pe"

	cmd := newWriteConfigCmd(cfg)
	cmd.SetArgs([]string{"--out", out})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("write-config failed: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	loaded, err := config.Load(out)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Backend.URL != "https://api.example.pe" {
		t.Errorf("unexpected backend url %q", loaded.Backend.URL)
	}
}

func TestNewBackendClient_Headers(t *testing.T) {
	cfg := config.Default()
	cfg.Backend.URL = "http://127.0.0.1:5000/"
	cfg.Backend.Headers = map[string]string{"X-Api-Key": "secret"}

	c := newBackendClient(cfg)
	if c.BaseURL() != "http://127.0.0.1:5000" {
		t.Errorf("unexpected base url %q", c.BaseURL())
	}
	if got := c.Headers().Get("X-Api-Key"); got != "secret" {
		t.Errorf("expected X-Api-Key header, got %q", got)
	}
}
