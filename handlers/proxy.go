package handlers

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// MsgBackendUnavailable is returned when a proxied request cannot reach the
// backend.
const MsgBackendUnavailable = "No se pudo conectar con el servidor."

// NewBackendProxy forwards preview, PDF and export downloads to the backend
// unchanged, adding the configured static headers.
func NewBackendProxy(env *Env) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(env.Backend.BaseURL())
	if err != nil {
		return nil, err
	}
	headers := env.Backend.Headers()

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.Out.Header.Del("Cookie")
			for k, vs := range headers {
				pr.Out.Header[k] = append([]string(nil), vs...)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Printf("proxy: %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, MsgBackendUnavailable, http.StatusBadGateway)
		},
	}, nil
}

// HandleProxy serves a request through proxy.
func HandleProxy(proxy *httputil.ReverseProxy) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		proxy.ServeHTTP(e.Response, e.Request)
		return nil
	}
}
