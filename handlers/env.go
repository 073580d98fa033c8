package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"proformaweb/backend"
	"proformaweb/pages"
)

// MsgPageExpired is shown when a gesture targets a page whose controller is
// gone, e.g. after a server restart or a long idle period.
const MsgPageExpired = "La página expiró. Recargue la página para continuar."

// Env is what every handler needs besides the request.
type Env struct {
	Backend *backend.Client
	Pages   *pages.Registry
	Now     func() time.Time
}

// NewEnv builds an Env whose page registry lives in the app store.
func NewEnv(app core.App, client *backend.Client, ttl time.Duration) *Env {
	return &Env{
		Backend: client,
		Pages:   pages.NewRegistry(app.Store(), ttl),
		Now:     time.Now,
	}
}

func (env *Env) now() time.Time {
	if env.Now == nil {
		return time.Now()
	}
	return env.Now()
}

// lookupPage resolves the {pageId} of the request to a controller of type T.
// When it is missing the request is answered with an error toast and ok is
// false.
func lookupPage[T any](env *Env, e *core.RequestEvent) (T, bool, error) {
	pageID := e.Request.PathValue("pageId")
	page, ok := pages.Lookup[T](env.Pages, pageID)
	if !ok {
		return page, false, ErrorToast(e, http.StatusGone, MsgPageExpired)
	}
	return page, true, nil
}

func closeURL(pageID string) string {
	return "/pages/" + pageID + "/close"
}
