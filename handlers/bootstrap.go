package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"proformaweb/services"
	"proformaweb/templates"
)

// HandleBootstrap is bound to every page route. It resolves which page the
// path belongs to and runs exactly one page initializer for it.
func HandleBootstrap(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// A page restored from the back/forward cache would still carry a
		// page id that may have been released.
		e.Response.Header().Set("Cache-Control", "no-store")

		kind := services.ResolvePage(e.Request.URL.Path)
		switch kind {
		case services.PageDashboard:
			return initDashboard(env, e)
		case services.PageEditor:
			return initEditor(env, e)
		case services.PageProformaList:
			return initProformaList(env, e)
		case services.PageCustomers:
			return initCustomers(env, e)
		}

		log.Printf("bootstrap: HandleBootstrap: no page for %s", e.Request.URL.Path)
		e.Response.WriteHeader(http.StatusNotFound)
		meta := BuildPageMeta(e.Request, "No encontrado", "")
		return renderPage(e, templates.NotFoundPage(), templates.Layout(meta, templates.NotFoundPage()))
	}
}

// HandlePageClose discards the controller of a page the browser left.
func HandlePageClose(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		env.Pages.Remove(e.Request.PathValue("pageId"))
		return e.NoContent(http.StatusNoContent)
	}
}

// SweepPages drops idle page controllers. It is run by the app cron.
func SweepPages(env *Env) func() {
	return func() {
		if n := env.Pages.Sweep(); n > 0 {
			log.Printf("bootstrap: SweepPages: dropped %d idle pages", n)
		}
	}
}
