package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"proformaweb/templates"
)

// BuildPageMeta constructs the page chrome for the current request. pageID
// is empty for pages without a controller.
func BuildPageMeta(r *http.Request, title, pageID string) templates.PageMeta {
	meta := templates.PageMeta{
		Title: title,
		Nav:   GetNavLinks(r),
	}
	if pageID != "" {
		meta.CloseURL = closeURL(pageID)
	}
	return meta
}

// renderPage writes the partial for htmx requests and the full page
// otherwise.
func renderPage(e *core.RequestEvent, partial, full templ.Component) error {
	component := full
	if isHTMX(e) {
		component = partial
	}
	return component.Render(e.Request.Context(), e.Response)
}

// renderFragment writes an htmx fragment.
func renderFragment(e *core.RequestEvent, c templ.Component) error {
	return c.Render(e.Request.Context(), e.Response)
}
