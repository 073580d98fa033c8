package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"proformaweb/templates"
)

// HandleSuccess renders the confirmation shown after a proforma is stored.
func HandleSuccess() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.URL.Query().Get("id")
		meta := BuildPageMeta(e.Request, "Proforma guardada", "")
		return renderPage(e, templates.SuccessContent(id), templates.SuccessPage(id, meta))
	}
}
