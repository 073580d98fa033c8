package handlers

import (
	"github.com/pocketbase/pocketbase/core"

	"proformaweb/pages"
	"proformaweb/templates"
)

// The dashboard has no gestures after the first render, so no controller
// is registered for it.
func initDashboard(env *Env, e *core.RequestEvent) error {
	view := pages.LoadDashboard(e.Request.Context(), env.Backend)
	meta := BuildPageMeta(e.Request, "Dashboard", "")
	return renderPage(e, templates.DashboardContent(view), templates.DashboardPage(view, meta))
}
