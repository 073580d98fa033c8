package handlers

import (
	"context"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"proformaweb/services"
)

type contextKey string

const NavLinksKey contextKey = "navLinks"

// GetNavLinks extracts the sidebar links from the request context. Requests
// that did not pass through NavMiddleware get links built from their path.
func GetNavLinks(r *http.Request) []services.NavLink {
	if val, ok := r.Context().Value(NavLinksKey).([]services.NavLink); ok {
		return val
	}
	return services.BuildNavLinks(r.URL.Path)
}

// NavMiddleware builds the sidebar links for the current path, marking the
// active one, and stores them in the request context.
func NavMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		links := services.BuildNavLinks(e.Request.URL.Path)
		ctx := context.WithValue(e.Request.Context(), NavLinksKey, links)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
