package services

import "strings"

// PageKind identifies which page initializer serves a path.
type PageKind int

const (
	PageNone PageKind = iota
	PageDashboard
	PageEditor
	PageProformaList
	PageCustomers
)

func (k PageKind) String() string {
	switch k {
	case PageDashboard:
		return "dashboard"
	case PageEditor:
		return "editor"
	case PageProformaList:
		return "proforma-list"
	case PageCustomers:
		return "customers"
	}
	return "none"
}

// ResolvePage maps a request path to exactly one page kind. The checks run in
// a fixed order so a path matches at most one initializer.
func ResolvePage(path string) PageKind {
	switch {
	case path == "/":
		return PageDashboard
	case strings.Contains(path, "/crear_proforma"), strings.Contains(path, "/proforma/editar"):
		return PageEditor
	case strings.Contains(path, "/lista_proformas"):
		return PageProformaList
	case strings.Contains(path, "/clientes"):
		return PageCustomers
	}
	return PageNone
}

// NavLink is one sidebar entry.
type NavLink struct {
	Href   string
	Label  string
	Active bool
}

var navLinks = []NavLink{
	{Href: "/", Label: "Dashboard"},
	{Href: "/crear_proforma", Label: "Crear Proforma"},
	{Href: "/lista_proformas", Label: "Lista de Proformas"},
	{Href: "/clientes", Label: "Clientes"},
}

// BuildNavLinks returns the sidebar entries with the one whose href equals
// path marked active.
func BuildNavLinks(path string) []NavLink {
	links := make([]NavLink, len(navLinks))
	for i, l := range navLinks {
		l.Active = l.Href == path
		links[i] = l
	}
	return links
}
