package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"proformaweb/pages"
	"proformaweb/services"
	"proformaweb/templates"
)

func initCustomers(env *Env, e *core.RequestEvent) error {
	c := pages.NewCustomers(env.Backend)
	view := c.Load(e.Request.Context())

	pageID := env.Pages.Register(c)
	data := templates.CustomersData{PageID: pageID, View: view}
	meta := BuildPageMeta(e.Request, "Clientes", pageID)
	return renderPage(e, templates.CustomersContent(data), templates.CustomersPage(data, meta))
}

func renderCustomers(e *core.RequestEvent, view pages.CustomersView) error {
	return renderFragment(e, templates.CustomersContent(templates.CustomersData{
		PageID: e.Request.PathValue("pageId"),
		View:   view,
	}))
}

// HandleCustomerSave creates or updates the customer in the form.
func HandleCustomerSave(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c, ok, err := lookupPage[*pages.Customers](env, e)
		if !ok {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, pages.MsgCustomerSaveFailed)
		}

		form := pages.CustomerForm{
			ID:        e.Request.FormValue("id"),
			Nombre:    e.Request.FormValue("nombre"),
			RucDNI:    e.Request.FormValue("ruc_dni"),
			Direccion: e.Request.FormValue("direccion"),
			Telefono:  e.Request.FormValue("telefono"),
			Email:     e.Request.FormValue("email"),
		}
		editing := form.Editing()

		view, err := c.Save(e.Request.Context(), form)
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			return ErrorToast(e, http.StatusBadRequest, services.MsgNombreRequired)
		case err != nil:
			SetToast(e, ToastError, pages.MsgCustomerSaveFailed)
		case editing:
			SetToast(e, ToastSuccess, "Cliente actualizado.")
		default:
			SetToast(e, ToastSuccess, "Cliente creado.")
		}
		return renderCustomers(e, view)
	}
}

// HandleCustomerEdit loads a customer into the form.
func HandleCustomerEdit(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c, ok, err := lookupPage[*pages.Customers](env, e)
		if !ok {
			return err
		}
		view, err := c.Edit(e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Cliente no encontrado.")
		}
		return renderCustomers(e, view)
	}
}

// HandleCustomerDelete removes a customer after the browser confirmed it.
func HandleCustomerDelete(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c, ok, err := lookupPage[*pages.Customers](env, e)
		if !ok {
			return err
		}
		view, err := c.Delete(e.Request.Context(), e.Request.PathValue("id"))
		if err != nil {
			SetToast(e, ToastError, pages.MsgCustomerDeleteFailed)
		} else {
			SetToast(e, ToastSuccess, "Cliente eliminado.")
		}
		return renderCustomers(e, view)
	}
}

// HandleCustomerCancel resets the form.
func HandleCustomerCancel(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		c, ok, err := lookupPage[*pages.Customers](env, e)
		if !ok {
			return err
		}
		return renderCustomers(e, c.Cancel())
	}
}
