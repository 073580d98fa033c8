package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"proformaweb/pages"
	"proformaweb/services"
	"proformaweb/templates"
)

// MsgSubmitInProgress is shown when the same page submits twice at once.
const MsgSubmitInProgress = "La proforma ya se está guardando."

// initEditor builds the editor for /crear_proforma or /proforma/editar/{id}.
func initEditor(env *Env, e *core.RequestEvent) error {
	proformaID := e.Request.PathValue("id")
	ed := pages.NewEditor(env.Backend, proformaID)

	if err := ed.Init(e.Request.Context()); err != nil {
		log.Printf("editor: initEditor: %v", err)
		return FlashRedirect(e, "/lista_proformas", ToastError, pages.MsgEditLoadFailed)
	}

	pageID := env.Pages.Register(ed)
	data := templates.EditorData{PageID: pageID, View: ed.View()}
	meta := BuildPageMeta(e.Request, templates.EditorTitle(proformaID != ""), pageID)
	return renderPage(e, templates.EditorContent(data), templates.EditorPage(data, meta))
}

func itemIndex(e *core.RequestEvent) (int, error) {
	return strconv.Atoi(e.Request.PathValue("index"))
}

// HandleEditorAddItem adds an item, or updates the one being edited.
func HandleEditorAddItem(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ed, ok, err := lookupPage[*pages.Editor](env, e)
		if !ok {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, services.MsgItemIncomplete)
		}

		view, err := ed.SubmitItem(services.ItemInput{
			Description: e.Request.FormValue("item_descripcion"),
			UnitPrice:   e.Request.FormValue("precio_unitario"),
			Quantity:    e.Request.FormValue("cantidad"),
		})
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, services.MsgItemIncomplete)
		}
		return renderFragment(e, templates.ItemsSection(templates.EditorData{
			PageID: e.Request.PathValue("pageId"),
			View:   view,
		}))
	}
}

// HandleEditorEditItem loads row {index} into the inputs.
func HandleEditorEditItem(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ed, ok, err := lookupPage[*pages.Editor](env, e)
		if !ok {
			return err
		}
		idx, err := itemIndex(e)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Producto no válido.")
		}

		item, view, err := ed.EditItem(idx)
		if err != nil {
			log.Printf("editor: HandleEditorEditItem: index %d: %v", idx, err)
			return ErrorToast(e, http.StatusNotFound, "Producto no encontrado.")
		}
		return renderFragment(e, templates.ItemsSection(templates.EditorData{
			PageID: e.Request.PathValue("pageId"),
			View:   view,
			Input: services.ItemInput{
				Description: item.Description,
				UnitPrice:   item.UnitPrice.String(),
				Quantity:    strconv.Itoa(item.Quantity),
			},
		}))
	}
}

// HandleEditorCancelItem leaves edit mode and clears the inputs.
func HandleEditorCancelItem(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ed, ok, err := lookupPage[*pages.Editor](env, e)
		if !ok {
			return err
		}
		return renderFragment(e, templates.ItemsSection(templates.EditorData{
			PageID: e.Request.PathValue("pageId"),
			View:   ed.CancelEdit(),
		}))
	}
}

// HandleEditorDeleteItem removes row {index}.
func HandleEditorDeleteItem(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ed, ok, err := lookupPage[*pages.Editor](env, e)
		if !ok {
			return err
		}
		idx, err := itemIndex(e)
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Producto no válido.")
		}

		view, err := ed.RemoveItem(idx)
		if err != nil {
			log.Printf("editor: HandleEditorDeleteItem: index %d: %v", idx, err)
			return ErrorToast(e, http.StatusNotFound, "Producto no encontrado.")
		}
		return renderFragment(e, templates.ItemsSection(templates.EditorData{
			PageID: e.Request.PathValue("pageId"),
			View:   view,
		}))
	}
}

// HandleEditorSubmit validates and stores the proforma, then sends the
// browser to the confirmation page.
func HandleEditorSubmit(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ed, ok, err := lookupPage[*pages.Editor](env, e)
		if !ok {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Datos de formulario no válidos.")
		}

		id, err := ed.Submit(e.Request.Context(), services.Header{
			Fecha:         e.Request.FormValue("fecha"),
			CotizacionNro: e.Request.FormValue("cotizacion_nro"),
			Cliente:       e.Request.FormValue("cliente"),
		})
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			return ErrorToast(e, http.StatusBadRequest, ve.Error())
		case errors.Is(err, pages.ErrSubmitInProgress):
			return ErrorToast(e, http.StatusConflict, MsgSubmitInProgress)
		case err != nil:
			log.Printf("editor: HandleEditorSubmit: %v", err)
			return ErrorToast(e, http.StatusBadGateway, pages.SubmitErrorMessage(err))
		}

		env.Pages.Remove(e.Request.PathValue("pageId"))
		return redirect(e, "/exito?id="+url.QueryEscape(id))
	}
}

// HandleEditorSuggest renders the customer suggestions for the typed name.
func HandleEditorSuggest(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		ed, ok, err := lookupPage[*pages.Editor](env, e)
		if !ok {
			return err
		}
		term := e.Request.URL.Query().Get("cliente")
		return renderFragment(e, templates.Suggestions(ed.Suggest(e.Request.Context(), term)))
	}
}
