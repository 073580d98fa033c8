package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"proformaweb/pages"
	"proformaweb/services"
	"proformaweb/templates"
)

// MsgExportFailed is shown when the export file could not be produced.
const MsgExportFailed = "No se pudo generar el archivo de exportación."

func initProformaList(env *Env, e *core.RequestEvent) error {
	list := pages.NewProformaList(env.Backend)
	view := list.Load(e.Request.Context())

	pageID := env.Pages.Register(list)
	data := templates.ListData{PageID: pageID, View: view}
	meta := BuildPageMeta(e.Request, "Lista de Proformas", pageID)
	return renderPage(e, templates.ListContent(data), templates.ListPage(data, meta))
}

func renderList(e *core.RequestEvent, view pages.ListView) error {
	return renderFragment(e, templates.ListFragment(templates.ListData{
		PageID: e.Request.PathValue("pageId"),
		View:   view,
	}))
}

// HandleListSearch reloads page 1 filtered by the submitted term.
func HandleListSearch(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, ok, err := lookupPage[*pages.ProformaList](env, e)
		if !ok {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Búsqueda no válida.")
		}
		return renderList(e, list.Search(e.Request.Context(), e.Request.FormValue("search")))
	}
}

// HandleListPrev shows the previous page.
func HandleListPrev(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, ok, err := lookupPage[*pages.ProformaList](env, e)
		if !ok {
			return err
		}
		return renderList(e, list.Prev(e.Request.Context()))
	}
}

// HandleListNext shows the next page.
func HandleListNext(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, ok, err := lookupPage[*pages.ProformaList](env, e)
		if !ok {
			return err
		}
		return renderList(e, list.Next(e.Request.Context()))
	}
}

// HandleListStatus stores the status picked in a row's select.
func HandleListStatus(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, ok, err := lookupPage[*pages.ProformaList](env, e)
		if !ok {
			return err
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, services.MsgInvalidStatus)
		}

		view, err := list.ChangeStatus(e.Request.Context(), e.Request.PathValue("id"), e.Request.FormValue("status"))
		if errors.Is(err, services.ErrInvalidStatus) {
			return ErrorToast(e, http.StatusBadRequest, services.MsgInvalidStatus)
		}
		if err != nil {
			SetToast(e, ToastError, pages.MsgStatusUpdateFailed)
		}
		return renderList(e, view)
	}
}

// HandleListDeleteOpen opens the confirmation modal for a row.
func HandleListDeleteOpen(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, ok, err := lookupPage[*pages.ProformaList](env, e)
		if !ok {
			return err
		}
		return renderList(e, list.OpenDelete(e.Request.PathValue("id")))
	}
}

// HandleListDeleteCancel closes the modal.
func HandleListDeleteCancel(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, ok, err := lookupPage[*pages.ProformaList](env, e)
		if !ok {
			return err
		}
		return renderList(e, list.CancelDelete())
	}
}

// HandleListDeleteConfirm deletes the proforma the modal was opened for.
// A failure keeps the modal open with its message.
func HandleListDeleteConfirm(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, ok, err := lookupPage[*pages.ProformaList](env, e)
		if !ok {
			return err
		}
		view, err := list.ConfirmDelete(e.Request.Context())
		if err == nil {
			SetToast(e, ToastSuccess, "Proforma eliminada.")
		}
		return renderList(e, view)
	}
}

// listExporter renders the export data of a list page into a file.
type listExporter struct {
	contentType string
	extension   string
	generate    func(services.ExportData) ([]byte, error)
}

var (
	excelExporter = listExporter{
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		extension:   "xlsx",
		generate:    services.GenerateProformasExcel,
	}
	pdfExporter = listExporter{
		contentType: "application/pdf",
		extension:   "pdf",
		generate:    services.GenerateProformasPDF,
	}
)

// HandleListExport downloads every proforma matching the current search as
// an Excel workbook.
func HandleListExport(env *Env) func(*core.RequestEvent) error {
	return handleListExport(env, excelExporter)
}

// HandleListExportPDF is HandleListExport as a PDF table.
func HandleListExportPDF(env *Env) func(*core.RequestEvent) error {
	return handleListExport(env, pdfExporter)
}

func handleListExport(env *Env, x listExporter) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		list, ok, err := lookupPage[*pages.ProformaList](env, e)
		if !ok {
			return err
		}

		data, err := list.Export(e.Request.Context())
		if err != nil {
			log.Printf("export_%s: %v", x.extension, err)
			return e.String(http.StatusBadGateway, MsgExportFailed)
		}

		file, err := x.generate(data)
		if err != nil {
			log.Printf("export_%s: failed to generate: %v", x.extension, err)
			return e.String(http.StatusInternalServerError, MsgExportFailed)
		}

		filename := fmt.Sprintf("proformas_%s.%s", env.now().Format("2006-01-02"), x.extension)
		e.Response.Header().Set("Content-Type", x.contentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		_, err = e.Response.Write(file)
		return err
	}
}
