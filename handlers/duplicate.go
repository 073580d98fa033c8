package handlers

import (
	"log"

	"github.com/pocketbase/pocketbase/core"

	"proformaweb/pages"
)

// HandleDuplicate stores a copy of proforma {id} and opens it in the editor.
func HandleDuplicate(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		newID, err := pages.Duplicate(e.Request.Context(), env.Backend, id, env.now())
		if err != nil {
			log.Printf("duplicate: HandleDuplicate: %v", err)
			return FlashRedirect(e, "/lista_proformas", ToastError, pages.MsgDuplicateFailed)
		}
		return FlashRedirect(e, "/proforma/editar/"+newID, ToastSuccess, "Proforma duplicada. Revise y guarde los cambios.")
	}
}
