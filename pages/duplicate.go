package pages

import (
	"context"
	"fmt"
	"time"

	"proformaweb/backend"
)

// Duplicate messages shown to the user.
const (
	MsgDuplicateFailed = "No se pudo duplicar la proforma."
	copySuffix         = " (Copia)"
)

// DuplicateBackend is the part of the backend a duplication needs.
type DuplicateBackend interface {
	GetProforma(ctx context.Context, id string) (backend.Proforma, error)
	NextNumber(ctx context.Context) (string, error)
	CreateProforma(ctx context.Context, in backend.ProformaInput) (string, error)
}

// Duplicate stores a copy of proforma id dated today, under the next quote
// number and with the customer marked as a copy. It returns the new id.
func Duplicate(ctx context.Context, b DuplicateBackend, id string, today time.Time) (string, error) {
	src, err := b.GetProforma(ctx, id)
	if err != nil {
		return "", fmt.Errorf("duplicate %s: load: %w", id, err)
	}
	next, err := b.NextNumber(ctx)
	if err != nil {
		return "", fmt.Errorf("duplicate %s: next number: %w", id, err)
	}

	newID, err := b.CreateProforma(ctx, backend.ProformaInput{
		Fecha:         today.Format("2006-01-02"),
		CotizacionNro: next,
		Cliente:       src.Cliente + copySuffix,
		IncluyeIGV:    src.IncluyeIGV,
		Items:         append([]backend.Item(nil), src.Items...),
	})
	if err != nil {
		return "", fmt.Errorf("duplicate %s: create: %w", id, err)
	}
	return newID, nil
}
