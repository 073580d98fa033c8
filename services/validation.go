package services

import (
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// Messages shown to the user. They are part of the UI, hence Spanish.
const (
	MsgItemIncomplete   = "Por favor, complete todos los campos del producto."
	MsgFechaRequired    = "La fecha es obligatoria."
	MsgNumeroRequired   = "El número de cotización es obligatorio."
	MsgClienteRequired  = "El nombre del cliente es obligatorio."
	MsgItemsRequired    = "Debe agregar al menos un producto a la proforma."
	MsgNombreRequired   = "El nombre es obligatorio."
	msgValidationHeader = "Por favor, corrija los siguientes errores:"
)

// ValidationError carries every violated rule of one form, in form order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return msgValidationHeader + "\n\n- " + strings.Join(e.Messages, "\n- ")
}

// ItemInput is the raw content of the item input fields.
type ItemInput struct {
	Description string
	UnitPrice   string
	Quantity    string
}

// ParseItemInput converts the raw inputs into a LineItem. The description
// must be non-empty, the price a non-negative decimal and the quantity a
// non-negative integer; anything else yields a ValidationError with
// MsgItemIncomplete.
func ParseItemInput(in ItemInput) (LineItem, error) {
	invalid := &ValidationError{Messages: []string{MsgItemIncomplete}}

	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return LineItem{}, invalid
	}

	priceF, err := strconv.ParseFloat(strings.TrimSpace(in.UnitPrice), 64)
	if err != nil || math.IsNaN(priceF) || math.IsInf(priceF, 0) || priceF < 0 {
		return LineItem{}, invalid
	}
	price, err := decimal.NewFromString(strings.TrimSpace(in.UnitPrice))
	if err != nil {
		price = decimal.NewFromFloat(priceF)
	}

	qty, err := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if err != nil || qty < 0 {
		return LineItem{}, invalid
	}

	return LineItem{Description: desc, UnitPrice: price, Quantity: qty}, nil
}

// Header holds the proforma header fields as typed by the user.
type Header struct {
	Fecha         string
	CotizacionNro string
	Cliente       string
}

// ValidateHeader checks the header fields and the item count and reports
// every violation at once, or nil.
func ValidateHeader(h Header, itemCount int) error {
	checks := []struct {
		value any
		msg   string
	}{
		{strings.TrimSpace(h.Fecha), MsgFechaRequired},
		{strings.TrimSpace(h.CotizacionNro), MsgNumeroRequired},
		{strings.TrimSpace(h.Cliente), MsgClienteRequired},
		{itemCount, MsgItemsRequired},
	}

	var msgs []string
	for _, c := range checks {
		if err := validation.Validate(c.value, validation.Required.Error(c.msg)); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// ValidateCustomerName rejects a blank customer name.
func ValidateCustomerName(nombre string) error {
	err := validation.Validate(strings.TrimSpace(nombre), validation.Required.Error(MsgNombreRequired))
	if err != nil {
		return &ValidationError{Messages: []string{err.Error()}}
	}
	return nil
}
