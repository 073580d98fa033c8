package backend

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// flexString accepts a JSON string or number and keeps its textual form.
// Ids and the next quote number arrive as integers from the backend but are
// only ever used as text on this side.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*f = ""
		return nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return err
	}
	*f = flexString(strings.TrimSpace(s))
	return nil
}

// flexInt accepts a JSON number (integral or not) or numeric string and
// truncates it to an int. Quantities are stored as DECIMAL on the backend
// and serialised as floats.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*f = 0
		return nil
	}
	if s, ok := v.(string); ok {
		fl, err := cast.ToFloat64E(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		v = fl
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// flexDecimal accepts a JSON number, numeric string or null.
type flexDecimal decimal.Decimal

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = flexDecimal(decimal.Zero)
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = flexDecimal(d)
	return nil
}

// flexBool accepts true/false as well as the 0/1 integers a MySQL
// TINYINT column produces.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = false
	case float64:
		*f = t != 0
	default:
		bv, err := cast.ToBoolE(t)
		if err != nil {
			return err
		}
		*f = flexBool(bv)
	}
	return nil
}

// Item is one line of a proforma as returned by the backend.
type Item struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Proforma is the client-side copy of a backend quote record.
type Proforma struct {
	ID            string
	Fecha         string
	CotizacionNro string
	Cliente       string
	Status        string
	MontoTotal    decimal.Decimal
	IncluyeIGV    bool
	Author        string
	Items         []Item
}

// Cliente is a customer record.
type Cliente struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	RucDNI    string `json:"ruc_dni"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
}

// Pagination mirrors the pagination block of the list endpoint.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// ProformaPage is one page of the proforma list.
type ProformaPage struct {
	Proformas  []Proforma
	Pagination Pagination
}

// Stats is the dashboard series: one count per label.
type Stats struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// ProformaInput is the body of a create or update request.
type ProformaInput struct {
	Fecha         string
	CotizacionNro string
	Cliente       string
	IncluyeIGV    bool
	Items         []Item
}

// ClienteInput is the body of a customer create or update request.
type ClienteInput struct {
	Nombre    string `json:"nombre"`
	RucDNI    string `json:"ruc_dni"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
}

// ── Wire shapes ─────────────────────────────────────────────────────────

type wireItem struct {
	// Item is used by the single-proforma endpoint, ItemDescripcion by the list.
	Item            string      `json:"item"`
	ItemDescripcion string      `json:"item_descripcion"`
	Cantidad        flexInt     `json:"cantidad"`
	PrecioUnitario  flexDecimal `json:"precio_unitario"`
}

func (w wireItem) toItem() Item {
	desc := w.Item
	if desc == "" {
		desc = w.ItemDescripcion
	}
	return Item{
		Description: desc,
		Quantity:    int(w.Cantidad),
		UnitPrice:   decimal.Decimal(w.PrecioUnitario),
	}
}

type wireProforma struct {
	ID            flexString  `json:"id"`
	Fecha         string      `json:"fecha"`
	CotizacionNro flexString  `json:"cotizacion_nro"`
	Cliente       string      `json:"cliente"`
	Status        string      `json:"status"`
	MontoTotal    flexDecimal `json:"monto_total"`
	IncluyeIGV    flexBool    `json:"incluye_igv"`
	Author        string      `json:"author"`
	Items         []wireItem  `json:"items"`
}

func (w wireProforma) toProforma() Proforma {
	p := Proforma{
		ID:            string(w.ID),
		Fecha:         w.Fecha,
		CotizacionNro: string(w.CotizacionNro),
		Cliente:       w.Cliente,
		Status:        w.Status,
		MontoTotal:    decimal.Decimal(w.MontoTotal),
		IncluyeIGV:    bool(w.IncluyeIGV),
		Author:        w.Author,
		Items:         make([]Item, 0, len(w.Items)),
	}
	for _, it := range w.Items {
		p.Items = append(p.Items, it.toItem())
	}
	return p
}

type wireList struct {
	Proformas  []wireProforma `json:"proformas"`
	Pagination Pagination     `json:"pagination"`
}

type wireCliente struct {
	ID        flexString `json:"id"`
	Nombre    string     `json:"nombre"`
	RucDNI    *string    `json:"ruc_dni"`
	Direccion *string    `json:"direccion"`
	Telefono  *string    `json:"telefono"`
	Email     *string    `json:"email"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (w wireCliente) toCliente() Cliente {
	return Cliente{
		ID:        string(w.ID),
		Nombre:    w.Nombre,
		RucDNI:    deref(w.RucDNI),
		Direccion: deref(w.Direccion),
		Telefono:  deref(w.Telefono),
		Email:     deref(w.Email),
	}
}

type wireItemInput struct {
	Item           string  `json:"item"`
	PrecioUnitario float64 `json:"precio_unitario"`
	Cantidad       int     `json:"cantidad"`
}

type wireProformaInput struct {
	Fecha         string          `json:"fecha"`
	CotizacionNro string          `json:"cotizacion_nro"`
	Cliente       string          `json:"cliente"`
	IncluyeIGV    bool            `json:"incluye_igv"`
	Items         []wireItemInput `json:"items"`
}

func (in ProformaInput) wire() wireProformaInput {
	w := wireProformaInput{
		Fecha:         in.Fecha,
		CotizacionNro: in.CotizacionNro,
		Cliente:       in.Cliente,
		IncluyeIGV:    in.IncluyeIGV,
		Items:         make([]wireItemInput, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		w.Items = append(w.Items, wireItemInput{
			Item:           it.Description,
			PrecioUnitario: it.UnitPrice.InexactFloat64(),
			Cantidad:       it.Quantity,
		})
	}
	return w
}

type wireResult struct {
	Success    *bool      `json:"success"`
	Error      string     `json:"error"`
	ProformaID flexString `json:"proforma_id"`
	NewStatus  string     `json:"new_status"`
}

type wireNextNumber struct {
	NextNumber flexString `json:"next_number"`
}
