package pages

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"proformaweb/backend"
	"proformaweb/services"
)

// Customer messages shown to the user.
const (
	MsgCustomersLoadFailed   = "Error al cargar clientes."
	MsgCustomerSaveFailed    = "Error al guardar el cliente."
	MsgCustomerDeleteFailed  = "Error al eliminar el cliente."
	MsgCustomerDeleteConfirm = "¿Está seguro de que desea eliminar este cliente?"
)

// CustomerBackend is the part of the backend the customer manager talks to.
type CustomerBackend interface {
	ListClientes(ctx context.Context) ([]backend.Cliente, error)
	CreateCliente(ctx context.Context, in backend.ClienteInput) error
	UpdateCliente(ctx context.Context, id string, in backend.ClienteInput) error
	DeleteCliente(ctx context.Context, id string) error
}

// CustomerForm is the content of the customer form. A non-empty ID means
// the form edits an existing customer.
type CustomerForm struct {
	ID        string
	Nombre    string
	RucDNI    string
	Direccion string
	Telefono  string
	Email     string
}

// Editing reports whether the form targets an existing customer.
func (f CustomerForm) Editing() bool { return f.ID != "" }

func (f CustomerForm) input() backend.ClienteInput {
	return backend.ClienteInput{
		Nombre:    strings.TrimSpace(f.Nombre),
		RucDNI:    strings.TrimSpace(f.RucDNI),
		Direccion: strings.TrimSpace(f.Direccion),
		Telefono:  strings.TrimSpace(f.Telefono),
		Email:     strings.TrimSpace(f.Email),
	}
}

// Customers is the controller of one customer management page.
type Customers struct {
	mu         sync.Mutex
	backend    CustomerBackend
	clientes   []backend.Cliente
	index      map[string]backend.Cliente
	loadFailed bool
	form       CustomerForm
}

// CustomersView is a consistent snapshot of the page for rendering.
type CustomersView struct {
	Clientes   []backend.Cliente
	LoadFailed bool
	Form       CustomerForm
}

// NewCustomers creates a customer manager with an empty create form.
func NewCustomers(b CustomerBackend) *Customers {
	return &Customers{backend: b, index: map[string]backend.Cliente{}}
}

// Load fetches every customer and rebuilds the id index.
func (c *Customers) Load(ctx context.Context) CustomersView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked(ctx)
	return c.viewLocked()
}

func (c *Customers) loadLocked(ctx context.Context) {
	clientes, err := c.backend.ListClientes(ctx)
	if err != nil {
		log.Printf("customers: Load: %v", err)
		c.clientes = nil
		c.index = map[string]backend.Cliente{}
		c.loadFailed = true
		return
	}
	c.clientes = clientes
	c.index = make(map[string]backend.Cliente, len(clientes))
	for _, cl := range clientes {
		c.index[cl.ID] = cl
	}
	c.loadFailed = false
}

// Save creates or updates the customer described by form. Success resets the
// form and reloads the list; failure keeps what the user typed.
func (c *Customers) Save(ctx context.Context, form CustomerForm) (CustomersView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.form = form
	if err := services.ValidateCustomerName(form.Nombre); err != nil {
		return c.viewLocked(), err
	}

	var err error
	if form.Editing() {
		err = c.backend.UpdateCliente(ctx, form.ID, form.input())
	} else {
		err = c.backend.CreateCliente(ctx, form.input())
	}
	if err != nil {
		log.Printf("customers: Save: %v", err)
		return c.viewLocked(), fmt.Errorf("save cliente: %w", err)
	}

	c.form = CustomerForm{}
	c.loadLocked(ctx)
	return c.viewLocked(), nil
}

// Edit fills the form from the in-memory index without fetching.
func (c *Customers) Edit(id string) (CustomersView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl, ok := c.index[id]
	if !ok {
		return c.viewLocked(), fmt.Errorf("edit cliente: unknown id %q", id)
	}
	c.form = CustomerForm{
		ID:        cl.ID,
		Nombre:    cl.Nombre,
		RucDNI:    cl.RucDNI,
		Direccion: cl.Direccion,
		Telefono:  cl.Telefono,
		Email:     cl.Email,
	}
	return c.viewLocked(), nil
}

// Delete removes customer id. Success resets the form and reloads.
func (c *Customers) Delete(ctx context.Context, id string) (CustomersView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.backend.DeleteCliente(ctx, id); err != nil {
		log.Printf("customers: Delete: cliente %s: %v", id, err)
		return c.viewLocked(), fmt.Errorf("delete cliente: %w", err)
	}
	c.form = CustomerForm{}
	c.loadLocked(ctx)
	return c.viewLocked(), nil
}

// Cancel resets the form without reloading.
func (c *Customers) Cancel() CustomersView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = CustomerForm{}
	return c.viewLocked()
}

// View returns a snapshot of the current state.
func (c *Customers) View() CustomersView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Customers) viewLocked() CustomersView {
	return CustomersView{
		Clientes:   append([]backend.Cliente(nil), c.clientes...),
		LoadFailed: c.loadFailed,
		Form:       c.form,
	}
}
