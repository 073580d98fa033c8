// Package backend is the typed HTTP client for the proformas REST backend.
// Every method maps to exactly one endpoint; nothing is retried.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// Client talks to the REST backend.
type Client struct {
	baseURL string
	client  *http.Client
	headers http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the timeout of the default http.Client. A zero d
// disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers.Add(key, value) }
}

// New creates a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Headers returns a copy of the static headers sent with every request.
func (c *Client) Headers() http.Header { return c.headers.Clone() }

// do performs one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded 2xx response.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    KindStatus,
			Op:      op,
			Status:  resp.StatusCode,
			Message: errorField(data),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Op: op, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// errorField extracts the "error" string of a JSON body, if any.
func errorField(data []byte) string {
	var env struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	return env.Error
}

// checkResult turns a 2xx {"success": false} answer into a KindRejected error.
func checkResult(op string, r wireResult) error {
	if r.Success != nil && !*r.Success {
		return &Error{Kind: KindRejected, Op: op, Status: http.StatusOK, Message: r.Error}
	}
	return nil
}

// checkConfirmed is checkResult for endpoints that must answer
// {"success": true}; a missing flag counts as a rejection.
func checkConfirmed(op string, r wireResult) error {
	if r.Success == nil || !*r.Success {
		return &Error{Kind: KindRejected, Op: op, Status: http.StatusOK, Message: r.Error}
	}
	return nil
}

// ── Proformas ───────────────────────────────────────────────────────────

// NextNumber returns the next free quote number as text.
func (c *Client) NextNumber(ctx context.Context) (string, error) {
	var out wireNextNumber
	if err := c.do(ctx, "next number", http.MethodGet, "/api/proformas/next_number", nil, nil, &out); err != nil {
		return "", err
	}
	return string(out.NextNumber), nil
}

// GetProforma fetches one proforma with its items.
func (c *Client) GetProforma(ctx context.Context, id string) (Proforma, error) {
	var out wireProforma
	if err := c.do(ctx, "get proforma", http.MethodGet, "/api/proforma/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return Proforma{}, err
	}
	p := out.toProforma()
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}

// CreateProforma stores a new proforma and returns its id.
func (c *Client) CreateProforma(ctx context.Context, in ProformaInput) (string, error) {
	var out wireResult
	if err := c.do(ctx, "create proforma", http.MethodPost, "/api/proformas", nil, in.wire(), &out); err != nil {
		return "", err
	}
	if err := checkResult("create proforma", out); err != nil {
		return "", err
	}
	return string(out.ProformaID), nil
}

// UpdateProforma replaces the proforma id and returns the id the backend
// acknowledged.
func (c *Client) UpdateProforma(ctx context.Context, id string, in ProformaInput) (string, error) {
	var out wireResult
	if err := c.do(ctx, "update proforma", http.MethodPut, "/api/proformas/"+url.PathEscape(id), nil, in.wire(), &out); err != nil {
		return "", err
	}
	if err := checkResult("update proforma", out); err != nil {
		return "", err
	}
	if out.ProformaID == "" {
		return id, nil
	}
	return string(out.ProformaID), nil
}

// ListProformas returns one page of proformas filtered by search.
func (c *Client) ListProformas(ctx context.Context, page int, search string) (ProformaPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("search", search)

	var out wireList
	if err := c.do(ctx, "list proformas", http.MethodGet, "/api/proformas", q, nil, &out); err != nil {
		return ProformaPage{}, err
	}
	res := ProformaPage{
		Proformas:  make([]Proforma, 0, len(out.Proformas)),
		Pagination: out.Pagination,
	}
	for _, p := range out.Proformas {
		res.Proformas = append(res.Proformas, p.toProforma())
	}
	return res, nil
}

// UpdateStatus sets the status of proforma id.
func (c *Client) UpdateStatus(ctx context.Context, id, status string) error {
	var out wireResult
	body := map[string]string{"status": status}
	if err := c.do(ctx, "update status", http.MethodPut, "/api/proformas/"+url.PathEscape(id)+"/status", nil, body, &out); err != nil {
		return err
	}
	return checkResult("update status", out)
}

// DeleteProforma removes proforma id.
func (c *Client) DeleteProforma(ctx context.Context, id string) error {
	var out wireResult
	if err := c.do(ctx, "delete proforma", http.MethodDelete, "/api/proformas/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return err
	}
	return checkConfirmed("delete proforma", out)
}

// PreviewPath is the backend path of the HTML preview of proforma id.
func PreviewPath(id string) string { return "/api/proforma/" + url.PathEscape(id) + "/preview" }

// PDFPath is the backend path of the PDF download of proforma id.
func PDFPath(id string) string { return "/api/proforma/" + url.PathEscape(id) + "/pdf" }

// ── Clientes ────────────────────────────────────────────────────────────

// ListClientes returns every customer.
func (c *Client) ListClientes(ctx context.Context) ([]Cliente, error) {
	var out []wireCliente
	if err := c.do(ctx, "list clientes", http.MethodGet, "/api/clientes", nil, nil, &out); err != nil {
		return nil, err
	}
	return toClientes(out), nil
}

// SearchClientes returns customers whose name starts with term.
func (c *Client) SearchClientes(ctx context.Context, term string) ([]Cliente, error) {
	q := url.Values{}
	q.Set("term", term)

	var out []wireCliente
	if err := c.do(ctx, "search clientes", http.MethodGet, "/api/clientes/search", q, nil, &out); err != nil {
		return nil, err
	}
	return toClientes(out), nil
}

// CreateCliente stores a new customer.
func (c *Client) CreateCliente(ctx context.Context, in ClienteInput) error {
	var out wireResult
	if err := c.do(ctx, "create cliente", http.MethodPost, "/api/clientes", nil, in, &out); err != nil {
		return err
	}
	return checkResult("create cliente", out)
}

// UpdateCliente replaces customer id.
func (c *Client) UpdateCliente(ctx context.Context, id string, in ClienteInput) error {
	var out wireResult
	if err := c.do(ctx, "update cliente", http.MethodPut, "/api/clientes/"+url.PathEscape(id), nil, in, &out); err != nil {
		return err
	}
	return checkResult("update cliente", out)
}

// DeleteCliente removes customer id.
func (c *Client) DeleteCliente(ctx context.Context, id string) error {
	var out wireResult
	if err := c.do(ctx, "delete cliente", http.MethodDelete, "/api/clientes/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return err
	}
	return checkResult("delete cliente", out)
}

func toClientes(in []wireCliente) []Cliente {
	out := make([]Cliente, 0, len(in))
	for _, w := range in {
		out = append(out, w.toCliente())
	}
	return out
}

// ── Dashboard ───────────────────────────────────────────────────────────

// DashboardStats returns the proformas-per-month series.
func (c *Client) DashboardStats(ctx context.Context) (Stats, error) {
	var out Stats
	if err := c.do(ctx, "dashboard stats", http.MethodGet, "/api/dashboard_stats", nil, nil, &out); err != nil {
		return Stats{}, err
	}
	return out, nil
}
