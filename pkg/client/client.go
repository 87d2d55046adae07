// Package client is the HTTP collaborator for the shopdesk API. It
// implements the reference-data source and invoice submitter the draft
// builder works against.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/smallbiznis/shopdesk/internal/invoice/domain"
	"github.com/smallbiznis/shopdesk/internal/invoice/draft"
)

// Client talks to a shopdesk server. The zero http.Client carries no
// timeout; submission latency is bounded only by the caller's context,
// matching the form's behavior of staying disabled until the request
// settles.
type Client struct {
	baseURL    string
	shopID     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithShopID pins requests to an explicit shop instead of the server's
// default resolution.
func WithShopID(shopID snowflake.ID) Option {
	return func(c *Client) {
		c.shopID = shopID.String()
	}
}

// New returns a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ draft.Source = (*Client)(nil)
var _ draft.Submitter = (*Client)(nil)

// ListCustomers fetches the selectable customers.
func (c *Client) ListCustomers(ctx context.Context) ([]draft.Customer, error) {
	var customers []draft.Customer
	if err := c.get(ctx, "/api/customers", &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// ListProducts fetches the selectable products.
func (c *Client) ListProducts(ctx context.Context) ([]draft.Product, error) {
	var resp struct {
		Products []draft.Product `json:"products"`
	}
	if err := c.get(ctx, "/api/products", &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CurrentShop resolves the shop context the server assigns this client.
func (c *Client) CurrentShop(ctx context.Context) (snowflake.ID, error) {
	var resp struct {
		Data struct {
			ID snowflake.ID `json:"id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/api/shops/current", &resp); err != nil {
		return 0, err
	}
	return resp.Data.ID, nil
}

// CreateInvoice submits a completed invoice payload.
func (c *Client) CreateInvoice(ctx context.Context, req invoicedomain.CreateInvoiceRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/invoices", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setShopHeader(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setShopHeader(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setShopHeader(req *http.Request) {
	if c.shopID != "" {
		req.Header.Set("X-Shop-ID", c.shopID)
	}
}

func (c *Client) responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error.Type != "" {
		return fmt.Errorf("%s %s: %s (%s)", resp.Request.Method, resp.Request.URL.Path, payload.Error.Message, payload.Error.Type)
	}
	return fmt.Errorf("%s %s: unexpected status %d", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode)
}
