package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"tinytreats/internal/model"
)

// APIError is a backend-reported business error. Detail carries the
// backend's message so callers can surface it verbatim.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client is the HTTP client both the storefront and the back-office use
// against the backend API. AuthToken lives only in memory; a new Client
// always starts logged out.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	AuthToken  string
}

// New creates an API client for the given base URL
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ProductPayload is the create/update body for a product
type ProductPayload struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Stock       int     `json:"stock"`
	Unit        string  `json:"unit"`
	IsActive    bool    `json:"is_active"`
}

// ManualOrderItem is one line of a manual order payload
type ManualOrderItem struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// ManualOrderPayload is the body for the manual order endpoint
type ManualOrderPayload struct {
	CustomerName string            `json:"customer_name"`
	Phone        string            `json:"phone"`
	Total        float64           `json:"total"`
	Status       string            `json:"status"`
	Items        []ManualOrderItem `json:"items"`
}

// ListProducts fetches the full catalog
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct creates a product
func (c *Client) CreateProduct(ctx context.Context, p ProductPayload) (*model.Product, error) {
	var created model.Product
	if err := c.do(ctx, http.MethodPost, "/products", p, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct updates all fields of a product
func (c *Client) UpdateProduct(ctx context.Context, id uint, p ProductPayload) (*model.Product, error) {
	var updated model.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+formatID(id), p, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct deletes a product
func (c *Client) DeleteProduct(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/products/"+formatID(id), nil, nil)
}

// UpdateStock performs the stock-only partial update
func (c *Client) UpdateStock(ctx context.Context, id uint, stock int) error {
	path := "/products/" + formatID(id) + "/stock?stock=" + strconv.Itoa(stock)
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

// ListOrders fetches all orders
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateManualOrder posts a manually entered, immediately confirmed order
func (c *Client) CreateManualOrder(ctx context.Context, p ManualOrderPayload) error {
	return c.do(ctx, http.MethodPost, "/orders/manual", p, nil)
}

// ConfirmOrder confirms a pending order and returns the invoice number
func (c *Client) ConfirmOrder(ctx context.Context, id uint) (string, error) {
	var resp struct {
		Message       string `json:"message"`
		InvoiceNumber string `json:"invoice_number"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders/"+formatID(id)+"/confirm", nil, &resp); err != nil {
		return "", err
	}
	return resp.InvoiceNumber, nil
}

// ListInvoices fetches all invoices
func (c *Client) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoices", nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// InvoicePDF downloads the rendered invoice
func (c *Client) InvoicePDF(ctx context.Context, id uint) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/invoices/"+formatID(id)+"/pdf", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, parseError(resp)
	}
	return io.ReadAll(resp.Body)
}

// Upload stores an image and returns its server-relative URL
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuth(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", parseError(resp)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.URL, nil
}

// TriggerSync asks the backend to start a cloud sync run
func (c *Client) TriggerSync(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/sync", nil, nil)
}

// Login verifies the admin password and stores the session token in
// memory for subsequent requests
func (c *Client) Login(ctx context.Context, password string) error {
	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	body := map[string]string{"password": password}
	if err := c.do(ctx, http.MethodPost, "/admin/login", body, &resp); err != nil {
		return err
	}
	c.AuthToken = resp.Token
	return nil
}

// Logout drops the in-memory session token
func (c *Client) Logout() {
	c.AuthToken = ""
}

// ChangePassword rotates the admin password given the old one
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	return c.do(ctx, http.MethodPost, "/admin/change-password", body, nil)
}

// ResetPassword rotates the admin password given the master key
func (c *Client) ResetPassword(ctx context.Context, masterKey, newPassword string) error {
	body := map[string]string{
		"master_key":   masterKey,
		"new_password": newPassword,
	}
	return c.do(ctx, http.MethodPost, "/admin/reset-password", body, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)
	return req, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{Status: resp.StatusCode, Detail: errResp.Error}
	}
	return &APIError{Status: resp.StatusCode}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
