package backoffice

import (
	"context"
	"errors"
	"io"

	"tinytreats/internal/model"
	"tinytreats/pkg/client"
)

// ErrDeleteNotConfirmed is returned when the confirmation step rejects
// a product deletion; no request is sent in that case.
var ErrDeleteNotConfirmed = errors.New("delete not confirmed")

// Confirmer asks the administrator to confirm a destructive action
type Confirmer func(prompt string) bool

// InventoryPanel drives the back-office product CRUD. One form is
// shared between create and edit, disambiguated by the editing
// reference.
type InventoryPanel struct {
	api     *client.Client
	confirm Confirmer

	form    client.ProductPayload
	editing *uint
}

// NewInventoryPanel creates the panel with a blank form
func NewInventoryPanel(api *client.Client, confirm Confirmer) *InventoryPanel {
	return &InventoryPanel{api: api, confirm: confirm, form: emptyForm()}
}

func emptyForm() client.ProductPayload {
	return client.ProductPayload{IsActive: true}
}

// Form returns the current form contents
func (p *InventoryPanel) Form() client.ProductPayload {
	return p.form
}

// SetForm replaces the form contents
func (p *InventoryPanel) SetForm(form client.ProductPayload) {
	p.form = form
}

// Editing returns the id of the product being edited, or nil when the
// form is in create mode
func (p *InventoryPanel) Editing() *uint {
	return p.editing
}

// BeginEdit loads a product into the form and switches to edit mode
func (p *InventoryPanel) BeginEdit(product model.Product) {
	id := product.ID
	p.editing = &id
	p.form = client.ProductPayload{
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		ImageURL:    product.ImageURL,
		Stock:       product.Stock,
		Unit:        product.Unit,
		IsActive:    product.IsActive,
	}
}

// Submit creates or updates depending on the editing reference. The
// reference and form are reset regardless of outcome.
func (p *InventoryPanel) Submit(ctx context.Context) error {
	editing := p.editing
	form := p.form

	p.editing = nil
	p.form = emptyForm()

	if editing != nil {
		_, err := p.api.UpdateProduct(ctx, *editing, form)
		return err
	}
	_, err := p.api.CreateProduct(ctx, form)
	return err
}

// UpdateStock performs the stock-only quick update, fired when a stock
// input loses focus
func (p *InventoryPanel) UpdateStock(ctx context.Context, id uint, stock int) error {
	return p.api.UpdateStock(ctx, id, stock)
}

// Delete removes a product after an explicit confirmation step
func (p *InventoryPanel) Delete(ctx context.Context, id uint) error {
	if !p.confirm("Are you sure you want to delete this product?") {
		return ErrDeleteNotConfirmed
	}
	return p.api.DeleteProduct(ctx, id)
}

// UploadImage stores an image on the backend and fills the form's
// image URL with the returned path
func (p *InventoryPanel) UploadImage(ctx context.Context, filename string, r io.Reader) error {
	url, err := p.api.Upload(ctx, filename, r)
	if err != nil {
		return err
	}
	p.form.ImageURL = url
	return nil
}
