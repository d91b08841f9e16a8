package backoffice

import (
	"context"

	"tinytreats/internal/model"
	"tinytreats/pkg/client"
)

// InvoiceRow is one editable line of the manual invoice form
type InvoiceRow struct {
	ProductID uint
	Quantity  int
	UnitPrice float64
}

// InvoiceBuilder maintains the manual invoice form: customer fields and
// a list of line items, starting from a single empty row. Rows can be
// added but not removed.
type InvoiceBuilder struct {
	api *client.Client

	CustomerName string
	Phone        string
	rows         []InvoiceRow
}

// NewInvoiceBuilder creates a builder in its single-empty-row default
func NewInvoiceBuilder(api *client.Client) *InvoiceBuilder {
	b := &InvoiceBuilder{api: api}
	b.reset()
	return b
}

func (b *InvoiceBuilder) reset() {
	b.CustomerName = ""
	b.Phone = ""
	b.rows = []InvoiceRow{{Quantity: 1}}
}

// Rows returns a copy of the current line items
func (b *InvoiceBuilder) Rows() []InvoiceRow {
	rows := make([]InvoiceRow, len(b.rows))
	copy(rows, b.rows)
	return rows
}

// AddRow appends a new empty line item
func (b *InvoiceBuilder) AddRow() {
	b.rows = append(b.rows, InvoiceRow{Quantity: 1})
}

// SelectProduct assigns a product to a row and auto-fills its unit
// price from the already-loaded catalog. The price stays editable
// afterwards.
func (b *InvoiceBuilder) SelectProduct(idx int, productID uint, catalog []model.Product) {
	if idx < 0 || idx >= len(b.rows) {
		return
	}
	b.rows[idx].ProductID = productID
	for _, p := range catalog {
		if p.ID == productID {
			b.rows[idx].UnitPrice = p.Price
			break
		}
	}
}

// SetQuantity updates a row's quantity
func (b *InvoiceBuilder) SetQuantity(idx, quantity int) {
	if idx >= 0 && idx < len(b.rows) {
		b.rows[idx].Quantity = quantity
	}
}

// SetUnitPrice overrides a row's unit price
func (b *InvoiceBuilder) SetUnitPrice(idx int, price float64) {
	if idx >= 0 && idx < len(b.rows) {
		b.rows[idx].UnitPrice = price
	}
}

// Total is the sum of quantity times unit price across all rows
func (b *InvoiceBuilder) Total() float64 {
	var total float64
	for _, row := range b.rows {
		total += float64(row.Quantity) * row.UnitPrice
	}
	return total
}

// Submit posts the form as an immediately confirmed manual order. The
// form returns to its single-empty-row default only on success.
func (b *InvoiceBuilder) Submit(ctx context.Context) error {
	payload := client.ManualOrderPayload{
		CustomerName: b.CustomerName,
		Phone:        b.Phone,
		Total:        b.Total(),
		Status:       model.StatusConfirmed,
		Items:        make([]client.ManualOrderItem, 0, len(b.rows)),
	}
	for _, row := range b.rows {
		payload.Items = append(payload.Items, client.ManualOrderItem{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		})
	}

	if err := b.api.CreateManualOrder(ctx, payload); err != nil {
		return err
	}

	b.reset()
	return nil
}
