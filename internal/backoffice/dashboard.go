package backoffice

import (
	"context"
	"errors"
	"time"

	"tinytreats/internal/model"
	"tinytreats/pkg/client"
)

// ErrSyncInFlight is returned when a sync is already waiting on its
// refresh delay
var ErrSyncInFlight = errors.New("sync already in progress")

// Dashboard holds the back-office lists and drives the sync and
// confirmation actions
type Dashboard struct {
	api       *client.Client
	syncDelay time.Duration
	syncing   bool

	Products []model.Product
	Orders   []model.Order
	Invoices []model.Invoice
}

// NewDashboard creates a dashboard refreshing after syncDelay
func NewDashboard(api *client.Client, syncDelay time.Duration) *Dashboard {
	return &Dashboard{api: api, syncDelay: syncDelay}
}

// Refresh reloads all three lists from the backend
func (d *Dashboard) Refresh(ctx context.Context) error {
	products, err := d.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	orders, err := d.api.ListOrders(ctx)
	if err != nil {
		return err
	}
	invoices, err := d.api.ListInvoices(ctx)
	if err != nil {
		return err
	}

	d.Products = products
	d.Orders = orders
	d.Invoices = invoices
	return nil
}

// SyncNow fires the backend sync, waits the fixed delay and refreshes.
// The delay only approximates the sync worker's duration; the refreshed
// lists may still be stale if the backend takes longer.
func (d *Dashboard) SyncNow(ctx context.Context) error {
	if d.syncing {
		return ErrSyncInFlight
	}
	d.syncing = true
	defer func() { d.syncing = false }()

	if err := d.api.TriggerSync(ctx); err != nil {
		return err
	}

	select {
	case <-time.After(d.syncDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	return d.Refresh(ctx)
}

// Confirm confirms a pending cloud order, refreshes the lists and
// returns the generated invoice number. A backend error is returned
// as-is so its detail can be shown verbatim.
func (d *Dashboard) Confirm(ctx context.Context, orderID uint) (string, error) {
	invoiceNumber, err := d.api.ConfirmOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	if err := d.Refresh(ctx); err != nil {
		return invoiceNumber, err
	}
	return invoiceNumber, nil
}
