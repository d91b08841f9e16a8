package cloud

import (
	"context"
	"time"
)

// OrderItem is one line of a cloud order as stored by the storefront
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order is the wire representation of an order row in the external
// datastore. The storefront inserts rows with status "pending"; the
// sync worker pulls them and marks them "synced".
type Order struct {
	ID           string      `json:"id,omitempty"`
	CustomerName string      `json:"customer_name"`
	Phone        string      `json:"phone"`
	Items        []OrderItem `json:"items"`
	TotalPrice   float64     `json:"total_price"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at,omitempty"`
}

// Store is the external managed datastore the storefront and the sync
// worker talk to. The schema is owned by the external service; this
// interface only covers the operations this application performs.
type Store interface {
	// Enabled reports whether a real datastore is configured
	Enabled() bool

	// InsertOrder persists a new pending order
	InsertOrder(ctx context.Context, order Order) error

	// PendingOrders lists orders still waiting to be synced locally
	PendingOrders(ctx context.Context) ([]Order, error)

	// MarkSynced flips a cloud order's status to "synced"
	MarkSynced(ctx context.Context, id string) error
}
