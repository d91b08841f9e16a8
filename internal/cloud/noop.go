package cloud

import (
	"context"

	"tinytreats/pkg/config"
)

// Noop is the datastore used when no cloud credentials are configured.
// Inserts succeed without persisting anything, matching the storefront's
// behavior of completing checkout even when cloud persistence is off,
// and the sync worker sees no pending orders.
type Noop struct{}

// Enabled reports whether a real datastore is configured
func (Noop) Enabled() bool { return false }

// InsertOrder discards the order
func (Noop) InsertOrder(ctx context.Context, order Order) error { return nil }

// PendingOrders returns no orders
func (Noop) PendingOrders(ctx context.Context) ([]Order, error) { return nil, nil }

// MarkSynced does nothing
func (Noop) MarkSynced(ctx context.Context, id string) error { return nil }

// NewStore returns the REST datastore when configured, else the no-op stub
func NewStore(cfg *config.CloudConfig) Store {
	if cfg.URL == "" || cfg.Key == "" {
		return Noop{}
	}
	return NewRESTStore(cfg)
}
