package storefront

import (
	"context"

	"tinytreats/internal/model"
	"tinytreats/pkg/client"

	"go.uber.org/zap"
)

// SampleCatalog is the built-in fallback shown when the backend is
// unreachable or has no products, so the storefront is never empty
func SampleCatalog() []model.Product {
	return []model.Product{
		{
			ID:          1,
			Name:        "Birthday Surprise Box",
			Price:       2500,
			Description: "Candies, toys and more!",
			ImageURL:    "https://images.unsplash.com/photo-1549465220-1a8b9238cd48?w=500&q=80",
		},
		{
			ID:          2,
			Name:        "Sweet Treats Jar",
			Price:       1500,
			Description: "Assorted premium gummies.",
			ImageURL:    "https://images.unsplash.com/photo-1582058091505-f87a2e55a40f?w=500&q=80",
		},
	}
}

// Catalog loads the product list for the storefront. Every Load
// re-fetches; nothing is cached between calls.
type Catalog struct {
	api *client.Client
	log *zap.Logger
}

// NewCatalog creates a catalog loader
func NewCatalog(api *client.Client, log *zap.Logger) *Catalog {
	return &Catalog{api: api, log: log}
}

// Load fetches the catalog, falling back to the sample products when
// the backend is offline or empty. It never fails.
func (c *Catalog) Load(ctx context.Context) []model.Product {
	products, err := c.api.ListProducts(ctx)
	if err != nil {
		c.log.Warn("Backend offline, using fallback products", zap.Error(err))
		return SampleCatalog()
	}
	if len(products) == 0 {
		return SampleCatalog()
	}
	return products
}
