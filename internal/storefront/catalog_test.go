package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tinytreats/pkg/client"

	"go.uber.org/zap"
)

func TestCatalogLoadFromBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":7,"name":"Lollipop Bundle","price":800,"stock":12}]`))
	}))
	defer srv.Close()

	catalog := NewCatalog(client.New(srv.URL), zap.NewNop())
	products := catalog.Load(context.Background())

	if len(products) != 1 || products[0].Name != "Lollipop Bundle" {
		t.Fatalf("unexpected catalog: %+v", products)
	}
}

func TestCatalogFallbackWhenBackendOffline(t *testing.T) {
	catalog := NewCatalog(client.New("http://127.0.0.1:1"), zap.NewNop())
	products := catalog.Load(context.Background())

	if len(products) != 2 {
		t.Fatalf("expected the two sample products, got %d", len(products))
	}
	if products[0].Name != "Birthday Surprise Box" || products[1].Name != "Sweet Treats Jar" {
		t.Errorf("unexpected fallback catalog: %+v", products)
	}
}

func TestCatalogFallbackWhenBackendEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	catalog := NewCatalog(client.New(srv.URL), zap.NewNop())
	if products := catalog.Load(context.Background()); len(products) != 2 {
		t.Fatalf("expected fallback products for an empty backend, got %d", len(products))
	}
}
