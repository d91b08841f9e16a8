package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tinytreats/pkg/config"
)

func TestNewStoreFallsBackToNoop(t *testing.T) {
	if _, ok := NewStore(&config.CloudConfig{}).(Noop); !ok {
		t.Error("missing credentials must select the no-op store")
	}
	if _, ok := NewStore(&config.CloudConfig{URL: "https://x.supabase.co"}).(Noop); !ok {
		t.Error("a URL without a key must select the no-op store")
	}
	if _, ok := NewStore(&config.CloudConfig{URL: "https://x.supabase.co", Key: "k"}).(*RESTStore); !ok {
		t.Error("full credentials must select the REST store")
	}
}

func TestInsertOrderSendsCredentialedRow(t *testing.T) {
	var gotPath, gotKey, gotAuth string
	var rows []Order
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&rows)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := NewRESTStore(&config.CloudConfig{URL: srv.URL, Key: "secret"})
	err := store.InsertOrder(context.Background(), Order{
		CustomerName: "Ali",
		Phone:        "923001234567",
		TotalPrice:   2500,
		Status:       "pending",
		Items:        []OrderItem{{Name: "Birthday Surprise Box", Quantity: 1, Price: 2500}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/rest/v1/orders" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotKey != "secret" || gotAuth != "Bearer secret" {
		t.Errorf("missing credentials: apikey=%q auth=%q", gotKey, gotAuth)
	}
	// PostgREST inserts take an array of rows
	if len(rows) != 1 || rows[0].Status != "pending" {
		t.Errorf("unexpected insert body: %+v", rows)
	}
}

func TestPendingOrdersFiltersByStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("status") != "eq.pending" {
			t.Errorf("expected status=eq.pending filter, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"abc","customer_name":"Ali","total_price":2500,"status":"pending"}]`))
	}))
	defer srv.Close()

	store := NewRESTStore(&config.CloudConfig{URL: srv.URL, Key: "secret"})
	orders, err := store.PendingOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "abc" {
		t.Errorf("unexpected orders: %+v", orders)
	}
}

func TestMarkSyncedPatchesRow(t *testing.T) {
	var gotMethod, gotQuery, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		buf := make([]byte, 64)
		n, _ := r.Body.Read(buf)
		gotBody = string(buf[:n])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	store := NewRESTStore(&config.CloudConfig{URL: srv.URL, Key: "secret"})
	if err := store.MarkSynced(context.Background(), "abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPatch || gotQuery != "id=eq.abc" {
		t.Errorf("expected PATCH ?id=eq.abc, got %s ?%s", gotMethod, gotQuery)
	}
	if gotBody != `{"status":"synced"}` {
		t.Errorf("unexpected body %q", gotBody)
	}
}
