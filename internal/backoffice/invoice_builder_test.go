package backoffice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tinytreats/internal/model"
	"tinytreats/pkg/client"
)

var testCatalog = []model.Product{
	{ID: 1, Name: "Birthday Surprise Box", Price: 2500},
	{ID: 2, Name: "Sweet Treats Jar", Price: 1500},
}

func TestInvoiceBuilderDefaultRow(t *testing.T) {
	b := NewInvoiceBuilder(client.New("http://unused"))

	rows := b.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected a single default row, got %d", len(rows))
	}
	if rows[0].ProductID != 0 || rows[0].Quantity != 1 || rows[0].UnitPrice != 0 {
		t.Errorf("unexpected default row: %+v", rows[0])
	}
}

func TestInvoiceBuilderAutoFillsPrice(t *testing.T) {
	b := NewInvoiceBuilder(client.New("http://unused"))

	b.SelectProduct(0, 1, testCatalog)
	if got := b.Rows()[0].UnitPrice; got != 2500 {
		t.Errorf("expected auto-filled price 2500, got %v", got)
	}

	// Auto-filled price stays editable
	b.SetUnitPrice(0, 2000)
	if got := b.Rows()[0].UnitPrice; got != 2000 {
		t.Errorf("expected overridden price 2000, got %v", got)
	}
}

func TestInvoiceBuilderTotal(t *testing.T) {
	b := NewInvoiceBuilder(client.New("http://unused"))

	b.SelectProduct(0, 1, testCatalog)
	b.SetQuantity(0, 2)
	b.AddRow()
	b.SelectProduct(1, 2, testCatalog)
	b.SetQuantity(1, 3)
	b.SetUnitPrice(1, 1200)

	// 2*2500 + 3*1200, including the overridden row
	if got := b.Total(); got != 8600 {
		t.Errorf("expected total 8600, got %v", got)
	}
}

func TestInvoiceBuilderSubmit(t *testing.T) {
	var received client.ManualOrderPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/manual" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1}`))
	}))
	defer srv.Close()

	b := NewInvoiceBuilder(client.New(srv.URL))
	b.CustomerName = "Sara"
	b.Phone = "0300111"
	b.SelectProduct(0, 2, testCatalog)
	b.SetQuantity(0, 4)

	if err := b.Submit(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.Status != "confirmed" {
		t.Errorf("manual orders must be forced to confirmed, got %q", received.Status)
	}
	if received.Total != 6000 {
		t.Errorf("expected submitted total 6000, got %v", received.Total)
	}
	if len(received.Items) != 1 || received.Items[0].ProductID != 2 {
		t.Errorf("unexpected items: %+v", received.Items)
	}

	// Success resets to the single-empty-row default
	if b.CustomerName != "" || b.Phone != "" {
		t.Error("submit must clear customer fields on success")
	}
	rows := b.Rows()
	if len(rows) != 1 || rows[0].ProductID != 0 {
		t.Errorf("expected the default row after submit, got %+v", rows)
	}
}

func TestInvoiceBuilderSubmitFailureKeepsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Failed to create manual order"}`))
	}))
	defer srv.Close()

	b := NewInvoiceBuilder(client.New(srv.URL))
	b.CustomerName = "Sara"
	b.SelectProduct(0, 1, testCatalog)

	if err := b.Submit(context.Background()); err == nil {
		t.Fatal("expected submit failure")
	}
	if b.CustomerName != "Sara" || b.Rows()[0].ProductID != 1 {
		t.Error("failed submit must leave the form untouched for retry")
	}
}
