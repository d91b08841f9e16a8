package storefront

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"tinytreats/internal/cloud"
	"tinytreats/internal/model"

	"go.uber.org/zap"
)

type fakeStore struct {
	inserts []cloud.Order
	fail    error
}

func (s *fakeStore) Enabled() bool { return true }

func (s *fakeStore) InsertOrder(ctx context.Context, order cloud.Order) error {
	if s.fail != nil {
		return s.fail
	}
	s.inserts = append(s.inserts, order)
	return nil
}

func (s *fakeStore) PendingOrders(ctx context.Context) ([]cloud.Order, error) { return nil, nil }
func (s *fakeStore) MarkSynced(ctx context.Context, id string) error          { return nil }

type captureOpener struct {
	urls []string
	fail error
}

func (o *captureOpener) Open(url string) error {
	if o.fail != nil {
		return o.fail
	}
	o.urls = append(o.urls, url)
	return nil
}

func newTestCheckout(t *testing.T, store cloud.Store, opener LinkOpener, number string) *Checkout {
	t.Helper()
	settings := NewSettings(filepath.Join(t.TempDir(), "settings.json"), number)
	return NewCheckout(store, settings, opener, zap.NewNop())
}

func loadedCart() *Cart {
	cart := NewCart()
	cart.Add(model.Product{ID: 1, Name: "Birthday Surprise Box", Price: 2500})
	cart.Add(model.Product{ID: 2, Name: "Sweet Treats Jar", Price: 1500})
	cart.Add(model.Product{ID: 2, Name: "Sweet Treats Jar", Price: 1500})
	return cart
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"03001234567", "923001234567"},
		{"3001234567", "923001234567"},
		{"923001234567", "923001234567"},
		{"1234", "1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlaceOrderRequiresContactInfo(t *testing.T) {
	store := &fakeStore{}
	co := newTestCheckout(t, store, &captureOpener{}, "03001234567")
	cart := loadedCart()

	err := co.PlaceOrder(context.Background(), cart, &Customer{Name: "", Phone: "0300"})
	if !errors.Is(err, ErrMissingContact) {
		t.Fatalf("expected ErrMissingContact, got %v", err)
	}
	err = co.PlaceOrder(context.Background(), cart, &Customer{Name: "Ali", Phone: ""})
	if !errors.Is(err, ErrMissingContact) {
		t.Fatalf("expected ErrMissingContact, got %v", err)
	}

	if len(store.inserts) != 0 {
		t.Error("validation failure must not reach the datastore")
	}
	if cart.Len() != 2 {
		t.Error("validation failure must leave the cart untouched")
	}
}

func TestPlaceOrderSuccess(t *testing.T) {
	store := &fakeStore{}
	opener := &captureOpener{}
	co := newTestCheckout(t, store, opener, "03001234567")
	cart := loadedCart()
	customer := Customer{Name: "Ali", Phone: "0311222333"}

	if err := co.PlaceOrder(context.Background(), cart, &customer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.inserts) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserts))
	}
	order := store.inserts[0]
	if order.Status != "pending" {
		t.Errorf("storefront orders must be pending, got %q", order.Status)
	}
	if order.TotalPrice != 5500 {
		t.Errorf("expected total 5500, got %v", order.TotalPrice)
	}
	if len(order.Items) != 2 {
		t.Errorf("expected 2 order items, got %d", len(order.Items))
	}

	if len(opener.urls) != 1 {
		t.Fatalf("expected 1 opened link, got %d", len(opener.urls))
	}
	url := opener.urls[0]
	if !strings.HasPrefix(url, "https://wa.me/923001234567?text=") {
		t.Errorf("unexpected link target: %s", url)
	}
	for _, fragment := range []string{
		"*Name:* Ali",
		"*Phone:* 0311222333",
		"- Birthday Surprise Box (x1)",
		"- Sweet Treats Jar (x2)",
		"*Total:* Rs. 5,500",
	} {
		if !strings.Contains(url, fragment) {
			t.Errorf("message missing %q in %s", fragment, url)
		}
	}

	if cart.Len() != 0 {
		t.Error("successful order must clear the cart")
	}
	if cart.IsOpen() {
		t.Error("successful order must close the cart panel")
	}
	if customer.Name != "" || customer.Phone != "" {
		t.Error("successful order must reset customer fields")
	}
}

func TestPlaceOrderPersistenceFailureAborts(t *testing.T) {
	store := &fakeStore{fail: errors.New("datastore down")}
	opener := &captureOpener{}
	co := newTestCheckout(t, store, opener, "03001234567")
	cart := loadedCart()
	customer := Customer{Name: "Ali", Phone: "0311222333"}

	err := co.PlaceOrder(context.Background(), cart, &customer)
	if err == nil {
		t.Fatal("expected persistence failure to abort checkout")
	}

	if len(opener.urls) != 0 {
		t.Error("persistence failure must not open the WhatsApp link")
	}
	if cart.Len() != 2 || customer.Name != "Ali" {
		t.Error("failed order must leave cart and customer untouched for retry")
	}
}

func TestPlaceOrderWithoutConfiguredNumber(t *testing.T) {
	store := &fakeStore{}
	opener := &captureOpener{}
	co := newTestCheckout(t, store, opener, "")
	cart := loadedCart()
	customer := Customer{Name: "Ali", Phone: "0311222333"}

	// An unset number is a warning, not a hard failure
	if err := co.PlaceOrder(context.Background(), cart, &customer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opener.urls) != 1 {
		t.Fatal("checkout should still proceed to the link")
	}
	if !strings.HasPrefix(opener.urls[0], "https://wa.me/?text=") {
		t.Errorf("expected an empty-number link, got %s", opener.urls[0])
	}
}

type reentrantOpener struct {
	co       *Checkout
	cart     *Cart
	customer *Customer
	inner    error
}

func (o *reentrantOpener) Open(url string) error {
	o.inner = o.co.PlaceOrder(context.Background(), o.cart, o.customer)
	return nil
}

func TestPlaceOrderInFlightGuard(t *testing.T) {
	store := &fakeStore{}
	co := newTestCheckout(t, store, nil, "03001234567")
	cart := loadedCart()
	customer := Customer{Name: "Ali", Phone: "0311222333"}

	opener := &reentrantOpener{co: co, cart: cart, customer: &customer}
	co.Opener = opener

	if err := co.PlaceOrder(context.Background(), cart, &customer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(opener.inner, ErrOrderInFlight) {
		t.Errorf("expected re-entrant submit to hit the in-flight guard, got %v", opener.inner)
	}
	if len(store.inserts) != 1 {
		t.Errorf("expected exactly one insert, got %d", len(store.inserts))
	}
}
