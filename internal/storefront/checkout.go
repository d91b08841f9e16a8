package storefront

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"tinytreats/internal/cloud"
	"tinytreats/internal/model"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Customer holds the contact fields collected at checkout
type Customer struct {
	Name  string
	Phone string
}

// Checkout errors surfaced to the ordering view
var (
	ErrMissingContact = errors.New("please enter your name and phone number")
	ErrOrderInFlight  = errors.New("an order is already being placed")
)

// LinkOpener opens the WhatsApp deep link in whatever the host
// environment uses for a browser tab
type LinkOpener interface {
	Open(url string) error
}

// LogOpener is the default opener: it only logs the link
type LogOpener struct {
	Log *zap.Logger
}

// Open logs the redirect target
func (o LogOpener) Open(url string) error {
	o.Log.Info("Redirecting to WhatsApp", zap.String("url", url))
	return nil
}

// Checkout runs the WhatsApp handoff flow: persist a pending order to
// the cloud datastore, then open a prefilled chat link
type Checkout struct {
	Store    cloud.Store
	Settings *Settings
	Opener   LinkOpener
	Log      *zap.Logger

	inFlight bool
}

// NewCheckout creates the checkout flow
func NewCheckout(store cloud.Store, settings *Settings, opener LinkOpener, log *zap.Logger) *Checkout {
	return &Checkout{Store: store, Settings: settings, Opener: opener, Log: log}
}

// PlaceOrder submits the cart. Validation failures and any error during
// persistence or the redirect leave the cart and customer untouched so
// the user can retry; success clears both and closes the cart panel.
func (co *Checkout) PlaceOrder(ctx context.Context, cart *Cart, customer *Customer) error {
	if customer.Name == "" || customer.Phone == "" {
		return ErrMissingContact
	}

	if co.inFlight {
		return ErrOrderInFlight
	}
	co.inFlight = true
	defer func() { co.inFlight = false }()

	items := cart.Items()
	total := cart.Total()

	order := cloud.Order{
		CustomerName: customer.Name,
		Phone:        customer.Phone,
		Items:        make([]cloud.OrderItem, 0, len(items)),
		TotalPrice:   total,
		Status:       model.StatusPending,
	}
	for _, item := range items {
		order.Items = append(order.Items, cloud.OrderItem{
			Name:     item.Product.Name,
			Quantity: item.Quantity,
			Price:    item.Product.Price,
		})
	}

	// Persistence failure aborts the whole flow; checkout never degrades
	// to a WhatsApp-only order
	if err := co.Store.InsertOrder(ctx, order); err != nil {
		co.Log.Error("Failed to persist order", zap.Error(err))
		return err
	}

	number := co.Settings.WhatsAppNumber()
	if number == "" {
		co.Log.Warn("WhatsApp number not configured")
	} else {
		number = NormalizePhone(number)
	}

	message := BuildMessage(customer, items, total)
	waURL := "https://wa.me/" + digitsOnly(number) + "?text=" + message

	if err := co.Opener.Open(waURL); err != nil {
		co.Log.Error("Failed to open WhatsApp link", zap.Error(err))
		return err
	}

	cart.Clear()
	cart.Close()
	*customer = Customer{}
	return nil
}

// NormalizePhone rewrites a number into Pakistani international format:
// a leading "0" becomes "92", and a number without the "92" prefix that
// is plausibly long enough gets it prepended. Already-prefixed numbers
// pass through unchanged.
func NormalizePhone(number string) string {
	switch {
	case number == "":
		return ""
	case strings.HasPrefix(number, "0"):
		return "92" + number[1:]
	case !strings.HasPrefix(number, "92") && len(number) > 5:
		return "92" + number
	default:
		return number
	}
}

// BuildMessage composes the URL-encoded order summary for the chat link
func BuildMessage(customer *Customer, items []CartItem, total float64) string {
	lines := []string{
		"*New Order: TinyTreats*",
		"",
		"*Name:* " + customer.Name,
		"*Phone:* " + customer.Phone,
		"",
		"*Items:*",
	}
	for _, item := range items {
		lines = append(lines, "- "+item.Product.Name+" (x"+strconv.Itoa(item.Quantity)+")")
	}
	lines = append(lines,
		"",
		"*Total:* Rs. "+humanize.Commaf(total),
		"",
		"*Order Received - We will confirm shortly.*",
	)
	return strings.Join(lines, "%0A")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
