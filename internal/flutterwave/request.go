package flutterwave

import (
	"fmt"

	"maasai-craft/internal/cart"
	"maasai-craft/internal/models"
)

const (
	Currency        = "KES"
	DisplayTitle    = "Maasai Craft"
	NoAddress       = "Not provided"
	ChannelMpesa    = "mobilemoneykenya"
	ChannelCard     = "card"
	maxRandomSuffix = 1000
)

// PaymentRequest is the inline checkout payload handed to the hosted widget.
type PaymentRequest struct {
	PublicKey      string         `json:"public_key"`
	TransactionRef string         `json:"tx_ref"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	PaymentChannel string         `json:"payment_options"`
	Customer       Customer       `json:"customer"`
	Display        Customizations `json:"customizations"`
	Metadata       Meta           `json:"meta"`
}

type Customer struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
}

type Customizations struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo,omitempty"`
}

type Meta struct {
	OrderItems      []OrderItem `json:"order_items"`
	DeliveryAddress string      `json:"delivery_address"`
}

type OrderItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// ChannelFor maps the customer's method choice to the provider's payment option.
func ChannelFor(m models.PaymentMethod) string {
	if m == models.PaymentMpesa {
		return ChannelMpesa
	}
	return ChannelCard
}

// NewPaymentRequest snapshots the cart and details into a widget payload with
// a fresh transaction reference.
func (c *Client) NewPaymentRequest(ct *cart.Cart, d models.CustomerDetails, m models.PaymentMethod) PaymentRequest {
	items := make([]OrderItem, 0, len(ct.Lines))
	for _, l := range ct.Lines {
		items = append(items, OrderItem{
			ID:       l.Product.ID,
			Name:     l.Product.Name,
			Size:     l.Size,
			Quantity: l.Quantity,
			Price:    l.Product.Price,
		})
	}

	address := d.Address
	if address == "" {
		address = NoAddress
	}

	return PaymentRequest{
		PublicKey:      c.cfg.PublicKey,
		TransactionRef: c.newTxRef(),
		Amount:         ct.Totals().Total,
		Currency:       Currency,
		PaymentChannel: ChannelFor(m),
		Customer: Customer{
			Email:       d.Email,
			PhoneNumber: d.Phone,
			Name:        d.Name,
		},
		Display: Customizations{
			Title:       DisplayTitle,
			Description: fmt.Sprintf("Payment for %d item(s)", len(ct.Lines)),
			Logo:        c.cfg.LogoURL,
		},
		Metadata: Meta{
			OrderItems:      items,
			DeliveryAddress: address,
		},
	}
}

// newTxRef builds <prefix>-<unix millis>-<0..999>. Collisions are tolerated;
// the provider's transaction id is the authoritative identifier.
func (c *Client) newTxRef() string {
	return fmt.Sprintf("%s-%d-%d", c.cfg.TxRefPrefix, c.now().UnixMilli(), c.intn(maxRandomSuffix))
}
