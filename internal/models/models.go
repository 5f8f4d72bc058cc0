package models

// Product is one catalog entry. Prices are whole Kenyan Shillings.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	ImageURL    string   `json:"image"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Sizes       []string `json:"sizes"`
	InStock     int      `json:"in_stock"` // informational only
}

// HasSize reports whether size is one of the product's size labels.
func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// DefaultSize is the size preselected on the product card.
func (p Product) DefaultSize() string {
	if len(p.Sizes) == 0 {
		return ""
	}
	return p.Sizes[0]
}

// CustomerDetails is what the details step captures for one checkout attempt.
type CustomerDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Phone   string `json:"phone" validate:"required,msisdn"`
	Address string `json:"address,omitempty"`
}

// IsZero reports whether no field has been filled in.
func (d CustomerDetails) IsZero() bool {
	return d == CustomerDetails{}
}

// PaymentMethod is the customer's choice on the payment step.
type PaymentMethod string

const (
	PaymentMpesa PaymentMethod = "mpesa"
	PaymentCard  PaymentMethod = "card"
)

// Valid reports whether m is one of the two supported methods.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMpesa || m == PaymentCard
}
