package checkout

import (
	"maasai-craft/internal/cart"
	"maasai-craft/internal/models"
)

// Step is where the customer is in the checkout sheet.
type Step string

const (
	StepCart    Step = "cart"
	StepDetails Step = "details"
	StepPayment Step = "payment"
)

// PendingPayment is what the server remembers about the attempt the widget is
// currently running. Its presence is the in-flight flag.
type PendingPayment struct {
	TxRef  string               `json:"tx_ref"`
	Amount int64                `json:"amount"`
	Method models.PaymentMethod `json:"method"`
}

// Session is all per-visitor state: the cart, the details being captured and
// the checkout step. It is owned by one visitor and never shared.
type Session struct {
	ID      string                 `json:"id"`
	Cart    cart.Cart              `json:"cart"`
	Details models.CustomerDetails `json:"details"`
	Step    Step                   `json:"step"`
	Pending *PendingPayment        `json:"pending,omitempty"`
}

func NewSession(id string) *Session {
	return &Session{ID: id, Step: StepCart}
}

// InFlight reports whether a payment widget is open for this session.
func (s *Session) InFlight() bool {
	return s.Pending != nil
}

func (s *Session) reset() {
	s.Cart.Clear()
	s.Details = models.CustomerDetails{}
	s.Step = StepCart
	s.Pending = nil
}
