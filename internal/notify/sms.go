package notify

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"maasai-craft/internal/logger"
)

// Notifier tells the customer their payment went through. A false return is
// not an error for the caller; the payment stands either way.
type Notifier interface {
	Notify(ctx context.Context, phone string, amount int64, transactionRef string) bool
}

// SMSStub is where a real SMS gateway would be called. It only logs.
type SMSStub struct {
	log     *logger.Logger
	printer *message.Printer
}

func NewSMSStub(log *logger.Logger) *SMSStub {
	return &SMSStub{log: log, printer: message.NewPrinter(language.English)}
}

// Message renders the confirmation text, e.g.
// "Payment of KSh 5,300 successful. Ref: MC-1718000000123-42".
func (s *SMSStub) Message(amount int64, transactionRef string) string {
	return s.printer.Sprintf("Payment of KSh %d successful. Ref: %s", amount, transactionRef)
}

func (s *SMSStub) Notify(ctx context.Context, phone string, amount int64, transactionRef string) bool {
	s.log.Event(ctx, zerolog.InfoLevel).
		Str("phone", phone).
		Int64("amount", amount).
		Str("tx_ref", transactionRef).
		Str("text", s.Message(amount, transactionRef)).
		Msg("sms notification sent")
	return true
}
