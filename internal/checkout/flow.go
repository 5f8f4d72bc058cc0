package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"maasai-craft/internal/cart"
	"maasai-craft/internal/flutterwave"
	"maasai-craft/internal/logger"
	"maasai-craft/internal/metrics"
	"maasai-craft/internal/models"
	"maasai-craft/internal/notify"
)

// Gateway is the payment provider as checkout sees it.
type Gateway interface {
	NewPaymentRequest(c *cart.Cart, d models.CustomerDetails, m models.PaymentMethod) flutterwave.PaymentRequest
	Verify(ctx context.Context, transactionID string) (*flutterwave.Verification, error)
}

// Service drives a Session through cart -> details -> payment. It holds no
// per-visitor state itself; callers load and save the Session around each call.
type Service struct {
	gateway  Gateway
	notifier notify.Notifier
	log      *logger.Logger
	metrics  *metrics.Recorder
	validate *validator.Validate
}

func NewService(gw Gateway, n notify.Notifier, log *logger.Logger, m *metrics.Recorder) *Service {
	return &Service{
		gateway:  gw,
		notifier: n,
		log:      log,
		metrics:  m,
		validate: newValidator(),
	}
}

// --- cart mutations ---

func (s *Service) AddItem(ctx context.Context, sess *Session, p models.Product, size string) error {
	if sess.InFlight() {
		return ErrPaymentInFlight
	}
	if err := sess.Cart.Add(p, size); err != nil {
		return err
	}
	s.metrics.CartOp("add")
	return nil
}

func (s *Service) UpdateQuantity(ctx context.Context, sess *Session, id int, size string, quantity int) error {
	if sess.InFlight() {
		return ErrPaymentInFlight
	}
	if err := sess.Cart.UpdateQuantity(id, size, quantity); err != nil {
		return err
	}
	s.metrics.CartOp("update")
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, sess *Session, id int, size string) error {
	if sess.InFlight() {
		return ErrPaymentInFlight
	}
	sess.Cart.Remove(id, size)
	s.metrics.CartOp("remove")
	return nil
}

// Reset empties the cart, forgets the details and returns to the cart step.
func (s *Service) Reset(ctx context.Context, sess *Session) error {
	if sess.InFlight() {
		return ErrPaymentInFlight
	}
	sess.reset()
	s.metrics.CartOp("reset")
	s.log.Info(ctx, "session reset")
	return nil
}

// --- step transitions ---

// Begin opens the details step.
func (s *Service) Begin(ctx context.Context, sess *Session) error {
	err := s.begin(sess)
	s.transition(ctx, StepDetails, err)
	return err
}

func (s *Service) begin(sess *Session) error {
	if sess.Step != StepCart {
		return fmt.Errorf("begin checkout from %s: %w", sess.Step, ErrWrongStep)
	}
	if sess.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	sess.Step = StepDetails
	return nil
}

// Back moves one step backwards. Leaving details drops what was entered.
func (s *Service) Back(ctx context.Context, sess *Session) error {
	if sess.InFlight() {
		return ErrPaymentInFlight
	}
	switch sess.Step {
	case StepDetails:
		sess.Details = models.CustomerDetails{}
		sess.Step = StepCart
	case StepPayment:
		sess.Step = StepDetails
	default:
		return fmt.Errorf("back from %s: %w", sess.Step, ErrWrongStep)
	}
	s.transition(ctx, sess.Step, nil)
	return nil
}

// SubmitDetails validates d and, if it passes, opens the payment step.
func (s *Service) SubmitDetails(ctx context.Context, sess *Session, d models.CustomerDetails) error {
	err := s.submitDetails(sess, d)
	s.transition(ctx, StepPayment, err)
	return err
}

func (s *Service) submitDetails(sess *Session, d models.CustomerDetails) error {
	if sess.Step != StepDetails {
		return fmt.Errorf("submit details at %s: %w", sess.Step, ErrWrongStep)
	}
	d = normalizeDetails(d)
	if err := s.validateDetails(d); err != nil {
		return err
	}
	sess.Details = d
	sess.Step = StepPayment
	return nil
}

func (s *Service) transition(ctx context.Context, to Step, err error) {
	s.metrics.Transition(string(to), err == nil)
	if err != nil {
		s.log.Event(ctx, zerolog.InfoLevel).Str("to", string(to)).Err(err).Msg("checkout transition rejected")
		return
	}
	s.log.Event(ctx, zerolog.InfoLevel).Str("to", string(to)).Msg("checkout transition")
}

// --- payment ---

// StartPayment builds the widget payload for method and marks the session in
// flight. Nothing is charged here; the hosted widget does that.
func (s *Service) StartPayment(ctx context.Context, sess *Session, method models.PaymentMethod) (flutterwave.PaymentRequest, error) {
	if !method.Valid() {
		return flutterwave.PaymentRequest{}, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	if sess.Step != StepPayment {
		return flutterwave.PaymentRequest{}, fmt.Errorf("pay at %s: %w", sess.Step, ErrWrongStep)
	}
	if sess.InFlight() {
		return flutterwave.PaymentRequest{}, ErrPaymentInFlight
	}
	if sess.Cart.IsEmpty() {
		return flutterwave.PaymentRequest{}, ErrEmptyCart
	}

	req := s.gateway.NewPaymentRequest(&sess.Cart, sess.Details, method)
	sess.Pending = &PendingPayment{TxRef: req.TransactionRef, Amount: req.Amount, Method: method}

	s.log.Event(ctx, zerolog.InfoLevel).
		Str("tx_ref", req.TransactionRef).
		Int64("amount", req.Amount).
		Str("method", string(method)).
		Msg("payment started")
	return req, nil
}

// HandleResult applies what the widget reported. The in-flight flag clears on
// every accepted result. A success is only believed after the provider
// confirms it server side.
func (s *Service) HandleResult(ctx context.Context, sess *Session, r Result) (Report, error) {
	if !sess.InFlight() {
		return Report{}, ErrNoPaymentInFlight
	}
	pending := *sess.Pending
	if r.Kind != ResultCancelled && r.TxRef != pending.TxRef {
		return Report{}, fmt.Errorf("%w: got %q, want %q", ErrStaleResult, r.TxRef, pending.TxRef)
	}
	sess.Pending = nil

	var report Report
	switch r.Kind {
	case ResultCancelled:
		report = Report{Outcome: OutcomeCancelled, Message: "Payment cancelled. Your cart is still here."}
	case ResultFailure:
		report = Report{Outcome: OutcomeDeclined, Message: "Payment failed. Please try again."}
	default:
		report = s.settle(ctx, sess, pending, r.TransactionID)
	}
	report.TransactionRef = pending.TxRef

	s.metrics.PaymentOutcome(string(report.Outcome))
	s.log.Event(ctx, zerolog.InfoLevel).
		Str("tx_ref", pending.TxRef).
		Str("outcome", string(report.Outcome)).
		Str("provider_status", r.Status).
		Msg("payment result handled")
	return report, nil
}

func (s *Service) settle(ctx context.Context, sess *Session, pending PendingPayment, transactionID string) Report {
	start := time.Now()
	v, err := s.gateway.Verify(ctx, transactionID)
	s.metrics.ObserveVerify(time.Since(start))

	if err != nil {
		s.log.Error(ctx, "payment verification error", err)
		return Report{
			Outcome: OutcomeVerificationError,
			Message: "We could not verify your payment. Please contact support with your reference.",
		}
	}
	if !v.Confirms(pending.TxRef, pending.Amount) {
		event := s.log.Event(ctx, zerolog.WarnLevel).Str("status", v.Status).Str("message", v.Message)
		if v.Data != nil {
			event = event.Str("charge_status", v.Data.Status).Str("provider_tx_ref", v.Data.TxRef)
		}
		event.Msg("payment verification failed")
		return Report{
			Outcome: OutcomeVerificationFailed,
			Message: "Payment verification failed. Please contact support with your reference.",
		}
	}

	notified := s.notifier.Notify(ctx, sess.Details.Phone, pending.Amount, pending.TxRef)
	if !notified {
		s.log.Warn(ctx, "payment notification failed")
	}

	sess.reset()
	return Report{
		Outcome:  OutcomePaid,
		Message:  "Payment successful! Your order has been placed.",
		Notified: notified,
	}
}
