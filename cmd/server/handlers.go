package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"maasai-craft/internal/cart"
	"maasai-craft/internal/checkout"
	"maasai-craft/internal/models"
)

var requestValidator = validator.New()

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	if err := requestValidator.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// withSession runs fn against the caller's session under its lock and saves the
// session when fn succeeds.
func (app *Application) withSession(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, s *checkout.Session) (any, error)) {
	s, release, err := app.Sessions.Acquire(w, r)
	if err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	defer release()

	ctx := app.Log.WithSessionID(r.Context(), s.ID)
	data, err := fn(ctx, s)
	if err != nil {
		app.fail(ctx, w, err)
		return
	}
	if err := app.Sessions.Save(ctx, s); err != nil {
		// A paid outcome has already been verified and notified. Failing the
		// request would invite the browser to pay again, so report it anyway.
		if report, ok := data.(checkout.Report); ok && report.Outcome == checkout.OutcomePaid {
			app.Log.Event(ctx, zerolog.ErrorLevel).
				Err(err).
				Str("tx_ref", report.TransactionRef).
				Msg("paid session could not be saved")
			writeData(w, report)
			return
		}
		app.fail(ctx, w, fmt.Errorf("save session: %w", err))
		return
	}
	writeData(w, data)
}

func (app *Application) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeData(w, map[string]string{"status": "ok"})
}

// --- catalog ---

func (app *Application) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	writeData(w, app.Catalog.Categories())
}

func (app *Application) productsHandler(w http.ResponseWriter, r *http.Request) {
	writeData(w, app.Catalog.ByCategory(r.URL.Query().Get("category")))
}

func (app *Application) productHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		app.fail(r.Context(), w, fmt.Errorf("%w: product id %q", errBadRequest, chi.URLParam(r, "id")))
		return
	}
	p, err := app.Catalog.Get(id)
	if err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	writeData(w, p)
}

// --- cart ---

type cartView struct {
	Lines     []cart.Line             `json:"lines"`
	Subtotal  int64                   `json:"subtotal"`
	Shipping  int64                   `json:"shipping"`
	Total     int64                   `json:"total"`
	ItemCount int                     `json:"item_count"`
	Step      checkout.Step           `json:"step"`
	InFlight  bool                    `json:"payment_in_flight"`
	Details   *models.CustomerDetails `json:"details,omitempty"`
}

func viewOf(s *checkout.Session) cartView {
	totals := s.Cart.Totals()
	v := cartView{
		Lines:     s.Cart.Lines,
		Subtotal:  totals.Subtotal,
		Shipping:  totals.Shipping,
		Total:     totals.Total,
		ItemCount: s.Cart.ItemCount(),
		Step:      s.Step,
		InFlight:  s.InFlight(),
	}
	if v.Lines == nil {
		v.Lines = []cart.Line{}
	}
	if !s.Details.IsZero() {
		d := s.Details
		v.Details = &d
	}
	return v
}

type lineRequest struct {
	ProductID int    `json:"product_id" validate:"gt=0"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (app *Application) viewCartHandler(w http.ResponseWriter, r *http.Request) {
	app.withSession(w, r, func(_ context.Context, s *checkout.Session) (any, error) {
		return viewOf(s), nil
	})
}

func (app *Application) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := decode(w, r, &req); err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	p, err := app.Catalog.Get(req.ProductID)
	if err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	size := req.Size
	if size == "" {
		size = p.DefaultSize()
	}
	if !p.HasSize(size) {
		app.fail(r.Context(), w, fmt.Errorf("%w: %q for %s", errInvalidSize, size, p.Name))
		return
	}

	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		if err := app.Checkout.AddItem(ctx, s, p, size); err != nil {
			return nil, err
		}
		return viewOf(s), nil
	})
}

func (app *Application) updateCartHandler(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := decode(w, r, &req); err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		if err := app.Checkout.UpdateQuantity(ctx, s, req.ProductID, req.Size, req.Quantity); err != nil {
			return nil, err
		}
		return viewOf(s), nil
	})
}

func (app *Application) removeFromCartHandler(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := decode(w, r, &req); err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		if err := app.Checkout.RemoveItem(ctx, s, req.ProductID, req.Size); err != nil {
			return nil, err
		}
		return viewOf(s), nil
	})
}

func (app *Application) resetCartHandler(w http.ResponseWriter, r *http.Request) {
	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		if err := app.Checkout.Reset(ctx, s); err != nil {
			return nil, err
		}
		return viewOf(s), nil
	})
}

// --- checkout ---

func (app *Application) beginCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		if err := app.Checkout.Begin(ctx, s); err != nil {
			return nil, err
		}
		return viewOf(s), nil
	})
}

func (app *Application) checkoutBackHandler(w http.ResponseWriter, r *http.Request) {
	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		if err := app.Checkout.Back(ctx, s); err != nil {
			return nil, err
		}
		return viewOf(s), nil
	})
}

func (app *Application) detailsHandler(w http.ResponseWriter, r *http.Request) {
	var d models.CustomerDetails
	// Field rules live in checkout; only the JSON shape is checked here.
	if err := decodeJSON(w, r, &d); err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		if err := app.Checkout.SubmitDetails(ctx, s, d); err != nil {
			return nil, err
		}
		return viewOf(s), nil
	})
}

type payRequest struct {
	Method models.PaymentMethod `json:"method" validate:"required"`
}

func (app *Application) payHandler(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := decode(w, r, &req); err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		return app.Checkout.StartPayment(ctx, s, req.Method)
	})
}

// transactionID accepts the provider's numeric id as well as a string.
type transactionID string

func (t *transactionID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = transactionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = transactionID(n.String())
	return nil
}

type resultRequest struct {
	Cancelled     bool          `json:"cancelled"`
	Status        string        `json:"status"`
	TransactionID transactionID `json:"transaction_id"`
	TxRef         string        `json:"tx_ref"`
}

func (r resultRequest) result() checkout.Result {
	if r.Cancelled {
		return checkout.Cancelled()
	}
	return checkout.FromCallback(r.Status, string(r.TransactionID), r.TxRef)
}

func (app *Application) paymentResultHandler(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := decode(w, r, &req); err != nil {
		app.fail(r.Context(), w, err)
		return
	}
	app.withSession(w, r, func(ctx context.Context, s *checkout.Session) (any, error) {
		return app.Checkout.HandleResult(ctx, s, req.result())
	})
}
