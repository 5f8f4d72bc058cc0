package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"maasai-craft/internal/cart"
	"maasai-craft/internal/catalog"
	"maasai-craft/internal/checkout"
)

var (
	errBadRequest  = errors.New("malformed request body")
	errInvalidSize = errors.New("size is not offered for this product")
)

type envelope struct {
	Data any `json:"data"`
}

type apiError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string, fields map[string]string) {
	writeJSON(w, status, struct {
		Error apiError `json:"error"`
	}{apiError{Code: code, Message: message, Fields: fields}})
}

// errorStatus maps a domain error to its HTTP status and code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound, "product_not_found"
	case errors.Is(err, errInvalidSize):
		return http.StatusBadRequest, "invalid_size"
	case errors.Is(err, cart.ErrQuantityLimit):
		return http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, checkout.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, checkout.ErrInvalidMethod):
		return http.StatusBadRequest, "invalid_method"
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusConflict, "empty_cart"
	case errors.Is(err, checkout.ErrWrongStep):
		return http.StatusConflict, "wrong_step"
	case errors.Is(err, checkout.ErrPaymentInFlight):
		return http.StatusConflict, "payment_in_flight"
	case errors.Is(err, checkout.ErrNoPaymentInFlight):
		return http.StatusConflict, "no_payment_in_flight"
	case errors.Is(err, checkout.ErrStaleResult):
		return http.StatusConflict, "stale_result"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (app *Application) fail(ctx context.Context, w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		app.Log.Error(ctx, "request failed", err)
		writeError(w, status, code, "Something went wrong", nil)
		return
	}

	var fields map[string]string
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		fields = verr.Fields
	}
	writeError(w, status, code, err.Error(), fields)
}
