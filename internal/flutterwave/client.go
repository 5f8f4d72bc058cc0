package flutterwave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrTransport covers every verify failure that is not a provider answer:
// network errors, 5xx, bodies that do not decode, an open breaker.
var ErrTransport = errors.New("flutterwave: transport error")

// Config holds our keys
type Config struct {
	PublicKey   string
	SecretKey   string // server side only, never sent to the browser
	BaseURL     string
	LogoURL     string
	TxRefPrefix string
	Timeout     time.Duration

	BreakerTimeout     time.Duration
	BreakerMinRequests uint32
	BreakerFailRatio   float64

	// OnBreakerChange is told about every breaker state change as
	// 0 (closed), 1 (half-open) or 2 (open).
	OnBreakerChange func(name string, state float64)
}

const breakerName = "flutterwave-verify"

// Client is the adapter between checkout and the hosted payment provider.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*Verification]
	now     func() time.Time
	intn    func(int) int
}

// NewClient creates a new instance
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.flutterwave.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TxRefPrefix == "" {
		cfg.TxRefPrefix = "MC"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.BreakerFailRatio <= 0 {
		cfg.BreakerFailRatio = 0.5
	}

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		now:  time.Now,
		intn: rand.IntN,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*Verification](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailRatio
		},
		OnStateChange: func(name string, _ gobreaker.State, to gobreaker.State) {
			if cfg.OnBreakerChange != nil {
				cfg.OnBreakerChange(name, stateValue(to))
			}
		},
	})
	return c
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Verification is the provider's answer to a verify call. Only the two status
// fields decide the outcome; the rest is cross-checked when present.
type Verification struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Data    *TransactionData `json:"data"`
}

type TransactionData struct {
	ID       int64    `json:"id"`
	TxRef    string   `json:"tx_ref"`
	FlwRef   string   `json:"flw_ref"`
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
	Status   string   `json:"status"`
}

// Successful reports whether both the envelope and the charge say so.
func (v *Verification) Successful() bool {
	return v != nil && v.Status == "success" && v.Data != nil && v.Data.Status == "successful"
}

// Confirms reports whether v proves payment of at least amount for txRef.
func (v *Verification) Confirms(txRef string, amount int64) bool {
	if !v.Successful() {
		return false
	}
	if v.Data.TxRef != "" && v.Data.TxRef != txRef {
		return false
	}
	if v.Data.Currency != "" && v.Data.Currency != Currency {
		return false
	}
	if v.Data.Amount != nil && *v.Data.Amount < float64(amount) {
		return false
	}
	return true
}

// Verify asks the provider for the final state of transactionID.
func (c *Client) Verify(ctx context.Context, transactionID string) (*Verification, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: empty transaction id", ErrTransport)
	}

	v, err := c.breaker.Execute(func() (*Verification, error) {
		return c.verify(ctx, transactionID)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
		return nil, err
	}
	return v, nil
}

func (c *Client) verify(ctx context.Context, transactionID string) (*Verification, error) {
	endpoint := fmt.Sprintf("%s/v3/transactions/%s/verify", c.cfg.BaseURL, url.PathEscape(transactionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, string(body))
	}

	// 4xx bodies are provider answers too ("no transaction was found").
	var v Verification
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("%w: decode status %d: %v", ErrTransport, resp.StatusCode, err)
	}
	if v.Status == "" {
		return nil, fmt.Errorf("%w: status %d without a status field", ErrTransport, resp.StatusCode)
	}
	return &v, nil
}
