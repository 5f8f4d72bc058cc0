package flutterwave

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maasai-craft/internal/cart"
	"maasai-craft/internal/models"
)

func newTestClient(baseURL string) *Client {
	c := NewClient(Config{
		PublicKey:          "FLWPUBK_TEST-pub",
		SecretKey:          "FLWSECK_TEST-secret",
		BaseURL:            baseURL,
		BreakerMinRequests: 3,
		BreakerFailRatio:   0.5,
		BreakerTimeout:     time.Minute,
	})
	c.now = func() time.Time { return time.UnixMilli(1718000000123) }
	c.intn = func(int) int { return 42 }
	return c
}

func sampleCart() *cart.Cart {
	var c cart.Cart
	kiondo := models.Product{ID: 1, Name: "Traditional Kiondo - Large", Price: 2500, Sizes: []string{"Large"}}
	keychain := models.Product{ID: 8, Name: "Maasai Beaded Keychain - Traditional", Price: 400, Sizes: []string{"One Size"}}
	c.Add(kiondo, "Large")
	c.Add(kiondo, "Large")
	c.Add(keychain, "One Size")
	return &c
}

func details() models.CustomerDetails {
	return models.CustomerDetails{Name: "Naserian Lekishon", Email: "naserian@example.com", Phone: "0712345678"}
}

func TestNewPaymentRequest(t *testing.T) {
	c := newTestClient("")

	req := c.NewPaymentRequest(sampleCart(), details(), models.PaymentMpesa)

	assert.Equal(t, "FLWPUBK_TEST-pub", req.PublicKey)
	assert.Equal(t, "MC-1718000000123-42", req.TransactionRef)
	assert.Equal(t, int64(5400), req.Amount) // 5400 > 5000, free shipping
	assert.Equal(t, "KES", req.Currency)
	assert.Equal(t, ChannelMpesa, req.PaymentChannel)
	assert.Equal(t, Customer{Email: "naserian@example.com", PhoneNumber: "0712345678", Name: "Naserian Lekishon"}, req.Customer)
	assert.Equal(t, "Maasai Craft", req.Display.Title)
	assert.Equal(t, "Payment for 2 item(s)", req.Display.Description)
	assert.Equal(t, NoAddress, req.Metadata.DeliveryAddress)
	assert.Equal(t, []OrderItem{
		{ID: 1, Name: "Traditional Kiondo - Large", Size: "Large", Quantity: 2, Price: 2500},
		{ID: 8, Name: "Maasai Beaded Keychain - Traditional", Size: "One Size", Quantity: 1, Price: 400},
	}, req.Metadata.OrderItems)
}

func TestNewPaymentRequest_CardAndAddress(t *testing.T) {
	c := newTestClient("")
	d := details()
	d.Address = "Kenyatta Avenue, Nairobi"

	req := c.NewPaymentRequest(sampleCart(), d, models.PaymentCard)

	assert.Equal(t, ChannelCard, req.PaymentChannel)
	assert.Equal(t, "Kenyatta Avenue, Nairobi", req.Metadata.DeliveryAddress)
}

func TestNewPaymentRequest_WireFormat(t *testing.T) {
	c := newTestClient("")

	raw, err := json.Marshal(c.NewPaymentRequest(sampleCart(), details(), models.PaymentMpesa))
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(raw, &wire))
	for _, key := range []string{"public_key", "tx_ref", "amount", "currency", "payment_options", "customer", "customizations", "meta"} {
		assert.Contains(t, wire, key)
	}
	assert.NotContains(t, string(raw), "FLWSECK")
	assert.Contains(t, wire["customer"], "phone_number")
	assert.Contains(t, wire["meta"], "delivery_address")
}

func TestTxRefFormat(t *testing.T) {
	c := NewClient(Config{PublicKey: "pk", SecretKey: "sk"})
	ref := c.newTxRef()
	assert.Regexp(t, regexp.MustCompile(`^MC-\d+-\d{1,3}$`), ref)
}

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v3/transactions/1163068/verify", r.URL.Path)
		assert.Equal(t, "Bearer FLWSECK_TEST-secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","message":"Transaction fetched successfully",
			"data":{"id":1163068,"tx_ref":"MC-1-2","amount":5300,"currency":"KES","status":"successful"}}`))
	}))
	defer srv.Close()

	v, err := newTestClient(srv.URL).Verify(context.Background(), "1163068")
	require.NoError(t, err)
	assert.True(t, v.Successful())
	assert.True(t, v.Confirms("MC-1-2", 5300))
	assert.Equal(t, int64(1163068), v.Data.ID)
}

func TestVerify_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"No transaction was found for this id","data":null}`))
	}))
	defer srv.Close()

	v, err := newTestClient(srv.URL).Verify(context.Background(), "42")
	require.NoError(t, err)
	assert.False(t, v.Successful())
}

func TestVerify_TransportErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`<html>maintenance</html>`))
			},
		},
		{
			name: "no status field",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"message":"ok"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := newTestClient(srv.URL).Verify(context.Background(), "1")
			assert.ErrorIs(t, err, ErrTransport)
		})
	}
}

func TestVerify_EmptyID(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrTransport)
}

func TestVerify_BreakerOpens(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var states []float64
	c := newTestClient(srv.URL)
	c.cfg.OnBreakerChange = func(_ string, s float64) { states = append(states, s) }
	c = NewClient(c.cfg)

	for i := 0; i < 3; i++ {
		_, err := c.Verify(context.Background(), "1")
		require.ErrorIs(t, err, ErrTransport)
	}
	_, err := c.Verify(context.Background(), "1")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 3, calls, "open breaker must not reach the provider")
	assert.Equal(t, []float64{2}, states)
}

func TestVerification_Confirms(t *testing.T) {
	amount := func(f float64) *float64 { return &f }
	ok := func() *Verification {
		return &Verification{Status: "success", Data: &TransactionData{TxRef: "MC-1-1", Currency: "KES", Amount: amount(5300), Status: "successful"}}
	}

	assert.True(t, ok().Confirms("MC-1-1", 5300))

	v := ok()
	v.Data.Status = "failed"
	assert.False(t, v.Confirms("MC-1-1", 5300))

	v = ok()
	v.Status = "error"
	assert.False(t, v.Confirms("MC-1-1", 5300))

	v = ok()
	v.Data.TxRef = "MC-9-9"
	assert.False(t, v.Confirms("MC-1-1", 5300))

	v = ok()
	v.Data.Currency = "NGN"
	assert.False(t, v.Confirms("MC-1-1", 5300))

	v = ok()
	v.Data.Amount = amount(300)
	assert.False(t, v.Confirms("MC-1-1", 5300))

	v = ok()
	v.Data.TxRef, v.Data.Currency, v.Data.Amount = "", "", nil
	assert.True(t, v.Confirms("MC-1-1", 5300))

	assert.False(t, (&Verification{Status: "success"}).Confirms("MC-1-1", 1))
}
