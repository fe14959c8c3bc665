package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_OpenCheckout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		require.Equal(t, "payment", r.PostForm.Get("mode"))
		require.Equal(t, "7", r.PostForm.Get("client_reference_id"))
		require.Equal(t, "http://localhost:8080/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}",
			r.PostForm.Get("success_url"))
		require.Equal(t, "usd", r.PostForm.Get("line_items[0][price_data][currency]"))
		require.Equal(t, "1400", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		require.Equal(t, "Sample Book", r.PostForm.Get("line_items[0][price_data][product_data][name]"))
		require.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_1","url":"https://checkout.stripe.com/pay/cs_1"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{
		APIURL:    srv.URL,
		SecretKey: "sk_test",
		DomainURL: "http://localhost:8080",
		Timeout:   time.Second,
	}, zap.NewExample())

	session, err := client.OpenCheckout(context.Background(), 7, []LineItem{
		{Name: "Sample Book", UnitCost: decimal.RequireFromString("14.00"), Quantity: 1},
	})
	require.NoError(t, err)
	require.Equal(t, Session{ID: "cs_1", URL: "https://checkout.stripe.com/pay/cs_1"}, session)
}

func TestClient_OpenCheckout_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL, Timeout: time.Second}, zap.NewExample())

	_, err := client.OpenCheckout(context.Background(), 7, []LineItem{
		{Name: "Sample Book", UnitCost: decimal.RequireFromString("14.00"), Quantity: 1},
	})
	require.Error(t, err)
}
