package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	APIURL    string        `envconfig:"STRIPE_API_URL" default:"https://api.stripe.com"`
	SecretKey string        `envconfig:"STRIPE_SECRET_KEY"`
	DomainURL string        `envconfig:"DOMAIN_URL" default:"http://localhost:8080"`
	Timeout   time.Duration `envconfig:"STRIPE_TIMEOUT" default:"15s"`
}

type LineItem struct {
	Name     string
	UnitCost decimal.Decimal
	Quantity int
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Client struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.Named("stripe"),
	}
}

// OpenCheckout creates a checkout session for the given line items. The call
// is bounded by the client timeout, failures are reported to the caller and
// never unwind committed business state.
func (c *Client) OpenCheckout(ctx context.Context, borrowingID int, items []LineItem) (Session, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("success_url", c.cfg.DomainURL+"/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}")
	form.Set("cancel_url", c.cfg.DomainURL+"/api/v1/payments/cancel")
	form.Set("client_reference_id", strconv.Itoa(borrowingID))
	for i, item := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][unit_amount]", item.UnitCost.Mul(decimal.NewFromInt(100)).StringFixed(0))
		form.Set(prefix+"[price_data][product_data][name]", item.Name)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.APIURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return Session{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("checkout session", zap.Int("status", resp.StatusCode))
		return Session{}, errors.Errorf("stripe: unexpected status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return Session{}, err
	}
	return session, nil
}
