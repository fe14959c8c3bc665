package telegram

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	APIURL      string        `envconfig:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
	Token       string        `envconfig:"TELEGRAM_TOKEN"`
	AdminChatID string        `envconfig:"TELEGRAM_ADMIN_CHAT_ID"`
	Timeout     time.Duration `envconfig:"TELEGRAM_TIMEOUT" default:"10s"`
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
		log:    log.Named("telegram"),
	}
}

func (c *Client) AdminChatID() string {
	return c.cfg.AdminChatID
}

// Notify sends a text message to the chat via the bot sendMessage endpoint.
func (c *Client) Notify(ctx context.Context, chatID, text string) error {
	q := url.Values{}
	q.Set("chat_id", chatID)
	q.Set("parse_mode", "Markdown")
	q.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.APIURL+"/bot"+c.cfg.Token+"/sendMessage?"+q.Encode(), http.NoBody)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("telegram: unexpected status %d", resp.StatusCode)
	}
	return nil
}
