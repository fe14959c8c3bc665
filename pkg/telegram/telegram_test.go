package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Notify(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/bottoken123/sendMessage", r.URL.Path)
		require.Equal(t, "42", r.URL.Query().Get("chat_id"))
		require.Equal(t, "No borrowings overdue today", r.URL.Query().Get("text"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(Config{
		APIURL:      srv.URL,
		Token:       "token123",
		AdminChatID: "42",
		Timeout:     time.Second,
	}, zap.NewExample())

	require.Equal(t, "42", client.AdminChatID())
	require.NoError(t, client.Notify(context.Background(), "42", "No borrowings overdue today"))
}

func TestClient_Notify_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(Config{APIURL: srv.URL, Token: "token123", Timeout: time.Second}, zap.NewExample())
	require.Error(t, client.Notify(context.Background(), "42", "hello"))
}
