package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spot-tradebot/internal/config"
)

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTelegramNotifier(config.TelegramConfig{
		BotToken:   "secret-token",
		ChatID:     "1001",
		APIBaseURL: srv.URL + "/",
		TimeoutSec: 2,
	})
}

func TestTelegramNotifySendsChatAndText(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/botsecret-token/sendMessage" {
			http.NotFound(w, r)
			return
		}
		var req telegramSendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if req.ChatID != "1001" || req.Text != "hello" {
			t.Errorf("request = %+v, want chat 1001 text hello", req)
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	})
	if err := n.Notify(context.Background(), "hello"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
}

func TestTelegramNotifyReportsAPIErrors(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	})
	err := n.Notify(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("Notify() error = %v, want chat not found", err)
	}

	n = newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Forbidden"}`))
	})
	err = n.Notify(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "telegram api error: Forbidden") {
		t.Fatalf("Notify() error = %v, want api error", err)
	}
}

func TestTelegramNotifyTransportErrorHidesToken(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	n := NewTelegramNotifier(config.TelegramConfig{BotToken: "secret-token", ChatID: "1", APIBaseURL: base, TimeoutSec: 1})
	err := n.Notify(context.Background(), "hello")
	if err == nil {
		t.Fatalf("Notify() error = nil, want transport error")
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Fatalf("Notify() error leaks token: %v", err)
	}
}
