package discord

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/caasmo/accountlink/notify"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{}, discardLogger()); err == nil {
		t.Error("expected error for missing webhook URL")
	}
	if _, err := New(Options{WebhookURL: "https://example.com/hook"}, nil); err == nil {
		t.Error("expected error for missing logger")
	}
	if _, err := New(Options{WebhookURL: "https://example.com/hook"}, discardLogger()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSendDeliversEvent(t *testing.T) {
	received := make(chan payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("failed to decode webhook payload: %v", err)
		}
		received <- p
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dn, err := New(Options{WebhookURL: srv.URL}, discardLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	e := notify.Event{
		Timestamp:   time.Now(),
		Type:        notify.AccountCreated,
		AccountID:   "acc-1",
		Login:       "alice",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}
	if err := dn.Send(context.Background(), e); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case p := <-received:
		if !strings.Contains(p.Content, "AccountCreated") {
			t.Errorf("payload missing event type: %q", p.Content)
		}
		if !strings.Contains(p.Content, "alice") {
			t.Errorf("payload missing login: %q", p.Content)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was never called")
	}
}

// Rate-limited events are dropped, not errored, per the drop policy.
func TestSendRateLimitDrops(t *testing.T) {
	calls := make(chan struct{}, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls <- struct{}{}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	dn, err := New(Options{
		WebhookURL:   srv.URL,
		APIRateLimit: rate.Every(time.Hour),
		APIBurst:     1,
	}, discardLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	e := notify.Event{Type: notify.AccountUpdated, AccountID: "acc-1"}
	if err := dn.Send(context.Background(), e); err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
	if err := dn.Send(context.Background(), e); err != nil {
		t.Fatalf("rate-limited Send must not error, got: %v", err)
	}

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("first event was never delivered")
	}

	select {
	case <-calls:
		t.Error("second event should have been dropped by the rate limiter")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFormatMessageTruncation(t *testing.T) {
	dn, err := New(Options{WebhookURL: "https://example.com/hook"}, discardLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	e := notify.Event{
		Type:        notify.AccountCreated,
		AccountID:   "acc-1",
		DisplayName: strings.Repeat("x", 3000),
	}
	msg := dn.formatMessage(e)
	if len(msg) > discordMaxMessageLength {
		t.Errorf("message length %d exceeds limit %d", len(msg), discordMaxMessageLength)
	}
	if !strings.HasSuffix(msg, "...") {
		t.Error("truncated message should end with ellipsis")
	}
}
