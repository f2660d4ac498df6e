package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendPostsToBotEndpoint(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("body should be JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer srv.Close()

	tg := NewTelegram("token123", "4242")
	tg.http.SetBaseURL(srv.URL)

	if err := tg.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if gotPath != "/bottoken123/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody.ChatID != "4242" || gotBody.Text != "hello" {
		t.Fatalf("unexpected request body: %+v", gotBody)
	}
}

func TestSendMissingCredentials(t *testing.T) {
	cases := []struct {
		token  string
		chatID string
	}{
		{"", ""},
		{"token123", ""},
		{"", "4242"},
		{"   ", "4242"},
	}

	for _, tc := range cases {
		tg := NewTelegram(tc.token, tc.chatID)
		err := tg.Send(context.Background(), "hello")
		if !errors.Is(err, ErrNoCredentials) {
			t.Fatalf("token %q chat %q: expected ErrNoCredentials, got %v", tc.token, tc.chatID, err)
		}
	}
}

func TestSendAPIRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	tg := NewTelegram("token123", "4242")
	tg.http.SetBaseURL(srv.URL)

	err := tg.Send(context.Background(), "hello")
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API description in error, got %v", err)
	}
	if strings.Contains(err.Error(), "token123") {
		t.Fatalf("error must not leak the bot token: %v", err)
	}
}

func TestSendNonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("gateway timeout"))
	}))
	defer srv.Close()

	tg := NewTelegram("token123", "4242")
	tg.http.SetBaseURL(srv.URL)

	err := tg.Send(context.Background(), "hello")
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "http 500") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}

func TestSendRedactsTokenOnTransportError(t *testing.T) {
	tg := NewTelegram("token123", "4242")
	tg.http.SetBaseURL("http://127.0.0.1:1")

	err := tg.Send(context.Background(), "hello")
	if !errors.Is(err, ErrSendFailed) {
		t.Fatalf("expected ErrSendFailed, got %v", err)
	}
	if strings.Contains(err.Error(), "token123") {
		t.Fatalf("transport error must not leak the bot token: %v", err)
	}
	if !strings.Contains(err.Error(), "<token>") {
		t.Fatalf("expected redaction marker in error, got %v", err)
	}
}
