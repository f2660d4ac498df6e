// Package notify delivers alert messages through the Telegram Bot API.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrNoCredentials = errors.New("telegram credentials not configured")
	ErrSendFailed    = errors.New("telegram send failed")
)

const apiBase = "https://api.telegram.org"

// Telegram posts messages to a single chat via the Bot API sendMessage
// method. The zero value is not usable; construct with NewTelegram.
type Telegram struct {
	http   *resty.Client
	token  string
	chatID string
}

func NewTelegram(token string, chatID string) *Telegram {
	client := resty.New()
	client.SetBaseURL(apiBase)
	client.SetTimeout(10 * time.Second)

	return &Telegram{
		http:   client,
		token:  strings.TrimSpace(token),
		chatID: strings.TrimSpace(chatID),
	}
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts text to the configured chat. Failures never echo the bot token:
// resty includes the request URL in transport errors, so it is scrubbed
// before wrapping.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if t.token == "" || t.chatID == "" {
		return ErrNoCredentials
	}

	res, err := t.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sendMessageRequest{ChatID: t.chatID, Text: text}).
		Post("/bot" + t.token + "/sendMessage")
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSendFailed, t.redact(err.Error()))
	}

	var reply sendMessageResponse
	if err := json.Unmarshal(res.Body(), &reply); err != nil {
		return fmt.Errorf("%w: http %d: %v", ErrSendFailed, res.StatusCode(), err)
	}
	if !reply.OK {
		if reply.Description != "" {
			return fmt.Errorf("%w: %s", ErrSendFailed, reply.Description)
		}
		return fmt.Errorf("%w: http %d", ErrSendFailed, res.StatusCode())
	}
	return nil
}

func (t *Telegram) redact(message string) string {
	return strings.ReplaceAll(message, t.token, "<token>")
}
