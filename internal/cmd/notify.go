package cmd

import (
	"context"
	"strings"

	"copartwatch/internal/config"
	"copartwatch/internal/notify"
)

type NotifyCmd struct {
	Message string `arg:"" optional:"" help:"Message text to send."`
}

func (n *NotifyCmd) Run(ctx *Context) error {
	token, chatID := config.Credentials()
	notifier := notify.NewTelegram(token, chatID)

	message := strings.TrimSpace(n.Message)
	if message == "" {
		message = "copartwatch test message"
	}

	if err := notifier.Send(context.Background(), message); err != nil {
		return err
	}
	ctx.UI.Successf("Message delivered to chat %s.", chatID)
	return nil
}
