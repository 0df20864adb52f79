package bootstrap

import (
	"context"

	telegramclient "github.com/splittally/tally-backend/internal/client/telegram"
)

// InitTelegram builds the bot adapter and, when a public URL is configured,
// points Telegram's webhook at it.
func InitTelegram(ctx context.Context, token, webhookURL, webhookSecret string) (*telegramclient.Adapter, error) {
	adapter, err := telegramclient.NewAdapter(token)
	if err != nil {
		return nil, err
	}

	if webhookURL != "" {
		if err := adapter.SetWebhook(ctx, webhookURL, webhookSecret); err != nil {
			return nil, err
		}
	}

	return adapter, nil
}
