package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"

	telegramclient "github.com/splittally/tally-backend/internal/client/telegram"
	"github.com/splittally/tally-backend/internal/config"
	"github.com/splittally/tally-backend/pkg/logger"
)

type Bootstrap struct {
	Log       *slog.Logger
	Firestore *firestore.Client
	Telegram  *telegramclient.Adapter

	// Resolved credentials, after Secret Manager indirection.
	BotToken      string
	WebhookSecret string
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)

	bs.BotToken, bs.WebhookSecret, err = ResolveSecrets(applicationCtx, cfg)
	if err != nil {
		return bs, err
	}

	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}

	bs.Telegram, err = InitTelegram(applicationCtx, bs.BotToken, cfg.WebhookURL, bs.WebhookSecret)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

func (bs *Bootstrap) Close() {
	if bs.Firestore != nil {
		if err := bs.Firestore.Close(); err != nil {
			bs.Log.Warn("failed to close firestore client", "error", err)
		}
	}
}
