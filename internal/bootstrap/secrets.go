package bootstrap

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/splittally/tally-backend/internal/config"
	"github.com/splittally/tally-backend/internal/errs"
)

// ResolveSecrets returns the bot token and webhook secret, reading each from
// Secret Manager when only its resource name is configured. Inline values
// win, which keeps local runs free of GCP calls.
func ResolveSecrets(ctx context.Context, cfg *config.Config) (botToken, webhookSecret string, err error) {
	botToken = cfg.BotToken
	webhookSecret = cfg.WebhookSecret

	if botToken != "" && (webhookSecret != "" || cfg.WebhookSecretSecretName == "") {
		return botToken, webhookSecret, nil
	}

	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", "", errs.NewExternalServiceError("secretmanager", "failed to create client", false, err)
	}
	defer client.Close()

	if botToken == "" {
		if cfg.BotTokenSecretName == "" {
			return "", "", fmt.Errorf("neither TELEGRAMTOKEN nor TELEGRAMTOKENSECRET is set")
		}
		botToken, err = accessSecret(ctx, client, cfg.BotTokenSecretName)
		if err != nil {
			return "", "", err
		}
	}

	if webhookSecret == "" && cfg.WebhookSecretSecretName != "" {
		webhookSecret, err = accessSecret(ctx, client, cfg.WebhookSecretSecretName)
		if err != nil {
			return "", "", err
		}
	}

	return botToken, webhookSecret, nil
}

func accessSecret(ctx context.Context, client *secretmanager.Client, name string) (string, error) {
	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return "", errs.NewExternalServiceError("secretmanager", "failed to access secret "+name, true, err)
	}
	return string(resp.GetPayload().GetData()), nil
}
