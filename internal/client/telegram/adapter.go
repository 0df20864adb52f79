package telegramclient

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/errs"
)

// Adapter sends outbound messages through the Telegram Bot API.
type Adapter struct {
	bot *tgbotapi.BotAPI
}

func NewAdapter(token string) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errs.NewExternalServiceError("telegram", "failed to initialize bot client", false, err)
	}
	return &Adapter{bot: bot}, nil
}

// Username returns the bot's own username, used to recognize mentions.
func (a *Adapter) Username() string {
	return a.bot.Self.UserName
}

// SetWebhook points Telegram at url and registers the shared secret Telegram
// will echo back in the X-Telegram-Bot-Api-Secret-Token header. The library's
// WebhookConfig predates secret_token, so the call goes through MakeRequest.
func (a *Adapter) SetWebhook(_ context.Context, url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)

	if _, err := a.bot.MakeRequest("setWebhook", params); err != nil {
		return errs.NewExternalServiceError("telegram", "failed to set webhook", true, err)
	}
	return nil
}

func (a *Adapter) SendText(_ context.Context, chatID int64, text string, rich bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if rich {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := a.bot.Send(msg); err != nil {
		return errs.NewExternalServiceError("telegram", "failed to send message", true, err)
	}
	return nil
}

// SendChoice renders the options as an inline keyboard, rowsOf buttons per
// row, each button carrying its token as callback data.
func (a *Adapter) SendChoice(_ context.Context, chatID int64, prompt string, options []dto.ChoiceOption, rowsOf int) error {
	if rowsOf < 1 {
		rowsOf = 1
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(options); i += rowsOf {
		end := min(i+rowsOf, len(options))
		row := make([]tgbotapi.InlineKeyboardButton, 0, end-i)
		for _, opt := range options[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Token))
		}
		rows = append(rows, row)
	}

	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := a.bot.Send(msg); err != nil {
		return errs.NewExternalServiceError("telegram", "failed to send choice message", true, err)
	}
	return nil
}
