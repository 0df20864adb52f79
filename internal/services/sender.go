package services

import (
	"context"

	"github.com/splittally/tally-backend/internal/dto"
)

// Sender is the outbound side of the chat transport. SendChoice renders the
// options as buttons, rowsOf per row; a picked option comes back later as a
// CallbackEvent carrying its token.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string, rich bool) error
	SendChoice(ctx context.Context, chatID int64, prompt string, options []dto.ChoiceOption, rowsOf int) error
}
