package services

import (
	"context"
	"errors"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
	"github.com/splittally/tally-backend/internal/parse"
	"github.com/splittally/tally-backend/pkg/logger"
	"github.com/splittally/tally-backend/pkg/money"
)

type editLedgerStore interface {
	FindByKey(ctx context.Context, chatID int64, key dto.LedgerKey) (*models.Transaction, error)
	UpdateEntry(ctx context.Context, chatID int64, txID, item string, amountMinor int64, currency string) error
}

type editResolver interface {
	ResolveCurrency(explicit string, chat *models.Chat) string
}

// editService handles edit-by-reply: replying to an earlier entry message
// with a corrected entry rewrites the matching ledger record in place.
type editService struct {
	ledger     editLedgerStore
	categories editResolver
	sender     Sender
	botMention string
}

func NewEditService(ledger editLedgerStore, categories editResolver, sender Sender, botMention string) *editService {
	return &editService{
		ledger:     ledger,
		categories: categories,
		sender:     sender,
		botMention: botMention,
	}
}

// EditByReply parses both the replied-to text and the new text under the
// entry grammar, finds the original by its value tuple (first match; two
// identical entries are indistinguishable) and overwrites item, amount and
// currency. Category and creation time stay as they were.
func (s *editService) EditByReply(ctx context.Context, chat *models.Chat, ev dto.MessageEvent) error {
	log := logger.FromContext(ctx)

	mention := ""
	if chat.Type != "private" {
		mention = s.botMention
	}

	orig, err := parse.Message(ev.ReplyToText, mention)
	if err != nil {
		return s.replyOnParseFailure(ctx, chat.ChatID, err)
	}
	updated, err := parse.Message(ev.Text, mention)
	if err != nil {
		return s.replyOnParseFailure(ctx, chat.ChatID, err)
	}

	key := dto.LedgerKey{
		UserID:      ev.UserID,
		Item:        orig.Item,
		AmountMinor: money.ToMinor(orig.Amount),
		Currency:    s.categories.ResolveCurrency(orig.Currency, chat),
	}
	tx, err := s.ledger.FindByKey(ctx, chat.ChatID, key)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			log.Info("edit target not found", "item", key.Item, "amount_minor", key.AmountMinor)
			return s.sender.SendText(ctx, chat.ChatID, editNotFoundText, false)
		}
		return err
	}

	newAmount := money.ToMinor(updated.Amount)
	newCurrency := s.categories.ResolveCurrency(updated.Currency, chat)
	if err := s.ledger.UpdateEntry(ctx, chat.ChatID, tx.TransactionID, updated.Item, newAmount, newCurrency); err != nil {
		return err
	}

	log.Info("transaction edited", "transaction_id", tx.TransactionID, "item", updated.Item)
	return s.sender.SendText(ctx, chat.ChatID, editConfirmation(updated.Item, newAmount, newCurrency), false)
}

func (s *editService) replyOnParseFailure(ctx context.Context, chatID int64, err error) error {
	var pe *errs.ParseError
	if errors.As(err, &pe) {
		return s.sender.SendText(ctx, chatID, formatHelpText, false)
	}
	return err
}
