package services

import (
	"context"
	"errors"
	"time"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
	"github.com/splittally/tally-backend/internal/parse"
	"github.com/splittally/tally-backend/pkg/logger"
	"github.com/splittally/tally-backend/pkg/money"
)

type entryPendingStore interface {
	Get(ctx context.Context, chatID, userID int64) (*models.PendingTransaction, error)
	Set(ctx context.Context, chatID int64, p *models.PendingTransaction) error
	Delete(ctx context.Context, chatID, userID int64) error
}

type entryLedgerStore interface {
	Add(ctx context.Context, chatID int64, tx *models.Transaction) (string, error)
}

type entryResolver interface {
	Effective(chat *models.Chat) []string
	Valid(chat *models.Chat, name string) bool
	Infer(ctx context.Context, chatID int64, item string) (string, error)
	ResolveCurrency(explicit string, chat *models.Chat) string
}

// entryService runs the per-(chat,user) entry lifecycle: parse, resolve,
// then either commit straight to the ledger (income, or an expense whose
// category could be inferred) or hold a pending transaction while the user
// picks a category.
type entryService struct {
	pending    entryPendingStore
	ledger     entryLedgerStore
	categories entryResolver
	sender     Sender
	botMention string
}

func NewEntryService(pending entryPendingStore, ledger entryLedgerStore, categories entryResolver, sender Sender, botMention string) *entryService {
	return &entryService{
		pending:    pending,
		ledger:     ledger,
		categories: categories,
		sender:     sender,
		botMention: botMention,
	}
}

// mentionFor returns the required leading mention for a chat: group chats
// must address the bot, one-to-one chats must not.
func (s *entryService) mentionFor(chat *models.Chat) string {
	if chat.Type == "private" {
		return ""
	}
	return s.botMention
}

// HandleEntry processes a free-text entry message. A parse failure replies
// with the format help and touches nothing.
func (s *entryService) HandleEntry(ctx context.Context, chat *models.Chat, ev dto.MessageEvent) error {
	log := logger.FromContext(ctx)

	cand, err := parse.Message(ev.Text, s.mentionFor(chat))
	if err != nil {
		var pe *errs.ParseError
		if errors.As(err, &pe) {
			log.Debug("entry text did not parse", "error", pe.Message)
			return s.sender.SendText(ctx, chat.ChatID, formatHelpText, false)
		}
		return err
	}

	p := &models.PendingTransaction{
		UserID:      ev.UserID,
		UserName:    ev.FirstName,
		Item:        cand.Item,
		AmountMinor: money.ToMinor(cand.Amount),
		Currency:    s.categories.ResolveCurrency(cand.Currency, chat),
		Kind:        cand.Kind,
		CreatedAt:   time.Now(),
	}

	// Income never prompts for a category.
	if cand.Kind == models.KindIncome {
		if err := s.pending.Set(ctx, chat.ChatID, p); err != nil {
			return err
		}
		return s.commit(ctx, chat.ChatID, p)
	}

	category, err := s.categories.Infer(ctx, chat.ChatID, cand.Item)
	if err != nil {
		return err
	}
	if category != "" {
		log.Info("category inferred from history", "item", cand.Item, "category", category)
		p.Category = category
		if err := s.pending.Set(ctx, chat.ChatID, p); err != nil {
			return err
		}
		return s.commit(ctx, chat.ChatID, p)
	}

	// Hold the entry and ask. Set overwrites any previous pending entry for
	// this user: last write wins.
	if err := s.pending.Set(ctx, chat.ChatID, p); err != nil {
		return err
	}

	effective := s.categories.Effective(chat)
	options := make([]dto.ChoiceOption, 0, len(effective))
	for _, c := range effective {
		options = append(options, dto.ChoiceOption{Label: c, Token: "category_" + c})
	}
	return s.sender.SendChoice(ctx, chat.ChatID, categoryPromptText, options, 2)
}

// SelectCategory resolves a category_* callback. A token outside the
// effective set is rejected and the pending entry stays untouched; with no
// pending entry the callback is a benign no-op (e.g. a stale button, or the
// slot was already overwritten and promoted).
func (s *entryService) SelectCategory(ctx context.Context, chat *models.Chat, userID int64, name string) error {
	log := logger.FromContext(ctx)

	if !s.categories.Valid(chat, name) {
		log.Warn("category selection outside effective set", "category", name)
		return s.sender.SendText(ctx, chat.ChatID, invalidCategoryText, false)
	}

	p, err := s.pending.Get(ctx, chat.ChatID, userID)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			log.Debug("category selected with nothing pending", "category", name)
			return nil
		}
		return err
	}

	p.Category = name
	if err := s.pending.Set(ctx, chat.ChatID, p); err != nil {
		return err
	}
	return s.commit(ctx, chat.ChatID, p)
}

// commit promotes a pending entry into the ledger: append first, then drop
// the pending slot. A failed append leaves the slot in place so the flow can
// be re-attempted.
func (s *entryService) commit(ctx context.Context, chatID int64, p *models.PendingTransaction) error {
	tx := &models.Transaction{
		UserID:      p.UserID,
		UserName:    p.UserName,
		Item:        p.Item,
		AmountMinor: p.AmountMinor,
		Currency:    p.Currency,
		Kind:        p.Kind,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
	}
	if _, err := s.ledger.Add(ctx, chatID, tx); err != nil {
		return err
	}
	if err := s.pending.Delete(ctx, chatID, p.UserID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("transaction committed",
		"kind", tx.Kind,
		"item", tx.Item,
		"amount_minor", tx.AmountMinor,
		"currency", tx.Currency,
	)
	return s.sender.SendText(ctx, chatID, commitConfirmation(tx), false)
}
