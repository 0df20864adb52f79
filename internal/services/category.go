package services

import (
	"context"
	"slices"
	"strings"

	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
	"github.com/splittally/tally-backend/pkg/logger"
)

type categoryChatStore interface {
	SetCurrency(ctx context.Context, chatID int64, code string) error
	SetTimezone(ctx context.Context, chatID int64, tz string) error
	SetAwaitingCategoryName(ctx context.Context, chatID int64, awaiting bool) error
	AddCustomCategory(ctx context.Context, chatID int64, name string) error
}

type categoryHistoryStore interface {
	LatestCategoryForItem(ctx context.Context, chatID int64, item string) (string, error)
}

// CategoryConfig carries the injected catalogs: the default category set and
// the exhaustive currency/timezone choices a chat may select from.
type CategoryConfig struct {
	Defaults        []string
	Currencies      []string
	Timezones       []string
	DefaultCurrency string
}

// categoryService owns category and currency policy: the effective category
// set per chat, category inference from ledger history, currency resolution
// precedence and the settings mutations.
type categoryService struct {
	chats   categoryChatStore
	history categoryHistoryStore
	cfg     CategoryConfig
}

func NewCategoryService(chats categoryChatStore, history categoryHistoryStore, cfg CategoryConfig) *categoryService {
	return &categoryService{chats: chats, history: history, cfg: cfg}
}

// Effective returns the default set followed by the chat's custom categories,
// insertion order preserved, duplicates removed.
func (s *categoryService) Effective(chat *models.Chat) []string {
	out := make([]string, 0, len(s.cfg.Defaults)+len(chat.CustomCategories))
	out = append(out, s.cfg.Defaults...)
	for _, c := range chat.CustomCategories {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// Valid reports whether name is in the chat's current effective set.
func (s *categoryService) Valid(chat *models.Chat, name string) bool {
	return slices.Contains(s.Effective(chat), name)
}

// Infer looks up the category of the most recent committed expense with a
// matching item name. "" means no usable history and the caller must prompt.
func (s *categoryService) Infer(ctx context.Context, chatID int64, item string) (string, error) {
	return s.history.LatestCategoryForItem(ctx, chatID, item)
}

// ResolveCurrency applies the precedence: explicit code in the message, then
// the chat's stored default, then the configured global default.
func (s *categoryService) ResolveCurrency(explicit string, chat *models.Chat) string {
	if explicit != "" {
		return explicit
	}
	if chat.Currency != "" {
		return chat.Currency
	}
	return s.cfg.DefaultCurrency
}

// CaptureName consumes a text while the chat is awaiting a new category
// name. Success or not, the awaiting flag is cleared: an empty name is a
// no-op add, not a re-prompt. Returns the added name, or "" when skipped.
func (s *categoryService) CaptureName(ctx context.Context, chat *models.Chat, text string) (string, error) {
	if err := s.chats.SetAwaitingCategoryName(ctx, chat.ChatID, false); err != nil {
		return "", err
	}

	name := strings.TrimSpace(text)
	if name == "" {
		return "", nil
	}
	if s.Valid(chat, name) {
		// Already available; appending would only create a duplicate.
		logger.FromContext(ctx).Info("category already exists", "category", name)
		return name, nil
	}
	if err := s.chats.AddCustomCategory(ctx, chat.ChatID, name); err != nil {
		return "", err
	}
	return name, nil
}

// BeginNewCategory arms the capture sub-flow: the next text message in the
// chat is taken as the category name.
func (s *categoryService) BeginNewCategory(ctx context.Context, chatID int64) error {
	return s.chats.SetAwaitingCategoryName(ctx, chatID, true)
}

// SetCurrency stores a chat default currency. Codes outside the configured
// set are rejected with no mutation.
func (s *categoryService) SetCurrency(ctx context.Context, chatID int64, code string) error {
	if !slices.Contains(s.cfg.Currencies, code) {
		return errs.NewInvalidSelectionError("unsupported currency", code)
	}
	return s.chats.SetCurrency(ctx, chatID, code)
}

// SetTimezone stores a chat timezone, same validation policy as currencies.
func (s *categoryService) SetTimezone(ctx context.Context, chatID int64, tz string) error {
	if !slices.Contains(s.cfg.Timezones, tz) {
		return errs.NewInvalidSelectionError("unsupported timezone", tz)
	}
	return s.chats.SetTimezone(ctx, chatID, tz)
}

// CurrencyOptions lists the selectable currencies as choice options.
func (s *categoryService) CurrencyOptions() []string {
	return s.cfg.Currencies
}

// TimezoneOptions lists the selectable timezones.
func (s *categoryService) TimezoneOptions() []string {
	return s.cfg.Timezones
}
