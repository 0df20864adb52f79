package services

import (
	"context"
	"errors"
	"strings"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
	"github.com/splittally/tally-backend/pkg/logger"
)

type routerChatStore interface {
	Ensure(ctx context.Context, chatID int64, chatType string) (*models.Chat, error)
}

type routerUserStore interface {
	Upsert(ctx context.Context, userID int64, firstName string) error
	EnsureMembership(ctx context.Context, chatID, userID int64) error
}

type routerCategoryService interface {
	CaptureName(ctx context.Context, chat *models.Chat, text string) (string, error)
	BeginNewCategory(ctx context.Context, chatID int64) error
	SetCurrency(ctx context.Context, chatID int64, code string) error
	SetTimezone(ctx context.Context, chatID int64, tz string) error
	CurrencyOptions() []string
	TimezoneOptions() []string
}

type routerEntryService interface {
	HandleEntry(ctx context.Context, chat *models.Chat, ev dto.MessageEvent) error
	SelectCategory(ctx context.Context, chat *models.Chat, userID int64, name string) error
}

type routerEditService interface {
	EditByReply(ctx context.Context, chat *models.Chat, ev dto.MessageEvent) error
}

type routerSettlementService interface {
	MonthlySummary(ctx context.Context, chat *models.Chat) (dto.SettlementResult, error)
}

// eventRouter decides which flow an inbound event belongs to. Per message:
// record-keeping upserts, then category-name capture, then commands, then
// reply-edit, then plain entry. Per callback: dispatch on the token prefix.
// Unrecognized content is acknowledged and dropped, never an error.
type eventRouter struct {
	chats       routerChatStore
	users       routerUserStore
	categories  routerCategoryService
	entries     routerEntryService
	edits       routerEditService
	settlements routerSettlementService
	sender      Sender
}

func NewEventRouter(
	chats routerChatStore,
	users routerUserStore,
	categories routerCategoryService,
	entries routerEntryService,
	edits routerEditService,
	settlements routerSettlementService,
	sender Sender,
) *eventRouter {
	return &eventRouter{
		chats:       chats,
		users:       users,
		categories:  categories,
		entries:     entries,
		edits:       edits,
		settlements: settlements,
		sender:      sender,
	}
}

func (r *eventRouter) HandleMessage(ctx context.Context, ev dto.MessageEvent) error {
	chat, err := r.ensureRecords(ctx, ev.ChatID, ev.ChatType, ev.UserID, ev.FirstName)
	if err != nil {
		return err
	}

	// The capture sub-flow consumes the next text from anyone in the chat.
	if chat.AwaitingCategoryName {
		name, err := r.categories.CaptureName(ctx, chat, ev.Text)
		if err != nil {
			return err
		}
		if name == "" {
			return r.sender.SendText(ctx, chat.ChatID, newCategorySkippedText, false)
		}
		return r.sender.SendText(ctx, chat.ChatID, newCategoryConfirmation(name), false)
	}

	switch commandName(ev.Text) {
	case "start", "help":
		return r.sender.SendText(ctx, chat.ChatID, helpText, false)
	case "summary":
		res, err := r.settlements.MonthlySummary(ctx, chat)
		if err != nil {
			return err
		}
		return r.sender.SendText(ctx, chat.ChatID, settlementReport(res), true)
	case "settings":
		return r.sender.SendChoice(ctx, chat.ChatID, "Settings", []dto.ChoiceOption{
			{Label: "Change currency", Token: "settings_currency"},
			{Label: "Change timezone", Token: "settings_timezone"},
			{Label: "Add category", Token: "settings_newcategory"},
		}, 1)
	}
	// Unknown commands fall through and fail the entry grammar, which gets
	// the user the format help. That matches the bot's historical behavior.

	if ev.ReplyToText != "" {
		return r.edits.EditByReply(ctx, chat, ev)
	}
	return r.entries.HandleEntry(ctx, chat, ev)
}

func (r *eventRouter) HandleCallback(ctx context.Context, ev dto.CallbackEvent) error {
	chat, err := r.ensureRecords(ctx, ev.ChatID, "", ev.UserID, ev.FirstName)
	if err != nil {
		return err
	}

	switch {
	case strings.HasPrefix(ev.Data, "category_"):
		return r.entries.SelectCategory(ctx, chat, ev.UserID, strings.TrimPrefix(ev.Data, "category_"))

	case strings.HasPrefix(ev.Data, "currency_"):
		code := strings.TrimPrefix(ev.Data, "currency_")
		if err := r.categories.SetCurrency(ctx, chat.ChatID, code); err != nil {
			return r.rejectSelection(ctx, chat.ChatID, invalidCurrencyText, err)
		}
		return r.sender.SendText(ctx, chat.ChatID, currencyConfirmation(code), false)

	case strings.HasPrefix(ev.Data, "timezone_"):
		tz := strings.TrimPrefix(ev.Data, "timezone_")
		if err := r.categories.SetTimezone(ctx, chat.ChatID, tz); err != nil {
			return r.rejectSelection(ctx, chat.ChatID, invalidTimezoneText, err)
		}
		return r.sender.SendText(ctx, chat.ChatID, timezoneConfirmation(tz), false)

	case ev.Data == "settings_currency":
		return r.sender.SendChoice(ctx, chat.ChatID, "Select the default currency:",
			tokenOptions("currency_", r.categories.CurrencyOptions()), 3)

	case ev.Data == "settings_timezone":
		return r.sender.SendChoice(ctx, chat.ChatID, "Select the timezone:",
			tokenOptions("timezone_", r.categories.TimezoneOptions()), 2)

	case ev.Data == "settings_newcategory":
		if err := r.categories.BeginNewCategory(ctx, chat.ChatID); err != nil {
			return err
		}
		return r.sender.SendText(ctx, chat.ChatID, newCategoryPromptText, false)
	}

	logger.FromContext(ctx).Debug("unrecognized callback data", "data", ev.Data)
	return nil
}

func (r *eventRouter) ensureRecords(ctx context.Context, chatID int64, chatType string, userID int64, firstName string) (*models.Chat, error) {
	chat, err := r.chats.Ensure(ctx, chatID, chatType)
	if err != nil {
		return nil, err
	}
	if err := r.users.Upsert(ctx, userID, firstName); err != nil {
		return nil, err
	}
	if err := r.users.EnsureMembership(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return chat, nil
}

// rejectSelection surfaces InvalidSelection to the chat and propagates
// anything else.
func (r *eventRouter) rejectSelection(ctx context.Context, chatID int64, text string, err error) error {
	var inv *errs.InvalidSelectionError
	if errors.As(err, &inv) {
		logger.FromContext(ctx).Warn("selection rejected", "selection", inv.Selection)
		return r.sender.SendText(ctx, chatID, text, false)
	}
	return err
}

// commandName extracts "summary" from "/summary" or "/summary@SomeBot".
// Empty when the text is not a command.
func commandName(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "/") {
		return ""
	}
	cmd := strings.Fields(t)[0][1:]
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd
}

func tokenOptions(prefix string, values []string) []dto.ChoiceOption {
	out := make([]dto.ChoiceOption, 0, len(values))
	for _, v := range values {
		out = append(out, dto.ChoiceOption{Label: v, Token: prefix + v})
	}
	return out
}
