package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
	"github.com/splittally/tally-backend/pkg/helpers"
)

type rtChatStore struct {
	chat *models.Chat
}

func (s *rtChatStore) Ensure(_ context.Context, chatID int64, chatType string) (*models.Chat, error) {
	if s.chat != nil {
		return s.chat, nil
	}
	return &models.Chat{ChatID: chatID, Type: chatType}, nil
}

type rtUserStore struct {
	upserts     int
	memberships int
}

func (s *rtUserStore) Upsert(context.Context, int64, string) error {
	s.upserts++
	return nil
}

func (s *rtUserStore) EnsureMembership(context.Context, int64, int64) error {
	s.memberships++
	return nil
}

type rtCategoryService struct {
	capturedText string
	captureName  string
	began        bool
	currency     string
	timezone     string
	setErr       error
}

func (s *rtCategoryService) CaptureName(_ context.Context, _ *models.Chat, text string) (string, error) {
	s.capturedText = text
	return s.captureName, nil
}

func (s *rtCategoryService) BeginNewCategory(context.Context, int64) error {
	s.began = true
	return nil
}

func (s *rtCategoryService) SetCurrency(_ context.Context, _ int64, code string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.currency = code
	return nil
}

func (s *rtCategoryService) SetTimezone(_ context.Context, _ int64, tz string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.timezone = tz
	return nil
}

func (s *rtCategoryService) CurrencyOptions() []string { return []string{"USD", "EUR", "SGD"} }
func (s *rtCategoryService) TimezoneOptions() []string { return []string{"UTC", "Asia/Singapore"} }

type rtEntryService struct {
	handled  []dto.MessageEvent
	selected []string
}

func (s *rtEntryService) HandleEntry(_ context.Context, _ *models.Chat, ev dto.MessageEvent) error {
	s.handled = append(s.handled, ev)
	return nil
}

func (s *rtEntryService) SelectCategory(_ context.Context, _ *models.Chat, _ int64, name string) error {
	s.selected = append(s.selected, name)
	return nil
}

type rtEditService struct {
	edited []dto.MessageEvent
}

func (s *rtEditService) EditByReply(_ context.Context, _ *models.Chat, ev dto.MessageEvent) error {
	s.edited = append(s.edited, ev)
	return nil
}

type rtSettlementService struct {
	result dto.SettlementResult
	calls  int
}

func (s *rtSettlementService) MonthlySummary(context.Context, *models.Chat) (dto.SettlementResult, error) {
	s.calls++
	return s.result, nil
}

type routerFixture struct {
	router      *eventRouter
	chats       *rtChatStore
	users       *rtUserStore
	categories  *rtCategoryService
	entries     *rtEntryService
	edits       *rtEditService
	settlements *rtSettlementService
	sender      *stubSender
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		chats:       &rtChatStore{},
		users:       &rtUserStore{},
		categories:  &rtCategoryService{},
		entries:     &rtEntryService{},
		edits:       &rtEditService{},
		settlements: &rtSettlementService{},
		sender:      &stubSender{},
	}
	f.router = NewEventRouter(f.chats, f.users, f.categories, f.entries, f.edits, f.settlements, f.sender)
	return f
}

func TestHandleMessagePlainTextGoesToEntry(t *testing.T) {
	ctx := helpers.TestCtx()
	f := newRouterFixture()

	err := f.router.HandleMessage(ctx, dto.MessageEvent{
		ChatID: 1, ChatType: "private", UserID: 10, FirstName: "Alice", Text: "Lunch 20",
	})
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	if f.users.upserts != 1 || f.users.memberships != 1 {
		t.Errorf("expected user records ensured, got upserts=%d memberships=%d", f.users.upserts, f.users.memberships)
	}
	if len(f.entries.handled) != 1 || f.entries.handled[0].Text != "Lunch 20" {
		t.Errorf("expected the entry flow, got %+v", f.entries.handled)
	}
	if len(f.edits.edited) != 0 {
		t.Error("a plain message must not reach the edit flow")
	}
}

func TestHandleMessageReplyGoesToEdit(t *testing.T) {
	ctx := helpers.TestCtx()
	f := newRouterFixture()

	err := f.router.HandleMessage(ctx, dto.MessageEvent{
		ChatID: 1, ChatType: "private", UserID: 10, Text: "Lunch 25", ReplyToText: "Lunch 20",
	})
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	if len(f.edits.edited) != 1 {
		t.Fatalf("expected the edit flow, got %d calls", len(f.edits.edited))
	}
	if len(f.entries.handled) != 0 {
		t.Error("a reply must not reach the entry flow")
	}
}

func TestHandleMessageCaptureTakesPrecedence(t *testing.T) {
	ctx := helpers.TestCtx()
	f := newRouterFixture()
	f.chats.chat = &models.Chat{ChatID: 1, Type: "private", AwaitingCategoryName: true}
	f.categories.captureName = "/help"

	// While awaiting a category name even command-looking text is the name.
	err := f.router.HandleMessage(ctx, dto.MessageEvent{ChatID: 1, UserID: 10, Text: "/help"})
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}

	if f.categories.capturedText != "/help" {
		t.Errorf("expected the text captured, got %q", f.categories.capturedText)
	}
	if len(f.entries.handled) != 0 {
		t.Error("captured text must not fall through to the entry flow")
	}
	if len(f.sender.texts) != 1 || f.sender.texts[0].text != newCategoryConfirmation("/help") {
		t.Errorf("expected the added-category confirmation, got %+v", f.sender.texts)
	}
}

func TestHandleMessageCaptureSkipReplies(t *testing.T) {
	ctx := helpers.TestCtx()
	f := newRouterFixture()
	f.chats.chat = &models.Chat{ChatID: 1, Type: "private", AwaitingCategoryName: true}

	err := f.router.HandleMessage(ctx, dto.MessageEvent{ChatID: 1, UserID: 10, Text: "   "})
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if len(f.sender.texts) != 1 || f.sender.texts[0].text != newCategorySkippedText {
		t.Errorf("expected the skipped reply, got %+v", f.sender.texts)
	}
}

func TestHandleMessageCommands(t *testing.T) {
	ctx := helpers.TestCtx()

	t.Run("help", func(t *testing.T) {
		f := newRouterFixture()
		if err := f.router.HandleMessage(ctx, dto.MessageEvent{ChatID: 1, UserID: 10, Text: "/help"}); err != nil {
			t.Fatalf("HandleMessage failed: %v", err)
		}
		if len(f.sender.texts) != 1 || f.sender.texts[0].text != helpText {
			t.Errorf("expected the help text, got %+v", f.sender.texts)
		}
	})

	t.Run("start with bot suffix", func(t *testing.T) {
		f := newRouterFixture()
		if err := f.router.HandleMessage(ctx, dto.MessageEvent{ChatID: 1, UserID: 10, Text: "/start@TallyBot"}); err != nil {
			t.Fatalf("HandleMessage failed: %v", err)
		}
		if len(f.sender.texts) != 1 || f.sender.texts[0].text != helpText {
			t.Errorf("expected the help text, got %+v", f.sender.texts)
		}
	})

	t.Run("summary", func(t *testing.T) {
		f := newRouterFixture()
		from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		f.settlements.result = dto.SettlementResult{
			From: from, To: from.AddDate(0, 1, 0), Currency: "USD",
			TotalMinor: 9000, SplitMinor: 3000, Contributors: 3,
		}
		if err := f.router.HandleMessage(ctx, dto.MessageEvent{ChatID: 1, UserID: 10, Text: "/summary"}); err != nil {
			t.Fatalf("HandleMessage failed: %v", err)
		}
		if f.settlements.calls != 1 {
			t.Fatalf("expected one settlement call, got %d", f.settlements.calls)
		}
		if len(f.sender.texts) != 1 || !f.sender.texts[0].rich {
			t.Fatalf("expected a rich report message, got %+v", f.sender.texts)
		}
		if !strings.Contains(f.sender.texts[0].text, "Total: 90.00 USD") {
			t.Errorf("unexpected report %q", f.sender.texts[0].text)
		}
	})

	t.Run("settings", func(t *testing.T) {
		f := newRouterFixture()
		if err := f.router.HandleMessage(ctx, dto.MessageEvent{ChatID: 1, UserID: 10, Text: "/settings"}); err != nil {
			t.Fatalf("HandleMessage failed: %v", err)
		}
		if len(f.sender.choices) != 1 {
			t.Fatalf("expected a settings menu, got %+v", f.sender.choices)
		}
		menu := f.sender.choices[0]
		if len(menu.options) != 3 || menu.rowsOf != 1 {
			t.Errorf("unexpected settings menu %+v", menu)
		}
	})

	t.Run("unknown command falls through", func(t *testing.T) {
		f := newRouterFixture()
		if err := f.router.HandleMessage(ctx, dto.MessageEvent{ChatID: 1, UserID: 10, Text: "/export"}); err != nil {
			t.Fatalf("HandleMessage failed: %v", err)
		}
		if len(f.entries.handled) != 1 {
			t.Errorf("an unknown command should reach the entry flow, got %+v", f.entries.handled)
		}
	})
}

func TestHandleCallbackCategorySelection(t *testing.T) {
	ctx := helpers.TestCtx()
	f := newRouterFixture()

	err := f.router.HandleCallback(ctx, dto.CallbackEvent{ChatID: 1, UserID: 10, Data: "category_🛒 Groceries"})
	if err != nil {
		t.Fatalf("HandleCallback failed: %v", err)
	}
	if len(f.entries.selected) != 1 || f.entries.selected[0] != "🛒 Groceries" {
		t.Errorf("expected the category token stripped and dispatched, got %+v", f.entries.selected)
	}
}

func TestHandleCallbackCurrency(t *testing.T) {
	ctx := helpers.TestCtx()

	t.Run("menu", func(t *testing.T) {
		f := newRouterFixture()
		if err := f.router.HandleCallback(ctx, dto.CallbackEvent{ChatID: 1, UserID: 10, Data: "settings_currency"}); err != nil {
			t.Fatalf("HandleCallback failed: %v", err)
		}
		if len(f.sender.choices) != 1 {
			t.Fatalf("expected a currency menu, got %+v", f.sender.choices)
		}
		menu := f.sender.choices[0]
		if menu.rowsOf != 3 || len(menu.options) != 3 {
			t.Errorf("unexpected currency menu %+v", menu)
		}
		if menu.options[2].Token != "currency_SGD" {
			t.Errorf("unexpected option token %q", menu.options[2].Token)
		}
	})

	t.Run("accepted", func(t *testing.T) {
		f := newRouterFixture()
		if err := f.router.HandleCallback(ctx, dto.CallbackEvent{ChatID: 1, UserID: 10, Data: "currency_SGD"}); err != nil {
			t.Fatalf("HandleCallback failed: %v", err)
		}
		if f.categories.currency != "SGD" {
			t.Errorf("expected SGD stored, got %q", f.categories.currency)
		}
		if len(f.sender.texts) != 1 || f.sender.texts[0].text != currencyConfirmation("SGD") {
			t.Errorf("unexpected confirmation %+v", f.sender.texts)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		f := newRouterFixture()
		f.categories.setErr = errs.NewInvalidSelectionError("unsupported currency", "XXX")
		if err := f.router.HandleCallback(ctx, dto.CallbackEvent{ChatID: 1, UserID: 10, Data: "currency_XXX"}); err != nil {
			t.Fatalf("HandleCallback failed: %v", err)
		}
		if len(f.sender.texts) != 1 || f.sender.texts[0].text != invalidCurrencyText {
			t.Errorf("expected the invalid-currency reply, got %+v", f.sender.texts)
		}
	})
}

func TestHandleCallbackNewCategory(t *testing.T) {
	ctx := helpers.TestCtx()
	f := newRouterFixture()

	err := f.router.HandleCallback(ctx, dto.CallbackEvent{ChatID: 1, UserID: 10, Data: "settings_newcategory"})
	if err != nil {
		t.Fatalf("HandleCallback failed: %v", err)
	}
	if !f.categories.began {
		t.Error("expected the capture sub-flow armed")
	}
	if len(f.sender.texts) != 1 || f.sender.texts[0].text != newCategoryPromptText {
		t.Errorf("expected the name prompt, got %+v", f.sender.texts)
	}
}

func TestHandleCallbackUnknownDataIsDropped(t *testing.T) {
	ctx := helpers.TestCtx()
	f := newRouterFixture()

	if err := f.router.HandleCallback(ctx, dto.CallbackEvent{ChatID: 1, UserID: 10, Data: "poke"}); err != nil {
		t.Fatalf("HandleCallback failed: %v", err)
	}
	if len(f.sender.texts) != 0 && len(f.sender.choices) != 0 {
		t.Error("unknown callback data must be dropped silently")
	}
}
