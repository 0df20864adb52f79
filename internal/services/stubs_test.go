package services

import (
	"context"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
)

// Shared test doubles for the service tests in this package.

type sentText struct {
	chatID int64
	text   string
	rich   bool
}

type sentChoice struct {
	chatID  int64
	prompt  string
	options []dto.ChoiceOption
	rowsOf  int
}

type stubSender struct {
	texts   []sentText
	choices []sentChoice
	err     error
}

func (s *stubSender) SendText(_ context.Context, chatID int64, text string, rich bool) error {
	s.texts = append(s.texts, sentText{chatID: chatID, text: text, rich: rich})
	return s.err
}

func (s *stubSender) SendChoice(_ context.Context, chatID int64, prompt string, options []dto.ChoiceOption, rowsOf int) error {
	s.choices = append(s.choices, sentChoice{chatID: chatID, prompt: prompt, options: options, rowsOf: rowsOf})
	return s.err
}

type stubPendingStore struct {
	byUser      map[int64]*models.PendingTransaction
	setCalls    int
	deleteCalls int
	setErr      error
	deleteErr   error
}

func newStubPendingStore() *stubPendingStore {
	return &stubPendingStore{byUser: map[int64]*models.PendingTransaction{}}
}

func (s *stubPendingStore) Get(_ context.Context, _ int64, userID int64) (*models.PendingTransaction, error) {
	p, ok := s.byUser[userID]
	if !ok {
		return nil, errs.NewNotFoundError("no pending transaction")
	}
	copied := *p
	return &copied, nil
}

func (s *stubPendingStore) Set(_ context.Context, _ int64, p *models.PendingTransaction) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	copied := *p
	s.byUser[p.UserID] = &copied
	return nil
}

func (s *stubPendingStore) Delete(_ context.Context, _ int64, userID int64) error {
	s.deleteCalls++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.byUser, userID)
	return nil
}

type stubLedger struct {
	added   []*models.Transaction
	addErr  error
	entries   []*models.Transaction
	lastQuery *dto.LedgerQuery
	queryErr  error

	categoryByItem map[string]string
	inferErr       error

	found   *models.Transaction
	findErr error

	updatedID       string
	updatedItem     string
	updatedAmount   int64
	updatedCurrency string
	updateErr       error
}

func (s *stubLedger) Add(_ context.Context, _ int64, tx *models.Transaction) (string, error) {
	if s.addErr != nil {
		return "", s.addErr
	}
	copied := *tx
	s.added = append(s.added, &copied)
	return "tx-id", nil
}

func (s *stubLedger) Query(_ context.Context, _ int64, q dto.LedgerQuery, handle func(*models.Transaction) error) error {
	s.lastQuery = &q
	if s.queryErr != nil {
		return s.queryErr
	}
	for _, tx := range s.entries {
		if err := handle(tx); err != nil {
			return err
		}
	}
	return nil
}

func (s *stubLedger) LatestCategoryForItem(_ context.Context, _ int64, item string) (string, error) {
	if s.inferErr != nil {
		return "", s.inferErr
	}
	return s.categoryByItem[item], nil
}

func (s *stubLedger) FindByKey(_ context.Context, _ int64, _ dto.LedgerKey) (*models.Transaction, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.found == nil {
		return nil, errs.NewNotFoundError("no matching transaction")
	}
	return s.found, nil
}

func (s *stubLedger) UpdateEntry(_ context.Context, _ int64, txID, item string, amountMinor int64, currency string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedID = txID
	s.updatedItem = item
	s.updatedAmount = amountMinor
	s.updatedCurrency = currency
	return nil
}

type stubChatStore struct {
	currency   string
	timezone   string
	awaiting   *bool
	categories []string
	err        error
}

func (s *stubChatStore) SetCurrency(_ context.Context, _ int64, code string) error {
	if s.err != nil {
		return s.err
	}
	s.currency = code
	return nil
}

func (s *stubChatStore) SetTimezone(_ context.Context, _ int64, tz string) error {
	if s.err != nil {
		return s.err
	}
	s.timezone = tz
	return nil
}

func (s *stubChatStore) SetAwaitingCategoryName(_ context.Context, _ int64, awaiting bool) error {
	if s.err != nil {
		return s.err
	}
	s.awaiting = &awaiting
	return nil
}

func (s *stubChatStore) AddCustomCategory(_ context.Context, _ int64, name string) error {
	if s.err != nil {
		return s.err
	}
	s.categories = append(s.categories, name)
	return nil
}

func testCategoryConfig() CategoryConfig {
	return CategoryConfig{
		Defaults:        []string{"🛒 Groceries", "🍔 Outside food"},
		Currencies:      []string{"USD", "EUR", "SGD"},
		Timezones:       []string{"UTC", "Asia/Singapore"},
		DefaultCurrency: "USD",
	}
}
