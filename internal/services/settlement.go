package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/models"
	"github.com/splittally/tally-backend/pkg/helpers"
	"github.com/splittally/tally-backend/pkg/logger"
	"github.com/splittally/tally-backend/pkg/money"
)

type settlementLedgerStore interface {
	Query(ctx context.Context, chatID int64, q dto.LedgerQuery, handle func(*models.Transaction) error) error
}

// SettlementConfig supplies the fallbacks used when a chat has no stored
// timezone or currency.
type SettlementConfig struct {
	DefaultTimezone string
	DefaultCurrency string
}

// settlementService aggregates a chat's expenses over a month and proposes
// debt-clearing transfers.
type settlementService struct {
	ledger settlementLedgerStore
	cfg    SettlementConfig
	now    func() time.Time
}

func NewSettlementService(ledger settlementLedgerStore, cfg SettlementConfig) *settlementService {
	return &settlementService{ledger: ledger, cfg: cfg, now: time.Now}
}

// MonthlySummary settles the current calendar month in the chat's timezone.
func (s *settlementService) MonthlySummary(ctx context.Context, chat *models.Chat) (dto.SettlementResult, error) {
	loc := s.location(ctx, chat)
	from, to := monthWindow(s.now().In(loc))

	currency := chat.Currency
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	var entries []*models.Transaction
	err := s.ledger.Query(ctx, chat.ChatID, dto.LedgerQuery{
		Kind: helpers.Ptr(models.KindExpense),
		From: helpers.Ptr(from),
		To:   helpers.Ptr(to),
	}, func(tx *models.Transaction) error {
		entries = append(entries, tx)
		return nil
	})
	if err != nil {
		return dto.SettlementResult{}, err
	}

	return settle(entries, currency, from, to), nil
}

func (s *settlementService) location(ctx context.Context, chat *models.Chat) *time.Location {
	tz := chat.Timezone
	if tz == "" {
		tz = s.cfg.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.FromContext(ctx).Warn("unknown timezone, using UTC", "timezone", tz)
		return time.UTC
	}
	return loc
}

// monthWindow returns the closed-open interval covering now's calendar month.
func monthWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}

// settle computes the settlement numbers for a window's expense entries.
// Pure so it can be tested without a store.
func settle(entries []*models.Transaction, currency string, from, to time.Time) dto.SettlementResult {
	res := dto.SettlementResult{From: from, To: to, Currency: currency}
	if len(entries) == 0 {
		return res
	}

	// Aggregate in first-seen order. The order feeds straight into the
	// greedy netting below, which makes the transfer list deterministic for
	// a given ledger.
	var userOrder []int64
	userTotals := map[int64]int64{}
	userNames := map[int64]string{}
	var catOrder []string
	catTotals := map[string]int64{}

	for _, e := range entries {
		res.TotalMinor += e.AmountMinor
		if _, seen := userTotals[e.UserID]; !seen {
			userOrder = append(userOrder, e.UserID)
		}
		userTotals[e.UserID] += e.AmountMinor
		userNames[e.UserID] = e.UserName
		if _, seen := catTotals[e.Category]; !seen {
			catOrder = append(catOrder, e.Category)
		}
		catTotals[e.Category] += e.AmountMinor
	}

	res.Contributors = len(userOrder)
	for _, c := range catOrder {
		res.Categories = append(res.Categories, dto.CategoryTotal{Category: c, TotalMinor: catTotals[c]})
	}

	// Even split, rounded to whole cents. The rounding remainder (at most
	// one cent per contributor) is left unmatched by the netting pass.
	split := decimal.New(res.TotalMinor, -2).
		DivRound(decimal.NewFromInt(int64(res.Contributors)), 2)
	res.SplitMinor = money.ToMinor(split)

	balances := map[int64]int64{}
	for _, u := range userOrder {
		balances[u] = userTotals[u] - res.SplitMinor
		res.Users = append(res.Users, dto.UserTotal{
			UserID:       u,
			Name:         userNames[u],
			TotalMinor:   userTotals[u],
			BalanceMinor: balances[u],
		})
	}

	// Greedy netting: walk creditors in first-seen order and drain debtors
	// in the same order. Not minimal in transfer count; that is accepted.
	for _, cu := range userOrder {
		if balances[cu] <= 0 {
			continue
		}
		for _, du := range userOrder {
			if balances[cu] == 0 {
				break
			}
			if balances[du] >= 0 {
				continue
			}
			amount := min(balances[cu], -balances[du])
			res.Transfers = append(res.Transfers, dto.Transfer{
				FromUserID:  du,
				FromName:    userNames[du],
				ToUserID:    cu,
				ToName:      userNames[cu],
				AmountMinor: amount,
			})
			balances[cu] -= amount
			balances[du] += amount
		}
	}

	return res
}
