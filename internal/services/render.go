package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/models"
	"github.com/splittally/tally-backend/pkg/money"
)

// User-facing texts. The entry format wording predates this rewrite and is
// kept verbatim so long-time chats see no change.
const (
	helpText = "Hello, I am your expense tracker bot. Please add expenses in the format: " +
		"'[Expense Item] [Amount] [currency (optional)]'. For example, 'Lunch 20 USD' or 'Coffee 5'. " +
		"Use '+' before the amount to indicate income, e.g., 'Salary +2000 USD'."

	formatHelpText = "I don't understand that format. Please add transactions in the format: " +
		"'[Item] [Amount] [currency (optional)]'. For example, 'Lunch 20 USD' or 'Salary +2000 USD'."

	categoryPromptText = "Please select a category for the expense:"

	invalidCategoryText = "That category isn't available here. Please pick one of the offered options."
	invalidCurrencyText = "That currency isn't supported."
	invalidTimezoneText = "That timezone isn't supported."

	newCategoryPromptText  = "Send me the name of the new category."
	newCategorySkippedText = "No category name received, nothing was added."

	editNotFoundText = "I couldn't find that transaction. Reply to the original entry message to edit it."
)

func commitConfirmation(tx *models.Transaction) string {
	amount := money.Format(tx.AmountMinor, tx.Currency)
	if tx.Kind == models.KindIncome {
		return fmt.Sprintf("Added income: %s - %s by %s", tx.Item, amount, tx.UserName)
	}
	return fmt.Sprintf("Added expense: %s - %s (%s) by %s", tx.Item, amount, tx.Category, tx.UserName)
}

func editConfirmation(item string, amountMinor int64, currency string) string {
	return fmt.Sprintf("Updated: %s - %s", item, money.Format(amountMinor, currency))
}

func newCategoryConfirmation(name string) string {
	return fmt.Sprintf("Added category %q.", name)
}

func currencyConfirmation(code string) string {
	return fmt.Sprintf("Default currency set to %s.", code)
}

func timezoneConfirmation(tz string) string {
	return fmt.Sprintf("Timezone set to %s.", tz)
}

// settlementReport renders the numeric settlement result as a Markdown
// message: totals, per-category shares, per-user contributions and the
// suggested transfers.
func settlementReport(res dto.SettlementResult) string {
	if res.Empty() {
		return fmt.Sprintf("No expenses recorded for %s.", res.From.Format("January 2006"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Expense summary for %s*\n", res.From.Format("January 2006"))
	fmt.Fprintf(&b, "Total: %s\n", money.Format(res.TotalMinor, res.Currency))

	b.WriteString("\nBy category:\n")
	total := decimal.NewFromInt(res.TotalMinor)
	for _, c := range res.Categories {
		name := c.Category
		if name == "" {
			name = "Uncategorized"
		}
		pct := decimal.Zero
		if res.TotalMinor != 0 {
			pct = decimal.NewFromInt(c.TotalMinor).Mul(decimal.NewFromInt(100)).DivRound(total, 1)
		}
		fmt.Fprintf(&b, "%s: %s (%s%%)\n", name, money.Format(c.TotalMinor, res.Currency), pct)
	}

	b.WriteString("\nBy user:\n")
	for _, u := range res.Users {
		fmt.Fprintf(&b, "%s: %s\n", u.Name, money.Format(u.TotalMinor, res.Currency))
	}

	fmt.Fprintf(&b, "\nSplit per person: %s\n", money.Format(res.SplitMinor, res.Currency))

	if len(res.Transfers) > 0 {
		b.WriteString("\nTo settle up:\n")
		for _, t := range res.Transfers {
			fmt.Fprintf(&b, "%s pays %s %s\n", t.FromName, t.ToName, money.Format(t.AmountMinor, res.Currency))
		}
	}

	return b.String()
}
