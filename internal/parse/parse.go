// Package parse turns raw chat text into a transaction candidate. The
// grammar is a single anchored line:
//
//	[mention] <item> <amount> [currency]
//
// where item is non-greedy (at least one character), amount is an integer or
// has at most two decimal places with an optional +/- sign, and currency is
// exactly three word characters. A leading '+' marks income; '-' or no sign
// marks an expense. Parsing never touches storage.
package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
)

var entryRe = regexp.MustCompile(`^(.+?)\s+([+-]?\d+(?:\.\d{1,2})?)\s*(\w{3})?$`)

// Candidate is a parsed entry before category and currency resolution.
// Amount is the non-negative magnitude; the sign is carried by Kind.
// Currency is empty when the message left it to the chat default.
type Candidate struct {
	Item     string
	Amount   decimal.Decimal
	Kind     models.TxKind
	Currency string
}

// Message parses text into a Candidate. When mention is non-empty the text
// must lead with that token (group chats address the bot explicitly); it is
// stripped before the grammar applies. Any text that does not match yields a
// ParseError and nothing else.
func Message(text, mention string) (Candidate, error) {
	t := strings.TrimSpace(text)

	if mention != "" {
		first, rest, found := strings.Cut(t, " ")
		if !found || !strings.EqualFold(first, mention) {
			return Candidate{}, errs.NewParseError("message does not address the bot")
		}
		t = strings.TrimSpace(rest)
	}

	m := entryRe.FindStringSubmatch(t)
	if m == nil {
		return Candidate{}, errs.NewParseError("message does not match the entry format")
	}

	amount, err := decimal.NewFromString(m[2])
	if err != nil {
		return Candidate{}, errs.NewParseError("amount is not a valid number")
	}

	kind := models.KindExpense
	if strings.HasPrefix(m[2], "+") {
		kind = models.KindIncome
	}

	return Candidate{
		Item:     strings.TrimSpace(m[1]),
		Amount:   amount.Abs(),
		Kind:     kind,
		Currency: strings.ToUpper(m[3]),
	}, nil
}
