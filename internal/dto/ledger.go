package dto

import (
	"time"

	"github.com/splittally/tally-backend/internal/models"
)

// LedgerQuery filters a chat's committed transactions.
type LedgerQuery struct {
	Kind  *models.TxKind
	From  *time.Time // inclusive
	To    *time.Time // exclusive
	Desc  bool
	Limit int
}

// LedgerKey is the value tuple the edit-by-reply flow matches on. There is
// deliberately no transaction id here: the replied-to message text is all the
// user has.
type LedgerKey struct {
	UserID      int64
	Item        string // case-sensitive, as parsed
	AmountMinor int64
	Currency    string
}
