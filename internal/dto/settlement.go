package dto

import "time"

// CategoryTotal is the spend within one category over the report window.
// Uncategorized income/expenses bucket under their own key.
type CategoryTotal struct {
	Category   string `json:"category"`
	TotalMinor int64  `json:"totalMinor"`
}

// UserTotal is one contributor's spend and resulting balance. A positive
// balance means the user is owed money; negative means they owe.
type UserTotal struct {
	UserID       int64  `json:"userId"`
	Name         string `json:"name"`
	TotalMinor   int64  `json:"totalMinor"`
	BalanceMinor int64  `json:"balanceMinor"`
}

// Transfer is one suggested debt-clearing payment.
type Transfer struct {
	FromUserID  int64  `json:"fromUserId"`
	FromName    string `json:"fromName"`
	ToUserID    int64  `json:"toUserId"`
	ToName      string `json:"toName"`
	AmountMinor int64  `json:"amountMinor"`
}

// SettlementResult is the numeric outcome of settling a chat's expenses over
// a closed interval. Rendering (percentages, currency strings) layers on top.
type SettlementResult struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Currency     string          `json:"currency"`
	TotalMinor   int64           `json:"totalMinor"`
	SplitMinor   int64           `json:"splitMinor"`
	Contributors int             `json:"contributors"`
	Categories   []CategoryTotal `json:"categories"`
	Users        []UserTotal     `json:"users"`
	Transfers    []Transfer      `json:"transfers"`
}

// Empty reports whether the window held no expenses at all.
func (r SettlementResult) Empty() bool {
	return r.Contributors == 0
}
