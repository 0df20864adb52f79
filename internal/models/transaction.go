package models

import (
	"time"
)

type TxKind string

const (
	KindExpense TxKind = "expense"
	KindIncome  TxKind = "income"
)

// Transaction is a committed ledger entry. Amounts are stored as non-negative
// minor units; the sign lives in Kind. ItemLower backs the case-insensitive
// category inference query.
type Transaction struct {
	TransactionID string    `firestore:"-" json:"transactionId"` // Firestore doc ID
	UserID        int64     `firestore:"userId" json:"userId"`
	UserName      string    `firestore:"userName" json:"userName"`
	Item          string    `firestore:"item" json:"item"`
	ItemLower     string    `firestore:"itemLower" json:"-"`
	AmountMinor   int64     `firestore:"amountMinor" json:"amountMinor"`
	Currency      string    `firestore:"currency" json:"currency"`
	Kind          TxKind    `firestore:"kind" json:"kind"`
	Category      string    `firestore:"category" json:"category,omitempty"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// PendingTransaction is the single provisional slot per (chat, user). A new
// parse overwrites it; promotion into the ledger deletes it.
type PendingTransaction struct {
	UserID      int64     `firestore:"userId" json:"userId"`
	UserName    string    `firestore:"userName" json:"userName"`
	Item        string    `firestore:"item" json:"item"`
	AmountMinor int64     `firestore:"amountMinor" json:"amountMinor"`
	Currency    string    `firestore:"currency" json:"currency"`
	Kind        TxKind    `firestore:"kind" json:"kind"`
	Category    string    `firestore:"category" json:"category,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}
