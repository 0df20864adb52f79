package models

import (
	"time"
)

// Chat holds per-conversation settings. Created on first contact, never
// deleted. CustomCategories is append-only and deduplicated against the
// default set at resolution time.
type Chat struct {
	ChatID               int64     `firestore:"chatId" json:"chatId"`
	Type                 string    `firestore:"type" json:"type"` // "private", "group", ...
	Currency             string    `firestore:"currency" json:"currency,omitempty"`
	Timezone             string    `firestore:"timezone" json:"timezone,omitempty"`
	CustomCategories     []string  `firestore:"customCategories" json:"customCategories,omitempty"`
	AwaitingCategoryName bool      `firestore:"awaitingCategoryName" json:"awaitingCategoryName"`
	CreatedAt            time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Membership records that a user has been seen in a chat. Existence only.
type Membership struct {
	UserID   int64     `firestore:"userId" json:"userId"`
	JoinedAt time.Time `firestore:"joinedAt" json:"joinedAt"`
}
