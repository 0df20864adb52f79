package models

import (
	"time"
)

type User struct {
	UserID    int64     `firestore:"userId" json:"userId"`
	FirstName string    `firestore:"firstName" json:"firstName"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}
