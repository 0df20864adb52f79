package store

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
)

type chatStore struct {
	client *firestore.Client
}

func NewChatStore(client *firestore.Client) *chatStore {
	return &chatStore{client: client}
}

func (s *chatStore) doc(chatID int64) *firestore.DocumentRef {
	return s.client.Collection("chats").Doc(strconv.FormatInt(chatID, 10))
}

// Ensure returns the chat record, creating it on first contact. Re-ensuring
// an existing chat never touches its settings or custom categories.
func (s *chatStore) Ensure(ctx context.Context, chatID int64, chatType string) (*models.Chat, error) {
	doc, err := s.doc(chatID).Get(ctx)
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, errs.NewDatabaseError("read", "failed to get chat", err)
		}
		now := time.Now()
		chat := &models.Chat{
			ChatID:    chatID,
			Type:      chatType,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := s.doc(chatID).Set(ctx, chat); err != nil {
			return nil, errs.NewDatabaseError("create", "failed to create chat", err)
		}
		return chat, nil
	}

	var chat models.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse chat data", err)
	}
	return &chat, nil
}

func (s *chatStore) SetCurrency(ctx context.Context, chatID int64, code string) error {
	return s.merge(ctx, chatID, map[string]interface{}{"currency": code})
}

func (s *chatStore) SetTimezone(ctx context.Context, chatID int64, tz string) error {
	return s.merge(ctx, chatID, map[string]interface{}{"timezone": tz})
}

func (s *chatStore) SetAwaitingCategoryName(ctx context.Context, chatID int64, awaiting bool) error {
	return s.merge(ctx, chatID, map[string]interface{}{"awaitingCategoryName": awaiting})
}

// AddCustomCategory appends a name to the chat's custom list if it is not
// already present. Read-modify-write without a transaction: concurrent adds
// in the same chat follow last-write-wins like the rest of the chat doc.
func (s *chatStore) AddCustomCategory(ctx context.Context, chatID int64, name string) error {
	doc, err := s.doc(chatID).Get(ctx)
	if err != nil {
		return errs.NewDatabaseError("read", "failed to get chat", err)
	}
	var chat models.Chat
	if err := doc.DataTo(&chat); err != nil {
		return errs.NewDatabaseError("read", "failed to parse chat data", err)
	}
	for _, existing := range chat.CustomCategories {
		if existing == name {
			return nil
		}
	}
	return s.merge(ctx, chatID, map[string]interface{}{
		"customCategories": append(chat.CustomCategories, name),
	})
}

func (s *chatStore) merge(ctx context.Context, chatID int64, fields map[string]interface{}) error {
	fields["updatedAt"] = time.Now()
	if _, err := s.doc(chatID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return errs.NewDatabaseError("update", "failed to update chat", err)
	}
	return nil
}
