package store

import (
	"context"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
)

type pendingStore struct {
	client *firestore.Client
}

func NewPendingStore(client *firestore.Client) *pendingStore {
	return &pendingStore{client: client}
}

func (s *pendingStore) doc(chatID, userID int64) *firestore.DocumentRef {
	return s.client.Collection("chats").
		Doc(strconv.FormatInt(chatID, 10)).
		Collection("pending").
		Doc(strconv.FormatInt(userID, 10))
}

func (s *pendingStore) Get(ctx context.Context, chatID, userID int64) (*models.PendingTransaction, error) {
	doc, err := s.doc(chatID, userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("no pending transaction")
		}
		return nil, errs.NewDatabaseError("read", "failed to get pending transaction", err)
	}
	var p models.PendingTransaction
	if err := doc.DataTo(&p); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse pending transaction", err)
	}
	return &p, nil
}

// Set replaces the single pending slot for (chat, user). A fresh parse while
// one is pending overwrites it: last write wins.
func (s *pendingStore) Set(ctx context.Context, chatID int64, p *models.PendingTransaction) error {
	if _, err := s.doc(chatID, p.UserID).Set(ctx, p); err != nil {
		return errs.NewDatabaseError("update", "failed to set pending transaction", err)
	}
	return nil
}

func (s *pendingStore) Delete(ctx context.Context, chatID, userID int64) error {
	if _, err := s.doc(chatID, userID).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete pending transaction", err)
	}
	return nil
}
