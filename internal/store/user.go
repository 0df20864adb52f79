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

type userStore struct {
	client *firestore.Client
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{client: client}
}

func (s *userStore) userDoc(userID int64) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(strconv.FormatInt(userID, 10))
}

func (s *userStore) memberDoc(chatID, userID int64) *firestore.DocumentRef {
	return s.client.Collection("chats").
		Doc(strconv.FormatInt(chatID, 10)).
		Collection("members").
		Doc(strconv.FormatInt(userID, 10))
}

// Upsert refreshes the user's display name on every event, keeping the
// original createdAt. Create stamps createdAt on first sight; an existing
// doc gets a merge write that never touches it.
func (s *userStore) Upsert(ctx context.Context, userID int64, firstName string) error {
	now := time.Now()
	_, err := s.userDoc(userID).Create(ctx, map[string]interface{}{
		"userId":    userID,
		"firstName": firstName,
		"createdAt": now,
		"updatedAt": now,
	})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return errs.NewDatabaseError("create", "failed to create user", err)
	}

	_, err = s.userDoc(userID).Set(ctx, map[string]interface{}{
		"firstName": firstName,
		"updatedAt": now,
	}, firestore.MergeAll)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to upsert user", err)
	}
	return nil
}

// EnsureMembership records that the user has been seen in the chat. The
// record is existence-only; re-ensuring is a no-op.
func (s *userStore) EnsureMembership(ctx context.Context, chatID, userID int64) error {
	_, err := s.memberDoc(chatID, userID).Create(ctx, models.Membership{
		UserID:   userID,
		JoinedAt: time.Now(),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return errs.NewDatabaseError("create", "failed to create membership", err)
	}
	return nil
}
