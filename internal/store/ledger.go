package store

import (
	"context"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/splittally/tally-backend/internal/dto"
	"github.com/splittally/tally-backend/internal/errs"
	"github.com/splittally/tally-backend/internal/models"
)

type ledgerStore struct {
	client *firestore.Client
}

func NewLedgerStore(client *firestore.Client) *ledgerStore {
	return &ledgerStore{client: client}
}

func (s *ledgerStore) collection(chatID int64) *firestore.CollectionRef {
	return s.client.Collection("chats").
		Doc(strconv.FormatInt(chatID, 10)).
		Collection("transactions")
}

// Add appends a committed transaction under an auto-assigned id and returns
// that id. Entries are immutable except through UpdateEntry.
func (s *ledgerStore) Add(ctx context.Context, chatID int64, tx *models.Transaction) (string, error) {
	now := time.Now()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now
	tx.ItemLower = strings.ToLower(tx.Item)

	ref := s.collection(chatID).NewDoc()
	if _, err := ref.Set(ctx, tx); err != nil {
		return "", errs.NewDatabaseError("create", "failed to append transaction", err)
	}
	tx.TransactionID = ref.ID
	return ref.ID, nil
}

// Query streams a chat's transactions through handle in createdAt order,
// applying the optional kind and time-window filters.
func (s *ledgerStore) Query(ctx context.Context, chatID int64, q dto.LedgerQuery, handle func(*models.Transaction) error) error {
	query := s.collection(chatID).Query
	if q.Kind != nil {
		query = query.Where("kind", "==", string(*q.Kind))
	}
	if q.From != nil {
		query = query.Where("createdAt", ">=", *q.From)
	}
	if q.To != nil {
		query = query.Where("createdAt", "<", *q.To)
	}
	dir := firestore.Asc
	if q.Desc {
		dir = firestore.Desc
	}
	query = query.OrderBy("createdAt", dir)
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	it := query.Documents(ctx)
	defer it.Stop()
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return errs.NewDatabaseError("read", "failed to iterate transactions", err)
		}
		var tx models.Transaction
		if err := doc.DataTo(&tx); err != nil {
			return errs.NewDatabaseError("read", "failed to parse transaction", err)
		}
		tx.TransactionID = doc.Ref.ID
		if err := handle(&tx); err != nil {
			return err
		}
	}
}

// LatestCategoryForItem returns the category of the most recent committed
// expense whose item matches case-insensitively, or "" when history offers
// nothing. The scan is capped; an item that last carried a category further
// back than that is treated as unknown.
func (s *ledgerStore) LatestCategoryForItem(ctx context.Context, chatID int64, item string) (string, error) {
	it := s.collection(chatID).
		Where("itemLower", "==", strings.ToLower(item)).
		Where("kind", "==", string(models.KindExpense)).
		OrderBy("createdAt", firestore.Desc).
		Limit(25).
		Documents(ctx)
	defer it.Stop()

	for {
		doc, err := it.Next()
		if err == iterator.Done {
			return "", nil
		}
		if err != nil {
			return "", errs.NewDatabaseError("read", "failed to search item history", err)
		}
		if category, ok := doc.Data()["category"].(string); ok && category != "" {
			return category, nil
		}
	}
}

// FindByKey returns the first transaction matching the value tuple, with no
// ordering guarantee. Two entries sharing item, amount and currency are
// indistinguishable here; the reply-edit flow accepts that.
func (s *ledgerStore) FindByKey(ctx context.Context, chatID int64, key dto.LedgerKey) (*models.Transaction, error) {
	it := s.collection(chatID).
		Where("userId", "==", key.UserID).
		Where("item", "==", key.Item).
		Where("amountMinor", "==", key.AmountMinor).
		Where("currency", "==", key.Currency).
		Limit(1).
		Documents(ctx)
	defer it.Stop()

	doc, err := it.Next()
	if err == iterator.Done {
		return nil, errs.NewNotFoundError("no matching transaction")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to look up transaction", err)
	}
	var tx models.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse transaction", err)
	}
	tx.TransactionID = doc.Ref.ID
	return &tx, nil
}

// UpdateEntry overwrites item, amount and currency in place. Category, kind
// and createdAt are preserved; no new id is assigned.
func (s *ledgerStore) UpdateEntry(ctx context.Context, chatID int64, txID, item string, amountMinor int64, currency string) error {
	_, err := s.collection(chatID).Doc(txID).Update(ctx, []firestore.Update{
		{Path: "item", Value: item},
		{Path: "itemLower", Value: strings.ToLower(item)},
		{Path: "amountMinor", Value: amountMinor},
		{Path: "currency", Value: currency},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("transaction no longer exists")
		}
		return errs.NewDatabaseError("update", "failed to update transaction", err)
	}
	return nil
}
