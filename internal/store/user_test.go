package store

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
)

func TestUserStoreWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	store := NewUserStore(client)
	userID := int64(90001)

	t.Run("first upsert stamps createdAt", func(t *testing.T) {
		if err := store.Upsert(ctx, userID, "Alice"); err != nil {
			t.Fatalf("upsert error: %v", err)
		}
		doc, err := store.userDoc(userID).Get(ctx)
		if err != nil {
			t.Fatalf("read back error: %v", err)
		}
		data := doc.Data()
		if data["firstName"] != "Alice" {
			t.Errorf("unexpected firstName %v", data["firstName"])
		}
		if _, ok := data["createdAt"]; !ok {
			t.Error("createdAt missing after first upsert")
		}
	})

	t.Run("repeat upsert keeps createdAt, refreshes name", func(t *testing.T) {
		before, err := store.userDoc(userID).Get(ctx)
		if err != nil {
			t.Fatalf("read error: %v", err)
		}
		created := before.Data()["createdAt"]

		if err := store.Upsert(ctx, userID, "Alicia"); err != nil {
			t.Fatalf("upsert error: %v", err)
		}
		after, err := store.userDoc(userID).Get(ctx)
		if err != nil {
			t.Fatalf("read back error: %v", err)
		}
		data := after.Data()
		if data["firstName"] != "Alicia" {
			t.Errorf("firstName not refreshed: %v", data["firstName"])
		}
		if data["createdAt"] != created {
			t.Errorf("createdAt changed across upserts: %v != %v", data["createdAt"], created)
		}
	})

	t.Run("membership is idempotent", func(t *testing.T) {
		chatID := int64(-100300)
		if err := store.EnsureMembership(ctx, chatID, userID); err != nil {
			t.Fatalf("ensure error: %v", err)
		}
		if err := store.EnsureMembership(ctx, chatID, userID); err != nil {
			t.Fatalf("re-ensure should be a no-op, got: %v", err)
		}
	})
}
