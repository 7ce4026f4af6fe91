package mongostore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/mongo"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/mongostore"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications/storagetest"
)

func TestStore(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx := context.Background()
	db, err := mongo.NewWithDatabase(ctx, mongo.Config{
		ConnectionURL: url,
		Database:      "dashboard360_test",
		RetryAttempts: 3,
		RetryInterval: 200 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(context.Background()) })

	store := mongostore.New(db)
	require.NoError(t, store.EnsureIndexes(ctx))

	storagetest.Run(t, func(t *testing.T, users []notifications.Recipient, companies []notifications.Company) storagetest.Backend {
		for _, c := range companies {
			require.NoError(t, store.UpsertCompany(ctx, c))
		}
		for _, u := range users {
			require.NoError(t, store.UpsertRecipient(ctx, u))
		}
		return store
	})
}
