package live_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/live"
	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

func TestRedisRelay_Roundtrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	defer client.Close()

	hub := live.NewHub(4)
	defer hub.Close()

	prefix := "test:live:" + t.Name() + ":"
	relay := live.NewRedisRelay(client, hub, live.WithChannelPrefix(prefix))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	sub := hub.Subscribe(context.Background(), "user-1")

	// PSubscribe is confirmed asynchronously; publish until the first event lands.
	var evt live.Event
	require.Eventually(t, func() bool {
		if err := relay.Send(context.Background(), "user-1", "notification", map[string]string{"id": "n-1"}); err != nil {
			return false
		}
		select {
		case evt = <-sub.Events():
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	assert.Equal(t, "notification", evt.Type)
	raw, ok := evt.Data.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"n-1"}`, string(raw))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestRedisRelay_EventsFromAnotherProcess(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	prefix := "test:live:" + t.Name() + ":"

	// Serving side: relay feeding the hub that holds the user's stream.
	serverClient := goredis.NewClient(opts)
	defer serverClient.Close()
	hub := live.NewHub(4)
	defer hub.Close()
	relay := live.NewRedisRelay(serverClient, hub, live.WithChannelPrefix(prefix))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = relay.Run(ctx) }()
	sub := hub.Subscribe(context.Background(), "owner-1")

	// Producing side: a dispatcher with its own client and no local hub.
	producerClient := goredis.NewClient(opts)
	defer producerClient.Close()
	store := notifications.NewMemoryStorage()
	store.PutCompany(notifications.Company{ID: "acme", Name: "Acme"})
	store.PutRecipient(notifications.Recipient{
		ID: "owner-1", Role: notifications.RoleAccountOwner, CompanyID: "acme",
		Preferences: notifications.DefaultPreferences(),
	})
	dispatcher := notifications.NewDispatcher(store, store, notifications.WithLiveChannel(
		live.NewRedisRelay(producerClient, nil, live.WithChannelPrefix(prefix)),
	))

	var evt live.Event
	require.Eventually(t, func() bool {
		if _, err := dispatcher.NotifyDeliveryCompleted(context.Background(), notifications.Delivery{
			ID: "d-1", Title: "Website", CompanyID: "acme",
		}); err != nil {
			return false
		}
		select {
		case evt = <-sub.Events():
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	assert.Equal(t, "notification", evt.Type)
	raw, ok := evt.Data.(json.RawMessage)
	require.True(t, ok)

	var n notifications.Notification
	require.NoError(t, json.Unmarshal(raw, &n))
	assert.Equal(t, "owner-1", n.RecipientID)
	assert.Equal(t, notifications.TypeDeliveryCompleted, n.Type)
}
