package mongo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/mongo"
)

func TestHealthcheck_Unreachable(t *testing.T) {
	t.Parallel()

	client, err := mongodriver.Connect(options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200 * time.Millisecond))
	require.NoError(t, err)
	defer func() { _ = client.Disconnect(context.Background()) }()

	err = mongo.Healthcheck(client.Database("notifications"))(context.Background())
	require.ErrorIs(t, err, mongo.ErrHealthcheckFailed)
	assert.Contains(t, err.Error(), "database notifications")
}
