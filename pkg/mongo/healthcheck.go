package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Healthcheck returns a check that runs ping against the notification
// database, so a wrong database name or missing privileges also fail it.
func Healthcheck(db *mongo.Database) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			return fmt.Errorf("%w: database %s: %w", ErrHealthcheckFailed, db.Name(), err)
		}
		return nil
	}
}
