// Package mongo connects to the MongoDB deployment backing the document
// flavour of the notification store.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
// Connection failures wrap ErrFailedToConnectToMongo. Healthcheck returns a
// check that pings the notification database for the HTTP health endpoint.
package mongo
