// Package redis connects to the Redis server that relays live notification
// events between service instances.
//
// Connect retries the initial ping according to Config, and Healthcheck
// returns a probe suitable for the HTTP health endpoint:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	check := redis.Healthcheck(client)
//
// Errors are sentinel values joined with the underlying go-redis error, so
// errors.Is works on both.
package redis
