// Package live pushes notification events to users' open browser sessions.
//
// A Hub keeps the open sessions of every user in process and satisfies
// notifications.LiveChannel directly. When the service runs on more than one
// instance, RedisRelay is used as the live channel instead: it publishes
// events through Redis pub/sub and every instance's Run loop feeds them into
// its local Hub.
//
// StreamHandler exposes a user's sessions over server-sent events using
// datastar signal patches:
//
//	hub := live.NewHub(16)
//	defer hub.Close()
//
//	relay := live.NewRedisRelay(redisClient, hub)
//	go relay.Run(ctx)
//
//	mux.Handle("/notifications/stream", live.NewStreamHandler(hub, userIDFromRequest))
//
// Slow sessions whose buffer is full are closed instead of blocking the
// publisher; the browser reconnects and reloads its state.
package live
