package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")

	// ErrRedisNotReady is returned by Connect when no ping succeeded within
	// the configured attempts.
	ErrRedisNotReady = errors.New("redis did not become ready within the given time period")

	// ErrHealthcheckFailed is returned by the Healthcheck function.
	ErrHealthcheckFailed = errors.New("redis healthcheck failed")
)
