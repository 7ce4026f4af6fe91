package mongo

import "errors"

var (
	// ErrFailedToConnectToMongo is returned by New when every attempt failed.
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrEmptyConnectionURL     = errors.New("empty mongo connection URL")
	// ErrHealthcheckFailed is returned by the Healthcheck function.
	ErrHealthcheckFailed = errors.New("mongo healthcheck failed")
)
