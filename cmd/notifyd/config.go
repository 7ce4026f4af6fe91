package main

import (
	"fmt"

	"github.com/mateuscvictor-cs/dashboard360-sub000/pkg/notifications"
)

// Storage drivers.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
)

// Live channel drivers.
const (
	LiveMemory = "memory"
	LiveRedis  = "redis"
)

// Email drivers.
const (
	EmailDev      = "dev"
	EmailPostmark = "postmark"
	EmailDisabled = "none"
)

// appConfig holds service level settings. Driver specific settings live in
// each infrastructure package and are loaded only when the driver is selected.
type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_SERVICE_NAME" envDefault:"notifyd"`
	BaseURL     string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	ProductName string `env:"APP_PRODUCT_NAME" envDefault:"Dashboard 360"`
	LogLevel    string `env:"LOG_LEVEL"` // overrides the environment default

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"memory"`
	LiveDriver    string `env:"LIVE_DRIVER" envDefault:"memory"`
	EmailDriver   string `env:"EMAIL_DRIVER" envDefault:"dev"`

	LiveBufferSize    int     `env:"LIVE_BUFFER_SIZE" envDefault:"16"`
	LowScoreThreshold float64 `env:"LOW_SCORE_THRESHOLD" envDefault:"7"`
	SeedFile          string  `env:"SEED_FILE"` // optional JSON with users and companies

	LinkAdminPrefix  string `env:"LINK_ADMIN_PREFIX" envDefault:"/admin"`
	LinkCSPrefix     string `env:"LINK_CS_PREFIX" envDefault:"/cs"`
	LinkClientPrefix string `env:"LINK_CLIENT_PREFIX" envDefault:"/client"`
}

func (c appConfig) validate() error {
	switch c.StorageDriver {
	case StorageMemory, StoragePostgres, StorageMongo:
	default:
		return fmt.Errorf("%w: STORAGE_DRIVER %q", errUnknownDriver, c.StorageDriver)
	}
	switch c.LiveDriver {
	case LiveMemory, LiveRedis:
	default:
		return fmt.Errorf("%w: LIVE_DRIVER %q", errUnknownDriver, c.LiveDriver)
	}
	switch c.EmailDriver {
	case EmailDev, EmailPostmark, EmailDisabled:
	default:
		return fmt.Errorf("%w: EMAIL_DRIVER %q", errUnknownDriver, c.EmailDriver)
	}
	if c.LiveBufferSize <= 0 {
		return fmt.Errorf("%w: LIVE_BUFFER_SIZE must be positive", errInvalidConfig)
	}
	if c.LowScoreThreshold < 0 || c.LowScoreThreshold > 10 {
		return fmt.Errorf("%w: LOW_SCORE_THRESHOLD must be between 0 and 10", errInvalidConfig)
	}
	return nil
}

func (c appConfig) links() notifications.Links {
	return notifications.Links{
		AdminPrefix:  c.LinkAdminPrefix,
		CSPrefix:     c.LinkCSPrefix,
		ClientPrefix: c.LinkClientPrefix,
	}
}
