package config

import (
	"time"

	"github.com/settingsd/settingsd/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Cache     Cache
	Audit     Audit
	Crypt     Crypt
}

// Webserver implements webserver settings.
type Webserver struct {
	Port           int    // listening port for the webserver
	URL            string // base url for the webserver
	ShutDownTime   int    // wait time for shutdown in seconds
	DisableRecover bool   // disable recover middleware
}

// Cache implements settings cache configuration.
type Cache struct {
	Enabled bool          // false = every read goes to the store
	Backend string        // "memory" or "redis"
	Prefix  string        // cache key prefix
	TTL     time.Duration // uniform entry lifetime
	Redis   Redis
}

// Redis holds connection settings for the redis cache backend.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Audit implements change history configuration.
type Audit struct {
	Enabled bool
}

// Crypt holds the key material for encrypted settings.
type Crypt struct {
	Enabled bool
	Key     string // passphrase the data key is derived from
	Salt    string // derivation salt
}
