package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownDBDriver error if config db.driver is not a supported driver.
	ErrUnknownDBDriver = errors.New("toml config db.driver must be sqlite, mysql or postgres")

	// ErrUnknownCacheBackend error if config cache.backend is not a supported backend.
	ErrUnknownCacheBackend = errors.New("toml config cache.backend must be memory or redis")

	// ErrCryptKeyEmpty error if encryption is enabled without a key.
	ErrCryptKeyEmpty = errors.New("toml config crypt.key can not be empty when crypt is enabled")
)
