// Package config handles input from etc/*.toml files.
package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvConfigJSON names the environment variable holding a JSON config
// override merged on top of the toml file.
const EnvConfigJSON = "SETTINGSD_CONFIG_JSON"

const (
	defaultCachePrefix  = "settings"
	defaultCacheTTL     = time.Hour
	defaultShutDownTime = 5
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	// override it from env
	if jsonEnv := os.Getenv(EnvConfigJSON); jsonEnv != "" {
		var err error

		c, err = decodeAndMergeConfig(c, jsonEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to merge json config override")
	}

	return c, nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out), nil
}

// validate minimal config settings and apply defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	switch c.DB.Driver {
	case "", "sqlite":
		c.DB.Driver = "sqlite"
	case "mysql", "postgres":
	default:
		return errors.Wrap(ErrUnknownDBDriver, invalidErrMessage)
	}

	switch c.Cache.Backend {
	case "", "memory":
		c.Cache.Backend = "memory"
	case "redis":
	default:
		return errors.Wrap(ErrUnknownCacheBackend, invalidErrMessage)
	}

	if c.Cache.Prefix == "" {
		c.Cache.Prefix = defaultCachePrefix
	}

	if c.Cache.TTL == 0 {
		c.Cache.TTL = defaultCacheTTL
	}

	if c.Crypt.Enabled && c.Crypt.Key == "" {
		return errors.Wrap(ErrCryptKeyEmpty, invalidErrMessage)
	}

	return nil
}
