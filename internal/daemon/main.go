// Package daemon wires the storage, cache and settings service together
// and runs the web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/settingsd/settingsd/internal/cache"
	"github.com/settingsd/settingsd/internal/config"
	"github.com/settingsd/settingsd/internal/db/dsn"
	"github.com/settingsd/settingsd/internal/db/models"
	"github.com/settingsd/settingsd/internal/secret"
	"github.com/settingsd/settingsd/internal/settings"
	"github.com/settingsd/settingsd/internal/settings/types"
	"github.com/settingsd/settingsd/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start runs the web service until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	svc, err := NewSettingsService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize settings service")
		return nil
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, svc),
	}
}

// NewSettingsService opens the database, migrates and seeds it, and
// builds the settings service. CLI commands use it without the web
// service.
func NewSettingsService(cfg *config.Config) (*settings.Service, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err = db.AutoMigrate(
		&models.Setting{},
		&models.SettingGroup{},
		&models.SettingHistory{},
		&models.SettingPermission{},
		&models.SettingTemplate{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	seed(db)

	store, err := newCacheStore(cfg)
	if err != nil {
		return nil, err
	}

	var encryptor *secret.Encryptor
	if cfg.Crypt.Enabled {
		if encryptor, err = secret.New(cfg.Crypt.Key, cfg.Crypt.Salt); err != nil {
			return nil, fmt.Errorf("initialize encryption: %w", err)
		}
	}

	return settings.New(db, types.NewRegistry(), store, encryptor, settings.Config{
		CacheEnabled: cfg.Cache.Enabled,
		CachePrefix:  cfg.Cache.Prefix,
		CacheTTL:     cfg.Cache.TTL,
		AuditEnabled: cfg.Audit.Enabled,
	}), nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.Driver {
	case "postgres":
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		// referential actions need the foreign_keys pragma under sqlite
		dialector = sqlite.Open(dsn.Create(cfg) + "?_pragma=foreign_keys(1)")
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	// TranslateError turns duplicate key violations into
	// gorm.ErrDuplicatedKey across all three drivers.
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

func newCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})

		return cache.NewRedis(client, cfg.Cache.Prefix), nil
	case "", "memory":
		return cache.NewMemory(cfg.Cache.TTL), nil
	default:
		return nil, config.ErrUnknownCacheBackend
	}
}
