// Package settings implements the typed settings engine: resolution and
// mutation of owner-scoped settings with caching, declared-rule
// validation, change events and an audit trail.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/settingsd/settingsd/internal/cache"
	"github.com/settingsd/settingsd/internal/db/controller/group"
	"github.com/settingsd/settingsd/internal/db/controller/setting"
	"github.com/settingsd/settingsd/internal/db/controller/template"
	"github.com/settingsd/settingsd/internal/db/models"
	"github.com/settingsd/settingsd/internal/secret"
	"github.com/settingsd/settingsd/internal/settings/types"
)

var (
	// ErrValidationFailed is returned when a value fails its type check or
	// one of its declared validation rules.
	ErrValidationFailed = errors.New("value failed validation")
	// ErrEncryptionUnavailable is returned when writing an encrypted
	// setting without configured key material.
	ErrEncryptionUnavailable = errors.New("encryption is not configured")
)

// Config carries the service tunables taken from the application config.
type Config struct {
	CacheEnabled bool
	CachePrefix  string
	CacheTTL     time.Duration
	AuditEnabled bool
}

// Service is the public settings contract. It composes the type
// registry, the entity store, the cache and the history recorder, and
// enforces the overall protocol: cache-then-store on reads, validate,
// persist, invalidate, notify and audit on writes.
//
// Construct one Service per process and pass it to collaborators.
type Service struct {
	db        *gorm.DB
	registry  *types.Registry
	cache     cache.Store
	encryptor *secret.Encryptor
	validate  *validator.Validate
	cfg       Config
	observers []Observer
}

// New creates a service. The encryptor may be nil, in which case
// encrypted settings cannot be written and read back as no value.
func New(db *gorm.DB, registry *types.Registry, store cache.Store, encryptor *secret.Encryptor, cfg Config) *Service {
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = "settings"
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	return &Service{
		db:        db,
		registry:  registry,
		cache:     store,
		encryptor: encryptor,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// Registry exposes the type registry, e.g. for tag listings.
func (s *Service) Registry() *types.Registry {
	return s.registry
}

// Get resolves a key within the owner scope to its typed value. A key
// absent from the store returns def unchanged; absence is never cached.
func (s *Service) Get(ctx context.Context, key string, def any, owner OwnerRef) (any, error) {
	value, err := s.get(ctx, key, def, owner)
	observeOperation("get", err)

	return value, err
}

func (s *Service) get(ctx context.Context, key string, def any, owner OwnerRef) (any, error) {
	if key == "" {
		return nil, setting.ErrSettingKeyEmpty
	}

	cacheKey := cache.Key(s.cfg.CachePrefix, owner.Identity(), key)
	if s.cfg.CacheEnabled {
		entry, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			if value, castErr := s.castRaw(entry.Type, entry.Raw); castErr == nil {
				return value, nil
			}
		case !errors.Is(err, cache.ErrCacheMiss):
			log.Warn().Err(err).Str("key", key).Msg("settings cache read failed")
		}
	}

	row, err := setting.FindByKey(s.db.WithContext(ctx), key, owner.Kind, owner.ID)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load setting %q: %w", key, err)
	}

	raw, ok := s.decode(row)
	if !ok {
		// unreadable ciphertext degrades to no value, keeping reads available
		return nil, nil
	}

	value, err := s.castRaw(row.Type, raw)
	if err != nil {
		return nil, err
	}

	if s.cfg.CacheEnabled {
		if err := s.cache.Put(ctx, cacheKey, cache.Entry{Type: row.Type, Raw: raw}, s.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("settings cache write failed")
		}
	}

	return value, nil
}

// Set creates or updates a setting within the owner scope. On success
// the cache entry is invalidated, a change event is published and an
// audit row is appended.
func (s *Service) Set(ctx context.Context, key string, value any, owner OwnerRef, opts Options) error {
	err := s.set(ctx, key, value, owner, opts)
	observeOperation("set", err)

	return err
}

func (s *Service) set(ctx context.Context, key string, value any, owner OwnerRef, opts Options) error {
	if key == "" {
		return setting.ErrSettingKeyEmpty
	}

	existing, err := setting.FindByKey(s.db.WithContext(ctx), key, owner.Kind, owner.ID)
	if err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		return fmt.Errorf("look up setting %q: %w", key, err)
	}

	typeTag := opts.Type
	if typeTag == "" && existing != nil {
		typeTag = existing.Type
	}
	if typeTag == "" {
		typeTag = types.TagString
	}

	t, err := s.registry.Lookup(typeTag)
	if err != nil {
		return err
	}

	if !t.Validate(value) {
		return fmt.Errorf("%w: key %q is not a valid %s", ErrValidationFailed, key, typeTag)
	}

	typed := t.Cast(value)

	rules := opts.ValidationRules
	if rules == nil && existing != nil {
		rules = existing.ValidationRules
	}
	if err := s.checkRules(key, typed, rules); err != nil {
		return err
	}

	raw, err := t.Serialize(value)
	if err != nil {
		return fmt.Errorf("serialize setting %q: %w", key, err)
	}

	encrypted := typeTag == types.TagEncrypted
	if existing != nil && !encrypted {
		encrypted = existing.IsEncrypted
	}
	if opts.IsEncrypted != nil {
		encrypted = *opts.IsEncrypted
	}

	stored := raw
	if encrypted {
		if s.encryptor == nil {
			return ErrEncryptionUnavailable
		}

		if stored, err = s.encryptor.Encrypt(raw); err != nil {
			return fmt.Errorf("encrypt setting %q: %w", key, err)
		}
	}

	if existing == nil {
		return s.createSetting(ctx, key, owner, opts, typeTag, typed, raw, stored, encrypted)
	}

	return s.updateSetting(ctx, existing, owner, opts, typeTag, typed, raw, stored, encrypted)
}

//nolint:gocritic // the write path shares one parameter tuple
func (s *Service) createSetting(ctx context.Context, key string, owner OwnerRef, opts Options,
	typeTag string, typed any, raw, stored string, encrypted bool,
) error {
	row := &models.Setting{
		Key:             key,
		Value:           stored,
		Type:            typeTag,
		OwnerType:       owner.Kind,
		OwnerID:         owner.ID,
		IsEncrypted:     encrypted,
		IsPublic:        true,
		Description:     opts.Description,
		ValidationRules: opts.ValidationRules,
		DefaultValue:    opts.DefaultValue,
	}
	if opts.IsPublic != nil {
		row.IsPublic = *opts.IsPublic
	}
	if opts.Order != nil {
		row.Order = *opts.Order
	}
	if opts.GroupKey != "" {
		groupID, err := s.resolveGroup(ctx, opts.GroupKey)
		if err != nil {
			return err
		}
		row.GroupID = groupID
	}

	err := setting.Create(s.db.WithContext(ctx), row)
	if errors.Is(err, setting.ErrSettingAlreadyExists) {
		// lost a create race, retry as an update
		current, findErr := setting.FindByKey(s.db.WithContext(ctx), key, owner.Kind, owner.ID)
		if findErr != nil {
			return fmt.Errorf("reload setting %q: %w", key, findErr)
		}

		return s.updateSetting(ctx, current, owner, opts, typeTag, typed, raw, stored, encrypted)
	}
	if err != nil {
		return fmt.Errorf("create setting %q: %w", key, err)
	}

	s.invalidate(ctx, key, owner)
	s.publish(Event{Kind: EventCreated, Key: key, Owner: owner, Value: typed})
	s.recordHistory(ctx, row, "", raw, opts)

	return nil
}

//nolint:gocritic // the write path shares one parameter tuple
func (s *Service) updateSetting(ctx context.Context, row *models.Setting, owner OwnerRef, opts Options,
	typeTag string, typed any, raw, stored string, encrypted bool,
) error {
	oldRaw, _ := s.decode(row)
	oldTyped, _ := s.castRaw(row.Type, oldRaw)

	row.Value = stored
	row.Type = typeTag
	row.IsEncrypted = encrypted
	if opts.Description != "" {
		row.Description = opts.Description
	}
	if opts.IsPublic != nil {
		row.IsPublic = *opts.IsPublic
	}
	if opts.ValidationRules != nil {
		row.ValidationRules = opts.ValidationRules
	}
	if opts.DefaultValue != "" {
		row.DefaultValue = opts.DefaultValue
	}
	if opts.Order != nil {
		row.Order = *opts.Order
	}
	if opts.GroupKey != "" {
		groupID, err := s.resolveGroup(ctx, opts.GroupKey)
		if err != nil {
			return err
		}
		row.GroupID = groupID
	}

	// detach the preloaded association so Save does not write it back
	row.Group = nil

	if err := setting.Update(s.db.WithContext(ctx), row); err != nil {
		return fmt.Errorf("update setting %q: %w", row.Key, err)
	}

	s.invalidate(ctx, row.Key, owner)
	s.publish(Event{Kind: EventUpdated, Key: row.Key, Owner: owner, Value: typed, OldValue: oldTyped})
	s.recordHistory(ctx, row, oldRaw, raw, opts)

	return nil
}

// Has reports whether a key exists in the owner scope. It checks the
// store directly, bypassing the cache, so stale cache state can never
// produce a false answer.
func (s *Service) Has(ctx context.Context, key string, owner OwnerRef) (bool, error) {
	_, err := setting.FindByKey(s.db.WithContext(ctx), key, owner.Kind, owner.ID)
	if errors.Is(err, setting.ErrSettingNotFound) {
		observeOperation("has", nil)

		return false, nil
	}

	observeOperation("has", err)
	if err != nil {
		return false, fmt.Errorf("look up setting %q: %w", key, err)
	}

	return true, nil
}

// Forget removes a key from the owner scope. It returns false without
// error, and without side effects, when nothing existed to delete.
func (s *Service) Forget(ctx context.Context, key string, owner OwnerRef) (bool, error) {
	err := setting.Delete(s.db.WithContext(ctx), key, owner.Kind, owner.ID)
	if errors.Is(err, setting.ErrSettingNotFound) {
		observeOperation("forget", nil)

		return false, nil
	}

	observeOperation("forget", err)
	if err != nil {
		return false, fmt.Errorf("delete setting %q: %w", key, err)
	}

	s.invalidate(ctx, key, owner)
	s.publish(Event{Kind: EventDeleted, Key: key, Owner: owner})

	return true, nil
}

// All returns every setting of the owner scope in sort order, groups
// attached. Values are returned as stored; use CastValue for the typed
// (and decrypted) form.
func (s *Service) All(ctx context.Context, owner OwnerRef) ([]models.Setting, error) {
	rows, err := setting.GetAllForOwner(s.db.WithContext(ctx), owner.Kind, owner.ID)
	observeOperation("all", err)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return rows, nil
}

// GetByGroup returns the settings of the owner scope belonging to one
// group, in sort order.
func (s *Service) GetByGroup(ctx context.Context, groupKey string, owner OwnerRef) ([]models.Setting, error) {
	rows, err := setting.GetByGroup(s.db.WithContext(ctx), groupKey, owner.Kind, owner.ID)
	observeOperation("get_by_group", err)
	if err != nil {
		return nil, fmt.Errorf("load settings for group %q: %w", groupKey, err)
	}

	return rows, nil
}

// SetMultiple applies Set per entry. Entries commit independently; a
// failed entry does not roll back the ones already applied, and the
// returned error aggregates every failure.
func (s *Service) SetMultiple(ctx context.Context, values map[string]any, owner OwnerRef) error {
	var result *multierror.Error

	for key, value := range values {
		if err := s.Set(ctx, key, value, owner, Options{}); err != nil {
			result = multierror.Append(result, err)
		}
	}

	err := result.ErrorOrNil()
	observeOperation("set_multiple", err)

	return err
}

// GetMultiple resolves a list of keys, defaulting absent ones to nil.
func (s *Service) GetMultiple(ctx context.Context, keys []string, owner OwnerRef) (map[string]any, error) {
	defaults := make(map[string]any, len(keys))
	for _, key := range keys {
		defaults[key] = nil
	}

	return s.GetMultipleWithDefaults(ctx, defaults, owner)
}

// GetMultipleWithDefaults resolves a map of key to default value. Keys
// that fail to load are omitted from the result and aggregated into the
// returned error.
func (s *Service) GetMultipleWithDefaults(ctx context.Context, defaults map[string]any, owner OwnerRef) (map[string]any, error) {
	var result *multierror.Error

	values := make(map[string]any, len(defaults))
	for key, def := range defaults {
		value, err := s.Get(ctx, key, def, owner)
		if err != nil {
			result = multierror.Append(result, err)

			continue
		}

		values[key] = value
	}

	return values, result.ErrorOrNil()
}

// Export returns the owner scope's settings, optionally restricted to a
// set of group keys, with values in their typed form.
func (s *Service) Export(ctx context.Context, owner OwnerRef, groups []string) ([]ExportedSetting, error) {
	rows, err := setting.GetForExport(s.db.WithContext(ctx), owner.Kind, owner.ID, groups)
	observeOperation("export", err)
	if err != nil {
		return nil, fmt.Errorf("load settings for export: %w", err)
	}

	out := make([]ExportedSetting, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		out = append(out, ExportedSetting{
			Key:         row.Key,
			Value:       s.CastValue(row),
			Type:        row.Type,
			Group:       row.GroupKey(),
			Description: row.Description,
			IsPublic:    row.IsPublic,
		})
	}

	return out, nil
}

// Import applies a list of exported settings to the owner scope. An
// existing key is skipped unless overwrite is set; a skip is neutral,
// only failed writes count against the result. Entries commit
// independently.
func (s *Service) Import(ctx context.Context, items []ExportedSetting, owner OwnerRef, overwrite bool) error {
	var result *multierror.Error

	applied := false
	for _, item := range items {
		if item.Key == "" {
			result = multierror.Append(result, setting.ErrSettingKeyEmpty)

			continue
		}

		exists, err := s.Has(ctx, item.Key, owner)
		if err != nil {
			result = multierror.Append(result, err)

			continue
		}
		if exists && !overwrite {
			continue
		}

		isPublic := item.IsPublic
		opts := Options{
			Type:        item.Type,
			GroupKey:    item.Group,
			Description: item.Description,
			IsPublic:    &isPublic,
		}
		if err := s.Set(ctx, item.Key, item.Value, owner, opts); err != nil {
			result = multierror.Append(result, err)

			continue
		}

		applied = true
	}

	// bulk changes touch an unknown set of entries, flush the lot
	if applied && s.cfg.CacheEnabled {
		if err := s.cache.FlushAll(ctx); err != nil {
			log.Warn().Err(err).Msg("settings cache flush failed")
		}
	}

	err := result.ErrorOrNil()
	observeOperation("import", err)

	return err
}

// ApplyTemplate imports the settings bundle of a named template into
// the owner scope.
func (s *Service) ApplyTemplate(ctx context.Context, name string, owner OwnerRef, overwrite bool) error {
	tpl, err := template.FindByName(s.db.WithContext(ctx), name)
	if err != nil {
		observeOperation("apply_template", err)

		return err
	}

	var items []ExportedSetting
	if err := json.Unmarshal([]byte(tpl.SettingsData), &items); err != nil {
		observeOperation("apply_template", err)

		return fmt.Errorf("parse template %q: %w", name, err)
	}

	return s.Import(ctx, items, owner, overwrite)
}

// Find returns the stored row of one setting, group attached. The value
// is returned as stored; use CastValue for the typed form.
func (s *Service) Find(ctx context.Context, key string, owner OwnerRef) (*models.Setting, error) {
	row, err := setting.FindByKey(s.db.WithContext(ctx), key, owner.Kind, owner.ID)
	observeOperation("find", err)
	if err != nil {
		return nil, err
	}

	return row, nil
}

// Groups returns all active setting groups in sort order.
func (s *Service) Groups(ctx context.Context) ([]models.SettingGroup, error) {
	groups, err := group.GetActive(s.db.WithContext(ctx))
	observeOperation("groups", err)
	if err != nil {
		return nil, fmt.Errorf("load setting groups: %w", err)
	}

	return groups, nil
}

// History returns the audit trail of one setting, oldest change first.
func (s *Service) History(ctx context.Context, key string, owner OwnerRef) ([]models.SettingHistory, error) {
	row, err := setting.FindByKey(s.db.WithContext(ctx), key, owner.Kind, owner.ID)
	if err != nil {
		observeOperation("history", err)

		return nil, err
	}

	entries, err := setting.HistoryForSetting(s.db.WithContext(ctx), row.ID)
	observeOperation("history", err)
	if err != nil {
		return nil, fmt.Errorf("load history for %q: %w", key, err)
	}

	return entries, nil
}

// ClearCache invalidates one entry when a key is given, otherwise
// flushes every settings entry.
func (s *Service) ClearCache(ctx context.Context, key string, owner OwnerRef) error {
	var err error
	if key != "" {
		err = s.cache.Invalidate(ctx, cache.Key(s.cfg.CachePrefix, owner.Identity(), key))
	} else {
		err = s.cache.FlushAll(ctx)
	}

	observeOperation("clear_cache", err)
	if err != nil {
		return fmt.Errorf("clear settings cache: %w", err)
	}

	return nil
}

// CastValue returns the typed form of a setting's stored value,
// decrypting it first when needed. Unreadable ciphertext and unknown
// type tags yield nil.
func (s *Service) CastValue(row *models.Setting) any {
	raw, ok := s.decode(row)
	if !ok {
		return nil
	}

	value, err := s.castRaw(row.Type, raw)
	if err != nil {
		return nil
	}

	return value
}

func (s *Service) castRaw(tag, raw string) (any, error) {
	t, err := s.registry.Lookup(tag)
	if err != nil {
		return nil, err
	}

	return t.Cast(raw), nil
}

// decode returns the plaintext raw value of a row. The second return is
// false when ciphertext cannot be read.
func (s *Service) decode(row *models.Setting) (string, bool) {
	if !row.IsEncrypted {
		return row.Value, true
	}

	if s.encryptor == nil {
		log.Warn().Str("key", row.Key).Msg("encrypted setting read without encryption configured")

		return "", false
	}

	plain, err := s.encryptor.Decrypt(row.Value)
	if err != nil {
		log.Warn().Err(err).Str("key", row.Key).Msg("could not decrypt setting value")

		return "", false
	}

	return plain, true
}

func (s *Service) invalidate(ctx context.Context, key string, owner OwnerRef) {
	if !s.cfg.CacheEnabled {
		return
	}

	if err := s.cache.Invalidate(ctx, cache.Key(s.cfg.CachePrefix, owner.Identity(), key)); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings cache invalidation failed")
	}
}

// recordHistory appends one audit row. The mutation already succeeded,
// so failures here are logged, never propagated.
func (s *Service) recordHistory(ctx context.Context, row *models.Setting, oldRaw, newRaw string, opts Options) {
	if !s.cfg.AuditEnabled {
		return
	}

	entry := &models.SettingHistory{
		SettingID:     row.ID,
		OldValue:      oldRaw,
		NewValue:      newRaw,
		ChangedByType: opts.ChangedBy.Kind,
		ChangedByID:   opts.ChangedBy.ID,
		IPAddress:     opts.IPAddress,
		UserAgent:     opts.UserAgent,
		ChangeReason:  opts.ChangeReason,
	}
	if err := setting.RecordHistory(s.db.WithContext(ctx), entry); err != nil {
		log.Error().Err(err).Str("key", row.Key).Msg("failed to record setting history")
	}
}

func (s *Service) resolveGroup(ctx context.Context, key string) (*uint64, error) {
	g, err := group.GetByKey(s.db.WithContext(ctx), key)
	if errors.Is(err, group.ErrGroupNotFound) {
		g = &models.SettingGroup{Key: key, Name: key, IsActive: true}
		if err := group.Upsert(s.db.WithContext(ctx), g); err != nil {
			return nil, fmt.Errorf("create setting group %q: %w", key, err)
		}

		return &g.ID, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load setting group %q: %w", key, err)
	}

	return &g.ID, nil
}
