// Package setting provides CRUD and query operations for owner-scoped settings.
package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/settingsd/settingsd/internal/db/models"
)

const (
	keyOwnerQueryPattern = "settings.key = ? AND settings.owner_type = ? AND settings.owner_id = ?"
	ownerQueryPattern    = "settings.owner_type = ? AND settings.owner_id = ?"
	orderColumn          = "settings.sort_order"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingKeyEmpty is returned when attempting an operation with an empty key.
	ErrSettingKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists for this owner")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// FindByKey retrieves a setting by key within one owner scope. Empty
// ownerType/ownerID addresses the global scope.
func FindByKey(db *gorm.DB, key, ownerType, ownerID string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrSettingKeyEmpty
	}

	var setting models.Setting
	result := db.Preload("Group").
		Where(keyOwnerQueryPattern, key, ownerType, ownerID).
		First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, result.Error
	}

	return &setting, nil
}

// GetAllForOwner retrieves all settings of one owner scope ordered by
// their sort rank, with groups attached.
func GetAllForOwner(db *gorm.DB, ownerType, ownerID string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var settings []models.Setting
	result := db.Preload("Group").
		Where(ownerQueryPattern, ownerType, ownerID).
		Order(orderColumn).
		Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetByGroup retrieves the settings of one owner scope that belong to
// the group with the given key, ordered by sort rank.
func GetByGroup(db *gorm.DB, groupKey, ownerType, ownerID string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if groupKey == "" {
		return nil, ErrSettingKeyEmpty
	}

	var settings []models.Setting
	result := db.Preload("Group").
		Joins("JOIN setting_groups ON setting_groups.id = settings.group_id").
		Where("setting_groups.key = ?", groupKey).
		Where(ownerQueryPattern, ownerType, ownerID).
		Order(orderColumn).
		Find(&settings)
	if result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// GetForExport retrieves the settings of one owner scope, optionally
// restricted to a set of group keys.
func GetForExport(db *gorm.DB, ownerType, ownerID string, groups []string) ([]models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Preload("Group").
		Where(ownerQueryPattern, ownerType, ownerID).
		Order(orderColumn)

	if len(groups) > 0 {
		query = query.
			Joins("JOIN setting_groups ON setting_groups.id = settings.group_id").
			Where("setting_groups.key IN ?", groups)
	}

	var settings []models.Setting
	if result := query.Find(&settings); result.Error != nil {
		return nil, result.Error
	}

	return settings, nil
}

// Create inserts a new setting. A violation of the (key, owner) unique
// constraint is reported as ErrSettingAlreadyExists so callers can retry
// as an update.
func Create(db *gorm.DB, setting *models.Setting) error {
	if db == nil {
		return ErrDBNil
	}
	if setting.Key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.Create(setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrSettingAlreadyExists
		}
		return result.Error
	}

	return nil
}

// Update persists all fields of an existing setting.
func Update(db *gorm.DB, setting *models.Setting) error {
	if db == nil {
		return ErrDBNil
	}
	if setting.ID == 0 {
		return ErrSettingNotFound
	}

	result := db.Save(setting)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// Delete removes a setting by key within one owner scope.
func Delete(db *gorm.DB, key, ownerType, ownerID string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrSettingKeyEmpty
	}

	result := db.Where(keyOwnerQueryPattern, key, ownerType, ownerID).
		Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
