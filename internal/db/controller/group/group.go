// Package group provides CRUD operations for setting groups.
package group

import (
	"errors"

	"gorm.io/gorm"

	"github.com/settingsd/settingsd/internal/db/models"
)

var (
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("setting group not found")
	// ErrGroupKeyEmpty is returned when attempting an operation with an empty group key.
	ErrGroupKeyEmpty = errors.New("setting group key cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetByKey retrieves a group by its key.
func GetByKey(db *gorm.DB, key string) (*models.SettingGroup, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrGroupKeyEmpty
	}

	var g models.SettingGroup
	result := db.Where("key = ?", key).First(&g)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}

	return &g, nil
}

// GetActive retrieves all active groups ordered by sort rank.
func GetActive(db *gorm.DB) ([]models.SettingGroup, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.SettingGroup
	result := db.Where("is_active = ?", true).Order("sort_order").Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

// Upsert creates a group or updates an existing one by key.
func Upsert(db *gorm.DB, g *models.SettingGroup) error {
	if db == nil {
		return ErrDBNil
	}
	if g.Key == "" {
		return ErrGroupKeyEmpty
	}

	existing, err := GetByKey(db, g.Key)
	if errors.Is(err, ErrGroupNotFound) {
		return db.Create(g).Error
	}
	if err != nil {
		return err
	}

	g.ID = existing.ID
	g.CreatedAt = existing.CreatedAt

	return db.Save(g).Error
}

// Delete removes a group by key. Settings referencing it keep existing
// with a nulled group reference.
func Delete(db *gorm.DB, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrGroupKeyEmpty
	}

	result := db.Where("key = ?", key).Delete(&models.SettingGroup{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}
