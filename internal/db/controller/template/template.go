// Package template provides CRUD operations for setting templates.
package template

import (
	"errors"

	"gorm.io/gorm"

	"github.com/settingsd/settingsd/internal/db/models"
)

var (
	// ErrTemplateNotFound is returned when a template is not found.
	ErrTemplateNotFound = errors.New("setting template not found")
	// ErrTemplateNameEmpty is returned when attempting an operation with an empty name.
	ErrTemplateNameEmpty = errors.New("setting template name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// FindByName retrieves an active template by name.
func FindByName(db *gorm.DB, name string) (*models.SettingTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrTemplateNameEmpty
	}

	var tpl models.SettingTemplate
	result := db.Where("name = ? AND is_active = ?", name, true).First(&tpl)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, result.Error
	}

	return &tpl, nil
}

// GetByCategory retrieves all active templates of one category.
func GetByCategory(db *gorm.DB, category string) ([]models.SettingTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var templates []models.SettingTemplate
	result := db.Where("category = ? AND is_active = ?", category, true).Find(&templates)
	if result.Error != nil {
		return nil, result.Error
	}

	return templates, nil
}

// Create inserts a new template.
func Create(db *gorm.DB, tpl *models.SettingTemplate) error {
	if db == nil {
		return ErrDBNil
	}
	if tpl.Name == "" {
		return ErrTemplateNameEmpty
	}

	return db.Create(tpl).Error
}
