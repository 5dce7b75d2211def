package models

import (
	"time"
)

// SettingTemplate is a named bundle of settings data used for
// bulk-applying default sets. SettingsData holds a JSON array in the
// export file format; applying a template runs it through the regular
// import path.
type SettingTemplate struct {
	ID           uint64 `gorm:"primaryKey"`
	Name         string `gorm:"size:255;not null"`
	Description  string `gorm:"type:text"`
	Category     string `gorm:"size:191;not null;default:general;index:idx_setting_templates_category,priority:1"`
	SettingsData string `gorm:"type:text;not null"`
	IsActive     bool   `gorm:"not null;default:true;index:idx_setting_templates_category,priority:2"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements the gorm table naming interface.
func (SettingTemplate) TableName() string {
	return "setting_templates"
}
