package models

import (
	"time"
)

// SettingHistory is an immutable audit record, appended once per
// successful value change. Rows are never updated or deleted by normal
// operation, hence no UpdatedAt.
type SettingHistory struct {
	ID        uint64   `gorm:"primaryKey"`
	SettingID uint64   `gorm:"not null;index:idx_setting_history_setting,priority:1"`
	Setting   *Setting `gorm:"foreignKey:SettingID;constraint:OnDelete:CASCADE"`

	OldValue string `gorm:"type:text"` // raw pre-cast value before the change
	NewValue string `gorm:"type:text"`

	ChangedByType string `gorm:"size:191;index:idx_setting_history_actor,priority:1"`
	ChangedByID   string `gorm:"size:191;index:idx_setting_history_actor,priority:2"`
	IPAddress     string `gorm:"size:64"`
	UserAgent     string `gorm:"type:text"`
	ChangeReason  string `gorm:"size:255"`

	CreatedAt time.Time `gorm:"index:idx_setting_history_setting,priority:2"`
}

// TableName implements the gorm table naming interface.
func (SettingHistory) TableName() string {
	return "setting_history"
}
