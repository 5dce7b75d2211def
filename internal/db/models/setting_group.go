package models

import (
	"time"
)

// SettingGroup is a named category settings can be organized under.
// Deleting a group nulls out the reference on its settings, it never
// cascades to them.
type SettingGroup struct {
	ID          uint64 `gorm:"primaryKey"`
	Key         string `gorm:"size:191;not null;unique"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Icon        string `gorm:"size:255"`
	Order       int    `gorm:"column:sort_order;not null;default:0"`
	IsActive    bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements the gorm table naming interface.
func (SettingGroup) TableName() string {
	return "setting_groups"
}
