// Package models contains database model definitions.
package models

import (
	"time"
)

// Setting represents a single configurable value, optionally scoped to an
// owner entity. An empty OwnerType/OwnerID pair means the setting is
// global; the composite unique index makes a key unique per owner scope
// and allows exactly one global row per key.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Key   string `gorm:"size:191;not null;uniqueIndex:idx_settings_key_owner,priority:1"`
	Value string `gorm:"type:text"` // raw string encoding, ciphertext when IsEncrypted
	Type  string `gorm:"size:32;not null;default:string"`

	OwnerType string `gorm:"size:191;not null;default:'';uniqueIndex:idx_settings_key_owner,priority:2;index:idx_settings_owner,priority:1"`
	OwnerID   string `gorm:"size:191;not null;default:'';uniqueIndex:idx_settings_key_owner,priority:3;index:idx_settings_owner,priority:2"`

	GroupID *uint64       `gorm:"index"`
	Group   *SettingGroup `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL"`

	IsEncrypted bool `gorm:"not null"`
	IsPublic    bool `gorm:"not null"` // defaulted to true by the service on create

	Description     string         `gorm:"type:text"`
	ValidationRules []string       `gorm:"serializer:json;type:text"`
	DefaultValue    string         `gorm:"type:text"`
	Order           int            `gorm:"column:sort_order;not null;default:0"`
	DependsOn       []string       `gorm:"serializer:json;type:text"`
	Metadata        map[string]any `gorm:"serializer:json;type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements the gorm table naming interface.
func (Setting) TableName() string {
	return "settings"
}

// GroupKey returns the key of the attached group, or "general" when the
// setting is ungrouped. Requires the Group association to be loaded.
func (s *Setting) GroupKey() string {
	if s.Group == nil {
		return "general"
	}

	return s.Group.Key
}
