package models

import (
	"time"
)

// Permission kinds grantable on a single setting.
const (
	PermissionView   = "view"
	PermissionEdit   = "edit"
	PermissionDelete = "delete"
)

// SettingPermission is a per-setting grant. The permission decision
// itself is made by the embedding application; this model only carries
// enough data (setting + grantee) for that decision.
type SettingPermission struct {
	ID        uint64   `gorm:"primaryKey"`
	SettingID uint64   `gorm:"not null;uniqueIndex:idx_setting_permissions_grant,priority:1"`
	Setting   *Setting `gorm:"foreignKey:SettingID;constraint:OnDelete:CASCADE"`

	GranteeType string `gorm:"size:191;not null;uniqueIndex:idx_setting_permissions_grant,priority:2"`
	GranteeID   string `gorm:"size:191;not null;uniqueIndex:idx_setting_permissions_grant,priority:3"`
	Permission  string `gorm:"size:32;not null;uniqueIndex:idx_setting_permissions_grant,priority:4"`

	GrantedByType string `gorm:"size:191"`
	GrantedByID   string `gorm:"size:191"`

	CreatedAt time.Time
}

// TableName implements the gorm table naming interface.
func (SettingPermission) TableName() string {
	return "setting_permissions"
}
