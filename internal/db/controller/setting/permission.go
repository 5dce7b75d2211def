package setting

import (
	"errors"

	"gorm.io/gorm"

	"github.com/settingsd/settingsd/internal/db/models"
)

// ErrPermissionNotFound is returned when no grant matches.
var ErrPermissionNotFound = errors.New("setting permission not found")

// GrantPermission stores a per-setting grant. Granting the same
// permission twice to the same grantee is a no-op.
func GrantPermission(db *gorm.DB, grant *models.SettingPermission) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Create(grant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil
		}
		return result.Error
	}

	return nil
}

// RevokePermission removes a grant.
func RevokePermission(db *gorm.DB, settingID uint64, granteeType, granteeID, permission string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where(
		"setting_id = ? AND grantee_type = ? AND grantee_id = ? AND permission = ?",
		settingID, granteeType, granteeID, permission,
	).Delete(&models.SettingPermission{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPermissionNotFound
	}

	return nil
}

// PermissionsForSetting retrieves all grants on one setting so the
// embedding application can make its authorization decision.
func PermissionsForSetting(db *gorm.DB, settingID uint64) ([]models.SettingPermission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grants []models.SettingPermission
	result := db.Where("setting_id = ?", settingID).Find(&grants)
	if result.Error != nil {
		return nil, result.Error
	}

	return grants, nil
}
