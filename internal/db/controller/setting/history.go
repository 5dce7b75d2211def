package setting

import (
	"gorm.io/gorm"

	"github.com/settingsd/settingsd/internal/db/models"
)

// RecordHistory appends one audit row for a value change. Rows are
// append-only; there is no update or delete counterpart.
func RecordHistory(db *gorm.DB, entry *models.SettingHistory) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Create(entry)
	if result.Error != nil {
		return result.Error
	}

	return nil
}

// HistoryForSetting retrieves the audit trail of one setting in change
// order (oldest first).
func HistoryForSetting(db *gorm.DB, settingID uint64) ([]models.SettingHistory, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var entries []models.SettingHistory
	result := db.Where("setting_id = ?", settingID).
		Order("id").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}
