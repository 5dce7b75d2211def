package template

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/settingsd/settingsd/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.SettingTemplate{}))

	return db
}

func TestFindByName(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, &models.SettingTemplate{
		Name:         "webshop-defaults",
		Category:     "general",
		SettingsData: "[]",
		IsActive:     true,
	}))
	require.NoError(t, db.Create(&models.SettingTemplate{
		Name:         "retired",
		Category:     "general",
		SettingsData: "[]",
	}).Error)
	require.NoError(t, db.Model(&models.SettingTemplate{}).
		Where("name = ?", "retired").Update("is_active", false).Error)

	got, err := FindByName(db, "webshop-defaults")
	require.NoError(t, err)
	assert.Equal(t, "general", got.Category)

	// inactive templates are invisible
	_, err = FindByName(db, "retired")
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = FindByName(db, "")
	assert.ErrorIs(t, err, ErrTemplateNameEmpty)
}

func TestGetByCategory(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, &models.SettingTemplate{
		Name: "a", Category: "general", SettingsData: "[]", IsActive: true,
	}))
	require.NoError(t, Create(db, &models.SettingTemplate{
		Name: "b", Category: "email", SettingsData: "[]", IsActive: true,
	}))

	templates, err := GetByCategory(db, "general")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "a", templates[0].Name)
}

func TestCreateEmptyName(t *testing.T) {
	db := setupTestDB(t)

	assert.ErrorIs(t, Create(db, &models.SettingTemplate{}), ErrTemplateNameEmpty)
	assert.ErrorIs(t, Create(nil, &models.SettingTemplate{Name: "x"}), ErrDBNil)
}
