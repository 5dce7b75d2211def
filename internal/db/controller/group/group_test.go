package group

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

	// referential actions need the foreign_keys pragma under sqlite
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Setting{}, &models.SettingGroup{}))

	return db
}

func TestUpsert(t *testing.T) {
	db := setupTestDB(t)

	g := &models.SettingGroup{Key: "general", Name: "General", IsActive: true}
	require.NoError(t, Upsert(db, g))
	require.NotZero(t, g.ID)

	// a second upsert with the same key updates in place
	require.NoError(t, Upsert(db, &models.SettingGroup{Key: "general", Name: "Renamed", IsActive: true}))

	got, err := GetByKey(db, "general")
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, "Renamed", got.Name)

	assert.ErrorIs(t, Upsert(db, &models.SettingGroup{}), ErrGroupKeyEmpty)
}

func TestGetByKey(t *testing.T) {
	db := setupTestDB(t)

	_, err := GetByKey(db, "missing")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	_, err = GetByKey(db, "")
	assert.ErrorIs(t, err, ErrGroupKeyEmpty)

	_, err = GetByKey(nil, "x")
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestGetActive(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Upsert(db, &models.SettingGroup{Key: "b", Name: "B", Order: 2, IsActive: true}))
	require.NoError(t, Upsert(db, &models.SettingGroup{Key: "a", Name: "A", Order: 1, IsActive: true}))
	require.NoError(t, db.Create(&models.SettingGroup{Key: "hidden", Name: "Hidden"}).Error)
	require.NoError(t, db.Model(&models.SettingGroup{}).
		Where("key = ?", "hidden").Update("is_active", false).Error)

	groups, err := GetActive(db)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "a", groups[0].Key)
	assert.Equal(t, "b", groups[1].Key)
}

func TestDeleteNullsSettingReference(t *testing.T) {
	db := setupTestDB(t)

	g := &models.SettingGroup{Key: "general", Name: "General", IsActive: true}
	require.NoError(t, Upsert(db, g))

	require.NoError(t, db.Create(&models.Setting{Key: "app_name", GroupID: &g.ID}).Error)

	require.NoError(t, Delete(db, "general"))
	assert.ErrorIs(t, Delete(db, "general"), ErrGroupNotFound)

	// the setting survives with its group reference cleared
	var row models.Setting
	require.NoError(t, db.Where("key = ?", "app_name").First(&row).Error)
	assert.Nil(t, row.GroupID)
}
