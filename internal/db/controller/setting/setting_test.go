package setting

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

	require.NoError(t, db.AutoMigrate(
		&models.Setting{},
		&models.SettingGroup{},
		&models.SettingHistory{},
		&models.SettingPermission{},
	))

	return db
}

func TestFindByKey(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, &models.Setting{Key: "app_name", Value: "settingsd", Type: "string"}))
	require.NoError(t, Create(db, &models.Setting{
		Key: "app_name", Value: "scoped", Type: "string", OwnerType: "team", OwnerID: "1",
	}))

	tests := []struct {
		name          string
		key           string
		ownerType     string
		ownerID       string
		expectedValue string
		expectedErr   error
	}{
		{
			name:          "global scope",
			key:           "app_name",
			expectedValue: "settingsd",
		},
		{
			name:          "owner scope",
			key:           "app_name",
			ownerType:     "team",
			ownerID:       "1",
			expectedValue: "scoped",
		},
		{
			name:        "wrong owner",
			key:         "app_name",
			ownerType:   "team",
			ownerID:     "2",
			expectedErr: ErrSettingNotFound,
		},
		{
			name:        "unknown key",
			key:         "nope",
			expectedErr: ErrSettingNotFound,
		},
		{
			name:        "empty key",
			expectedErr: ErrSettingKeyEmpty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindByKey(db, tc.key, tc.ownerType, tc.ownerID)

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedValue, got.Value)
		})
	}
}

func TestFindByKeyNilDB(t *testing.T) {
	_, err := FindByKey(nil, "x", "", "")
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestCreateDuplicate(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, &models.Setting{Key: "k", Value: "1"}))

	err := Create(db, &models.Setting{Key: "k", Value: "2"})
	assert.ErrorIs(t, err, ErrSettingAlreadyExists)

	// the same key under another owner is a distinct row
	require.NoError(t, Create(db, &models.Setting{Key: "k", Value: "3", OwnerType: "user", OwnerID: "1"}))
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)

	row := &models.Setting{Key: "k", Value: "1"}
	require.NoError(t, Create(db, row))

	row.Value = "2"
	require.NoError(t, Update(db, row))

	got, err := FindByKey(db, "k", "", "")
	require.NoError(t, err)
	assert.Equal(t, "2", got.Value)

	assert.ErrorIs(t, Update(db, &models.Setting{Key: "unsaved"}), ErrSettingNotFound)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Create(db, &models.Setting{Key: "k", Value: "1"}))

	require.NoError(t, Delete(db, "k", "", ""))
	assert.ErrorIs(t, Delete(db, "k", "", ""), ErrSettingNotFound)
	assert.ErrorIs(t, Delete(db, "", "", ""), ErrSettingKeyEmpty)
}

func createGroup(t *testing.T, db *gorm.DB, key string) *models.SettingGroup {
	t.Helper()

	g := &models.SettingGroup{Key: key, Name: key, IsActive: true}
	require.NoError(t, db.Create(g).Error)

	return g
}

func TestGetAllForOwnerOrdering(t *testing.T) {
	db := setupTestDB(t)

	g := createGroup(t, db, "general")

	require.NoError(t, Create(db, &models.Setting{Key: "b", Order: 2, GroupID: &g.ID}))
	require.NoError(t, Create(db, &models.Setting{Key: "a", Order: 1}))
	require.NoError(t, Create(db, &models.Setting{Key: "other", OwnerType: "team", OwnerID: "1"}))

	rows, err := GetAllForOwner(db, "", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "a", rows[0].Key)
	assert.Equal(t, "b", rows[1].Key)
	require.NotNil(t, rows[1].Group)
	assert.Equal(t, "general", rows[1].Group.Key)
}

func TestGetByGroup(t *testing.T) {
	db := setupTestDB(t)

	general := createGroup(t, db, "general")
	email := createGroup(t, db, "email")

	require.NoError(t, Create(db, &models.Setting{Key: "app_name", GroupID: &general.ID}))
	require.NoError(t, Create(db, &models.Setting{Key: "smtp_host", GroupID: &email.ID}))
	require.NoError(t, Create(db, &models.Setting{Key: "ungrouped"}))

	rows, err := GetByGroup(db, "general", "", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "app_name", rows[0].Key)

	rows, err = GetByGroup(db, "unknown", "", "")
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = GetByGroup(db, "", "", "")
	assert.ErrorIs(t, err, ErrSettingKeyEmpty)
}

func TestGetForExport(t *testing.T) {
	db := setupTestDB(t)

	general := createGroup(t, db, "general")
	email := createGroup(t, db, "email")

	require.NoError(t, Create(db, &models.Setting{Key: "app_name", GroupID: &general.ID}))
	require.NoError(t, Create(db, &models.Setting{Key: "smtp_host", GroupID: &email.ID}))
	require.NoError(t, Create(db, &models.Setting{Key: "ungrouped"}))

	rows, err := GetForExport(db, "", "", nil)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = GetForExport(db, "", "", []string{"email"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "smtp_host", rows[0].Key)
}

func TestRecordHistory(t *testing.T) {
	db := setupTestDB(t)

	row := &models.Setting{Key: "k", Value: "1"}
	require.NoError(t, Create(db, row))

	require.NoError(t, RecordHistory(db, &models.SettingHistory{
		SettingID: row.ID, OldValue: "", NewValue: "1", ChangedByType: "user", ChangedByID: "7",
	}))
	require.NoError(t, RecordHistory(db, &models.SettingHistory{
		SettingID: row.ID, OldValue: "1", NewValue: "2",
	}))

	entries, err := HistoryForSetting(db, row.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "1", entries[0].NewValue)
	assert.Equal(t, "2", entries[1].NewValue)
	assert.Equal(t, "user", entries[0].ChangedByType)
}

func TestPermissions(t *testing.T) {
	db := setupTestDB(t)

	row := &models.Setting{Key: "k", Value: "1"}
	require.NoError(t, Create(db, row))

	grant := &models.SettingPermission{
		SettingID:   row.ID,
		GranteeType: "user",
		GranteeID:   "7",
		Permission:  models.PermissionEdit,
	}
	require.NoError(t, GrantPermission(db, grant))

	// granting the same permission again is a no-op
	require.NoError(t, GrantPermission(db, &models.SettingPermission{
		SettingID:   row.ID,
		GranteeType: "user",
		GranteeID:   "7",
		Permission:  models.PermissionEdit,
	}))

	grants, err := PermissionsForSetting(db, row.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, models.PermissionEdit, grants[0].Permission)

	require.NoError(t, RevokePermission(db, row.ID, "user", "7", models.PermissionEdit))
	assert.ErrorIs(t,
		RevokePermission(db, row.ID, "user", "7", models.PermissionEdit),
		ErrPermissionNotFound)
}
