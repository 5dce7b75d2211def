package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/settingsd/settingsd/internal/db/controller/group"
	"github.com/settingsd/settingsd/internal/db/controller/setting"
	"github.com/settingsd/settingsd/internal/db/models"
)

type seedGroup struct {
	key   string
	name  string
	icon  string
	order int
}

type seedSetting struct {
	key         string
	value       string
	typeTag     string
	group       string
	description string
	order       int
}

var defaultGroups = []seedGroup{
	{key: "general", name: "General", icon: "settings", order: 1},
	{key: "appearance", name: "Appearance", icon: "palette", order: 2},
	{key: "notifications", name: "Notifications", icon: "bell", order: 3},
	{key: "security", name: "Security", icon: "shield", order: 4},
	{key: "api", name: "API", icon: "code", order: 5},
	{key: "email", name: "Email", icon: "mail", order: 6},
	{key: "social", name: "Social", icon: "share", order: 7},
}

var defaultSettings = []seedSetting{
	{key: "app_name", value: "My Application", typeTag: "string", group: "general", description: "Application name", order: 1},
	{key: "app_timezone", value: "UTC", typeTag: "string", group: "general", description: "Default timezone", order: 2},
	{key: "currency", value: "USD", typeTag: "string", group: "general", description: "Default currency code", order: 3},
	{key: "maintenance_mode", value: "0", typeTag: "boolean", group: "general", description: "Take the application offline", order: 4},
	{key: "date_format", value: "Y-m-d", typeTag: "string", group: "appearance", description: "Date display format", order: 1},
	{key: "time_format", value: "H:i", typeTag: "string", group: "appearance", description: "Time display format", order: 2},
	{key: "items_per_page", value: "25", typeTag: "integer", group: "appearance", description: "Default pagination size", order: 3},
}

// seed creates the default groups and global settings. Existing rows are
// left alone, so operator changes survive restarts.
func seed(db *gorm.DB) {
	groupIDs := make(map[string]uint64, len(defaultGroups))

	for _, sg := range defaultGroups {
		existing, err := group.GetByKey(db, sg.key)
		if err == nil {
			groupIDs[sg.key] = existing.ID
			continue
		}
		if !errors.Is(err, group.ErrGroupNotFound) {
			log.Error().Err(err).Str("group", sg.key).Msg("seed: group lookup failed")
			continue
		}

		g := &models.SettingGroup{
			Key:      sg.key,
			Name:     sg.name,
			Icon:     sg.icon,
			Order:    sg.order,
			IsActive: true,
		}
		if err := group.Upsert(db, g); err != nil {
			log.Error().Err(err).Str("group", sg.key).Msg("seed: group create failed")
			continue
		}

		groupIDs[sg.key] = g.ID
	}

	for _, ss := range defaultSettings {
		_, err := setting.FindByKey(db, ss.key, "", "")
		if err == nil {
			continue
		}
		if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Error().Err(err).Str("key", ss.key).Msg("seed: setting lookup failed")
			continue
		}

		row := &models.Setting{
			Key:         ss.key,
			Value:       ss.value,
			Type:        ss.typeTag,
			Description: ss.description,
			Order:       ss.order,
			IsPublic:    true,
		}
		if id, ok := groupIDs[ss.group]; ok {
			groupID := id
			row.GroupID = &groupID
		}

		if err := setting.Create(db, row); err != nil {
			log.Error().Err(err).Str("key", ss.key).Msg("seed: setting create failed")
		}
	}
}
