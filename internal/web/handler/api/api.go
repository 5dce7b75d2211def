// Package api implements the settings REST API. Owner scope is resolved
// from the owner_type/owner_id query parameters; authorization decisions
// are left to whatever sits in front of this service.
package api

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/settingsd/settingsd/internal/config"
	"github.com/settingsd/settingsd/internal/db/controller/setting"
	"github.com/settingsd/settingsd/internal/db/controller/template"
	"github.com/settingsd/settingsd/internal/db/models"
	"github.com/settingsd/settingsd/internal/settings"
	"github.com/settingsd/settingsd/internal/settings/types"
	"github.com/settingsd/settingsd/internal/web/handler"
)

// Path is the base path of the settings API.
const Path = "/api/v1/settings"

// ErrOwnerPairIncomplete is returned when only one half of the owner
// pair is supplied.
var ErrOwnerPairIncomplete = errors.New("owner_type and owner_id must be supplied together")

// Service is the settings API handler service.
type Service struct {
	cfg       *config.Config
	settings  *settings.Service
	validator *validator.Validate
}

// Handler is the settings API handler.
var Handler = Service{}

// Init initializes the settings API handler and registers its routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, svc *settings.Service) error {
	if app == nil || cfg == nil || svc == nil {
		return errors.New(handler.ErrNilACSFatalLogMsg)
	}

	s.cfg = cfg
	s.settings = svc
	s.validator = validator.New()

	// fixed segments must be registered before the :key routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Index)
		router.Post(handler.RouterRootPath, s.Store)
		router.Post("/bulk", s.Bulk)
		router.Get("/export", s.Export)
		router.Post("/import", s.Import)
		router.Get("/groups", s.Groups)
		router.Post("/templates/:name/apply", s.ApplyTemplate)
		router.Get("/:key", s.Show)
		router.Put("/:key", s.Update)
		router.Delete("/:key", s.Destroy)
		router.Get("/:key/history", s.History)
	})

	return nil
}

type settingResponse struct {
	Key         string    `json:"key"`
	Value       any       `json:"value"`
	Type        string    `json:"type"`
	Group       string    `json:"group"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	IsEncrypted bool      `json:"is_encrypted"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type historyResponse struct {
	OldValue      string    `json:"old_value"`
	NewValue      string    `json:"new_value"`
	ChangedByType string    `json:"changed_by_type,omitempty"`
	ChangedByID   string    `json:"changed_by_id,omitempty"`
	IPAddress     string    `json:"ip_address,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	ChangeReason  string    `json:"change_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type writeRequest struct {
	Key             string   `json:"key" validate:"required"`
	Value           any      `json:"value"`
	Type            string   `json:"type"`
	Group           string   `json:"group"`
	Description     string   `json:"description"`
	IsPublic        *bool    `json:"is_public"`
	IsEncrypted     *bool    `json:"is_encrypted"`
	ValidationRules []string `json:"validation_rules"`
	DefaultValue    string   `json:"default_value"`
	ChangedByType   string   `json:"changed_by_type"`
	ChangedByID     string   `json:"changed_by_id"`
	ChangeReason    string   `json:"change_reason"`
}

type bulkRequest struct {
	Values map[string]any `json:"values" validate:"required,min=1"`
}

type importRequest struct {
	Settings  []settings.ExportedSetting `json:"settings" validate:"required,min=1"`
	Overwrite bool                       `json:"overwrite"`
}

// Index returns all settings of the owner scope, or one group of them.
func (s *Service) Index(c *fiber.Ctx) error {
	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	var rows []models.Setting
	if groupKey := c.Query("group"); groupKey != "" {
		rows, err = s.settings.GetByGroup(c.Context(), groupKey, owner)
	} else {
		rows, err = s.settings.All(c.Context(), owner)
	}
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]settingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, s.respond(&rows[i]))
	}

	return c.JSON(fiber.Map{"settings": out})
}

// Show returns one setting of the owner scope.
func (s *Service) Show(c *fiber.Ctx) error {
	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	row, err := s.settings.Find(c.Context(), c.Params("key"), owner)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(s.respond(row))
}

// Store creates or updates a setting from the request body.
func (s *Service) Store(c *fiber.Ctx) error {
	return s.write(c, "", fiber.StatusCreated)
}

// Update writes the setting named in the path.
func (s *Service) Update(c *fiber.Ctx) error {
	return s.write(c, c.Params("key"), fiber.StatusOK)
}

func (s *Service) write(c *fiber.Ctx, key string, okStatus int) error {
	var req writeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if key != "" {
		req.Key = key
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.settings.Set(c.Context(), req.Key, req.Value, owner, s.optionsFrom(c, &req)); err != nil {
		return s.fail(c, err)
	}

	row, err := s.settings.Find(c.Context(), req.Key, owner)
	if err != nil {
		return s.fail(c, err)
	}

	return c.Status(okStatus).JSON(s.respond(row))
}

// Destroy removes the setting named in the path.
func (s *Service) Destroy(c *fiber.Ctx) error {
	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	existed, err := s.settings.Forget(c.Context(), c.Params("key"), owner)
	if err != nil {
		return s.fail(c, err)
	}

	if !existed {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "setting not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Bulk applies a map of key/value pairs to the owner scope.
func (s *Service) Bulk(c *fiber.Ctx) error {
	var req bulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.settings.SetMultiple(c.Context(), req.Values, owner); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// Export returns the owner scope's settings in the export file format.
func (s *Service) Export(c *fiber.Ctx) error {
	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	var groups []string
	if raw := c.Query("groups"); raw != "" {
		groups = strings.Split(raw, ",")
	}

	items, err := s.settings.Export(c.Context(), owner, groups)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(items)
}

// Import applies a list of exported settings to the owner scope.
func (s *Service) Import(c *fiber.Ctx) error {
	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := s.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.settings.Import(c.Context(), req.Settings, owner, req.Overwrite); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// Groups lists the active setting groups.
func (s *Service) Groups(c *fiber.Ctx) error {
	groups, err := s.settings.Groups(c.Context())
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]fiber.Map, 0, len(groups))
	for _, g := range groups {
		out = append(out, fiber.Map{
			"key":         g.Key,
			"name":        g.Name,
			"description": g.Description,
			"icon":        g.Icon,
			"order":       g.Order,
			"is_active":   g.IsActive,
		})
	}

	return c.JSON(fiber.Map{"groups": out})
}

// ApplyTemplate imports a named template into the owner scope.
func (s *Service) ApplyTemplate(c *fiber.Ctx) error {
	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	if err := s.settings.ApplyTemplate(c.Context(), c.Params("name"), owner, c.QueryBool("overwrite")); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

// History returns the audit trail of one setting.
func (s *Service) History(c *fiber.Ctx) error {
	owner, err := ownerFromRequest(c)
	if err != nil {
		return s.fail(c, err)
	}

	entries, err := s.settings.History(c.Context(), c.Params("key"), owner)
	if err != nil {
		return s.fail(c, err)
	}

	out := make([]historyResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, historyResponse{
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			ChangedByType: entry.ChangedByType,
			ChangedByID:   entry.ChangedByID,
			IPAddress:     entry.IPAddress,
			UserAgent:     entry.UserAgent,
			ChangeReason:  entry.ChangeReason,
			CreatedAt:     entry.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"history": out})
}

func (s *Service) respond(row *models.Setting) settingResponse {
	return settingResponse{
		Key:         row.Key,
		Value:       s.settings.CastValue(row),
		Type:        row.Type,
		Group:       row.GroupKey(),
		Description: row.Description,
		IsPublic:    row.IsPublic,
		IsEncrypted: row.IsEncrypted,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (s *Service) optionsFrom(c *fiber.Ctx, req *writeRequest) settings.Options {
	return settings.Options{
		Type:            req.Type,
		GroupKey:        req.Group,
		Description:     req.Description,
		IsPublic:        req.IsPublic,
		IsEncrypted:     req.IsEncrypted,
		ValidationRules: req.ValidationRules,
		DefaultValue:    req.DefaultValue,
		ChangedBy:       settings.OwnerRef{Kind: req.ChangedByType, ID: req.ChangedByID},
		IPAddress:       c.IP(),
		UserAgent:       c.Get(fiber.HeaderUserAgent),
		ChangeReason:    req.ChangeReason,
	}
}

func ownerFromRequest(c *fiber.Ctx) (settings.OwnerRef, error) {
	kind := c.Query("owner_type")
	id := c.Query("owner_id")

	if (kind == "") != (id == "") {
		return settings.OwnerRef{}, ErrOwnerPairIncomplete
	}

	return settings.OwnerRef{Kind: kind, ID: id}, nil
}

func (s *Service) fail(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("settings api request failed")

		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, setting.ErrSettingNotFound),
		errors.Is(err, template.ErrTemplateNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, settings.ErrValidationFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, types.ErrInvalidType),
		errors.Is(err, setting.ErrSettingKeyEmpty),
		errors.Is(err, settings.ErrEncryptionUnavailable),
		errors.Is(err, ErrOwnerPairIncomplete):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
