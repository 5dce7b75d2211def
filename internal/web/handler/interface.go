package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/settingsd/settingsd/internal/config"
	"github.com/settingsd/settingsd/internal/settings"
)

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, svc *settings.Service) error
}
