package router

import (
	"strconv"
	"time"

	"github.com/CmdDeckHQ/cmddeck-web/app/controllers"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/constants"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/env"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	controllers.InitializeLicenseController()
	controllers.InitializeWebhookController()

	// License endpoints are called by the desktop app; rate limit them
	// across instances via the shared cache.
	license := app.Group(constants.LicenseGroupRoute, limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Storage:    newLimiterStorage(),
	}))
	license.Post(constants.LicenseValidateRoute, controllers.HandleLicenseValidate)
	license.Post(constants.LicenseActivateRoute, controllers.HandleLicenseActivate)

	// Commerce platform webhook (no CSRF, signature-verified in controller)
	app.Post(constants.WebhookRoute, controllers.HandleWebhook)
}

func newLimiterStorage() *redisstorage.Storage {
	port, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379"))
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     env.GetEnv("CACHE_HOST", "localhost"),
		Port:     port,
		Database: 1,
	})
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
