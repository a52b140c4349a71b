package router

import (
	"github.com/CmdDeckHQ/cmddeck-web/app/controllers"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	admin := app.Group("/admin", middleware.AdminAuthMiddleware())

	admin.Post("/changelog", controllers.HandleAdminChangelogCreate)
	admin.Put("/changelog/:id", controllers.HandleAdminChangelogUpdate)
	admin.Delete("/changelog/:id", controllers.HandleAdminChangelogDelete)
}
