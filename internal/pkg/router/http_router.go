package router

import (
	"github.com/CmdDeckHQ/cmddeck-web/app/controllers"
	"github.com/CmdDeckHQ/cmddeck-web/app/repository"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/database"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Initialize the repository factory before any controller uses it
	repository.InitializeFactory(database.GetDB())

	// Initialize changelog controller with repository
	controllers.InitializeChangelogController()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
