package router

import (
	"github.com/CmdDeckHQ/cmddeck-web/app/controllers"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/constants"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Marketing pages
	app.Get(constants.PublicRoute, controllers.HandleHome)
	app.Get(constants.GalleryRoute, controllers.HandleGallery)
	app.Get(constants.PricingRoute, controllers.HandlePricing)
	app.Get(constants.DocsRoute, controllers.HandleDocs)
	app.Get(constants.ThankYouRoute, controllers.HandleThankYou)

	// Release notes
	app.Get(constants.ChangelogRoute, controllers.HandleChangelogIndex)
	app.Get(constants.ChangelogRoute+".json", controllers.HandleChangelogJSON)
	app.Get(constants.ChangelogRoute+"/:version", controllers.HandleChangelogEntry)
}
