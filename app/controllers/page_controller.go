package controllers

import (
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/env"
	"github.com/gofiber/fiber/v2"
)

// Marketing pages. Content lives in the html templates under ./views;
// handlers only pass page metadata and the few dynamic bits.

func HandleHome(c *fiber.Ctx) error {
	return c.Render("home", fiber.Map{
		"Title": "CmdDeck – manage your CLI tools",
		"Page":  "home",
		"IsDev": env.IsDev(),
	}, "layouts/main")
}

func HandleGallery(c *fiber.Ctx) error {
	return c.Render("gallery", fiber.Map{
		"Title": "Gallery – CmdDeck",
		"Page":  "gallery",
	}, "layouts/main")
}

func HandlePricing(c *fiber.Ctx) error {
	return c.Render("pricing", fiber.Map{
		"Title":       "Pricing – CmdDeck",
		"Page":        "pricing",
		"CheckoutURL": env.GetEnv("LEMONSQUEEZY_CHECKOUT_URL", "#"),
		"Plans": []fiber.Map{
			{"Name": "Personal", "Price": "$29", "Activations": 3, "Note": "One-time purchase, 3 devices"},
			{"Name": "Team", "Price": "$99", "Activations": 10, "Note": "One-time purchase, 10 devices"},
		},
	}, "layouts/main")
}

func HandleDocs(c *fiber.Ctx) error {
	return c.Render("docs", fiber.Map{
		"Title": "Docs – CmdDeck",
		"Page":  "docs",
	}, "layouts/main")
}

// HandleThankYou is the post-checkout landing page the store redirects to.
func HandleThankYou(c *fiber.Ctx) error {
	return c.Render("thank-you", fiber.Map{
		"Title": "Thank you – CmdDeck",
		"Page":  "thank-you",
	}, "layouts/main")
}
