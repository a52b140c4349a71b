package controllers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/CmdDeckHQ/cmddeck-web/app/models"
	"github.com/CmdDeckHQ/cmddeck-web/app/repository"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/cache"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/metrics/counter"
	"github.com/gofiber/fiber/v2"
)

const (
	changelogCacheKey = "changelog:published:json"
	changelogCacheTTL = 5 * time.Minute
	changelogPageSize = 50
)

var changelogRepo repository.ChangelogRepository

// InitializeChangelogController wires the changelog endpoints to the
// repository factory.
func InitializeChangelogController() {
	changelogRepo = repository.GetGlobalFactory().GetChangelogRepository()
}

// SetChangelogRepository overrides the repository (tests).
func SetChangelogRepository(repo repository.ChangelogRepository) {
	changelogRepo = repo
}

// HandleChangelogIndex renders the public changelog page.
func HandleChangelogIndex(c *fiber.Ctx) error {
	entries, err := changelogRepo.GetPublished(0, changelogPageSize)
	if err != nil {
		log.Printf("changelog page query failed: %v", err)
		entries = nil
	}
	return c.Render("changelog", fiber.Map{
		"Title":   "Changelog – CmdDeck",
		"Page":    "changelog",
		"Entries": entries,
	}, "layouts/main")
}

// HandleChangelogEntry renders a single release's notes by version.
// Views are counted in the cache and drained to the database in batches.
func HandleChangelogEntry(c *fiber.Ctx) error {
	version := c.Params("version")
	entry, err := changelogRepo.GetByVersion(version)
	if err != nil || entry == nil || !entry.Published {
		return c.Status(fiber.StatusNotFound).Render("changelog_entry", fiber.Map{
			"Title":    "Release not found – CmdDeck",
			"Page":     "changelog",
			"NotFound": true,
		}, "layouts/main")
	}

	if err := counter.AddChangelogView(entry.ID); err != nil {
		log.Printf("changelog view count failed: %v", err)
	}

	return c.Render("changelog_entry", fiber.Map{
		"Title": "CmdDeck " + entry.Version + " – Release Notes",
		"Page":  "changelog",
		"Entry": entry,
	}, "layouts/main")
}

// HandleChangelogJSON serves the published changelog as JSON for the
// desktop app's update screen. Responses are cached briefly.
func HandleChangelogJSON(c *fiber.Ctx) error {
	if cached, err := cache.Get(changelogCacheKey); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	entries, err := changelogRepo.GetPublished(0, changelogPageSize)
	if err != nil {
		log.Printf("changelog query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	payload, err := json.Marshal(fiber.Map{"changelogs": entries})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if err := cache.Set(changelogCacheKey, string(payload), changelogCacheTTL); err != nil {
		log.Printf("changelog cache set failed: %v", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// HandleAdminChangelogCreate creates a changelog entry (admin token
// protected).
func HandleAdminChangelogCreate(c *fiber.Ctx) error {
	var entry models.Changelog
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid changelog payload"})
	}
	entry.ID = 0
	if err := validate.Struct(entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := changelogRepo.Create(&entry); err != nil {
		log.Printf("changelog create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not create changelog entry"})
	}

	invalidateChangelogCache()
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleAdminChangelogUpdate updates an existing entry by id.
func HandleAdminChangelogUpdate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid changelog id"})
	}

	entry, err := changelogRepo.GetByID(uint64(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Changelog entry not found"})
	}

	if err := c.BodyParser(entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid changelog payload"})
	}
	entry.ID = uint64(id)
	if err := validate.Struct(entry); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": err.Error()})
	}

	if err := changelogRepo.Update(entry); err != nil {
		log.Printf("changelog update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not update changelog entry"})
	}

	invalidateChangelogCache()
	return c.Status(fiber.StatusOK).JSON(entry)
}

// HandleAdminChangelogDelete removes an entry by id.
func HandleAdminChangelogDelete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid changelog id"})
	}

	if err := changelogRepo.Delete(uint64(id)); err != nil {
		log.Printf("changelog delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not delete changelog entry"})
	}

	invalidateChangelogCache()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"deleted": true})
}

func invalidateChangelogCache() {
	if err := cache.Delete(changelogCacheKey); err != nil {
		log.Printf("changelog cache invalidation failed: %v", err)
	}
}
