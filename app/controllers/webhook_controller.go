package controllers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/CmdDeckHQ/cmddeck-web/app/models"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/database"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/env"
	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/licensing"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	webhookEvents     licensing.EventStore
	webhookDispatcher *licensing.Dispatcher
)

// InitializeWebhookController wires the webhook endpoint to the database
// backed event store and the default dispatcher.
func InitializeWebhookController() {
	webhookEvents = licensing.NewServiceFromDB(database.GetDB())
	webhookDispatcher = licensing.NewDispatcher()
}

// SetWebhookDependencies overrides the webhook collaborators (tests).
func SetWebhookDependencies(store licensing.EventStore, d *licensing.Dispatcher) {
	webhookEvents = store
	webhookDispatcher = d
}

// HandleWebhook receives commerce platform notifications (no CSRF,
// signature-verified against the raw body). Every delivery is recorded
// with its computed signature validity before the response is decided;
// lifecycle handlers only run for accepted payloads whose event id was
// not already processed successfully.
func HandleWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("X-Signature"))
	secret := env.GetEnv("LEMONSQUEEZY_WEBHOOK_SECRET", "")
	requestID := uuid.New().String()

	signatureValid := signature != "" && secret != "" &&
		licensing.VerifyWebhookSignature(rawBody, signature, secret)

	// Parse up front so the recorded row carries the event name; a parse
	// failure is decided after the signature checks.
	ev, parseErr := licensing.ParseWebhookEvent(rawBody)
	eventName := ""
	if ev != nil {
		eventName = ev.EventName
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	created, stored, err := webhookEvents.RecordEvent(ctx, licensing.EventInput{
		Provider:        licensing.ProviderLemonSqueezy,
		ProviderEventID: firstHeaderValue(c, "X-Event-Id", "X-Event-ID"),
		EventName:       eventName,
		PayloadJSON:     string(rawBody),
		SignatureValid:  signatureValid,
	})
	if err != nil {
		log.Printf("[Webhook %s] event persist failed: %v", requestID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	// Rejections below only stamp rows they created; a replay must not
	// clobber the stored outcome of an earlier delivery.
	if signature == "" || secret == "" {
		if created {
			_ = webhookEvents.MarkProcessed(ctx, stored.ID, errors.New("missing signature header or webhook secret"))
		}
		log.Printf("[Webhook %s] missing signature header or webhook secret", requestID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if !signatureValid {
		if created {
			_ = webhookEvents.MarkProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		}
		log.Printf("[Webhook %s] signature verification failed", requestID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}
	if parseErr != nil {
		if created {
			_ = webhookEvents.MarkProcessed(ctx, stored.ID, parseErr)
		}
		log.Printf("[Webhook %s] malformed payload: %v", requestID, parseErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if !created && eventProcessedCleanly(stored) {
		// Redelivery of an event we already handled; acknowledge without
		// running the handlers again. Rows whose earlier attempt was
		// rejected or failed fall through so the retry can complete them.
		log.Printf("[Webhook %s] duplicate delivery of %s (%s)", requestID, stored.ProviderEventID, ev.EventName)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	}

	dispatchErr := webhookDispatcher.Dispatch(ev)
	_ = webhookEvents.MarkProcessed(ctx, stored.ID, dispatchErr)
	if dispatchErr != nil {
		log.Printf("[Webhook %s] processing %s failed: %v", requestID, ev.EventName, dispatchErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

func eventProcessedCleanly(ev *models.WebhookEvent) bool {
	return ev.ProcessedAt != nil && ev.ProcessingError == ""
}

func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}
