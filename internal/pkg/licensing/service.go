package licensing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/CmdDeckHQ/cmddeck-web/app/models"
	"gorm.io/gorm"
)

// EventStore persists webhook deliveries for idempotent processing.
// Webhook delivery is at-least-once; the store keys events on the
// provider's event id so redeliveries are detected before any handler
// runs.
type EventStore interface {
	RecordEvent(ctx context.Context, in EventInput) (created bool, stored *models.WebhookEvent, err error)
	MarkProcessed(ctx context.Context, eventID uint, processingErr error) error
}

// Service implements EventStore on top of an injected repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a licensing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// RecordEvent persists a webhook payload idempotently. Deliveries without
// a provider event id fall back to a payload hash so duplicates of the
// exact same body still dedupe.
func (s *Service) RecordEvent(ctx context.Context, in EventInput) (bool, *models.WebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventName:       strings.TrimSpace(in.EventName),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateEventIfNotExists(event)
}

// MarkProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkProcessed(ctx context.Context, eventID uint, processingErr error) error {
	_ = ctx
	if eventID == 0 {
		return errors.New("webhook event id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkEventProcessed(eventID, errMsg)
}
