package licensing

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/mail"
)

// Webhook event names the platform currently sends. The set is open-ended
// upstream, so dispatching falls back to ignore-and-log for anything else.
const (
	EventOrderCreated          = "order_created"
	EventOrderRefunded         = "order_refunded"
	EventSubscriptionCreated   = "subscription_created"
	EventSubscriptionUpdated   = "subscription_updated"
	EventSubscriptionCancelled = "subscription_cancelled"
	EventLicenseKeyCreated     = "license_key_created"
	EventLicenseKeyUpdated     = "license_key_updated"
)

// EventAttributes carries the union of payload fields the lifecycle
// handlers read. Fields absent from a given event type stay zero; handlers
// must tolerate that.
type EventAttributes struct {
	UserEmail       string  `json:"user_email"`
	UserName        string  `json:"user_name"`
	TotalFormatted  string  `json:"total_formatted"`
	Status          string  `json:"status"`
	RefundedAt      *string `json:"refunded_at"`
	Key             string  `json:"key"`
	ActivationLimit int     `json:"activation_limit"`
}

// WebhookEvent is a parsed webhook envelope. CustomData holds the
// checkout's custom fields (e.g. email, name); order-level attributes are
// the fallback when they are absent.
type WebhookEvent struct {
	EventName  string
	DataID     string
	CustomData map[string]string
	Attributes EventAttributes
}

// ParseWebhookEvent decodes a verified raw payload into its envelope.
// The caller must only pass bodies that already passed signature
// verification.
func ParseWebhookEvent(payload []byte) (*WebhookEvent, error) {
	type rawPayload struct {
		Meta struct {
			EventName  string                 `json:"event_name"`
			CustomData map[string]interface{} `json:"custom_data"`
		} `json:"meta"`
		Data struct {
			ID         string          `json:"id"`
			Attributes json.RawMessage `json:"attributes"`
		} `json:"data"`
	}

	var raw rawPayload
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(raw.Meta.EventName)
	if name == "" {
		return nil, errors.New("webhook payload missing meta.event_name")
	}

	ev := &WebhookEvent{
		EventName:  name,
		DataID:     strings.TrimSpace(raw.Data.ID),
		CustomData: map[string]string{},
	}
	for k, v := range raw.Meta.CustomData {
		if s, ok := v.(string); ok {
			ev.CustomData[k] = s
		}
	}
	if len(raw.Data.Attributes) > 0 {
		if err := json.Unmarshal(raw.Data.Attributes, &ev.Attributes); err != nil {
			return nil, fmt.Errorf("webhook payload has malformed data.attributes: %w", err)
		}
	}
	return ev, nil
}

// Dispatcher routes parsed webhook events to their lifecycle handlers.
// Handlers are idempotent and their failures are independent of each
// other; redelivery of the same event id is filtered out before dispatch
// by the event store.
type Dispatcher struct {
	// SendMail delivers the order confirmation email. Tests swap it out.
	SendMail func(to, subject, body string) error
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{SendMail: mail.SendMail}
}

// Dispatch invokes the handler matching ev. Event names without a handler
// (including kinds the platform may add later) are logged and ignored.
func (d *Dispatcher) Dispatch(ev *WebhookEvent) error {
	switch ev.EventName {
	case EventOrderCreated:
		return d.handleOrderCreated(ev)
	case EventLicenseKeyCreated:
		return d.handleLicenseKeyCreated(ev)
	case EventOrderRefunded:
		return d.handleOrderRefunded(ev)
	default:
		log.Printf("[Webhook] ignoring unhandled event: %s", ev.EventName)
		return nil
	}
}

func (d *Dispatcher) handleOrderCreated(ev *WebhookEvent) error {
	email := ev.CustomData["email"]
	if email == "" {
		email = ev.Attributes.UserEmail
	}
	name := ev.CustomData["name"]
	if name == "" {
		name = ev.Attributes.UserName
	}

	log.Printf("[Order Created] order=%s customer=%q email=%s total=%s status=%s",
		ev.DataID, name, email, ev.Attributes.TotalFormatted, ev.Attributes.Status)

	if email == "" || d.SendMail == nil {
		return nil
	}

	// Delivery is best effort. The store sends the license key itself; a
	// failed confirmation must not fail the webhook response.
	subject := "Thanks for your CmdDeck order"
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>thanks for your order <strong>%s</strong> (%s). Your license key arrives in a separate email from our store.</p><p>— the CmdDeck team</p>",
		html.EscapeString(name), html.EscapeString(ev.DataID), html.EscapeString(ev.Attributes.TotalFormatted),
	)
	if err := d.SendMail(email, subject, body); err != nil {
		log.Printf("[Order Created] confirmation mail for order %s failed: %v", ev.DataID, err)
	}
	return nil
}

func (d *Dispatcher) handleLicenseKeyCreated(ev *WebhookEvent) error {
	log.Printf("[License Key Created] id=%s key=%s status=%s activation_limit=%d",
		ev.DataID, maskLicenseKey(ev.Attributes.Key), ev.Attributes.Status, ev.Attributes.ActivationLimit)

	// TODO: persist the issued key once the license_keys table lands.
	return nil
}

func (d *Dispatcher) handleOrderRefunded(ev *WebhookEvent) error {
	refundedAt := ""
	if ev.Attributes.RefundedAt != nil {
		refundedAt = *ev.Attributes.RefundedAt
	}
	log.Printf("[Order Refunded] order=%s refunded_at=%s", ev.DataID, refundedAt)

	// TODO: deactivate the order's license key via the commerce API once
	// refunds carry the instance reference we need.
	return nil
}

func maskLicenseKey(key string) string {
	k := strings.TrimSpace(key)
	if len(k) <= 4 {
		return k
	}
	return "..." + k[len(k)-4:]
}
