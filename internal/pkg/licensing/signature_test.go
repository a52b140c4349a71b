package licensing

import (
	"strings"
	"testing"
)

func TestVerifyWebhookSignature(t *testing.T) {
	payload := []byte(`{"meta":{"event_name":"order_created"}}`)
	secret := "top-secret"

	sig := SignWebhookPayload(payload, secret)

	if !VerifyWebhookSignature(payload, sig, secret) {
		t.Fatalf("expected signature to validate")
	}
	if !VerifyWebhookSignature(payload, strings.ToUpper(sig), secret) {
		t.Fatalf("expected uppercase hex signature to validate")
	}
	if VerifyWebhookSignature(payload, sig, "other-secret") {
		t.Fatalf("expected signature from wrong secret to fail")
	}
	if VerifyWebhookSignature(payload, SignWebhookPayload(payload, "other-secret"), secret) {
		t.Fatalf("expected signature made with wrong secret to fail")
	}
}

func TestVerifyWebhookSignature_MutatedPayload(t *testing.T) {
	payload := []byte(`{"meta":{"event_name":"order_created"},"data":{"id":"1"}}`)
	secret := "top-secret"
	sig := SignWebhookPayload(payload, secret)

	for i := range payload {
		mutated := append([]byte(nil), payload...)
		mutated[i] ^= 0x01
		if VerifyWebhookSignature(mutated, sig, secret) {
			t.Fatalf("expected mutation at byte %d to invalidate signature", i)
		}
	}
}

func TestVerifyWebhookSignature_FailsClosed(t *testing.T) {
	payload := []byte(`{}`)
	secret := "top-secret"
	sig := SignWebhookPayload(payload, secret)

	if VerifyWebhookSignature(payload, "", secret) {
		t.Fatalf("expected missing signature to fail, not skip verification")
	}
	if VerifyWebhookSignature(payload, sig, "") {
		t.Fatalf("expected missing secret to fail, not skip verification")
	}
	if VerifyWebhookSignature(payload, "not-hex!", secret) {
		t.Fatalf("expected undecodable signature to fail")
	}
}
