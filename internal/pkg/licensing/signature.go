package licensing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifyWebhookSignature checks that payload was produced by the commerce
// platform. Lemon Squeezy signs the raw request body with HMAC-SHA256 and
// sends the hex digest in the X-Signature header.
//
// The check must run over the body exactly as received; re-serializing the
// payload first invalidates the signature. Comparison goes through
// hmac.Equal so its cost does not depend on where the digests diverge.
// A missing signature or secret always fails, never skips verification.
func VerifyWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}

// SignWebhookPayload produces the hex signature the platform would send for
// payload. Used by tests and local tooling to emulate deliveries.
func SignWebhookPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
