package licensing

// Provider identifier used for webhook event storage.
const ProviderLemonSqueezy = "lemonsqueezy"

// LicenseInfo is the license state exposed to callers of the validate
// endpoint. ExpiresAt stays nil for perpetual licenses.
type LicenseInfo struct {
	Status          string  `json:"status"`
	ActivationLimit int     `json:"activationLimit"`
	ActivationUsage int     `json:"activationUsage"`
	ExpiresAt       *string `json:"expiresAt"`
}

type ProductInfo struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// InstanceInfo describes a single activation of a license key on a named
// machine or domain.
type InstanceInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// ValidationResult is the normalized outcome of a license validation.
// Failures carry a safe human-readable message, never upstream internals.
type ValidationResult struct {
	Valid    bool          `json:"valid"`
	Message  string        `json:"message"`
	License  *LicenseInfo  `json:"license,omitempty"`
	Product  *ProductInfo  `json:"product,omitempty"`
	Customer *CustomerInfo `json:"customer,omitempty"`
}

// ActivationResult is the normalized outcome of a license activation.
type ActivationResult struct {
	Activated bool          `json:"activated"`
	Message   string        `json:"message"`
	Instance  *InstanceInfo `json:"instance,omitempty"`
}

// EventInput is the normalized input for webhook event persistence.
type EventInput struct {
	Provider        string
	ProviderEventID string
	EventName       string
	PayloadJSON     string
	SignatureValid  bool
}
