package licensing

import (
	"context"
	"log"
	"strings"
)

// User-facing gateway messages. Upstream error details are logged, not
// forwarded, except for the platform's own rejection reasons which are
// written for end users.
const (
	MsgKeyRequired      = "License key is required."
	MsgInstanceRequired = "Instance name is required."
	MsgLicenseValid     = "License is valid."
	MsgLicenseInvalid   = "Invalid license key."
	MsgActivated        = "License activated."
	MsgActivationFailed = "License activation failed."
	MsgValidateFault    = "An error occurred while validating the license."
	MsgActivateFault    = "An error occurred while activating the license."
)

// LicenseAPI is the subset of the commerce client the gateways call.
type LicenseAPI interface {
	ValidateLicense(ctx context.Context, licenseKey string) (*ValidateResponse, error)
	ActivateLicense(ctx context.Context, licenseKey, instanceName string) (*ActivateResponse, error)
}

// Gateway normalizes commerce API results for the license endpoints.
// Its methods never return an error: upstream failures and unexpected
// faults degrade to a failure result with a fixed safe message, and empty
// inputs fail locally without an external call.
type Gateway struct {
	api LicenseAPI
}

func NewGateway(api LicenseAPI) *Gateway {
	return &Gateway{api: api}
}

func NewGatewayFromEnv() *Gateway {
	return NewGateway(NewClientFromEnv())
}

// Validate checks a license key and reports its observed state.
func (g *Gateway) Validate(ctx context.Context, licenseKey string) ValidationResult {
	key := strings.TrimSpace(licenseKey)
	if key == "" {
		return ValidationResult{Valid: false, Message: MsgKeyRequired}
	}

	resp, err := g.api.ValidateLicense(ctx, key)
	if err != nil {
		log.Printf("[License Validate] upstream error: %v", err)
		return ValidationResult{Valid: false, Message: MsgValidateFault}
	}

	if !resp.Valid {
		msg := strings.TrimSpace(resp.Error)
		if msg == "" {
			msg = MsgLicenseInvalid
		}
		return ValidationResult{Valid: false, Message: msg}
	}

	out := ValidationResult{Valid: true, Message: MsgLicenseValid}
	if lk := resp.LicenseKey; lk != nil {
		out.License = &LicenseInfo{
			Status:          lk.Status,
			ActivationLimit: lk.ActivationLimit,
			ActivationUsage: lk.ActivationUsage,
			ExpiresAt:       lk.ExpiresAt,
		}
	}
	if m := resp.Meta; m != nil {
		out.Product = &ProductInfo{Name: m.ProductName, Variant: m.VariantName}
		out.Customer = &CustomerInfo{Name: m.CustomerName, Email: m.CustomerEmail}
	}
	return out
}

// Activate binds a license key to a new named instance. The activation
// limit and duplicate instance names are arbitrated by the platform.
func (g *Gateway) Activate(ctx context.Context, licenseKey, instanceName string) ActivationResult {
	key := strings.TrimSpace(licenseKey)
	name := strings.TrimSpace(instanceName)
	if key == "" {
		return ActivationResult{Activated: false, Message: MsgKeyRequired}
	}
	if name == "" {
		return ActivationResult{Activated: false, Message: MsgInstanceRequired}
	}

	resp, err := g.api.ActivateLicense(ctx, key, name)
	if err != nil {
		log.Printf("[License Activate] upstream error: %v", err)
		return ActivationResult{Activated: false, Message: MsgActivateFault}
	}

	if !resp.Activated {
		msg := strings.TrimSpace(resp.Error)
		if msg == "" {
			msg = MsgActivationFailed
		}
		return ActivationResult{Activated: false, Message: msg}
	}

	out := ActivationResult{Activated: true, Message: MsgActivated}
	if in := resp.Instance; in != nil {
		out.Instance = &InstanceInfo{
			ID:        in.ID,
			Name:      in.Name,
			CreatedAt: in.CreatedAt,
		}
	}
	return out
}
