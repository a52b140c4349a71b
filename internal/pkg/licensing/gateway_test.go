package licensing

import (
	"context"
	"errors"
	"testing"
)

type fakeLicenseAPI struct {
	validateCalls int
	activateCalls int

	validateResp *ValidateResponse
	activateResp *ActivateResponse
	err          error
}

func (f *fakeLicenseAPI) ValidateLicense(ctx context.Context, licenseKey string) (*ValidateResponse, error) {
	f.validateCalls++
	return f.validateResp, f.err
}

func (f *fakeLicenseAPI) ActivateLicense(ctx context.Context, licenseKey, instanceName string) (*ActivateResponse, error) {
	f.activateCalls++
	return f.activateResp, f.err
}

func TestGatewayValidate_EmptyKeySkipsUpstream(t *testing.T) {
	api := &fakeLicenseAPI{}
	g := NewGateway(api)

	res := g.Validate(context.Background(), "")
	if res.Valid {
		t.Fatalf("expected invalid result")
	}
	if res.Message != MsgKeyRequired {
		t.Fatalf("unexpected message: %q", res.Message)
	}
	if api.validateCalls != 0 {
		t.Fatalf("expected zero upstream calls, got %d", api.validateCalls)
	}
}

func TestGatewayValidate_Success(t *testing.T) {
	api := &fakeLicenseAPI{
		validateResp: &ValidateResponse{
			Valid: true,
			LicenseKey: &LicenseKeyData{
				Status:          "active",
				ActivationLimit: 3,
				ActivationUsage: 1,
				ExpiresAt:       nil,
			},
			Meta: &MetaData{
				ProductName:   "CmdDeck",
				VariantName:   "Personal",
				CustomerName:  "Jane",
				CustomerEmail: "jane@example.com",
			},
		},
	}
	g := NewGateway(api)

	res := g.Validate(context.Background(), "VALID-KEY-1234")
	if !res.Valid || res.Message != MsgLicenseValid {
		t.Fatalf("unexpected result: %#v", res)
	}
	if res.License == nil || res.License.Status != "active" || res.License.ActivationLimit != 3 || res.License.ActivationUsage != 1 {
		t.Fatalf("unexpected license info: %#v", res.License)
	}
	if res.License.ExpiresAt != nil {
		t.Fatalf("expected nil expiry for perpetual license")
	}
	if res.Product == nil || res.Product.Name != "CmdDeck" || res.Product.Variant != "Personal" {
		t.Fatalf("unexpected product info: %#v", res.Product)
	}
	if res.Customer == nil || res.Customer.Email != "jane@example.com" {
		t.Fatalf("unexpected customer info: %#v", res.Customer)
	}
}

func TestGatewayValidate_PlatformRejection(t *testing.T) {
	api := &fakeLicenseAPI{validateResp: &ValidateResponse{Valid: false, Error: "license_key not found"}}
	g := NewGateway(api)

	res := g.Validate(context.Background(), "BOGUS")
	if res.Valid {
		t.Fatalf("expected invalid result")
	}
	if res.Message != "license_key not found" {
		t.Fatalf("expected platform rejection message, got %q", res.Message)
	}
	if res.License != nil {
		t.Fatalf("rejections must not carry license data")
	}
}

func TestGatewayValidate_UpstreamFaultDegradesToFixedMessage(t *testing.T) {
	api := &fakeLicenseAPI{err: errors.New("connect: connection refused to 10.0.0.5:443")}
	g := NewGateway(api)

	res := g.Validate(context.Background(), "KEY")
	if res.Valid {
		t.Fatalf("expected invalid result")
	}
	if res.Message != MsgValidateFault {
		t.Fatalf("raw upstream errors must not leak, got %q", res.Message)
	}
}

func TestGatewayActivate_MissingInputsSkipUpstream(t *testing.T) {
	api := &fakeLicenseAPI{}
	g := NewGateway(api)

	if res := g.Activate(context.Background(), "", "janes-macbook"); res.Activated || res.Message != MsgKeyRequired {
		t.Fatalf("unexpected result: %#v", res)
	}
	if res := g.Activate(context.Background(), "KEY", ""); res.Activated || res.Message != MsgInstanceRequired {
		t.Fatalf("unexpected result: %#v", res)
	}
	if api.activateCalls != 0 {
		t.Fatalf("expected zero upstream calls, got %d", api.activateCalls)
	}
}

func TestGatewayActivate_Success(t *testing.T) {
	api := &fakeLicenseAPI{
		activateResp: &ActivateResponse{
			Activated: true,
			Instance:  &InstanceData{ID: "inst_1", Name: "janes-macbook", CreatedAt: "2026-02-01T10:00:00Z"},
		},
	}
	g := NewGateway(api)

	res := g.Activate(context.Background(), "VALID-KEY-1234", "janes-macbook")
	if !res.Activated || res.Message != MsgActivated {
		t.Fatalf("unexpected result: %#v", res)
	}
	if res.Instance == nil || res.Instance.ID != "inst_1" || res.Instance.Name != "janes-macbook" {
		t.Fatalf("unexpected instance: %#v", res.Instance)
	}
}

func TestGatewayActivate_LimitReached(t *testing.T) {
	api := &fakeLicenseAPI{
		activateResp: &ActivateResponse{Activated: false, Error: "This license key has reached the activation limit."},
	}
	g := NewGateway(api)

	res := g.Activate(context.Background(), "KEY", "new-machine")
	if res.Activated {
		t.Fatalf("expected activation failure")
	}
	if res.Instance != nil {
		t.Fatalf("failed activations must not carry instance data")
	}
	if res.Message != "This license key has reached the activation limit." {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestGatewayActivate_UpstreamFaultDegradesToFixedMessage(t *testing.T) {
	api := &fakeLicenseAPI{err: errors.New("context deadline exceeded")}
	g := NewGateway(api)

	res := g.Activate(context.Background(), "KEY", "machine")
	if res.Activated || res.Message != MsgActivateFault {
		t.Fatalf("unexpected result: %#v", res)
	}
}
