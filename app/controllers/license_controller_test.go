package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/licensing"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLicenseAPI struct {
	validateCalls int
	activateCalls int
	validateResp  *licensing.ValidateResponse
	validateErr   error
	activateResp  *licensing.ActivateResponse
	activateErr   error
}

func (s *stubLicenseAPI) ValidateLicense(ctx context.Context, licenseKey string) (*licensing.ValidateResponse, error) {
	s.validateCalls++
	return s.validateResp, s.validateErr
}

func (s *stubLicenseAPI) ActivateLicense(ctx context.Context, licenseKey, instanceName string) (*licensing.ActivateResponse, error) {
	s.activateCalls++
	return s.activateResp, s.activateErr
}

func newLicenseTestApp(api *stubLicenseAPI) *fiber.App {
	SetLicenseGateway(licensing.NewGateway(api))
	app := fiber.New()
	app.Post("/license/validate", HandleLicenseValidate)
	app.Post("/license/activate", HandleLicenseActivate)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func TestHandleLicenseValidate_MissingKey(t *testing.T) {
	api := &stubLicenseAPI{}
	app := newLicenseTestApp(api)

	for _, body := range []string{`{}`, `{"licenseKey":""}`, `not json`} {
		status, respBody := postJSON(t, app, "/license/validate", body)
		assert.Equal(t, fiber.StatusBadRequest, status, "body %q", body)

		var result licensing.ValidationResult
		require.NoError(t, json.Unmarshal(respBody, &result))
		assert.False(t, result.Valid)
		assert.Equal(t, licensing.MsgKeyRequired, result.Message)
	}
	assert.Equal(t, 0, api.validateCalls, "missing input must not reach the platform")
}

func TestHandleLicenseValidate_ValidKey(t *testing.T) {
	expires := "2027-01-01T00:00:00Z"
	api := &stubLicenseAPI{
		validateResp: &licensing.ValidateResponse{
			Valid: true,
			LicenseKey: &licensing.LicenseKeyData{
				Status:          "active",
				Key:             "AAAA-BBBB-CCCC-DDDD",
				ActivationLimit: 3,
				ActivationUsage: 1,
				ExpiresAt:       &expires,
			},
			Meta: &licensing.MetaData{
				ProductName:   "CmdDeck",
				CustomerName:  "Jane Doe",
				CustomerEmail: "jane@example.com",
			},
		},
	}
	app := newLicenseTestApp(api)

	status, respBody := postJSON(t, app, "/license/validate", `{"licenseKey":"AAAA-BBBB-CCCC-DDDD"}`)
	assert.Equal(t, fiber.StatusOK, status)

	var result licensing.ValidationResult
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.True(t, result.Valid)
	assert.Equal(t, licensing.MsgLicenseValid, result.Message)
	require.NotNil(t, result.License)
	assert.Equal(t, "active", result.License.Status)
	assert.Equal(t, 3, result.License.ActivationLimit)
	require.NotNil(t, result.Product)
	assert.Equal(t, "CmdDeck", result.Product.Name)
	require.NotNil(t, result.Customer)
	assert.Equal(t, "jane@example.com", result.Customer.Email)
	assert.Equal(t, 1, api.validateCalls)
}

func TestHandleLicenseValidate_PlatformRejection(t *testing.T) {
	api := &stubLicenseAPI{
		validateResp: &licensing.ValidateResponse{
			Valid: false,
			Error: "license_key not found",
		},
	}
	app := newLicenseTestApp(api)

	status, respBody := postJSON(t, app, "/license/validate", `{"licenseKey":"nope"}`)
	assert.Equal(t, fiber.StatusOK, status)

	var result licensing.ValidationResult
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.False(t, result.Valid)
	assert.Equal(t, "license_key not found", result.Message)
}

func TestHandleLicenseValidate_UpstreamFault(t *testing.T) {
	api := &stubLicenseAPI{validateErr: assert.AnError}
	app := newLicenseTestApp(api)

	status, respBody := postJSON(t, app, "/license/validate", `{"licenseKey":"AAAA"}`)
	assert.Equal(t, fiber.StatusOK, status, "upstream faults must not surface as 5xx")

	var result licensing.ValidationResult
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.False(t, result.Valid)
	assert.Equal(t, licensing.MsgValidateFault, result.Message)
}

func TestHandleLicenseActivate_MissingFields(t *testing.T) {
	api := &stubLicenseAPI{}
	app := newLicenseTestApp(api)

	status, respBody := postJSON(t, app, "/license/activate", `{"instanceName":"office-mac"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	var result licensing.ActivationResult
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.False(t, result.Activated)
	assert.Equal(t, licensing.MsgKeyRequired, result.Message)

	status, respBody = postJSON(t, app, "/license/activate", `{"licenseKey":"AAAA"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.False(t, result.Activated)
	assert.Equal(t, licensing.MsgInstanceRequired, result.Message)

	assert.Equal(t, 0, api.activateCalls, "missing input must not reach the platform")
}

func TestHandleLicenseActivate_Success(t *testing.T) {
	api := &stubLicenseAPI{
		activateResp: &licensing.ActivateResponse{
			Activated: true,
			LicenseKey: &licensing.LicenseKeyData{
				Status:          "active",
				ActivationLimit: 3,
				ActivationUsage: 2,
			},
			Instance: &licensing.InstanceData{
				ID:        "inst_1",
				Name:      "office-mac",
				CreatedAt: "2026-08-30T12:00:00Z",
			},
		},
	}
	app := newLicenseTestApp(api)

	status, respBody := postJSON(t, app, "/license/activate", `{"licenseKey":"AAAA","instanceName":"office-mac"}`)
	assert.Equal(t, fiber.StatusOK, status)

	var result licensing.ActivationResult
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.True(t, result.Activated)
	assert.Equal(t, licensing.MsgActivated, result.Message)
	require.NotNil(t, result.Instance)
	assert.Equal(t, "inst_1", result.Instance.ID)
	assert.Equal(t, "office-mac", result.Instance.Name)
	assert.Equal(t, 1, api.activateCalls)
}

func TestHandleLicenseActivate_UpstreamFault(t *testing.T) {
	api := &stubLicenseAPI{activateErr: assert.AnError}
	app := newLicenseTestApp(api)

	status, respBody := postJSON(t, app, "/license/activate", `{"licenseKey":"AAAA","instanceName":"office-mac"}`)
	assert.Equal(t, fiber.StatusOK, status)

	var result licensing.ActivationResult
	require.NoError(t, json.Unmarshal(respBody, &result))
	assert.False(t, result.Activated)
	assert.Equal(t, licensing.MsgActivateFault, result.Message)
}
