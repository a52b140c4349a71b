package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/licensing"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var licenseGateway *licensing.Gateway

var validate = validator.New()

// InitializeLicenseController wires the license endpoints to the commerce
// platform client configured from the environment.
func InitializeLicenseController() {
	licenseGateway = licensing.NewGatewayFromEnv()
}

// SetLicenseGateway overrides the gateway (tests).
func SetLicenseGateway(g *licensing.Gateway) {
	licenseGateway = g
}

type validateLicenseRequest struct {
	LicenseKey string `json:"licenseKey" validate:"required"`
}

type activateLicenseRequest struct {
	LicenseKey   string `json:"licenseKey" validate:"required"`
	InstanceName string `json:"instanceName" validate:"required"`
}

// HandleLicenseValidate checks a license key against the commerce
// platform. Missing input fails locally with 400; upstream problems come
// back as a 200 with a normalized failure body.
func HandleLicenseValidate(c *fiber.Ctx) error {
	var req validateLicenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(licensing.ValidationResult{
			Valid:   false,
			Message: licensing.MsgKeyRequired,
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(licensing.ValidationResult{
			Valid:   false,
			Message: requiredFieldMessage(err),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	return c.Status(fiber.StatusOK).JSON(licenseGateway.Validate(ctx, req.LicenseKey))
}

// HandleLicenseActivate binds a license key to a named instance (a
// machine or domain). Either field missing fails locally with 400.
func HandleLicenseActivate(c *fiber.Ctx) error {
	var req activateLicenseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(licensing.ActivationResult{
			Activated: false,
			Message:   licensing.MsgKeyRequired,
		})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(licensing.ActivationResult{
			Activated: false,
			Message:   requiredFieldMessage(err),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	return c.Status(fiber.StatusOK).JSON(licenseGateway.Activate(ctx, req.LicenseKey, req.InstanceName))
}

func requiredFieldMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		switch ve[0].Field() {
		case "LicenseKey":
			return licensing.MsgKeyRequired
		case "InstanceName":
			return licensing.MsgInstanceRequired
		}
	}
	return "Missing required field."
}
