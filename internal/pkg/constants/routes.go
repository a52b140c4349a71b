package constants

// Static route constants
const (
	PublicRoute    = "/"
	GalleryRoute   = "/gallery"
	PricingRoute   = "/pricing"
	DocsRoute      = "/docs"
	ThankYouRoute  = "/thank-you"
	ChangelogRoute = "/changelog"

	// License API routes; validate/activate are relative to the group.
	LicenseGroupRoute    = "/license"
	LicenseValidateRoute = "/validate"
	LicenseActivateRoute = "/activate"
	WebhookRoute         = "/webhook"
)
