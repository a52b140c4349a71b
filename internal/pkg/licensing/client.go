package licensing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/env"
)

const defaultLemonSqueezyAPIBaseURL = "https://api.lemonsqueezy.com"

// Client talks to the Lemon Squeezy license API. The store, product and
// API key identify our shop; the license endpoints themselves operate on
// the key the caller submits.
type Client struct {
	APIKey    string
	StoreID   string
	ProductID string

	APIBaseURL string

	HTTPClient *http.Client
}

func NewClientFromEnv() *Client {
	return &Client{
		APIKey:     strings.TrimSpace(env.GetEnv("LEMONSQUEEZY_API_KEY", "")),
		StoreID:    strings.TrimSpace(env.GetEnv("LEMONSQUEEZY_STORE_ID", "")),
		ProductID:  strings.TrimSpace(env.GetEnv("LEMONSQUEEZY_PRODUCT_ID", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("LEMONSQUEEZY_API_BASE_URL", defaultLemonSqueezyAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// LicenseKeyData mirrors the license_key object on the validate/activate
// wire responses.
type LicenseKeyData struct {
	ID              int     `json:"id"`
	Status          string  `json:"status"`
	Key             string  `json:"key"`
	ActivationLimit int     `json:"activation_limit"`
	ActivationUsage int     `json:"activation_usage"`
	CreatedAt       string  `json:"created_at"`
	ExpiresAt       *string `json:"expires_at"`
}

type InstanceData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type MetaData struct {
	StoreID       int    `json:"store_id"`
	OrderID       int    `json:"order_id"`
	OrderItemID   int    `json:"order_item_id"`
	ProductID     int    `json:"product_id"`
	ProductName   string `json:"product_name"`
	VariantID     int    `json:"variant_id"`
	VariantName   string `json:"variant_name"`
	CustomerID    int    `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type ValidateResponse struct {
	Valid      bool            `json:"valid"`
	Error      string          `json:"error"`
	LicenseKey *LicenseKeyData `json:"license_key"`
	Instance   *InstanceData   `json:"instance"`
	Meta       *MetaData       `json:"meta"`
}

type ActivateResponse struct {
	Activated  bool            `json:"activated"`
	Error      string          `json:"error"`
	LicenseKey *LicenseKeyData `json:"license_key"`
	Instance   *InstanceData   `json:"instance"`
	Meta       *MetaData       `json:"meta"`
}

// ValidateLicense checks a key against the platform. Business rejections
// (unknown key, expired, disabled) come back as a response with
// Valid=false, not as an error; errors mean the platform was unreachable
// or answered with something we could not interpret.
func (c *Client) ValidateLicense(ctx context.Context, licenseKey string) (*ValidateResponse, error) {
	key := strings.TrimSpace(licenseKey)
	if key == "" {
		return nil, errors.New("license key is required")
	}

	form := url.Values{}
	form.Set("license_key", key)

	body, status, err := c.postForm(ctx, "/v1/licenses/validate", form)
	if err != nil {
		return nil, err
	}

	var out ValidateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("license validate returned unexpected response: status=%d", status)
	}
	return &out, nil
}

// ActivateLicense binds a key to a new named instance. The platform
// enforces the activation limit and rejects duplicate instance names.
func (c *Client) ActivateLicense(ctx context.Context, licenseKey, instanceName string) (*ActivateResponse, error) {
	key := strings.TrimSpace(licenseKey)
	name := strings.TrimSpace(instanceName)
	if key == "" {
		return nil, errors.New("license key is required")
	}
	if name == "" {
		return nil, errors.New("instance name is required")
	}

	form := url.Values{}
	form.Set("license_key", key)
	form.Set("instance_name", name)

	body, status, err := c.postForm(ctx, "/v1/licenses/activate", form)
	if err != nil {
		return nil, err
	}

	var out ActivateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("license activate returned unexpected response: status=%d", status)
	}
	return &out, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	base := strings.TrimRight(c.APIBaseURL, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if token := strings.TrimSpace(c.APIKey); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	// 4xx responses still carry the JSON rejection shape; only 5xx is a
	// hard upstream failure.
	if resp.StatusCode >= 500 {
		return nil, resp.StatusCode, fmt.Errorf("lemonsqueezy request failed: status=%d", resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}
