package licensing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(srvURL string) *Client {
	return &Client{
		APIKey:     "test-api-key",
		StoreID:    "12345",
		ProductID:  "67890",
		APIBaseURL: srvURL,
		HTTPClient: &http.Client{},
	}
}

func TestClientValidateLicense(t *testing.T) {
	var gotPath, gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("form parse: %v", err)
		}
		gotKey = r.PostFormValue("license_key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"valid": true,
			"license_key": {"status": "active", "activation_limit": 3, "activation_usage": 1, "expires_at": null},
			"meta": {"product_name": "CmdDeck", "variant_name": "Personal", "customer_name": "Jane", "customer_email": "jane@example.com"}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.ValidateLicense(context.Background(), "VALID-KEY-1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v1/licenses/validate" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "VALID-KEY-1234" {
		t.Fatalf("unexpected license_key form value: %q", gotKey)
	}
	if gotAuth != "Bearer test-api-key" {
		t.Fatalf("unexpected authorization header: %q", gotAuth)
	}
	if !resp.Valid || resp.LicenseKey == nil || resp.LicenseKey.ActivationLimit != 3 {
		t.Fatalf("unexpected response: %#v", resp)
	}
	if resp.LicenseKey.ExpiresAt != nil {
		t.Fatalf("expected null expires_at to decode as nil")
	}
}

func TestClientValidateLicense_RejectionIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"valid": false, "error": "license_key not found"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.ValidateLicense(context.Background(), "BOGUS")
	if err != nil {
		t.Fatalf("4xx rejection must decode, got error: %v", err)
	}
	if resp.Valid || resp.Error != "license_key not found" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestClientValidateLicense_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.ValidateLicense(context.Background(), "KEY"); err == nil {
		t.Fatalf("expected 5xx to surface as error")
	}

	srv.Close()
	if _, err := c.ValidateLicense(context.Background(), "KEY"); err == nil {
		t.Fatalf("expected unreachable host to surface as error")
	}
}

func TestClientValidateLicense_UnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.ValidateLicense(context.Background(), "KEY"); err == nil {
		t.Fatalf("expected undecodable body to surface as error")
	}
}

func TestClientActivateLicense(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/licenses/activate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("form parse: %v", err)
		}
		if r.PostFormValue("instance_name") != "janes-macbook" {
			t.Fatalf("unexpected instance_name: %q", r.PostFormValue("instance_name"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"activated": true,
			"instance": {"id": "inst_1", "name": "janes-macbook", "created_at": "2026-02-01T10:00:00Z"}
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.ActivateLicense(context.Background(), "VALID-KEY-1234", "janes-macbook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Activated || resp.Instance == nil || resp.Instance.ID != "inst_1" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestClientRejectsEmptyInputsLocally(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.ValidateLicense(context.Background(), "  "); err == nil {
		t.Fatalf("expected empty key to error locally")
	}
	if _, err := c.ActivateLicense(context.Background(), "", "name"); err == nil {
		t.Fatalf("expected empty key to error locally")
	}
	if _, err := c.ActivateLicense(context.Background(), "key", " "); err == nil {
		t.Fatalf("expected empty instance name to error locally")
	}
	if calls != 0 {
		t.Fatalf("expected no upstream calls, got %d", calls)
	}
}
