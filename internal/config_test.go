package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFetchConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Fetch.TimeoutSeconds != 15 {
		t.Errorf("timeout = %d, want 15", cfg.Fetch.TimeoutSeconds)
	}
	if cfg.Fetch.MaxInFlight != 4 {
		t.Errorf("max_in_flight = %d, want 4", cfg.Fetch.MaxInFlight)
	}
}

func TestFetchConfig_RejectsZeroInFlight(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Fetch.MaxInFlight = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("max_in_flight of 0 should fail validation")
	}
}

func TestFetchConfig_RejectsExcessiveRetries(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Fetch.MaxRetries = 11
	if err := cfg.Validate(); err == nil {
		t.Fatal("max_retries above 10 should fail validation")
	}
}

func TestSearchConfig_RejectsNegativeConcurrency(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Search.MaxConcurrency = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative max_concurrency should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 4000}
	if got := cfg.Address(); got != ":4000" {
		t.Errorf("address = %q, want :4000", got)
	}
}
