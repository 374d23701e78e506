package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAdminConfig_DisabledMode(t *testing.T) {
	cfg := AdminConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.Enabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAdminConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AdminConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AdminModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AdminModeDisabled)
	}
}

func TestAdminConfig_TokenModeValid(t *testing.T) {
	cfg := AdminConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.Enabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAdminConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AdminConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAdminConfig_InvalidMode(t *testing.T) {
	cfg := AdminConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestFullConfig_AdminValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Admin.Mode = "token"
	cfg.Admin.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch admin error")
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := HTTPConfig{Port: 0}
	if err := cfg.Validate(); err == nil {
		t.Fatal("port 0 should fail")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port above 65535 should fail")
	}
	cfg.Port = 8080
	if err := cfg.Validate(); err != nil {
		t.Fatalf("port 8080 should pass: %v", err)
	}
	if got := cfg.Address(); got != ":8080" {
		t.Errorf("address = %q", got)
	}
}

func TestRateLimitConfig_DisabledSkipsValidation(t *testing.T) {
	cfg := RateLimitConfig{Disabled: true}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled limiter should pass: %v", err)
	}
}

func TestRateLimitConfig_RequiresLimits(t *testing.T) {
	cfg := RateLimitConfig{Requests: 10, Window: time.Minute}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing write limits should fail")
	}
}
