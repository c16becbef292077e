package internal

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Auth.AuthEnabled() {
		t.Error("default config must not enforce auth")
	}
}

func TestAuthConfigValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = AuthModeToken
	if err := cfg.Validate(); err == nil {
		t.Error("token mode without tokens must fail validation")
	}

	cfg.Auth.Tokens = map[string]string{"tok": "user-1"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("token mode with tokens: %v", err)
	}
	if !cfg.Auth.AuthEnabled() {
		t.Error("AuthEnabled() = false in token mode")
	}

	cfg.Auth.Mode = "basic"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown auth mode must fail validation")
	}
}

func TestEmptyAuthModeNormalisesToDisabled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode: %v", err)
	}
	if cfg.Auth.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want normalised to disabled", cfg.Auth.Mode)
	}
}

func TestArchiveConfigValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Archive.Watch = true
	if err := cfg.Validate(); err == nil {
		t.Error("watch without a path must fail validation")
	}
	cfg.Archive.Path = "./archive"
	if err := cfg.Validate(); err != nil {
		t.Errorf("watch with path: %v", err)
	}
	if !cfg.Archive.Enabled() {
		t.Error("Enabled() = false with a path set")
	}
}

func TestInsightsConfigValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Insights.Provider = InsightsOpenAI
	if err := cfg.Validate(); err == nil {
		t.Error("openai provider without api key must fail validation")
	}
	cfg.Insights.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("openai provider with key: %v", err)
	}
}

func TestHTTPConfigValidation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 must fail validation")
	}
	cfg.App.HTTP.Port = 8080
	if got := cfg.App.HTTP.Address(); got != ":8080" {
		t.Errorf("Address() = %q", got)
	}
}
