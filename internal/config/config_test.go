package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.UpstreamAPIURL != "http://localhost:8000" {
		t.Errorf("UpstreamAPIURL = %q, want http://localhost:8000", cfg.UpstreamAPIURL)
	}
	if cfg.LookupDebounceMS != 400 {
		t.Errorf("LookupDebounceMS = %d, want 400", cfg.LookupDebounceMS)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate on defaults: %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	setEnv(t, "UPSTREAM_API_URL", "https://api.example.org")
	setEnv(t, "PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UpstreamAPIURL != "https://api.example.org" {
		t.Errorf("UpstreamAPIURL = %q, want override", cfg.UpstreamAPIURL)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
}

func TestValidate_RejectsRelativeUpstreamURL(t *testing.T) {
	cfg := &Config{
		UpstreamAPIURL:    "localhost:8000",
		UpstreamTimeoutMS: 1000,
		DismissalStore:    "/tmp/state.json",
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for URL without scheme")
	}
}

func TestValidate_RequiresDismissalStorePath(t *testing.T) {
	cfg := &Config{
		UpstreamAPIURL:    "http://localhost:8000",
		UpstreamTimeoutMS: 1000,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing DISMISSAL_STORE_PATH")
	}
}

func TestValidate_RejectsNegativeDebounce(t *testing.T) {
	cfg := &Config{
		UpstreamAPIURL:    "http://localhost:8000",
		UpstreamTimeoutMS: 1000,
		DismissalStore:    "/tmp/state.json",
		LookupDebounceMS:  -1,
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative debounce")
	}
}
