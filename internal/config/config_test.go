package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManager_Defaults(t *testing.T) {
	// No config file anywhere on the search path: defaults apply.
	cm, err := NewManager("")
	if err != nil {
		t.Fatalf("manager failed without config file: %v", err)
	}

	cfg := cm.Get()
	if cfg.Defaults.Provider != "openrouter" {
		t.Errorf("unexpected default provider: %s", cfg.Defaults.Provider)
	}
	if cfg.Defaults.MaxWorkers != 4 {
		t.Errorf("unexpected default workers: %d", cfg.Defaults.MaxWorkers)
	}
}

func TestManager_LoadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
providers:
  openrouter:
    type: openrouter
    model: test/model
    api_key: ${TEST_KEY}
    rate_limit: 30
    enabled: true
defaults:
  provider: openrouter
  max_workers: 2
  specialty: mecanico
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("manager failed: %v", err)
	}

	cfg := cm.Get()
	if cfg.Defaults.MaxWorkers != 2 {
		t.Errorf("max_workers not loaded: %d", cfg.Defaults.MaxWorkers)
	}
	if cfg.Defaults.Specialty != "mecanico" {
		t.Errorf("specialty not loaded: %s", cfg.Defaults.Specialty)
	}
	p, ok := cfg.GetProvider("openrouter")
	if !ok || p.Model != "test/model" {
		t.Errorf("provider not loaded: %+v", p)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("CVSCAN_TEST_SECRET", "abc123")

	if got := ResolveEnvVars("${CVSCAN_TEST_SECRET}"); got != "abc123" {
		t.Errorf("env var not resolved: %q", got)
	}
	if got := ResolveEnvVars("plain-key"); got != "plain-key" {
		t.Errorf("plain value must pass through: %q", got)
	}
	if got := ResolveEnvVars("${CVSCAN_UNSET_VAR}"); got != "" {
		t.Errorf("unset var must resolve to empty: %q", got)
	}
}

func TestToProviderConfig(t *testing.T) {
	t.Setenv("CVSCAN_TEST_API_KEY", "sk-test")

	cfg := &Config{
		Providers: map[string]ProviderCfg{
			"openrouter": {
				Type:       "openrouter",
				Model:      "m",
				APIKey:     "${CVSCAN_TEST_API_KEY}",
				RateLimit:  30,
				TimeoutSec: 60,
				MaxRetries: 2,
				Enabled:    true,
			},
		},
	}

	pc, ok := cfg.ToProviderConfig("openrouter")
	if !ok {
		t.Fatal("provider not found")
	}
	if pc.APIKey != "sk-test" {
		t.Errorf("api key not resolved: %q", pc.APIKey)
	}
	if pc.RPM != 30 || pc.MaxRetries != 2 {
		t.Errorf("limits not carried: %+v", pc)
	}

	if _, ok := cfg.ToProviderConfig("nope"); ok {
		t.Error("unknown provider must not resolve")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "${OPENROUTER_API_KEY}") {
		t.Error("default config must reference the env var, not a literal key")
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("written default must load: %v", err)
	}
	if cm.Get().Defaults.MaxWorkers != 4 {
		t.Errorf("unexpected default workers: %d", cm.Get().Defaults.MaxWorkers)
	}
}

func TestEnabledProviders(t *testing.T) {
	cfg := DefaultConfig()
	enabled := cfg.EnabledProviders()
	if _, ok := enabled["openrouter"]; !ok {
		t.Error("openrouter must be enabled by default")
	}
	if _, ok := enabled["openai"]; ok {
		t.Error("openai must be disabled by default")
	}
}
