package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidate_InvalidBudgetAction(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		Budget: BudgetConfig{DailyTokenLimit: 1000000, Action: "invalid_action"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid budget action")
	}

	expected := `budget.action must be "warn" or "reject", got "invalid_action"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_ValidBudgetActions(t *testing.T) {
	validActions := []string{"", "warn", "reject"}

	for _, action := range validActions {
		t.Run("action="+action, func(t *testing.T) {
			cfg := Config{
				HTTP:   HTTPConfig{Port: 8080},
				Budget: BudgetConfig{Action: action},
			}

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error for valid action %q: %v", action, err)
			}
		})
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 0}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Backend: BackendConfig{Providers: []ProviderConfig{
			{Name: "gemini", APIKey: "k"},
			{Name: "claude", APIKey: "k"},
		}},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	expected := `backend.providers[1].name must be "gemini" or "openai", got "claude"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_TurnTimeoutExceedsWriteTimeout(t *testing.T) {
	cfg := Config{
		HTTP:  HTTPConfig{Port: 8080, WriteTimeoutSec: 30},
		Agent: AgentConfig{TurnTimeoutSec: 30},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when the turn outlives the write timeout")
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 90 {
		t.Errorf("expected WriteTimeoutSec=90, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Agent.MaxRounds != 3 {
		t.Errorf("expected MaxRounds=3, got %d", cfg.Agent.MaxRounds)
	}
	if cfg.Agent.ToolConcurrency != 4 {
		t.Errorf("expected ToolConcurrency=4, got %d", cfg.Agent.ToolConcurrency)
	}
	if cfg.Agent.TurnTimeoutSec != 60 {
		t.Errorf("expected TurnTimeoutSec=60, got %d", cfg.Agent.TurnTimeoutSec)
	}
	if cfg.Search.PageSize != 5 {
		t.Errorf("expected PageSize=5, got %d", cfg.Search.PageSize)
	}
	if cfg.Cache.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Cache.ReadinessTimeout)
	}
	if cfg.Budget.Action != "warn" {
		t.Errorf("expected Action=warn, got %q", cfg.Budget.Action)
	}
	if len(cfg.Backend.Providers) != 2 {
		t.Fatalf("expected 2 default providers, got %d", len(cfg.Backend.Providers))
	}
	if p := cfg.Backend.Providers[0]; p.Name != "gemini" || p.APIKey != "g-key" {
		t.Errorf("first provider = %+v", p)
	}
	if p := cfg.Backend.Providers[1]; p.Name != "openai" || p.APIKey != "" {
		t.Errorf("second provider = %+v", p)
	}
	if cfg.Cache.Enabled() || cfg.Budget.Enabled() {
		t.Error("cache and budget should be disabled by default")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Agent:   AgentConfig{MaxRounds: 5, ToolConcurrency: 1, TurnTimeoutSec: 20},
		Search:  SearchConfig{PageSize: 10},
		Backend: BackendConfig{Providers: []ProviderConfig{{Name: "openai", APIKey: "k"}}},
		Budget:  BudgetConfig{Action: "reject"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Agent.MaxRounds != 5 || cfg.Agent.ToolConcurrency != 1 {
		t.Errorf("agent overridden: %+v", cfg.Agent)
	}
	if cfg.Search.PageSize != 10 {
		t.Errorf("expected PageSize=10, got %d", cfg.Search.PageSize)
	}
	if len(cfg.Backend.Providers) != 1 {
		t.Errorf("providers overridden: %+v", cfg.Backend.Providers)
	}
	if cfg.Budget.Action != "reject" {
		t.Errorf("expected Action=reject, got %q", cfg.Budget.Action)
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("TEST_GM_PORT", "9090")
	t.Setenv("TEST_GM_KEY", "secret")

	path := filepath.Join(t.TempDir(), "test.yaml")
	content := `
http:
  port: ${TEST_GM_PORT}
backend:
  providers:
    - name: openai
      api_key: ${TEST_GM_KEY}
      model: ${TEST_GM_MODEL:-gpt-4o}
cache:
  addrs: ["${TEST_GM_CACHE:-localhost:6379}"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	p := cfg.Backend.Providers[0]
	if p.APIKey != "secret" || p.Model != "gpt-4o" {
		t.Errorf("provider = %+v", p)
	}
	if !cfg.Cache.Enabled() || cfg.Cache.Addrs[0] != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TEST_GM_DOTENV=from-file\nTEST_GM_KEEP=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TEST_GM_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("TEST_GM_DOTENV") })

	if err := LoadDotEnv(filepath.Join(dir, ".env.local"), path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("TEST_GM_DOTENV"); got != "from-file" {
		t.Errorf("TEST_GM_DOTENV = %q", got)
	}
	if got := os.Getenv("TEST_GM_KEEP"); got != "from-env" {
		t.Errorf("existing variable overwritten: %q", got)
	}
}
