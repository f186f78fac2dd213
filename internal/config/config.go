package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/groupmatch/internal/domain"
)

// Config holds the groupmatch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Backend    BackendConfig    `yaml:"backend"`
	Agent      AgentConfig      `yaml:"agent"`
	Search     SearchConfig     `yaml:"search"`
	Moderation ModerationConfig `yaml:"moderation"`
	Cache      CacheConfig      `yaml:"cache"`
	Budget     BudgetConfig     `yaml:"budget"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// BackendConfig lists reasoning backend credentials in priority order.
type BackendConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig holds one reasoning backend credential.
type ProviderConfig struct {
	Name    string `yaml:"name"` // gemini, openai
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"` // empty = provider default
	BaseURL string `yaml:"base_url"`
}

// AgentConfig bounds a chat turn.
type AgentConfig struct {
	MaxRounds       int `yaml:"max_rounds"`
	ToolConcurrency int `yaml:"tool_concurrency"`
	TurnTimeoutSec  int `yaml:"turn_timeout_sec"`
}

// SearchConfig holds group search settings.
type SearchConfig struct {
	PageSize   int    `yaml:"page_size"`
	CorpusFile string `yaml:"corpus_file"` // empty = embedded catalog
}

// ModerationConfig holds moderation settings. An empty API key disables moderation.
type ModerationConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	CacheTTLSec int    `yaml:"cache_ttl_sec"` // 0 = no cache
}

// CacheConfig holds the optional key-value store connection. Empty addrs disables it.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a key-value store is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// BudgetConfig holds token budget settings for the resolved backend.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// Enabled reports whether any limit is set.
func (c BudgetConfig) Enabled() bool { return c.DailyTokenLimit > 0 || c.MonthlyTokenLimit > 0 }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// LoadDotEnv loads credential files into the process environment. Missing files are
// skipped and variables already set are kept.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if !fileExists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 90
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.Backend.Providers) == 0 {
		c.Backend.Providers = []ProviderConfig{
			{Name: domain.ProviderGemini, APIKey: os.Getenv("GEMINI_API_KEY")},
			{Name: domain.ProviderOpenAI, APIKey: os.Getenv("OPENAI_API_KEY")},
		}
	}
	defaults := domain.DefaultAgentConfig()
	if c.Agent.MaxRounds <= 0 {
		c.Agent.MaxRounds = defaults.MaxRounds
	}
	if c.Agent.ToolConcurrency <= 0 {
		c.Agent.ToolConcurrency = defaults.ToolConcurrency
	}
	if c.Agent.TurnTimeoutSec <= 0 {
		c.Agent.TurnTimeoutSec = 60
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = defaults.PageSize
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Budget.Action == "" {
		c.Budget.Action = "warn"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	for i, p := range c.Backend.Providers {
		switch p.Name {
		case domain.ProviderGemini, domain.ProviderOpenAI:
			// ok
		default:
			return fmt.Errorf("backend.providers[%d].name must be %q or %q, got %q",
				i, domain.ProviderGemini, domain.ProviderOpenAI, p.Name)
		}
	}
	switch c.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("budget.action must be \"warn\" or \"reject\", got %q", c.Budget.Action)
	}
	if c.Moderation.CacheTTLSec < 0 {
		return fmt.Errorf("moderation.cache_ttl_sec must not be negative, got %d", c.Moderation.CacheTTLSec)
	}
	if c.HTTP.WriteTimeoutSec > 0 && c.Agent.TurnTimeoutSec >= c.HTTP.WriteTimeoutSec {
		return fmt.Errorf("agent.turn_timeout_sec (%d) must be less than http.write_timeout_sec (%d)",
			c.Agent.TurnTimeoutSec, c.HTTP.WriteTimeoutSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
