package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lifeforce/internal/calc"
	"github.com/lifeforce/internal/flow"
	"github.com/lifeforce/internal/theme"
)

// MemoryDatabase keeps the session store in RAM only
const MemoryDatabase = ":memory:"

// Profile is the default work profile used to prefill the form. Values are
// kept as text because they go through the same lenient parsing as typed input.
type Profile struct {
	Mode         calc.Mode `yaml:"Mode"`
	Salary       string    `yaml:"Salary"`
	TaxRate      string    `yaml:"TaxRate"`
	HourlyRate   string    `yaml:"HourlyRate"`
	WorkHours    string    `yaml:"WorkHours"`
	CommuteHours string    `yaml:"CommuteHours"`
	PrepHours    string    `yaml:"PrepHours"`
	AfterHours   string    `yaml:"AfterHours"`
}

type Config struct {
	DatabasePath    string  `yaml:"DatabasePath"`
	Port            int     `yaml:"Port"`
	LogLevel        string  `yaml:"LogLevel"`
	Theme           string  `yaml:"Theme"`
	RateLimitPerMin int     `yaml:"RateLimitPerMin"`
	Profile         Profile `yaml:"Profile"`
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	configPath := getConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg := getDefaultConfig()
		applyEnv(cfg)
		return cfg, nil
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	// Apply defaults for missing values
	defaults := getDefaultConfig()
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaults.DatabasePath
	}
	if cfg.Port == 0 {
		cfg.Port = defaults.Port
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.RateLimitPerMin == 0 {
		cfg.RateLimitPerMin = defaults.RateLimitPerMin
	}
	if cfg.Profile.Mode == "" {
		cfg.Profile.Mode = defaults.Profile.Mode
	}
	if cfg.Profile.WorkHours == "" {
		cfg.Profile.WorkHours = defaults.Profile.WorkHours
	}

	applyEnv(&cfg)

	// Expand ~ in database path
	if strings.HasPrefix(cfg.DatabasePath, "~/") {
		home, _ := os.UserHomeDir()
		cfg.DatabasePath = filepath.Join(home, cfg.DatabasePath[2:])
	}

	return &cfg, nil
}

func Save(cfg *Config) error {
	configPath := getConfigPath()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// Path returns the config file location
func Path() string {
	return getConfigPath()
}

func getConfigPath() string {
	if p := os.Getenv("LIFEFORCE_CONFIG"); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lifeforce.yaml")
}

func getDefaultConfig() *Config {
	return &Config{
		DatabasePath:    MemoryDatabase,
		Port:            8484,
		LogLevel:        "warn",
		RateLimitPerMin: 120,
		Profile: Profile{
			Mode:         calc.ModeSalary,
			WorkHours:    "40",
			CommuteHours: "0",
			PrepHours:    "0",
			AfterHours:   "0",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.DatabasePath = getEnv("LIFEFORCE_DB", cfg.DatabasePath)
	cfg.LogLevel = getEnv("LIFEFORCE_LOG_LEVEL", cfg.LogLevel)
	cfg.Theme = getEnv("LIFEFORCE_THEME", cfg.Theme)
	if port, err := strconv.Atoi(getEnv("LIFEFORCE_PORT", "")); err == nil {
		cfg.Port = port
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// InputState builds the starting form state from the profile
func (c *Config) InputState() flow.InputState {
	s := flow.DefaultInputState()
	if c.Profile.Mode.Valid() {
		s.Mode = c.Profile.Mode
	}
	s.Salary = c.Profile.Salary
	s.TaxRate = c.Profile.TaxRate
	s.HourlyRate = c.Profile.HourlyRate
	if c.Profile.WorkHours != "" {
		s.WorkHours = c.Profile.WorkHours
	}
	if c.Profile.CommuteHours != "" {
		s.CommuteHours = c.Profile.CommuteHours
	}
	if c.Profile.PrepHours != "" {
		s.PrepHours = c.Profile.PrepHours
	}
	if c.Profile.AfterHours != "" {
		s.AfterHours = c.Profile.AfterHours
	}
	return s
}

// IsMemoryDatabase reports whether the session store lives in RAM only
func (c *Config) IsMemoryDatabase() bool {
	return c.DatabasePath == MemoryDatabase || strings.Contains(c.DatabasePath, "mode=memory")
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the configuration for common issues
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return &ValidationError{Field: "DatabasePath", Message: "Database path is required"}
	}

	if c.Port <= 0 || c.Port > 65535 {
		return &ValidationError{Field: "Port", Message: "Port must be between 1 and 65535"}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "LogLevel", Message: "Log level must be debug, info, warn or error"}
	}

	if c.RateLimitPerMin < 0 {
		return &ValidationError{Field: "RateLimitPerMin", Message: "Rate limit cannot be negative"}
	}

	if c.Profile.Mode != "" && !c.Profile.Mode.Valid() {
		return &ValidationError{Field: "Profile.Mode", Message: "Mode must be salary or hourly"}
	}

	if _, ok := theme.Parse(c.Theme); c.Theme != "" && !ok {
		return &ValidationError{Field: "Theme", Message: "Theme must be light or dark"}
	}

	return nil
}
