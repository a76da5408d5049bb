package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	// DateIDUnpadded sends date identifiers as YYYY-M-D
	DateIDUnpadded = "unpadded"
	// DateIDPadded sends date identifiers as YYYY-MM-DD
	DateIDPadded = "padded"

	EnvBaseURL     = "PARKADMIN_BASE_URL"
	EnvDatabaseURL = "PARKADMIN_DATABASE_URL"
)

// PricingPreset is a named bulk price change applied to the dates a recurrence rule matches.
// Exactly one of Price (set) and Delta (adjust) is given.
type PricingPreset struct {
	Name  string   `yaml:"name" validate:"required"`
	RRule string   `yaml:"rrule" validate:"required"`
	Price *float64 `yaml:"price,omitempty" validate:"required_without=Delta,excluded_with=Delta"`
	Delta *float64 `yaml:"delta,omitempty" validate:"required_without=Price,excluded_with=Price"`
}

// ExportConfig locates the spreadsheet bookings are exported to
type ExportConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID"`
}

// DigestConfig addresses the alert digest email
type DigestConfig struct {
	Recipient string `yaml:"recipient" validate:"omitempty,email"`
	Sender    string `yaml:"sender,omitempty"`
}

// Config represents the application configuration
type Config struct {
	BaseURL           string          `yaml:"baseURL" validate:"required,url"`
	SessionDir        string          `yaml:"sessionDir,omitempty"`
	LogsDir           string          `yaml:"logsDir,omitempty"`
	DateIDFormat      string          `yaml:"dateIDFormat,omitempty" validate:"omitempty,oneof=unpadded padded"`
	PageSize          int             `yaml:"pageSize,omitempty" validate:"omitempty,min=1,max=100"`
	LowSpaceThreshold int             `yaml:"lowSpaceThreshold,omitempty" validate:"omitempty,min=1"`
	PriceStep         float64         `yaml:"priceStep,omitempty" validate:"omitempty,gt=0"`
	CurrencySymbol    string          `yaml:"currencySymbol,omitempty"`
	PricingPresets    []PricingPreset `yaml:"pricingPresets,omitempty" validate:"dive"`
	Export            ExportConfig    `yaml:"export,omitempty"`
	Digest            DigestConfig    `yaml:"digest,omitempty"`
	DatabaseURL       string          `yaml:"databaseURL,omitempty"`
}

// Defaults for fields left empty in the config file
const (
	DefaultPageSize          = 10
	DefaultLowSpaceThreshold = 100
	DefaultPriceStep         = 5
	DefaultCurrencySymbol    = "£"
	DefaultSessionDir        = ".parking-admin"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Preset returns the pricing preset with the given name
func (c *Config) Preset(name string) (PricingPreset, bool) {
	for _, p := range c.PricingPresets {
		if p.Name == name {
			return p, true
		}
	}
	return PricingPreset{}, false
}

// PaddedDateIDs reports whether update calls should send zero-padded date identifiers
func (c *Config) PaddedDateIDs() bool {
	return c.DateIDFormat == DateIDPadded
}

// ResolvedSessionDir returns the session directory, defaulting to ~/.parking-admin
func (c *Config) ResolvedSessionDir() (string, error) {
	if c.SessionDir != "" {
		return c.SessionDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, DefaultSessionDir), nil
}

// LoadWithEnv loads and validates the configuration for an environment.
// For example, env="test" looks for "parking_admin.test.yaml" before "parking_admin.yaml".
// A .env file in the current directory is loaded first, and PARKADMIN_* variables override the file.
func LoadWithEnv(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.DatabaseURL = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DateIDFormat == "" {
		cfg.DateIDFormat = DateIDUnpadded
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.LowSpaceThreshold == 0 {
		cfg.LowSpaceThreshold = DefaultLowSpaceThreshold
	}
	if cfg.PriceStep == 0 {
		cfg.PriceStep = DefaultPriceStep
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = DefaultCurrencySymbol
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	seen := make(map[string]bool, len(cfg.PricingPresets))
	for i, preset := range cfg.PricingPresets {
		if _, err := rrule.StrToRRule(preset.RRule); err != nil {
			return fmt.Errorf("invalid rrule in pricingPresets[%d]: %w", i, err)
		}
		if preset.Price != nil && *preset.Price < 0 {
			return fmt.Errorf("negative price in pricingPresets[%d]", i)
		}
		if seen[preset.Name] {
			return fmt.Errorf("duplicate pricing preset name %q", preset.Name)
		}
		seen[preset.Name] = true
	}

	return nil
}

// findConfigFile looks for parking_admin.<env>.yaml, then parking_admin.yaml
func findConfigFile(env string) (string, error) {
	return findFile(envFileNames("parking_admin", "yaml", env))
}

func envFileNames(base, ext, env string) []string {
	if env == "" {
		return []string{base + "." + ext}
	}
	return []string{base + "." + env + "." + ext, base + "." + ext}
}

// findFile searches the current directory and then the home directory,
// trying names in order within each
func findFile(names []string) (string, error) {
	dirs := []string{"."}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, homeDir)
	}

	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", names[0])
}
