// Package config handles loading and validation of service configuration.
// Supports both development (env vars, JSON/YAML files) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"gopkg.in/yaml.v3"

	"lti-provider/internal/lti"
)

// Config holds all service configuration.
// Environment determines whether the tool definition loads from env vars (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	ToolSecret string

	// Tool provider definition rendered at /lti/config.xml
	Tool ToolConfig
}

// ToolConfig describes the tool provider document.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type ToolConfig struct {
	Name         string `json:"name" yaml:"name"`
	ID           string `json:"id" yaml:"id"`
	LaunchURL    string `json:"launch_url" yaml:"launch_url"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	IconURL      string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
	PrivacyLevel string `json:"privacy_level,omitempty" yaml:"privacy_level,omitempty"` // code or member name
	Domain       string `json:"domain,omitempty" yaml:"domain,omitempty"`

	// DeriveDomain fills Domain from the launch URL host when Domain is empty.
	DeriveDomain bool `json:"derive_domain,omitempty" yaml:"derive_domain,omitempty"`

	Placements Placements `json:"placements,omitempty" yaml:"placements,omitempty"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// Validates all required fields and returns an error if any are missing.
func Load(ctx context.Context) (*Config, error) {
	// If CONFIG_FILE is set, load everything from the file
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return LoadFile(configPath)
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		ToolSecret:  os.Getenv("TOOL_SECRET"),
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.ToolSecret == "" {
			return nil, fmt.Errorf("TOOL_SECRET required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading tool config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fileConfig matches the JSON/YAML structure of CONFIG_FILE.
type fileConfig struct {
	Port        string     `json:"port" yaml:"port"`
	Environment string     `json:"environment" yaml:"environment"`
	LogLevel    string     `json:"log_level" yaml:"log_level"`
	Tool        ToolConfig `json:"tool" yaml:"tool"`
}

// LoadFile reads all configuration from a JSON or YAML file.
// YAML is selected by a .yaml or .yml extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:        withDefault(fc.Port, "8080"),
		Environment: withDefault(fc.Environment, "development"),
		LogLevel:    withDefault(fc.LogLevel, "info"),
		Tool:        fc.Tool,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches the tool definition from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{tool_secret}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.ToolSecret)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Tool); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}

	return nil
}

// loadFromEnv reads the tool definition from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.Tool = ToolConfig{
		Name:         os.Getenv("TOOL_NAME"),
		ID:           os.Getenv("TOOL_ID"),
		LaunchURL:    os.Getenv("TOOL_LAUNCH_URL"),
		Description:  os.Getenv("TOOL_DESCRIPTION"),
		IconURL:      os.Getenv("TOOL_ICON_URL"),
		PrivacyLevel: os.Getenv("TOOL_PRIVACY_LEVEL"),
		Domain:       os.Getenv("TOOL_DOMAIN"),
		DeriveDomain: os.Getenv("TOOL_DERIVE_DOMAIN") == "true",
	}

	// Parse placements JSON if provided
	if placementsJSON := os.Getenv("TOOL_PLACEMENTS"); placementsJSON != "" {
		if err := json.Unmarshal([]byte(placementsJSON), &c.Tool.Placements); err != nil {
			return fmt.Errorf("parsing TOOL_PLACEMENTS JSON: %w", err)
		}
	}

	return nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	return c.Tool.Validate()
}

// Validate checks the required tool fields.
// Value-level checks (privacy level, placement codes) happen in Build.
func (t *ToolConfig) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.ID == "" {
		return fmt.Errorf("tool id is required")
	}
	if t.LaunchURL == "" {
		return fmt.Errorf("tool launch_url is required")
	}
	return nil
}

// BuildConfiguration creates the tool provider document builder from config.
func (c *Config) BuildConfiguration() (*lti.ConfigurationBuilder, error) {
	return c.Tool.Build()
}

// Build converts the tool definition into a validated ConfigurationBuilder.
// Returns *lti.ConfigurationError for invalid values.
func (t *ToolConfig) Build() (*lti.ConfigurationBuilder, error) {
	privacy, err := lti.ParseLaunchPrivacy(t.PrivacyLevel)
	if err != nil {
		return nil, err
	}

	domain := t.Domain
	if domain == "" && t.DeriveDomain {
		domain = extractDomain(t.LaunchURL)
	}

	opts := []lti.Option{
		lti.WithDescription(t.Description),
		lti.WithIconURL(t.IconURL),
		lti.WithLaunchPrivacy(privacy),
		lti.WithDomain(domain),
	}
	for _, p := range t.Placements {
		option, err := lti.ParsePlacementOption(p.Option)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lti.WithOption(option, p.Properties))
	}

	return lti.New(t.Name, t.ID, t.LaunchURL, opts...)
}

// extractDomain parses the host from a URL string.
func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// Fallback: strip protocol prefix manually
		domain := strings.TrimPrefix(rawURL, "https://")
		domain = strings.TrimPrefix(domain, "http://")
		return strings.Split(domain, "/")[0]
	}
	return u.Hostname()
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
