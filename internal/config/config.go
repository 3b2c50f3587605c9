// Package config builds the process configuration once at startup: env
// file, YAML config file, environment overrides, and API key resolution.
// The resulting Config is passed down explicitly; nothing else reads
// ambient process state after load.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/docsift/docsift/internal/providers"
)

// ProviderConfig holds the per-provider settings.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// Config is the full process configuration.
type Config struct {
	DefaultModel string                    `mapstructure:"default_model" yaml:"default_model"`
	Providers    map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// Load builds the configuration. The env file, when present, is merged
// into the process environment without overwriting variables that are
// already set; a missing env file is not an error.
func Load(cfgFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("default_model", defaults.DefaultModel)
	for name, p := range defaults.Providers {
		v.SetDefault("providers."+name+".api_key", p.APIKey)
		v.SetDefault("providers."+name+".base_url", p.BaseURL)
	}

	// Environment variables with DOCSIFT_ prefix
	v.SetEnvPrefix("DOCSIFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.docsift")
	}

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.resolveKeys()

	return &cfg, nil
}

// resolveKeys expands ${ENV_VAR} references in API keys and falls back to
// the provider's well-known credential variables when the reference
// resolves to nothing.
func (c *Config) resolveKeys() {
	for name, p := range c.Providers {
		p.APIKey = ResolveEnvVars(p.APIKey)
		if p.APIKey == "" {
			for _, env := range fallbackKeyVars[name] {
				if val := os.Getenv(env); val != "" {
					p.APIKey = val
					break
				}
			}
		}
		c.Providers[name] = p
	}
}

// Gemini honors both its own key variable and the broader Google one.
var fallbackKeyVars = map[string][]string{
	"gemini":     {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"openai":     {"OPENAI_API_KEY"},
	"openrouter": {"OPENROUTER_API_KEY"},
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}

// ToRegistryConfig converts the config to the shape providers.Registry
// consumes.
func (c *Config) ToRegistryConfig() providers.RegistryConfig {
	rc := providers.RegistryConfig{}
	if p, ok := c.Providers[providers.GeminiName]; ok {
		rc.Gemini = providers.ClientConfig{APIKey: p.APIKey, BaseURL: p.BaseURL}
	}
	if p, ok := c.Providers[providers.OpenAIName]; ok {
		rc.OpenAI = providers.ClientConfig{APIKey: p.APIKey, BaseURL: p.BaseURL}
	}
	if p, ok := c.Providers[providers.OpenRouterName]; ok {
		rc.OpenRouter = providers.ClientConfig{APIKey: p.APIKey, BaseURL: p.BaseURL}
	}
	return rc
}
