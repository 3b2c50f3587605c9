package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultModel is requested when --model is not given.
const DefaultModel = "gemini-2.0-flash"

// DefaultConfig returns the built-in configuration. API keys reference
// environment variables so the config file never holds secrets.
func DefaultConfig() *Config {
	return &Config{
		DefaultModel: DefaultModel,
		Providers: map[string]ProviderConfig{
			"gemini":     {APIKey: "${GEMINI_API_KEY}"},
			"openai":     {APIKey: "${OPENAI_API_KEY}"},
			"openrouter": {APIKey: "${OPENROUTER_API_KEY}"},
		},
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# docsift configuration
# API keys use ${ENV_VAR} syntax to reference environment variables.
# Set these in your shell or a .env file:
#   GEMINI_API_KEY (or GOOGLE_API_KEY), OPENAI_API_KEY, OPENROUTER_API_KEY

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
