package providers

import (
	"log/slog"
	"strings"
	"sync"
)

// Registry holds configured LLM clients and routes model ids to them.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]LLMClient
	logger  *slog.Logger
}

// ClientConfig holds the per-provider settings the registry needs.
type ClientConfig struct {
	APIKey  string
	BaseURL string
}

// RegistryConfig holds configuration for every supported provider.
type RegistryConfig struct {
	Gemini     ClientConfig
	OpenAI     ClientConfig
	OpenRouter ClientConfig
}

// NewRegistry creates a new empty provider registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		clients: make(map[string]LLMClient),
		logger:  logger,
	}
}

// NewRegistryFromConfig builds a registry with a client for every provider
// that has an API key configured. Providers without a key stay
// unregistered so resolving them fails fast with a CredentialError.
func NewRegistryFromConfig(cfg RegistryConfig, logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	if cfg.Gemini.APIKey != "" {
		r.Register(GeminiName, NewGeminiClient(GeminiConfig{APIKey: cfg.Gemini.APIKey}))
	}
	if cfg.OpenAI.APIKey != "" {
		r.Register(OpenAIName, NewOpenAIClient(OpenAIConfig{APIKey: cfg.OpenAI.APIKey, BaseURL: cfg.OpenAI.BaseURL}))
	}
	if cfg.OpenRouter.APIKey != "" {
		r.Register(OpenRouterName, NewOpenRouterClient(OpenRouterConfig{APIKey: cfg.OpenRouter.APIKey, BaseURL: cfg.OpenRouter.BaseURL}))
	}
	return r
}

// Register registers an LLM client by provider name.
func (r *Registry) Register(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.logger.Debug("registered LLM client", "name", name)
}

// ClientFor routes a model identifier to a registered client. A model
// whose provider has no credential configured yields a CredentialError
// before any network I/O happens.
func (r *Registry) ClientFor(model string) (LLMClient, error) {
	name := providerForModel(model)

	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, &CredentialError{Provider: name, EnvVars: credentialVars(name)}
	}
	return client, nil
}

// providerForModel maps a model id onto a provider name. Vendor-prefixed
// ids ("anthropic/claude-sonnet-4") go through OpenRouter; "gpt-*" and the
// o-series go to OpenAI; everything else defaults to Gemini.
func providerForModel(model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.Contains(model, "/"):
		return OpenRouterName
	case strings.HasPrefix(model, "gpt-"),
		strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"),
		strings.HasPrefix(model, "o4"):
		return OpenAIName
	default:
		return GeminiName
	}
}

// credentialVars names the environment variables an operator can set to
// enable a provider.
func credentialVars(name string) []string {
	switch name {
	case GeminiName:
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	case OpenAIName:
		return []string{"OPENAI_API_KEY"}
	case OpenRouterName:
		return []string{"OPENROUTER_API_KEY"}
	default:
		return nil
	}
}
