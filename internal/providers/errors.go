package providers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RateLimitError reports a provider 429.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
	StatusCode int
}

func (e *RateLimitError) Error() string { return e.Message }
func (e *RateLimitError) Kind() string  { return "RateLimitError" }

// CredentialError reports a provider that cannot be used because no API
// key is configured for it.
type CredentialError struct {
	Provider string
	EnvVars  []string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("no API key configured for provider %q: set %s in the environment, an env file, or the config file",
		e.Provider, strings.Join(e.EnvVars, " or "))
}

func (e *CredentialError) Kind() string { return "CredentialError" }

// ProviderError wraps a transport or API failure from a model provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string { return e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }
func (e *ProviderError) Kind() string  { return "ProviderError" }

// parseRetryAfter interprets a Retry-After header as either seconds or an
// HTTP date.
func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
