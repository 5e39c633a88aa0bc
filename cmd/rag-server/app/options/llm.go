package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ProviderOptions defines LLM provider configuration.
type ProviderOptions struct {
	// Provider is the provider name (ollama, openai).
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL is the API base address.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey is the API key, required by openai-compatible backends.
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model is the model name.
	Model string `json:"model" mapstructure:"model"`

	// Timeout bounds each request.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries is the retry budget for transient failures.
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// Organization is the optional OpenAI organization id.
	Organization string `json:"organization" mapstructure:"organization"`
}

// NewProviderOptions creates default LLM provider options.
func NewProviderOptions() *ProviderOptions {
	return &ProviderOptions{
		Provider:   "ollama",
		BaseURL:    "http://localhost:11434",
		Timeout:    120 * time.Second,
		MaxRetries: 3,
	}
}

// NewEmbeddingOptions creates default embedding provider options.
func NewEmbeddingOptions() *ProviderOptions {
	opts := NewProviderOptions()
	opts.Model = "nomic-embed-text"
	return opts
}

// NewChatOptions creates default chat provider options.
func NewChatOptions() *ProviderOptions {
	opts := NewProviderOptions()
	opts.Model = "llama3.1:8b"
	return opts
}

// ToConfigMap converts the options into the map consumed by provider
// factories.
func (o *ProviderOptions) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":     o.BaseURL,
		"api_key":      o.APIKey,
		"embed_model":  o.Model,
		"chat_model":   o.Model,
		"timeout":      o.Timeout,
		"max_retries":  o.MaxRetries,
		"organization": o.Organization,
	}
}

// AddFlags adds flags for LLM provider options under the given prefix.
func (o *ProviderOptions) AddFlags(fs *pflag.FlagSet, prefix string) {
	fs.StringVar(&o.Provider, prefix+".provider", o.Provider, "LLM provider (ollama, openai).")
	fs.StringVar(&o.BaseURL, prefix+".base-url", o.BaseURL, "LLM API base URL.")
	fs.StringVar(&o.APIKey, prefix+".api-key", o.APIKey, "LLM API key.")
	fs.StringVar(&o.Model, prefix+".model", o.Model, "LLM model name.")
	fs.DurationVar(&o.Timeout, prefix+".timeout", o.Timeout, "LLM request timeout.")
	fs.IntVar(&o.MaxRetries, prefix+".max-retries", o.MaxRetries, "LLM maximum number of retries.")
	fs.StringVar(&o.Organization, prefix+".organization", o.Organization, "LLM organization ID (optional).")
}

// Validate validates the LLM provider options.
func (o *ProviderOptions) Validate(section string) []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("%s: provider is required", section))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s: base-url is required", section))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("%s: model is required", section))
	}
	if o.Provider == "openai" && o.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s: api-key is required for openai provider", section))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s: timeout must be positive", section))
	}
	return errs
}

// Complete completes the LLM provider options with defaults.
func (o *ProviderOptions) Complete() error {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	return nil
}
