// Package config is the explicit configuration for a wingman. Nothing in
// this module reads the environment except the command line layer, which
// fills a Config and hands it over.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/w-h-a/wingman/generator/anthropic"
	"github.com/w-h-a/wingman/generator/google"
	"github.com/w-h-a/wingman/generator/openai"
	"github.com/w-h-a/wingman/internal/service/assistant"
)

type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

var defaultModels = map[Provider]string{
	ProviderGoogle:    google.DefaultModel,
	ProviderOpenAI:    openai.DefaultModel,
	ProviderAnthropic: anthropic.DefaultModel,
}

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Provider Provider
	ApiKey   string
	Model    string
	// Grounding enables the search-grounded attempt before the plain one.
	Grounding    bool
	SystemPrompt string
	// DatabaseURL selects the postgres conversation store. Empty keeps
	// conversations in memory.
	DatabaseURL string
}

func (c Config) Validate() error {
	if _, ok := defaultModels[c.Provider]; !ok {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}

	if len(strings.TrimSpace(c.ApiKey)) == 0 {
		return fmt.Errorf("%w: api key is required for provider %s", ErrInvalidConfig, c.Provider)
	}

	return nil
}

// WithDefaults fills the provider, its default model and the default
// preamble where they are unset.
func (c Config) WithDefaults() Config {
	if len(c.Provider) == 0 {
		c.Provider = ProviderGoogle
	}

	if len(strings.TrimSpace(c.Model)) == 0 {
		c.Model = defaultModels[c.Provider]
	}

	if len(strings.TrimSpace(c.SystemPrompt)) == 0 {
		c.SystemPrompt = assistant.DefaultPreamble
	}

	return c
}

// ParseGrounding reads a grounding switch the way the environment spells
// it: only "false" and "0" turn grounding off.
func ParseGrounding(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "false", "0":
		return false
	}
	return true
}
