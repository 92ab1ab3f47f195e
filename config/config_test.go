package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/w-h-a/wingman/internal/service/assistant"
)

func TestWithDefaults(t *testing.T) {
	cfg := Config{ApiKey: "k"}.WithDefaults()

	assert.Equal(t, ProviderGoogle, cfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Equal(t, assistant.DefaultPreamble, cfg.SystemPrompt)

	cfg = Config{Provider: ProviderGoogle, Model: "gemini-2.5-pro", SystemPrompt: "be brief"}.WithDefaults()
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "be brief", cfg.SystemPrompt)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{Provider: ProviderGoogle, ApiKey: "k"}.Validate())
	assert.ErrorIs(t, Config{Provider: ProviderGoogle}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{Provider: "ollama", ApiKey: "k"}.Validate(), ErrInvalidConfig)
}

func TestParseGrounding(t *testing.T) {
	tests := map[string]bool{
		"":      true,
		"true":  true,
		"1":     true,
		"yes":   true,
		"false": false,
		"FALSE": false,
		"0":     false,
		" 0 ":   false,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseGrounding(in), in)
	}
}
