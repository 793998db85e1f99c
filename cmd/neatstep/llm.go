package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/neatstep/neatstep/internal/common"
	"github.com/neatstep/neatstep/internal/engine"
	"github.com/neatstep/neatstep/internal/llm"
)

// createClassifier builds the classification client from configuration.
// Shared by every command that talks to the collaborator.
func createClassifier() (engine.Classifier, error) {
	provider := viper.GetString("llm.provider")
	if provider == "" {
		provider = "gemini" // default provider
	}

	cfg := llm.Config{
		Provider:    provider,
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}

	// Fall back to the provider's conventional environment variable.
	if cfg.APIKey == "" {
		switch provider {
		case "gemini":
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.APIKey == "" {
		return nil, common.NewUserError(
			fmt.Sprintf("no API key for provider %s: set llm.api_key or the provider's environment variable", provider),
			common.ErrMissingConfig)
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	return client, nil
}
