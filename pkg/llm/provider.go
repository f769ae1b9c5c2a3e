// Package llm abstracts the text-generation capability behind a small
// provider interface so the tutoring pipeline never touches a vendor SDK
// directly. Gemini is the default provider; OpenAI and Anthropic adapters
// exist for deployments that prefer them.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message roles. "model" follows the Gemini convention; providers that use
// "assistant" translate internally.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ErrBlocked is returned when the provider refuses to generate because of
// its content-safety policy. The pipeline maps it to a fixed, child-friendly
// apology instead of surfacing the refusal.
var ErrBlocked = errors.New("generation blocked by content safety policy")

// Message is one turn of conversation context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the generation capability the pipeline depends on.
type Provider interface {
	// Complete runs a single-shot, historyless generation.
	Complete(ctx context.Context, prompt string) (string, error)

	// Chat runs a generation with prior turns as conversation context.
	Chat(ctx context.Context, history []Message, message string) (string, error)

	// Name returns the provider identifier.
	Name() string
}

// Config selects and configures a provider.
type Config struct {
	Provider string // "gemini", "openai", "anthropic"
	APIKey   string
	Model    string // optional, provider default when empty
}

// NewProvider creates a provider from config.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
