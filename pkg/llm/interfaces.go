// Package llm provides OpenAI-compatible LLM client functionality.
package llm

import (
	"context"
)

// LLMClient defines the interface for LLM operations.
// Combines both generative (chat completion) and embedding capabilities.
// Use this interface for dependency injection to enable mocking in tests.
type LLMClient interface {
	// GenerateResponse generates a chat completion response.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// CreateEmbedding generates an embedding vector for the input text.
	CreateEmbedding(ctx context.Context, input string) ([]float32, error)

	// WithAPIKey returns a client bound to the given API key. Used when a
	// request supplies its own credential instead of the server fallback.
	WithAPIKey(apiKey string) LLMClient

	// HasCredential reports whether the client can authenticate at all.
	HasCredential() bool

	// GetModel returns the configured model name.
	GetModel() string
}
