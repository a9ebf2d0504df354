package api

import (
	"context"
	"fmt"

	"github.com/quocvuong92/gemini-chat/internal/config"
	"github.com/quocvuong92/gemini-chat/internal/logging"
)

// Client defines the interface for the completion endpoint.
// GeminiClient implements it; tests substitute a mock.
type Client interface {
	// GenerateContent sends the request and returns the parsed response.
	// A response whose body holds an API error is returned without error;
	// call Text to interpret it.
	GenerateContent(ctx context.Context, req *GenerateContentRequest) (*GenerateContentResponse, error)
}

var _ Client = (*GeminiClient)(nil)

// NewClient creates a client from a validated configuration. HTTP
// traffic is logged to logger when cfg.Debug is set.
// Returns an error if the API key is missing or the proxy URL is invalid.
func NewClient(cfg *config.Config, logger *logging.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is not configured")
	}
	return NewGeminiClient(cfg, logger)
}
