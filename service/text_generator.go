package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrNoProvider is returned when no model is configured for an operation
var ErrNoProvider = errors.New("no generation provider configured")

// TextModel generates plain text from a system instruction and a prompt
type TextModel interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// GeminiTextModel calls the Gemini API through the genai SDK
type GeminiTextModel struct {
	client *genai.Client
	model  string
}

// Ensure GeminiTextModel implements TextModel
var _ TextModel = (*GeminiTextModel)(nil)

// NewGeminiClient creates the shared genai client
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return client, nil
}

// NewGeminiTextModel creates a text model on an existing client
func NewGeminiTextModel(client *genai.Client, model string) *GeminiTextModel {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiTextModel{client: client, model: model}
}

// GenerateText sends one prompt and returns the concatenated text parts
func (m *GeminiTextModel) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.9),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("GenAI returned an empty response")
	}
	return text, nil
}
