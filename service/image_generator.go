package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ImageModel generates one image (PNG or JPEG bytes) from a prompt
type ImageModel interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// GeminiImageModel generates images with Imagen through the genai SDK
type GeminiImageModel struct {
	client *genai.Client
	model  string
}

var _ ImageModel = (*GeminiImageModel)(nil)

// NewGeminiImageModel creates an image model on an existing client
func NewGeminiImageModel(client *genai.Client, model string) *GeminiImageModel {
	if model == "" {
		model = "imagen-3.0-generate-002"
	}
	return &GeminiImageModel{client: client, model: model}
}

// Name identifies the provider in logs
func (m *GeminiImageModel) Name() string { return "imagen:" + m.model }

// GenerateImage returns the first generated image
func (m *GeminiImageModel) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := m.client.Models.GenerateImages(ctx, m.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "1:1",
		OutputMIMEType: "image/png",
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI image generation failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, fmt.Errorf("GenAI returned no image")
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}

// HTTPImageModel talks to an OpenAI-compatible images endpoint
type HTTPImageModel struct {
	baseURL string
	apiKey  string
	model   string
	size    string
	client  *http.Client
}

var _ ImageModel = (*HTTPImageModel)(nil)

// NewHTTPImageModel creates a provider for <baseURL>/images/generations
func NewHTTPImageModel(baseURL, apiKey, model string) *HTTPImageModel {
	return &HTTPImageModel{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		size:    "1024x1024",
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Name identifies the provider in logs
func (m *HTTPImageModel) Name() string { return "images-api:" + m.model }

type imageGenerationRequest struct {
	Model          string `json:"model,omitempty"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// GenerateImage posts the prompt and decodes the base64 image
func (m *HTTPImageModel) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(imageGenerationRequest{
		Model:          m.model,
		Prompt:         prompt,
		N:              1,
		Size:           m.size,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, strings.TrimSpace(string(respBody)))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed imageGenerationResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("no image in response")
	}

	data, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return data, nil
}
