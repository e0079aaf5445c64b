// Package gemini adapts Google Gemini to the llm ports: text and vision
// completion through GenerateContent, image synthesis through Imagen.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/heartmarshall/forkful-backend/internal/llm"
)

// Config holds client parameters.
type Config struct {
	APIKey     string
	Model      string
	ImageModel string
	MaxTokens  int
	Timeout    time.Duration
	BaseURL    string
}

// Client wraps a genai client.
type Client struct {
	client     *genai.Client
	model      string
	imageModel string
	maxTokens  int32
}

// New creates a Gemini client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		cc.HTTPOptions.Timeout = &cfg.Timeout
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini.New: %w", err)
	}

	return &Client{
		client:     client,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		maxTokens:  int32(cfg.MaxTokens),
	}, nil
}

// Complete implements llm.Completer.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	parts := make([]*genai.Part, 0, len(req.Images)+1)
	for _, img := range req.Images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MediaType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	gcfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		gcfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.MaxTokens > 0 {
		gcfg.MaxOutputTokens = int32(req.MaxTokens)
	} else if c.maxTokens > 0 {
		gcfg.MaxOutputTokens = c.maxTokens
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, gcfg)
	if err != nil {
		return "", fmt.Errorf("gemini.Complete: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini.Complete: empty response")
	}
	return text, nil
}

// GenerateImage implements llm.ImageGenerator with a single Imagen sample.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (llm.GeneratedImage, error) {
	if c.imageModel == "" {
		return llm.GeneratedImage{}, errors.New("gemini.GenerateImage: image model not configured")
	}

	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
	})
	if err != nil {
		return llm.GeneratedImage{}, fmt.Errorf("gemini.GenerateImage: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return llm.GeneratedImage{}, errors.New("gemini.GenerateImage: no image returned")
	}

	img := resp.GeneratedImages[0].Image
	if len(img.ImageBytes) == 0 && img.GCSURI == "" {
		return llm.GeneratedImage{}, errors.New("gemini.GenerateImage: empty image")
	}

	mediaType := img.MIMEType
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	return llm.GeneratedImage{Data: img.ImageBytes, MediaType: mediaType, URL: img.GCSURI}, nil
}
