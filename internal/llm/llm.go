// Package llm defines the model ports used by the services and the helpers
// for pulling JSON out of free-form model replies.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by a port with no configured backend.
var ErrUnavailable = errors.New("llm: backend not configured")

// Image is an inline picture attached to a vision request.
type Image struct {
	MediaType string
	Data      []byte
}

// Request is a single role-tagged prompt: a system instruction, one user
// turn and optional images.
type Request struct {
	System    string
	Prompt    string
	Images    []Image
	MaxTokens int
}

// Completer returns the text reply of a text or vision model.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// GeneratedImage is the output of an image model. Either Data is set or URL
// points at a temporary location that must be downloaded before it expires.
type GeneratedImage struct {
	Data      []byte
	MediaType string
	URL       string
}

// ImageGenerator synthesizes an image from a text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (GeneratedImage, error)
}

// NoImages is the ImageGenerator used when no image model is configured.
// Every call fails with ErrUnavailable, so recipes simply stay without an
// image.
type NoImages struct{}

// GenerateImage implements ImageGenerator.
func (NoImages) GenerateImage(context.Context, string) (GeneratedImage, error) {
	return GeneratedImage{}, ErrUnavailable
}
