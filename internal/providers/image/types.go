package image

import "context"

// GenerateRequest describes one pitch illustration.
type GenerateRequest struct {
	Prompt      string
	AspectRatio string
}

// GenerateResult is the rendered image.
type GenerateResult struct {
	MimeType string
	Data     []byte
	Provider string
}

// Generator renders a pitch illustration.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)
}
