package ai

import (
	"context"
	"errors"
)

// DefaultTemperature is the sampling temperature used for every question.
const DefaultTemperature = 0.7

// ErrEmptyResponse is returned by clients when the model produced no text.
var ErrEmptyResponse = errors.New("model returned empty text")

// GenerateOptions carries per-call generation settings.
type GenerateOptions struct {
	Temperature float64
}

// ModelClient is the boundary to a hosted text-generation API.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// StaticClient answers every prompt with a fixed text or error. It backs
// offline runs and tests.
type StaticClient struct {
	Text string
	Err  error
}

// Generate implements ModelClient.
func (c StaticClient) Generate(ctx context.Context, _ string, _ GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Err != nil {
		return "", c.Err
	}
	if c.Text == "" {
		return "", ErrEmptyResponse
	}
	return c.Text, nil
}
