// Package openai implements core.Backend on the OpenAI Chat Completions
// API. Tool use goes through the inline tool-call protocol rather than the
// API's native function calling, so the adapter only handles plain
// system/user exchanges.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hallwyn/agentweave/core"
)

// Options configure the OpenAI backend adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Backend wraps the OpenAI Chat Completions API behind core.Backend.
type Backend struct {
	client *openai.Client
	opts   Options
}

var _ core.Backend = (*Backend)(nil)

// New creates a new OpenAI backend using the official client, which reads
// its API key from the environment.
func New(optFns ...func(o *Options)) *Backend {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI backend from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Backend {
	opts := Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Backend{client: client, opts: opts}
}

// Generate sends a single system/user exchange and returns the assistant's
// text. A per-request temperature overrides the configured default.
func (b *Backend) Generate(ctx context.Context, req core.Request) (string, error) {
	temperature := b.opts.Temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}

	params := openai.ChatCompletionNewParams{
		Model:               b.opts.Model,
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(b.opts.MaxCompletionTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
