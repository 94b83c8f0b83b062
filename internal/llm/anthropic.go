package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/abhisek/mathbuddy/internal/sse"
)

// anthropicModels maps friendly names to Anthropic model IDs.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

// defaultAnthropicMaxTokens is used when a request sets no limit; the
// Messages API requires one.
const defaultAnthropicMaxTokens = 1024

// AnthropicProvider implements Provider using the Anthropic SDK.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	// Streams are not retried.
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	client := anthropic.NewClient(opts...)
	model := resolveModel(cfg.Model, anthropicModels)

	return &AnthropicProvider{
		client: &client,
		model:  model,
	}, nil
}

func (p *AnthropicProvider) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages:  buildAnthropicMessages(req.Messages),
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: req.System},
		}
	}

	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	ctx, cancel := context.WithCancel(ctx)
	stream := p.client.Messages.NewStreaming(ctx, params)

	// Pull the first event here so request failures are reported before
	// the caller starts streaming.
	if !stream.Next() {
		err := stream.Err()
		stream.Close()
		cancel()
		if err != nil {
			return nil, mapAnthropicError(err)
		}
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("empty Anthropic stream")}
	}

	return reframe(ctx, cancel, func(ctx context.Context, emit func(string) error) (sse.Usage, error) {
		defer stream.Close()
		var usage sse.Usage
		for {
			event := stream.Current()
			anthropicUsage(event, &usage)
			if err := emit(anthropicDeltaText(event)); err != nil {
				return usage, err
			}
			if !stream.Next() {
				break
			}
		}
		if err := stream.Err(); err != nil {
			return usage, mapAnthropicError(err)
		}
		return usage, nil
	}), nil
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) ModelID() string {
	return p.model
}

// anthropicDeltaText returns the text carried by a stream event, if any.
func anthropicDeltaText(event anthropic.MessageStreamEventUnion) string {
	switch ev := event.AsAny().(type) {
	case anthropic.ContentBlockDeltaEvent:
		if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
			return delta.Text
		}
	}
	return ""
}

// anthropicUsage folds the token counts of an event into u. message_start
// carries the input count; message_delta carries cumulative totals.
func anthropicUsage(event anthropic.MessageStreamEventUnion, u *sse.Usage) {
	switch ev := event.AsAny().(type) {
	case anthropic.MessageStartEvent:
		u.InputTokens = int(ev.Message.Usage.InputTokens)
		u.OutputTokens = int(ev.Message.Usage.OutputTokens)
	case anthropic.MessageDeltaEvent:
		if ev.Usage.InputTokens > 0 {
			u.InputTokens = int(ev.Usage.InputTokens)
		}
		u.OutputTokens = int(ev.Usage.OutputTokens)
	}
}

func buildAnthropicMessages(msgs []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, len(msgs))
	for i, m := range msgs {
		role := anthropic.MessageParamRoleUser
		if m.Role == RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}
		out[i] = anthropic.MessageParam{
			Role: role,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(m.Content),
			},
		}
	}
	return out
}

func mapAnthropicError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.StatusCode >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// If not in the map, use as-is (allows direct model IDs).
	return name
}
