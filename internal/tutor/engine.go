package tutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/mathbuddy/internal/evaluator"
	"github.com/abhisek/mathbuddy/internal/llm"
	"github.com/abhisek/mathbuddy/internal/logger"
	"github.com/abhisek/mathbuddy/internal/sse"
)

// Config holds tutoring generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for tutoring replies.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.7,
	}
}

// Engine answers tutoring turns. It keeps no state between calls.
type Engine struct {
	provider    llm.Provider
	cfg         Config
	log         *logger.Logger
	onMalformed func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig overrides the generation settings.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMalformedCounter calls fn for every dropped upstream frame.
func WithMalformedCounter(fn func()) Option {
	return func(e *Engine) { e.onMalformed = fn }
}

// NewEngine creates a tutoring engine backed by provider.
func NewEngine(provider llm.Provider, opts ...Option) *Engine {
	e := &Engine{provider: provider, cfg: DefaultConfig(), log: logger.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsCorrect reports whether message contains the expected answer.
func IsCorrect(turn Turn) bool {
	return evaluator.ContainsExpectedNumber(turn.UserMessage, turn.Problem.Answer)
}

// Respond streams the tutor's reply to turn through emit: Content events in
// arrival order, then one Done carrying the verdict. Invalid input fails
// with ErrInvalidInput before the provider is called. A provider failure,
// before or during the stream, is wrapped in ErrUpstreamUnavailable; a
// failing emit or a cancelled ctx is returned as is. Done is emitted only
// when Respond returns nil.
func (e *Engine) Respond(ctx context.Context, turn Turn, emit func(sse.Event) error) error {
	if err := turn.Validate(); err != nil {
		return err
	}

	ctx = llm.WithPurpose(ctx, "tutor")
	req := llm.Request{
		System:      buildSystemPrompt(turn),
		Messages:    buildMessages(turn),
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	}

	body, err := e.provider.Stream(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	defer body.Close()

	var emitErr error
	forward := func(ev sse.Event) error {
		if err := emit(ev); err != nil {
			emitErr = err
			return err
		}
		return nil
	}
	verdict := func() bool { return IsCorrect(turn) }

	err = sse.Pipe(ctx, body, verdict, forward, sse.WithMalformedHandler(func(payload string, err error) {
		e.log.Debug("dropped malformed upstream frame", "payload", payload, "error", err)
		if e.onMalformed != nil {
			e.onMalformed()
		}
	}))
	switch {
	case err == nil:
		return nil
	case emitErr != nil:
		return emitErr
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		e.log.Warn("tutor stream interrupted", "provider", e.provider.Name(), "error", err)
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
}
