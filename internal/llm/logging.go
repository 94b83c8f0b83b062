package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/mathbuddy/internal/logger"
	"github.com/abhisek/mathbuddy/internal/sse"
	"github.com/abhisek/mathbuddy/internal/store"
)

// maxCapturedResponse bounds how much of a stream is kept for the event log.
const maxCapturedResponse = 64 << 10

// StreamObserver receives one observation per finished stream.
type StreamObserver interface {
	ObserveStream(provider, purpose string, success bool, latency time.Duration, bytes int64)
}

// TokenObserver is implemented by observers that also count tokens. The
// LoggingProvider reports usage to its observer when it implements it.
type TokenObserver interface {
	ObserveTokens(provider, model string, input, output int)
}

// errStreamAbandoned is recorded when the caller closes a stream before it
// reached the sentinel or EOF.
var errStreamAbandoned = errors.New("stream closed before completion")

// LoggingProvider is a decorator that records every LLM stream as an event
// once the caller closes it.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
	log       *logger.Logger
	observer  StreamObserver
}

// LoggingOption configures a LoggingProvider.
type LoggingOption func(*LoggingProvider)

// WithLogger also writes a log line per stream.
func WithLogger(l *logger.Logger) LoggingOption {
	return func(p *LoggingProvider) { p.log = l }
}

// WithObserver reports every stream to o.
func WithObserver(o StreamObserver) LoggingOption {
	return func(p *LoggingProvider) { p.observer = o }
}

// WithLogging wraps a Provider with event logging. repo may be nil.
func WithLogging(p Provider, repo store.EventRepo, opts ...LoggingOption) Provider {
	l := &LoggingProvider{inner: p, eventRepo: repo, log: logger.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LoggingProvider) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	start := time.Now()
	rec := &streamRecord{
		provider: l,
		ctx:      context.WithoutCancel(ctx),
		start:    start,
		purpose:  PurposeFrom(ctx),
		request:  serializeRequest(req),
	}

	rc, err := l.inner.Stream(ctx, req)
	if err != nil {
		rec.finish(err)
		return nil, err
	}
	return newRecordingStream(rc, rec), nil
}

func (l *LoggingProvider) Name() string {
	return l.inner.Name()
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

type streamRecord struct {
	provider *LoggingProvider
	ctx      context.Context
	start    time.Time
	purpose  string
	request  string
	bytes    int64
	captured []byte
	usage    sse.Usage
}

func (r *streamRecord) finish(streamErr error) {
	l := r.provider
	latency := time.Since(r.start)

	data := store.LLMRequestEventData{
		Provider:      l.inner.Name(),
		Model:         l.inner.ModelID(),
		Purpose:       r.purpose,
		LatencyMs:     latency.Milliseconds(),
		BytesStreamed: r.bytes,
		InputTokens:   r.usage.InputTokens,
		OutputTokens:  r.usage.OutputTokens,
		Success:       streamErr == nil,
		RequestBody:   r.request,
		ResponseBody:  responseText(r.captured),
	}
	if streamErr != nil {
		data.ErrorMessage = streamErr.Error()
	}

	if l.observer != nil {
		l.observer.ObserveStream(data.Provider, data.Purpose, data.Success, latency, data.BytesStreamed)
		if tokens, ok := l.observer.(TokenObserver); ok && !r.usage.IsZero() {
			tokens.ObserveTokens(data.Provider, data.Model, data.InputTokens, data.OutputTokens)
		}
	}

	kv := []any{
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"bytes", data.BytesStreamed,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
	}
	if streamErr != nil {
		l.log.Warn("llm stream failed", append(kv, "error", streamErr)...)
	} else {
		l.log.Debug("llm stream finished", kv...)
	}

	if l.eventRepo == nil {
		return
	}
	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(r.ctx, data); logErr != nil {
		l.log.Warn("failed to log LLM request event", "error", logErr)
	}
}

// recordingStream counts and captures what the caller reads and records
// the event on Close. A stream closed before the sentinel or EOF was read
// is recorded as a failure.
type recordingStream struct {
	inner   io.ReadCloser
	rec     *streamRecord
	frames  *sse.Decoder
	sawEOF  bool
	readErr error
	once    sync.Once
}

func newRecordingStream(rc io.ReadCloser, rec *streamRecord) *recordingStream {
	return &recordingStream{
		inner:  rc,
		rec:    rec,
		frames: sse.NewDecoder(sse.WithUsageHandler(func(u sse.Usage) { rec.usage = u })),
	}
}

func (s *recordingStream) Read(p []byte) (int, error) {
	n, err := s.inner.Read(p)
	if n > 0 {
		s.rec.bytes += int64(n)
		if room := maxCapturedResponse - len(s.rec.captured); room > 0 {
			s.rec.captured = append(s.rec.captured, p[:min(n, room)]...)
		}
		s.frames.Feed(p[:n])
	}
	switch {
	case errors.Is(err, io.EOF):
		s.sawEOF = true
		s.frames.Flush()
	case err != nil && s.readErr == nil:
		s.readErr = err
	}
	return n, err
}

func (s *recordingStream) Close() error {
	err := s.inner.Close()
	s.once.Do(func() {
		streamErr := s.readErr
		if streamErr == nil && !s.sawEOF && !s.frames.Done() {
			streamErr = errStreamAbandoned
		}
		s.rec.finish(streamErr)
	})
	return err
}

// responseText decodes captured SSE bytes back into the plain reply.
func responseText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	d := sse.NewDecoder()
	var b strings.Builder
	for _, ev := range append(d.Feed(raw), d.Flush()...) {
		if ev.Kind == sse.KindContent {
			b.WriteString(ev.Text)
		}
	}
	return b.String()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	return b.String()
}
