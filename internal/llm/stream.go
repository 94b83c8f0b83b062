package llm

import (
	"context"
	"io"

	"github.com/abhisek/mathbuddy/internal/sse"
)

// pipeStream is the ReadCloser returned by SDK-backed providers. Closing it
// cancels the producing goroutine's context and unblocks its writes.
type pipeStream struct {
	*io.PipeReader
	cancel context.CancelFunc
}

func (p *pipeStream) Close() error {
	p.cancel()
	return p.PipeReader.Close()
}

// reframe runs produce in a goroutine and exposes what it emits as SSE
// delta frames followed by the sentinel. A non-zero usage returned by
// produce is written as a usage frame just before the sentinel. A produce
// error is delivered to the reader in place of both. The goroutine exits
// once produce returns, which it must do when ctx is cancelled or emit
// fails.
func reframe(ctx context.Context, cancel context.CancelFunc, produce func(ctx context.Context, emit func(text string) error) (sse.Usage, error)) io.ReadCloser {
	pr, pw := io.Pipe()
	go func() {
		defer cancel()
		usage, err := produce(ctx, func(text string) error {
			if text == "" {
				return nil
			}
			return sse.WriteDelta(pw, text)
		})
		if err == nil && !usage.IsZero() {
			err = sse.WriteUsage(pw, usage)
		}
		if err == nil {
			err = sse.WriteDone(pw)
		}
		pw.CloseWithError(err)
	}()
	return &pipeStream{PipeReader: pr, cancel: cancel}
}
