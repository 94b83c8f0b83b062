package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const readBufferSize = 4096

// Verdict decides the IsCorrect flag of the terminal event.
type Verdict func() bool

// Pipe reads upstream SSE bytes from r and emits Content events in arrival
// order followed by exactly one Done event.
//
// When the sentinel arrives, verdict decides IsCorrect. When r reaches EOF
// without a sentinel, the buffered tail is decoded and Done(false) is
// emitted. Pipe stops as soon as ctx is cancelled, emit fails or the read
// fails, and returns that error without emitting Done.
func Pipe(ctx context.Context, r io.Reader, verdict Verdict, emit func(Event) error, opts ...Option) error {
	d := NewDecoder(opts...)
	buf := make([]byte, readBufferSize)

	// forward emits events up to and including a terminal one. It reports
	// whether the terminal event was emitted.
	forward := func(events []Event) (bool, error) {
		for _, ev := range events {
			if err := ctx.Err(); err != nil {
				return false, err
			}
			if ev.Kind == KindDone {
				return true, emit(Done(verdict()))
			}
			if err := emit(ev); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, rerr := r.Read(buf)
		if n > 0 {
			if done, err := forward(d.Feed(buf[:n])); done || err != nil {
				return err
			}
		}

		switch {
		case rerr == nil:
		case errors.Is(rerr, io.EOF):
			if _, err := forward(d.Flush()); err != nil {
				return err
			}
			if d.Done() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			return emit(Done(false))
		default:
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("read upstream: %w", rerr)
		}
	}
}
