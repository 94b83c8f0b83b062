package sse

import (
	"bytes"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// DoneSentinel is the payload that terminates an upstream stream.
const DoneSentinel = "[DONE]"

// deltaPaths are tried in order to find the text fragment of a payload.
var deltaPaths = []string{
	"choices.0.delta.content",
	"delta",
	"choices.0.text",
}

// ErrMalformedFrame is passed to the malformed-frame hook for payloads that
// are not valid JSON.
var ErrMalformedFrame = errors.New("malformed upstream frame")

// Option configures a Decoder or Pipe.
type Option func(*Decoder)

// WithMalformedHandler registers fn to be called for every dropped frame.
func WithMalformedHandler(fn func(payload string, err error)) Option {
	return func(d *Decoder) { d.onMalformed = fn }
}

// WithUsageHandler registers fn to be called for every frame that reports
// token usage.
func WithUsageHandler(fn func(Usage)) Option {
	return func(d *Decoder) { d.onUsage = fn }
}

// Decoder incrementally decodes upstream SSE bytes. Chunks may split lines
// anywhere; the trailing partial line is buffered until the next Feed.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	buf         []byte
	done        bool
	onMalformed func(payload string, err error)
	onUsage     func(Usage)
}

// NewDecoder returns a Decoder.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Done reports whether the sentinel has been seen.
func (d *Decoder) Done() bool {
	return d.done
}

// Feed consumes chunk and returns the events for every complete line. The
// sentinel yields a Done event with IsCorrect unset and ends decoding;
// later input is ignored.
func (d *Decoder) Feed(chunk []byte) []Event {
	if d.done {
		return nil
	}
	d.buf = append(d.buf, chunk...)

	var events []Event
	for !d.done {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			break
		}
		line := string(d.buf[:i])
		d.buf = d.buf[i+1:]
		events = d.line(line, events)
	}
	if d.done {
		d.buf = nil
	}
	return events
}

// Flush decodes whatever is left in the buffer as a final line. It is
// called once the upstream reaches EOF.
func (d *Decoder) Flush() []Event {
	if d.done || len(d.buf) == 0 {
		d.buf = nil
		return nil
	}
	line := string(d.buf)
	d.buf = nil
	return d.line(line, nil)
}

func (d *Decoder) line(line string, events []Event) []Event {
	line = strings.TrimRight(line, "\r")
	payload, ok := strings.CutPrefix(line, "data:")
	if !ok {
		// Blank separators, comments and event/id fields.
		return events
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return events
	}
	if payload == DoneSentinel {
		d.done = true
		return append(events, Event{Kind: KindDone})
	}
	if !gjson.Valid(payload) {
		if d.onMalformed != nil {
			d.onMalformed(payload, ErrMalformedFrame)
		}
		return events
	}
	if d.onUsage != nil {
		if u, ok := ParseUsage(payload); ok {
			d.onUsage(u)
		}
	}
	if text := extractDelta(payload); text != "" {
		events = append(events, Content(text))
	}
	return events
}

func extractDelta(payload string) string {
	for _, path := range deltaPaths {
		r := gjson.Get(payload, path)
		if r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
