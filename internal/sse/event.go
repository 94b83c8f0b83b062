// Package sse turns a token-streaming upstream response into discrete
// client events.
//
// Upstream bodies are server-sent-event streams in the OpenAI chat
// completion shape: "data: {json}" lines terminated by "data: [DONE]". The
// Decoder is an incremental line decoder and Pipe drives it over a reader,
// emitting Content events in arrival order and exactly one Done event.
package sse

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates Event variants.
type Kind int

const (
	KindContent Kind = iota + 1
	KindDone
)

func (k Kind) String() string {
	switch k {
	case KindContent:
		return "content"
	case KindDone:
		return "done"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one client-facing stream event: a content fragment or the
// terminal verdict.
type Event struct {
	Kind      Kind
	Text      string
	IsCorrect bool
}

// Content returns a content fragment event.
func Content(text string) Event {
	return Event{Kind: KindContent, Text: text}
}

// Done returns the terminal event.
func Done(isCorrect bool) Event {
	return Event{Kind: KindDone, IsCorrect: isCorrect}
}

type contentWire struct {
	Content string `json:"content"`
}

type doneWire struct {
	Done      bool `json:"done"`
	IsCorrect bool `json:"isCorrect"`
}

// MarshalJSON encodes Content as {"content": "..."} and Done as
// {"done": true, "isCorrect": bool}.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindContent:
		return json.Marshal(contentWire{Content: e.Text})
	case KindDone:
		return json.Marshal(doneWire{Done: true, IsCorrect: e.IsCorrect})
	default:
		return nil, fmt.Errorf("sse: cannot encode event of %s", e.Kind)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content   *string `json:"content"`
		Done      bool    `json:"done"`
		IsCorrect bool    `json:"isCorrect"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Done:
		*e = Done(raw.IsCorrect)
	case raw.Content != nil:
		*e = Content(*raw.Content)
	default:
		return fmt.Errorf("sse: event has neither content nor done")
	}
	return nil
}
