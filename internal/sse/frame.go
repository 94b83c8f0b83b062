package sse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

type deltaFrame struct {
	Choices []deltaChoice `json:"choices"`
}

type deltaChoice struct {
	Delta deltaContent `json:"delta"`
}

type deltaContent struct {
	Content string `json:"content"`
}

// WriteDelta writes text as one chat-completion delta frame. Providers
// whose SDKs expose native stream types use it to re-frame their output
// into the wire format the Decoder reads.
func WriteDelta(w io.Writer, text string) error {
	payload, err := json.Marshal(deltaFrame{Choices: []deltaChoice{{Delta: deltaContent{Content: text}}}})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// WriteDone writes the terminating sentinel frame.
func WriteDone(w io.Writer) error {
	_, err := io.WriteString(w, "data: "+DoneSentinel+"\n\n")
	return err
}

// Usage is the token accounting of one upstream reply.
type Usage struct {
	InputTokens  int `json:"prompt_tokens"`
	OutputTokens int `json:"completion_tokens"`
}

// IsZero reports whether no tokens were counted.
func (u Usage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0
}

type usageFrame struct {
	Choices []deltaChoice `json:"choices"`
	Usage   Usage         `json:"usage"`
}

// WriteUsage writes a frame with no content that carries u, in the shape
// chat-completion streams use when usage reporting is requested.
func WriteUsage(w io.Writer, u Usage) error {
	payload, err := json.Marshal(usageFrame{Choices: []deltaChoice{}, Usage: u})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// ParseUsage returns the usage carried by a frame payload, if any.
func ParseUsage(payload string) (Usage, bool) {
	r := gjson.Get(payload, "usage")
	if !r.IsObject() {
		return Usage{}, false
	}
	return Usage{
		InputTokens:  int(r.Get("prompt_tokens").Int()),
		OutputTokens: int(r.Get("completion_tokens").Int()),
	}, true
}
