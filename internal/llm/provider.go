package llm

import (
	"context"
	"io"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Stream with a Request and read the response as it is
// generated.
type Provider interface {
	// Stream sends a prompt to the LLM and returns the response body as
	// server-sent events in the chat-completion delta shape:
	//
	//	data: {"choices":[{"delta":{"content":"..."}}]}
	//	data: [DONE]
	//
	// Errors known before the first byte (auth, rate limits, outages) are
	// returned directly. Errors after that surface from Read. The caller
	// must Close the stream; closing it releases the upstream connection.
	Stream(ctx context.Context, req Request) (io.ReadCloser, error)

	// Name returns the provider name, e.g. "openai".
	Name() string

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history, oldest first, ending with the
	// message to respond to.
	Messages []Message

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)
