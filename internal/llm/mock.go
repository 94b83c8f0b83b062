package llm

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/abhisek/mathbuddy/internal/sse"
)

// MockResponse is a canned stream for the MockProvider.
type MockResponse struct {
	// Chunks are returned one per Read, verbatim.
	Chunks []string

	// Err is returned from Stream instead of a body.
	Err error

	// ReadErr is returned from Read after the last chunk instead of io.EOF.
	ReadErr error
}

// MockText builds a well-formed response that streams each part as one
// delta frame and ends with the sentinel.
func MockText(parts ...string) MockResponse {
	chunks := make([]string, 0, len(parts)+1)
	for _, part := range parts {
		var b strings.Builder
		_ = sse.WriteDelta(&b, part)
		chunks = append(chunks, b.String())
	}
	var b strings.Builder
	_ = sse.WriteDone(&b)
	chunks = append(chunks, b.String())
	return MockResponse{Chunks: chunks}
}

// WithUsage returns a copy of r that reports u in a usage frame just before
// the sentinel.
func (r MockResponse) WithUsage(u sse.Usage) MockResponse {
	var b strings.Builder
	_ = sse.WriteUsage(&b, u)
	chunks := append([]string(nil), r.Chunks...)
	if n := len(chunks); n > 0 {
		done := chunks[n-1]
		chunks = append(chunks[:n-1], b.String(), done)
	} else {
		chunks = append(chunks, b.String())
	}
	r.Chunks = chunks
	return r
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	fallback  *MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// WithDefault sets a response served whenever the queue is empty.
func (m *MockProvider) WithDefault(resp MockResponse) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &resp
	return m
}

// Stream returns the next canned response, the default response once the
// queue is empty, or ErrProviderUnavailable if there is neither.
func (m *MockProvider) Stream(_ context.Context, req Request) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.fallback != nil:
		resp = *m.fallback
		resp.Chunks = append([]string(nil), resp.Chunks...)
	default:
		return nil, &ErrProviderUnavailable{Err: nil}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	return &mockStream{chunks: resp.Chunks, err: resp.ReadErr}, nil
}

// Name returns "mock".
func (m *MockProvider) Name() string {
	return "mock"
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Stream calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// mockStream returns one chunk per Read.
type mockStream struct {
	chunks []string
	err    error
	closed bool
}

func (s *mockStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, io.ErrClosedPipe
	}
	if len(s.chunks) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, io.EOF
	}
	n := copy(p, s.chunks[0])
	if n < len(s.chunks[0]) {
		s.chunks[0] = s.chunks[0][n:]
	} else {
		s.chunks = s.chunks[1:]
	}
	return n, nil
}

func (s *mockStream) Close() error {
	s.closed = true
	return nil
}
