package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// GatewayProvider streams from any OpenAI-compatible chat completions
// endpoint over plain HTTP. The response body already is the wire format
// Provider promises, so it is handed to the caller unchanged.
type GatewayProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewGatewayProvider creates a gateway provider. connectTimeout bounds
// dialing and waiting for response headers; the body is not timed.
func NewGatewayProvider(cfg GatewayConfig, connectTimeout time.Duration) (*GatewayProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway base URL is required")
	}
	if connectTimeout <= 0 {
		connectTimeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
		ResponseHeaderTimeout: connectTimeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   16,
	}

	return &GatewayProvider{
		httpClient: &http.Client{Transport: transport},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
	}, nil
}

type gatewayMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type gatewayStreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type gatewayRequest struct {
	Model         string                `json:"model,omitempty"`
	Messages      []gatewayMessage      `json:"messages"`
	Stream        bool                  `json:"stream"`
	StreamOptions *gatewayStreamOptions `json:"stream_options,omitempty"`
	MaxTokens     int                   `json:"max_tokens,omitempty"`
	Temperature   float64               `json:"temperature,omitempty"`
}

func (p *GatewayProvider) Stream(ctx context.Context, req Request) (io.ReadCloser, error) {
	body := gatewayRequest{
		Model:       p.model,
		Stream:        true,
		StreamOptions: &gatewayStreamOptions{IncludeUsage: true},
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, gatewayMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, gatewayMessage{Role: string(m.Role), Content: m.Content})
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", &buf)
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return nil, mapGatewayStatus(resp, raw)
	}

	return resp.Body, nil
}

func (p *GatewayProvider) Name() string {
	return "gateway"
}

func (p *GatewayProvider) ModelID() string {
	return p.model
}

func mapGatewayStatus(resp *http.Response, body []byte) error {
	err := fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	if resp.StatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")), Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
