package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/smallnest/lionago/service"
)

// ErrNoAPIKey is returned when neither WithAPIKey nor ANTHROPIC_API_KEY
// provides a key.
var ErrNoAPIKey = errors.New("anthropic: API key not set")

const (
	defaultBaseURL         = "https://api.anthropic.com"
	defaultMessagesPath    = "/v1/messages"
	defaultVersion         = "2023-06-01"
	defaultModel           = "claude-3-5-haiku-latest"
	defaultMaxOutputTokens = 1024
)

// client is a minimal HTTP client for the Anthropic Messages API.
type client struct {
	apiKey     string
	baseURL    string
	version    string
	httpClient *http.Client
}

// messagesRequest is the request body of the Messages API.
type messagesRequest struct {
	Model       string         `json:"model"`
	MaxTokens   int            `json:"max_tokens"`
	System      string         `json:"system,omitempty"`
	Messages    []turnMessage  `json:"messages"`
	Temperature float64        `json:"temperature,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// turnMessage is a single conversation turn. The Messages API accepts
// only user and assistant roles here; system content rides in the
// top-level field.
type turnMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the response body of the Messages API.
type messagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      tokenUsage     `json:"usage"`
}

// contentBlock is one block of the assistant reply. Only text blocks
// are consumed.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// tokenUsage reports billed tokens.
type tokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// errorResponse is the error envelope returned with non-2xx statuses.
type errorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *client) createMessage(ctx context.Context, req *messagesRequest) (*messagesResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + defaultMessagesPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", c.version)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp.StatusCode, respBody)
	}

	var result messagesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &result, nil
}

// decodeError maps an error body into the service error taxonomy. A
// body that is not the documented envelope still yields an APIError
// carrying the status code.
func decodeError(statusCode int, body []byte) error {
	// 503 and 529 signal an overloaded API, which callers should back
	// off from like a rate limit.
	apiErr := &service.APIError{
		StatusCode: statusCode,
		RateLimited: statusCode == http.StatusTooManyRequests ||
			statusCode == http.StatusServiceUnavailable ||
			statusCode == 529,
	}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Code = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
		if envelope.Error.Type == "rate_limit_error" || envelope.Error.Type == "overloaded_error" {
			apiErr.RateLimited = true
		}
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
