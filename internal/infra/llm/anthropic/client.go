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
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	// DefaultVersion is sent as the anthropic-version header.
	DefaultVersion = "2023-06-01"
	defaultTimeout = 30 * time.Second

	defaultErrorType    = "UnknownError"
	defaultErrorMessage = "Unknown error occurred"
)

// ErrUndecodableBody marks a response body that is not valid JSON.
var ErrUndecodableBody = errors.New("anthropic response body could not be decoded")

// Message mirrors a single Messages API turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessageRequest is the payload sent to POST /messages.
type MessageRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ContentBlock is one element of the response content array. Text is a
// pointer so callers can tell an absent field from an empty one.
type ContentBlock struct {
	Type string  `json:"type"`
	Text *string `json:"text,omitempty"`
}

// Usage reports token accounting for a call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessageResponse captures a successful Messages API response.
type MessageResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

type errorEnvelope struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is a decodable upstream response carrying a non-success status.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anthropic api error: status=%d type=%s message=%s", e.StatusCode, e.Type, e.Message)
}

// TransportError wraps failures that happen before a usable response exists.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("anthropic %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client performs HTTP requests to the Anthropic Messages API.
type Client struct {
	apiKey     string
	baseURL    string
	version    string
	httpClient *http.Client
}

// NewClient constructs a Messages API client. An empty key is accepted; the
// recommendation service decides whether calls are made at all.
func NewClient(apiKey, baseURL, version string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(version) == "" {
		version = DefaultVersion
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		version: version,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateMessage issues exactly one Messages API call.
func (c *Client) CreateMessage(ctx context.Context, req MessageRequest) (MessageResponse, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return MessageResponse{}, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return MessageResponse{}, &TransportError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 100 {
		return MessageResponse{}, &TransportError{Op: "request", Err: fmt.Errorf("invalid status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return MessageResponse{}, &TransportError{Op: "read response", Err: err}
	}

	return decodeResponse(resp.StatusCode, body)
}

func decodeResponse(status int, body []byte) (MessageResponse, error) {
	if status < 200 || status >= 300 {
		var envelope errorEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return MessageResponse{}, fmt.Errorf("%w: status=%d: %v", ErrUndecodableBody, status, err)
		}
		apiErr := &APIError{StatusCode: status, Type: defaultErrorType, Message: defaultErrorMessage}
		if envelope.Error != nil {
			if envelope.Error.Type != "" {
				apiErr.Type = envelope.Error.Type
			}
			if envelope.Error.Message != "" {
				apiErr.Message = envelope.Error.Message
			}
		}
		return MessageResponse{}, apiErr
	}

	var out MessageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return MessageResponse{}, fmt.Errorf("%w: %v", ErrUndecodableBody, err)
	}
	return out, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req MessageRequest) (*http.Request, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode message request: %w", err)
	}
	endpoint := c.baseURL + "/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build message request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", c.version)
	return httpReq, nil
}
