// Package client performs the HTTP exchange for chat-completion requests.
// It owns transport concerns only: auth headers, the endpoint, and error
// surfacing. The request/response model lives in pkg/chat and passes through
// untouched, and nothing is retried here.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/chatctl/pkg/chat"
)

const (
	defaultBaseURL  = "https://api.openai.com/v1"
	completionsPath = "/chat/completions"
)

// Config is the client configuration.
type Config struct {
	// BaseURL of the service without a trailing slash, e.g.
	// "https://api.openai.com/v1". Empty selects the public endpoint.
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// HTTPClient overrides the default client. Useful for tests and proxies.
	HTTPClient *http.Client
}

// Client sends chat-completion requests to a single service endpoint.
type Client struct {
	config     Config
	logger     *zap.Logger
	httpClient *http.Client
}

// New creates a Client. A nil logger disables logging.
func New(config Config, logger *zap.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			// Completions can take a while on long prompts
			Timeout: 2 * time.Minute,
		}
	}

	return &Client{
		config:     config,
		logger:     logger,
		httpClient: httpClient,
	}
}

// SetBaseURL overrides the service endpoint.
func (c *Client) SetBaseURL(url string) {
	c.config.BaseURL = url
}

// SetHTTPClient overrides the HTTP client used for subsequent requests.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// APIError is a non-2xx reply from the service, decoded from its error
// envelope when one is present.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("api error (%s, status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// ChatCompletion sends one request and decodes the reply. Transport failures,
// service errors, and decode failures are surfaced to the caller unmodified.
func (c *Client) ChatCompletion(ctx context.Context, req *chat.ChatCompletionRequest) (*chat.ChatCompletionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := c.config.BaseURL + completionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	c.logger.Debug("sending chat completion",
		zap.String("url", url),
		zap.String("model", string(req.Model)),
		zap.Int("message_count", len(req.Messages)),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, parseAPIError(httpResp.StatusCode, respBody)
	}

	resp, err := chat.DecodeResponse(respBody)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("received chat completion",
		zap.String("id", resp.ID),
		zap.Int("choice_count", len(resp.Choices)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return resp, nil
}

// parseAPIError reads the service's error envelope, falling back to the raw
// body when the envelope is missing or unparseable.
func parseAPIError(statusCode int, body []byte) *APIError {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	apiErr := &APIError{StatusCode: statusCode, Message: string(body)}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Type = envelope.Error.Type
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
