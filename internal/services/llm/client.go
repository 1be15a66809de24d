// Package llm talks to an OpenAI-compatible chat-completions API in JSON mode.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-4o"

// ErrEmptyResponse is returned when the API answers without any content
var ErrEmptyResponse = errors.New("empty completion response")

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_llm_requests_total",
			Help: "Total number of chat-completion requests by outcome.",
		},
		[]string{"model", "kind", "status"},
	)
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forge_llm_request_duration_seconds",
			Help:    "Histogram of chat-completion request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model", "kind"},
	)
	tokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forge_llm_tokens_total",
			Help: "Total tokens reported by the API.",
		},
		[]string{"model", "kind", "type"},
	)
)

// Request is a single JSON-mode completion
type Request struct {
	Kind        string // world, creature or story; used for metrics and logs
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Completer produces a JSON document for a prompt
type Completer interface {
	CompleteJSON(ctx context.Context, req Request) (string, error)
}

// Config holds API client settings
type Config struct {
	APIKey  string
	BaseURL string // empty means the public OpenAI endpoint
	Model   string
	Timeout time.Duration // HTTP client timeout; zero means none
}

// Client implements Completer with go-openai
type Client struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// New creates an API client
func New(cfg Config, logger *slog.Logger) *Client {
	openaiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiConfig.BaseURL = cfg.BaseURL
	}
	openaiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: openai.NewClientWithConfig(openaiConfig),
		model:  model,
		logger: logger,
	}
}

// Ensure Client implements Completer
var _ Completer = (*Client)(nil)

// CompleteJSON sends the prompt as a single user message with a JSON object response format.
// Quota and rate-limit failures come back as *QuotaError.
func (c *Client) CompleteJSON(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	duration := time.Since(start)
	requestDuration.WithLabelValues(c.model, req.Kind).Observe(duration.Seconds())

	if err != nil {
		err = Classify(err)
		status := "error"
		if IsQuota(err) {
			status = "quota"
		}
		requestsTotal.WithLabelValues(c.model, req.Kind, status).Inc()
		c.logger.Warn("chat completion failed",
			"kind", req.Kind,
			"model", c.model,
			"duration", duration,
			"error", err,
		)
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		requestsTotal.WithLabelValues(c.model, req.Kind, "empty").Inc()
		return "", ErrEmptyResponse
	}

	requestsTotal.WithLabelValues(c.model, req.Kind, "success").Inc()
	tokensTotal.WithLabelValues(c.model, req.Kind, "prompt").Add(float64(resp.Usage.PromptTokens))
	tokensTotal.WithLabelValues(c.model, req.Kind, "completion").Add(float64(resp.Usage.CompletionTokens))
	c.logger.Debug("chat completion succeeded",
		"kind", req.Kind,
		"model", c.model,
		"duration", duration,
		"total_tokens", resp.Usage.TotalTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

// QuotaError reports that the API refused the call for quota or rate-limit reasons
type QuotaError struct {
	Message string
	Err     error
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded: %s", e.Message)
}

func (e *QuotaError) Unwrap() error {
	return e.Err
}

// DefaultQuotaMessage is reported when the API gives no message of its own
const DefaultQuotaMessage = "API quota exceeded"

var quotaCodes = map[string]bool{
	"insufficient_quota":  true,
	"rate_limit_exceeded": true,
}

// Classify wraps quota and rate-limit failures in *QuotaError and returns
// every other error unchanged
func Classify(err error) error {
	if err == nil || IsQuota(err) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || quotaCodes[code] || quotaCodes[apiErr.Type] {
			message := apiErr.Message
			if message == "" {
				message = DefaultQuotaMessage
			}
			return &QuotaError{Message: message, Err: err}
		}
		return err
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &QuotaError{Message: DefaultQuotaMessage, Err: err}
	}
	return err
}

// IsQuota reports whether err is a quota or rate-limit failure
func IsQuota(err error) bool {
	var quotaErr *QuotaError
	return errors.As(err, &quotaErr)
}
