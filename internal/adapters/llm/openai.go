package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/0xcro3dile/hybridrag-go/internal/domain/ports"
)

// Defaults for OpenAI-compatible chat endpoints. Groq serves the default model.
const (
	DefaultChatModel   = "llama-3.3-70b-versatile"
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
)

// OpenAIConfig holds configuration for the OpenAI-compatible chat adapter.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	MaxRetries  int
	RetryDelay  time.Duration
	Timeout     time.Duration
}

// DefaultOpenAIConfig returns the default chat configuration for apiKey.
func DefaultOpenAIConfig(apiKey string) OpenAIConfig {
	return OpenAIConfig{
		APIKey:      apiKey,
		BaseURL:     DefaultBaseURL,
		Model:       DefaultChatModel,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		MaxRetries:  0,
		RetryDelay:  2 * time.Second,
		Timeout:     60 * time.Second,
	}
}

// OpenAIAdapter implements ports.ChatModel against any OpenAI-compatible
// chat completions API (OpenAI, Groq, vLLM).
type OpenAIAdapter struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// NewOpenAIAdapter creates a chat adapter. An API key is required.
func NewOpenAIAdapter(cfg OpenAIConfig) (*OpenAIAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: chat API key is required", ports.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIAdapter{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

// Model returns the configured model name.
func (a *OpenAIAdapter) Model() string { return a.cfg.Model }

// Complete sends one system and user message pair and returns the reply.
// With MaxRetries set, 429 and 5xx failures are retried with linear backoff.
func (a *OpenAIAdapter) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(a.cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
		resp, err := a.client.CreateChatCompletion(callCtx, req)
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			if !retryable(err) {
				break
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w: %w", ports.ErrGenerationFailed, lastErr)
}

// retryable reports whether err is worth another attempt. Client errors
// such as a bad key or unknown model are not.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}
	return true
}

var _ ports.ChatModel = (*OpenAIAdapter)(nil)
