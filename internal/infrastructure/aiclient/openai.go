package aiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/oksasatya/adhd-helper/internal/domain/ai"
)

// OpenAI builds a client per call because every user brings their own key.
type OpenAI struct {
	Model   string
	BaseURL string // empty means the public API
}

func NewOpenAI(model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{Model: model}
}

func (o *OpenAI) client(apiKey string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (o *OpenAI) Generate(ctx context.Context, apiKey, system, prompt string) (string, error) {
	resp, err := o.client(apiKey).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return "", mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ai.ErrUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func (o *OpenAI) CheckKey(ctx context.Context, apiKey string) error {
	_, err := o.client(apiKey).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.Model,
		Messages:  []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "Hello"}},
		MaxTokens: 5,
	})
	if err != nil {
		return mapOpenAIError(err)
	}
	return nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return ai.ErrInvalidAPIKey
		case http.StatusTooManyRequests:
			return ai.ErrRateLimited
		}
		return fmt.Errorf("%w: %s", ai.ErrUnavailable, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return ai.ErrInvalidAPIKey
		case http.StatusTooManyRequests:
			return ai.ErrRateLimited
		}
	}
	return fmt.Errorf("%w: %v", ai.ErrUnavailable, err)
}

var _ ai.FeedbackGenerator = (*OpenAI)(nil)
