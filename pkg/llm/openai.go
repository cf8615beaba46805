package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const jsonSystemPrompt = "You are a travel planner. Reply with a single JSON object and nothing else."

type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a chat-completions backend. baseURL may be empty.
func NewOpenAIBackend(apiKey, model, baseURL string) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

func (o *OpenAIBackend) ID() string { return ProviderOpenAI + ":" + o.model }

func (o *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: jsonSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classifyOpenAIError(o.ID(), err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", &BackendError{Backend: o.ID(), Reason: ReasonPermanent, Err: ErrEmptyResponse}
	}
	return resp.Choices[0].Message.Content, nil
}

func classifyOpenAIError(id string, err error) *BackendError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message + " " + apiErr.Type
		if code, ok := apiErr.Code.(string); ok {
			msg += " " + code
		}
		return &BackendError{
			Backend:    id,
			Reason:     ClassifyStatus(apiErr.HTTPStatusCode, msg),
			StatusCode: apiErr.HTTPStatusCode,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &BackendError{
			Backend:    id,
			Reason:     ClassifyStatus(reqErr.HTTPStatusCode, reqErr.Error()),
			StatusCode: reqErr.HTTPStatusCode,
			Err:        err,
		}
	}

	return Wrap(id, err)
}
