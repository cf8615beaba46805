package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultClaudeURL   = "https://api.anthropic.com/v1/messages"
	claudeAPIVersion   = "2023-06-01"
	claudeMaxTokens    = 8192
	defaultClaudeModel = "claude-3-5-haiku-latest"
)

type ClaudeBackend struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewClaudeBackend(apiKey, model, baseURL string) (*ClaudeBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("claude: %w", ErrMissingAPIKey)
	}
	if baseURL == "" {
		baseURL = defaultClaudeURL
	}
	if model == "" {
		model = defaultClaudeModel
	}
	return &ClaudeBackend{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

type claudeReq struct {
	Model     string      `json:"model"`
	MaxTokens int         `json:"max_tokens"`
	System    string      `json:"system,omitempty"`
	Messages  []claudeMsg `json:"messages"`
}

type claudeMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type claudeErrResp struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *ClaudeBackend) ID() string { return ProviderClaude + ":" + c.Model }

func (c *ClaudeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	payload := claudeReq{
		Model:     c.Model,
		MaxTokens: claudeMaxTokens,
		System:    jsonSystemPrompt,
		Messages:  []claudeMsg{{Role: "user", Content: prompt}},
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", &BackendError{Backend: c.ID(), Reason: ReasonPermanent, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(b))
	if err != nil {
		return "", &BackendError{Backend: c.ID(), Reason: ReasonPermanent, Err: err}
	}
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("anthropic-version", claudeAPIVersion)

	res, err := c.Client.Do(req)
	if err != nil {
		return "", Wrap(c.ID(), err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &BackendError{Backend: c.ID(), Reason: ReasonTransient, Err: err}
	}
	if res.StatusCode >= 300 {
		var apiErr claudeErrResp
		_ = json.Unmarshal(body, &apiErr)
		msg := strings.TrimSpace(apiErr.Error.Type + " " + apiErr.Error.Message)
		if msg == "" {
			msg = string(body)
		}
		return "", &BackendError{
			Backend:    c.ID(),
			Reason:     ClassifyStatus(res.StatusCode, msg),
			StatusCode: res.StatusCode,
			Err:        fmt.Errorf("claude: %s", msg),
		}
	}

	var out claudeResp
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &BackendError{Backend: c.ID(), Reason: ReasonPermanent, Err: err}
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", &BackendError{Backend: c.ID(), Reason: ReasonPermanent, Err: ErrEmptyResponse}
	}
	return text.String(), nil
}
