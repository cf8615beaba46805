package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GeminiBackend struct {
	client *genai.Client
	model  string
}

func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

func (g *GeminiBackend) ID() string { return ProviderGemini + ":" + g.model }

func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.4)
	m.SetTopP(0.95)
	m.SetTopK(40)
	m.SetMaxOutputTokens(8192)

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classifyGeminiError(g.ID(), err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &BackendError{Backend: g.ID(), Reason: ReasonPermanent, Err: ErrEmptyResponse}
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", &BackendError{Backend: g.ID(), Reason: ReasonPermanent, Err: ErrEmptyResponse}
	}
	return b.String(), nil
}

func (g *GeminiBackend) Close() error { return g.client.Close() }

func classifyGeminiError(id string, err error) *BackendError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &BackendError{Backend: id, Reason: ReasonTransient, Err: err}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &BackendError{
			Backend:    id,
			Reason:     ClassifyStatus(gerr.Code, gerr.Message+" "+gerr.Body),
			StatusCode: gerr.Code,
			Err:        err,
		}
	}

	msg := err.Error()
	code := statusFromMessage(msg)
	return &BackendError{Backend: id, Reason: ClassifyStatus(code, msg), StatusCode: code, Err: err}
}

var (
	// gRPC status names, compared with underscores removed so both RESOURCE_EXHAUSTED
	// and ResourceExhausted match.
	grpcStatusRe = regexp.MustCompile(`\b(RESOURCEEXHAUSTED|UNAVAILABLE|DEADLINEEXCEEDED|INTERNAL|NOTFOUND|INVALIDARGUMENT|PERMISSIONDENIED|UNAUTHENTICATED)\b`)
	httpStatusRe = regexp.MustCompile(`(?i)\b(?:error|status|code|http)(?:\s*code)?\s*[:=]?\s*([1-5][0-9]{2})\b`)

	grpcStatusCodes = map[string]int{
		"RESOURCEEXHAUSTED": 429,
		"UNAVAILABLE":       503,
		"DEADLINEEXCEEDED":  504,
		"INTERNAL":          500,
		"NOTFOUND":          404,
		"INVALIDARGUMENT":   400,
		"PERMISSIONDENIED":  403,
		"UNAUTHENTICATED":   401,
	}
)

// statusFromMessage recovers an HTTP status from gRPC/REST error text. Only gRPC
// status names and explicit "Error 429" / "status: 503" forms count; other digits
// in the text are ignored.
func statusFromMessage(msg string) int {
	names := strings.ReplaceAll(strings.ToUpper(msg), "_", "")
	if m := grpcStatusRe.FindStringSubmatch(names); m != nil {
		return grpcStatusCodes[m[1]]
	}
	if m := httpStatusRe.FindStringSubmatch(msg); m != nil {
		code, err := strconv.Atoi(m[1])
		if err == nil {
			return code
		}
	}
	return 0
}
