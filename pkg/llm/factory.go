package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"wanderai/pkg/logger"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// Keys carries provider credentials and endpoint overrides.
type Keys struct {
	Gemini        string
	OpenAI        string
	OpenAIBaseURL string
	Claude        string
	ClaudeBaseURL string
}

// Candidate is a parsed provider:model backend id.
type Candidate struct {
	Provider string
	Model    string
}

func (c Candidate) String() string { return c.Provider + ":" + c.Model }

func ParseCandidate(s string) (Candidate, error) {
	provider, model, _ := strings.Cut(strings.TrimSpace(s), ":")
	provider = strings.ToLower(strings.TrimSpace(provider))
	switch provider {
	case "google":
		provider = ProviderGemini
	case "anthropic":
		provider = ProviderClaude
	case ProviderGemini, ProviderOpenAI, ProviderClaude:
	default:
		return Candidate{}, fmt.Errorf("%w: %q", ErrUnknownProvider, s)
	}
	return Candidate{Provider: provider, Model: strings.TrimSpace(model)}, nil
}

func NewBackend(ctx context.Context, c Candidate, keys Keys) (Backend, error) {
	switch c.Provider {
	case ProviderGemini:
		return NewGeminiBackend(ctx, keys.Gemini, c.Model)
	case ProviderOpenAI:
		return NewOpenAIBackend(keys.OpenAI, c.Model, keys.OpenAIBaseURL)
	case ProviderClaude:
		return NewClaudeBackend(keys.Claude, c.Model, keys.ClaudeBaseURL)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
}

// BuildCandidates turns ordered backend ids into backends, skipping ids that are
// malformed or lack credentials. It fails only when nothing usable remains.
func BuildCandidates(ctx context.Context, ids []string, keys Keys) ([]Backend, error) {
	var backends []Backend
	for _, id := range ids {
		c, err := ParseCandidate(id)
		if err != nil {
			logger.Warn("skipping generation candidate", "candidate", id, "err", err)
			continue
		}
		b, err := NewBackend(ctx, c, keys)
		if err != nil {
			logger.Warn("skipping generation candidate", "candidate", id, "err", err)
			continue
		}
		backends = append(backends, b)
	}
	if len(backends) == 0 {
		return nil, errors.New("no usable generation candidates configured")
	}
	return backends, nil
}

// Close releases backends that hold client resources.
func Close(backends []Backend) {
	for _, b := range backends {
		if c, ok := b.(io.Closer); ok {
			if err := c.Close(); err != nil {
				logger.Warn("closing backend", "backend", b.ID(), "err", err)
			}
		}
	}
}
