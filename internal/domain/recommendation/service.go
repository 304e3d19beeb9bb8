package recommendation

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yanqian/lawn-advisor/internal/infra/llm/anthropic"
	"github.com/yanqian/lawn-advisor/pkg/metrics"
)

// ErrAPIKeyRequired is returned by NewService for an explicitly empty key.
var ErrAPIKeyRequired = errors.New("API key is required")

// Service exposes lawn care recommendation capabilities.
type Service interface {
	GenerateRecommendation(ctx context.Context, req Request) (Result, error)
	Configured() bool
}

// CompletionClient is the remote model used to generate recommendation text.
type CompletionClient interface {
	CreateMessage(ctx context.Context, req anthropic.MessageRequest) (anthropic.MessageResponse, error)
}

type service struct {
	model      string
	configured bool
	client     CompletionClient
	logger     *slog.Logger
}

// NewService wires up the recommendation pipeline. A nil cfg.APIKey yields an
// unconfigured service; a non-nil empty key is rejected.
func NewService(cfg Config, client CompletionClient, logger *slog.Logger) (Service, error) {
	if cfg.APIKey != nil && *cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	svc := &service{
		model:      ModelOrDefault(cfg.Model),
		configured: cfg.APIKey != nil,
		client:     client,
		logger:     logger.With("component", "recommendation.service"),
	}
	if !svc.configured {
		svc.logger.Warn("llm api key not provided, recommendations disabled")
	}
	return svc, nil
}

func (s *service) Configured() bool {
	return s.configured
}

func (s *service) GenerateRecommendation(ctx context.Context, req Request) (Result, error) {
	profile, conditions, err := Validate(req)
	if err != nil {
		return Result{}, err
	}
	if !s.configured {
		return Result{Text: UnconfiguredMessage, Model: s.model}, nil
	}

	prompt := BuildPrompt(profile, conditions)
	s.logger.Debug("requesting recommendation", "model", s.model, "location", profile.Location, "prompt_len", len(prompt))

	resp, err := s.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       s.model,
		Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		classified := classify(err)
		s.logger.Warn("completion request failed", "kind", classified.Kind, "type", classified.Type, "error", err)
		return Result{}, classified
	}

	text, err := extractText(resp)
	if err != nil {
		s.logger.Warn("completion response malformed", "id", resp.ID, "blocks", len(resp.Content))
		return Result{}, err
	}

	return Result{
		Text:  text,
		Model: s.model,
		Usage: metrics.NewTokenUsage(resp.Usage.InputTokens, resp.Usage.OutputTokens),
	}, nil
}
