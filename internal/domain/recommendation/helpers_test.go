package recommendation

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/yanqian/lawn-advisor/internal/infra/llm/anthropic"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validProfile() LawnProfile {
	return LawnProfile{Size: 5000, GrassType: "Kentucky Bluegrass", SunExposure: "Full Sun", Location: "Denver, CO"}
}

func validConditions() Conditions {
	return Conditions{Temperature: 75, Humidity: 45, Weather: "Sunny"}
}

func validRequest() Request {
	return NewRequest(validProfile(), validConditions())
}

func ptr[T any](v T) *T {
	return &v
}

func textResponse(text string) anthropic.MessageResponse {
	return anthropic.MessageResponse{
		ID:      "msg_test",
		Content: []anthropic.ContentBlock{{Type: "text", Text: ptr(text)}},
		Usage:   anthropic.Usage{InputTokens: 100, OutputTokens: 20},
	}
}

type stubCompletionClient struct {
	mu       sync.Mutex
	resp     anthropic.MessageResponse
	err      error
	calls    int
	requests []anthropic.MessageRequest
}

func (s *stubCompletionClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (anthropic.MessageResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.requests = append(s.requests, req)
	if s.err != nil {
		return anthropic.MessageResponse{}, s.err
	}
	return s.resp, nil
}

// scriptedService replays results and errs in call order. When set, entered
// is signalled on each call and gate holds the call until it is closed.
type scriptedService struct {
	mu         sync.Mutex
	results    []Result
	errs       []error
	calls      int
	configured bool
	entered    chan struct{}
	gate       chan struct{}
	ctxErrs    []error
}

func (s *scriptedService) Configured() bool {
	return s.configured
}

func (s *scriptedService) GenerateRecommendation(ctx context.Context, req Request) (Result, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	i := s.calls
	s.calls++
	var (
		res Result
		err error
	)
	if i < len(s.results) {
		res = s.results[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return res, err
}

func (s *scriptedService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
