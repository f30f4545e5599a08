package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/lshigami/bizcoach/config"
	"github.com/lshigami/bizcoach/internal/auth"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// NewGenerator builds the configured backend wrapped with identity enforcement
// and client-side rate limiting. A missing API key yields a generator that
// always fails, so callers fall back to offline content.
func NewGenerator(cfg *config.Config) (Generator, error) {
	var (
		base Generator
		err  error
	)
	switch strings.ToLower(cfg.AI.Provider) {
	case "gemini":
		if cfg.AI.GeminiApiKey == "" {
			log.Warn().Msg("GEMINI_API_KEY is not set. Generator will be non-functional.")
			base = Unavailable("GEMINI_API_KEY is not set")
			break
		}
		base, err = NewGeminiGenerator(cfg.AI)
	case "openai", "":
		if cfg.AI.OpenAIApiKey == "" {
			log.Warn().Msg("OPENAI_API_KEY is not set. Generator will be non-functional.")
			base = Unavailable("OPENAI_API_KEY is not set")
			break
		}
		base = NewOpenAIGenerator(cfg.AI)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AI.Provider)
	}
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if rpm := cfg.AI.RequestsPerMinute; rpm > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60), rpm)
	}
	return RequireIdentity(WithRateLimit(base, limiter)), nil
}

type unavailable struct{ reason string }

// Unavailable returns a Generator whose every call fails with CodeUpstreamAuthFailure.
func Unavailable(reason string) Generator { return unavailable{reason: reason} }

func (u unavailable) err() error {
	return newError(CodeUpstreamAuthFailure, u.reason, nil)
}

func (u unavailable) GenerateQuestions(context.Context, QuestionRequest) (QuestionPayload, error) {
	return QuestionPayload{}, u.err()
}

func (u unavailable) GenerateFeedback(context.Context, FeedbackRequest) (FeedbackPayload, error) {
	return FeedbackPayload{}, u.err()
}

func (u unavailable) Transcribe(context.Context, TranscriptionRequest) (TranscriptionPayload, error) {
	return TranscriptionPayload{}, u.err()
}

func (u unavailable) Ping(context.Context) error { return u.err() }

type identityGuard struct{ next Generator }

// RequireIdentity rejects calls whose context carries no user with
// CodeUnauthenticated before they reach the backend. Ping is exempt.
func RequireIdentity(next Generator) Generator { return identityGuard{next: next} }

func checkIdentity(ctx context.Context) error {
	if _, ok := auth.UserFromContext(ctx); !ok {
		return newError(CodeUnauthenticated, "認証が必要です", nil)
	}
	return nil
}

func (g identityGuard) GenerateQuestions(ctx context.Context, req QuestionRequest) (QuestionPayload, error) {
	if err := checkIdentity(ctx); err != nil {
		return QuestionPayload{}, err
	}
	if strings.TrimSpace(req.UserAnswer) == "" || req.Prompt == "" {
		return QuestionPayload{}, newError(CodeInvalidArgument, "answer and prompt are required", nil)
	}
	return g.next.GenerateQuestions(ctx, req)
}

func (g identityGuard) GenerateFeedback(ctx context.Context, req FeedbackRequest) (FeedbackPayload, error) {
	if err := checkIdentity(ctx); err != nil {
		return FeedbackPayload{}, err
	}
	if len(req.QAList) == 0 {
		return FeedbackPayload{}, newError(CodeInvalidArgument, "qa list is required", nil)
	}
	return g.next.GenerateFeedback(ctx, req)
}

func (g identityGuard) Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionPayload, error) {
	if err := checkIdentity(ctx); err != nil {
		return TranscriptionPayload{}, err
	}
	return g.next.Transcribe(ctx, req)
}

func (g identityGuard) Ping(ctx context.Context) error { return g.next.Ping(ctx) }

type rateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// WithRateLimit makes every call wait for a limiter token. A nil limiter
// disables limiting. A wait that cannot finish before the context deadline
// fails with CodeRateLimited.
func WithRateLimit(next Generator, limiter *rate.Limiter) Generator {
	if limiter == nil {
		return next
	}
	return rateLimited{next: next, limiter: limiter}
}

func (r rateLimited) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return newError(CodeRateLimited, "client-side rate limit", err)
	}
	return nil
}

func (r rateLimited) GenerateQuestions(ctx context.Context, req QuestionRequest) (QuestionPayload, error) {
	if err := r.wait(ctx); err != nil {
		return QuestionPayload{}, err
	}
	return r.next.GenerateQuestions(ctx, req)
}

func (r rateLimited) GenerateFeedback(ctx context.Context, req FeedbackRequest) (FeedbackPayload, error) {
	if err := r.wait(ctx); err != nil {
		return FeedbackPayload{}, err
	}
	return r.next.GenerateFeedback(ctx, req)
}

func (r rateLimited) Transcribe(ctx context.Context, req TranscriptionRequest) (TranscriptionPayload, error) {
	if err := r.wait(ctx); err != nil {
		return TranscriptionPayload{}, err
	}
	return r.next.Transcribe(ctx, req)
}

func (r rateLimited) Ping(ctx context.Context) error { return r.next.Ping(ctx) }
