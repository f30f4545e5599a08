package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/lshigami/bizcoach/internal/auth"
	"github.com/lshigami/bizcoach/internal/llm"
	"github.com/lshigami/bizcoach/internal/metrics"
	"github.com/lshigami/bizcoach/internal/scene"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrPayloadTooLarge     = errors.New("audio exceeds the upload size limit")
	ErrTranscriptionFailed = errors.New("音声の認識に失敗しました。手動で入力してください。")
)

// TranscriptionError is returned for every transcription failure other than
// authentication and size. It never carries a partial transcript.
type TranscriptionError struct {
	Code llm.Code
	Err  error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("%s (%s)", ErrTranscriptionFailed.Error(), e.Code)
}

func (e *TranscriptionError) Unwrap() []error { return []error{ErrTranscriptionFailed, e.Err} }

// Fallback reasons reported alongside DEFAULT content.
const (
	ReasonTimeout         = "timeout"
	ReasonRateLimited     = "rate_limited"
	ReasonUpstreamAuth    = "upstream_auth_failure"
	ReasonInvalidArgument = "invalid_argument"
	ReasonInvalidPayload  = "invalid_payload"
	ReasonTooFewQuestions = "too_few_questions"
	ReasonUnknownScene    = "unknown_scene"
	ReasonRemoteError     = "remote_error"
)

// QuestionBatch is a set of follow-up questions tagged with their source.
type QuestionBatch struct {
	Questions []string
	Source    session.Source
	Reason    string
}

// FeedbackResult carries the feedback and, for fallbacks, why it was used.
type FeedbackResult struct {
	Feedback session.Feedback
	Reason   string
}

type Transcript struct {
	Text            string
	DurationSeconds float64
}

type ConnectionStatus struct {
	Connected bool
	Code      llm.Code
	Message   string
	Latency   time.Duration
}

// GatewayOptions bounds remote calls. Zero values take DefaultGatewayOptions.
type GatewayOptions struct {
	AICount              int
	QuestionTimeout      time.Duration
	FeedbackTimeout      time.Duration
	TranscriptionTimeout time.Duration
	MaxAudioBytes        int64
}

// DefaultGatewayOptions returns 3 follow-ups, 35s/45s/60s timeouts and a 25MB audio limit.
func DefaultGatewayOptions() GatewayOptions {
	return GatewayOptions{
		AICount:              session.DefaultAICount,
		QuestionTimeout:      35 * time.Second,
		FeedbackTimeout:      45 * time.Second,
		TranscriptionTimeout: 60 * time.Second,
		MaxAudioBytes:        25 * 1024 * 1024,
	}
}

// GenerationGateway turns remote model calls into results that are always
// usable: anything but an authentication failure degrades to scene content.
type GenerationGateway interface {
	GenerateFollowUpQuestions(ctx context.Context, sceneID, fixedAnswer string) (QuestionBatch, error)
	GenerateFeedback(ctx context.Context, sceneID, sceneName string, qaList []session.QAPair) (FeedbackResult, error)
	Transcribe(ctx context.Context, audio []byte, formatHint string) (Transcript, error)
	CheckConnection(ctx context.Context) ConnectionStatus
}

type generationGateway struct {
	generator llm.Generator
	catalog   *scene.Catalog
	metrics   *metrics.Metrics
	validate  *validator.Validate
	opts      GatewayOptions
}

// NewGenerationGateway creates a new instance of GenerationGateway.
func NewGenerationGateway(generator llm.Generator, catalog *scene.Catalog, m *metrics.Metrics, opts GatewayOptions) GenerationGateway {
	defaults := DefaultGatewayOptions()
	if opts.AICount <= 0 {
		opts.AICount = defaults.AICount
	}
	if opts.QuestionTimeout <= 0 {
		opts.QuestionTimeout = defaults.QuestionTimeout
	}
	if opts.FeedbackTimeout <= 0 {
		opts.FeedbackTimeout = defaults.FeedbackTimeout
	}
	if opts.TranscriptionTimeout <= 0 {
		opts.TranscriptionTimeout = defaults.TranscriptionTimeout
	}
	if opts.MaxAudioBytes <= 0 {
		opts.MaxAudioBytes = defaults.MaxAudioBytes
	}

	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return &generationGateway{
		generator: generator,
		catalog:   catalog,
		metrics:   m,
		validate:  v,
		opts:      opts,
	}
}

// await runs fn with a deadline and returns as soon as the deadline passes,
// even if fn ignores cancellation. The result of a late fn is dropped.
func await[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		val, err := fn(ctx)
		done <- result{val: val, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func fallbackReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	switch llm.CodeOf(err) {
	case llm.CodeRateLimited:
		return ReasonRateLimited
	case llm.CodeUpstreamAuthFailure:
		return ReasonUpstreamAuth
	case llm.CodeInvalidArgument:
		return ReasonInvalidArgument
	default:
		return ReasonRemoteError
	}
}

func (g *generationGateway) GenerateFollowUpQuestions(ctx context.Context, sceneID, fixedAnswer string) (QuestionBatch, error) {
	start := time.Now()
	sc, err := g.catalog.Get(sceneID)
	if err != nil {
		// Unknown scenes never reach the generator's identity guard.
		if _, ok := auth.UserFromContext(ctx); !ok {
			g.metrics.ObserveGeneration("questions", "error", "unauthenticated", time.Since(start))
			return QuestionBatch{}, fmt.Errorf("%w: no user on request", ErrUnauthenticated)
		}
		log.Warn().Str("scene_id", sceneID).Msg("Unknown scene, using generic follow-up questions")
		return g.questionFallback(sceneID, ReasonUnknownScene, start), nil
	}

	payload, err := await(ctx, g.opts.QuestionTimeout, func(ctx context.Context) (llm.QuestionPayload, error) {
		return g.generator.GenerateQuestions(ctx, llm.QuestionRequest{
			SceneID:    sc.ID,
			SceneName:  sc.Name,
			Prompt:     sc.AIPrompt,
			UserAnswer: fixedAnswer,
		})
	})
	if err != nil {
		if llm.IsUnauthenticated(err) {
			g.metrics.ObserveGeneration("questions", "error", "unauthenticated", time.Since(start))
			return QuestionBatch{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		log.Warn().Err(err).Str("scene_id", sceneID).Msg("Follow-up generation failed, using fallback questions")
		return g.questionFallback(sceneID, fallbackReason(err), start), nil
	}

	if err := g.validate.Struct(payload); err != nil {
		log.Warn().Err(err).Str("scene_id", sceneID).Msg("Follow-up payload failed validation, using fallback questions")
		return g.questionFallback(sceneID, ReasonInvalidPayload, start), nil
	}

	questions := make([]string, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		questions = append(questions, strings.TrimSpace(q))
	}
	if len(questions) < g.opts.AICount {
		log.Warn().Int("received", len(questions)).Int("required", g.opts.AICount).Str("scene_id", sceneID).Msg("Too few follow-up questions, using fallback questions")
		return g.questionFallback(sceneID, ReasonTooFewQuestions, start), nil
	}
	if len(questions) > g.opts.AICount {
		log.Warn().Int("received", len(questions)).Int("kept", g.opts.AICount).Str("scene_id", sceneID).Msg("Truncating extra follow-up questions")
		questions = questions[:g.opts.AICount]
	}

	g.metrics.ObserveGeneration("questions", string(session.SourceAI), "", time.Since(start))
	return QuestionBatch{Questions: questions, Source: session.SourceAI}, nil
}

func (g *generationGateway) questionFallback(sceneID, reason string, start time.Time) QuestionBatch {
	questions := g.catalog.FallbackQuestions(sceneID)
	if len(questions) > g.opts.AICount {
		questions = questions[:g.opts.AICount]
	}
	g.metrics.ObserveGeneration("questions", string(session.SourceDefault), reason, time.Since(start))
	return QuestionBatch{Questions: questions, Source: session.SourceDefault, Reason: reason}
}

func (g *generationGateway) GenerateFeedback(ctx context.Context, sceneID, sceneName string, qaList []session.QAPair) (FeedbackResult, error) {
	start := time.Now()
	req := llm.FeedbackRequest{SceneID: sceneID, SceneName: sceneName}
	for _, qa := range qaList {
		req.QAList = append(req.QAList, llm.QAPair{Question: qa.QuestionText, Answer: qa.AnswerText})
	}

	payload, err := await(ctx, g.opts.FeedbackTimeout, func(ctx context.Context) (llm.FeedbackPayload, error) {
		return g.generator.GenerateFeedback(ctx, req)
	})
	if err != nil {
		if llm.IsUnauthenticated(err) {
			g.metrics.ObserveGeneration("feedback", "error", "unauthenticated", time.Since(start))
			return FeedbackResult{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		log.Warn().Err(err).Str("scene_id", sceneID).Msg("Feedback generation failed, using default feedback")
		return g.feedbackFallback(sceneID, fallbackReason(err), start), nil
	}
	if err := g.validate.Struct(payload); err != nil {
		log.Warn().Err(err).Str("scene_id", sceneID).Msg("Feedback payload failed validation, using default feedback")
		return g.feedbackFallback(sceneID, ReasonInvalidPayload, start), nil
	}

	g.metrics.ObserveGeneration("feedback", string(session.SourceAI), "", time.Since(start))
	return FeedbackResult{Feedback: feedbackFromPayload(payload)}, nil
}

func (g *generationGateway) feedbackFallback(sceneID, reason string, start time.Time) FeedbackResult {
	g.metrics.ObserveGeneration("feedback", string(session.SourceDefault), reason, time.Since(start))
	return FeedbackResult{Feedback: g.catalog.DefaultFeedback(sceneID), Reason: reason}
}

func feedbackFromPayload(p llm.FeedbackPayload) session.Feedback {
	fb := session.Feedback{
		Summary:       strings.TrimSpace(p.Summary),
		Encouragement: strings.TrimSpace(p.Encouragement),
		Source:        session.SourceAI,
	}
	for _, gp := range p.GoodPoints {
		fb.GoodPoints = append(fb.GoodPoints, session.GoodPoint{
			Aspect:  strings.TrimSpace(gp.Aspect),
			Quote:   strings.TrimSpace(gp.Quote),
			Comment: strings.TrimSpace(gp.Comment),
		})
	}
	for _, ip := range p.ImprovementPoints {
		fb.ImprovementPoints = append(fb.ImprovementPoints, session.ImprovementPoint{
			Aspect:   strings.TrimSpace(ip.Aspect),
			Original: strings.TrimSpace(ip.Original),
			Improved: strings.TrimSpace(ip.Improved),
			Reason:   strings.TrimSpace(ip.Reason),
		})
	}
	return fb
}

func (g *generationGateway) Transcribe(ctx context.Context, audio []byte, formatHint string) (Transcript, error) {
	start := time.Now()
	if int64(len(audio)) > g.opts.MaxAudioBytes {
		g.metrics.ObserveGeneration("transcription", "error", "payload_too_large", time.Since(start))
		return Transcript{}, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(audio), g.opts.MaxAudioBytes)
	}
	if len(audio) == 0 {
		return Transcript{}, &TranscriptionError{Code: llm.CodeInvalidArgument, Err: errors.New("audio is empty")}
	}

	payload, err := await(ctx, g.opts.TranscriptionTimeout, func(ctx context.Context) (llm.TranscriptionPayload, error) {
		return g.generator.Transcribe(ctx, llm.TranscriptionRequest{Audio: audio, FormatHint: formatHint})
	})
	if err != nil {
		code := llm.CodeOf(err)
		g.metrics.ObserveGeneration("transcription", "error", string(code), time.Since(start))
		switch {
		case llm.IsUnauthenticated(err):
			return Transcript{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		case code == llm.CodePayloadTooLarge:
			return Transcript{}, fmt.Errorf("%w: %v", ErrPayloadTooLarge, err)
		}
		log.Error().Err(err).Int("audio_bytes", len(audio)).Msg("Transcription failed")
		return Transcript{}, &TranscriptionError{Code: code, Err: err}
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		g.metrics.ObserveGeneration("transcription", "error", "empty", time.Since(start))
		return Transcript{}, &TranscriptionError{Code: llm.CodeInternal, Err: errors.New("no speech recognised")}
	}
	g.metrics.ObserveGeneration("transcription", string(session.SourceAI), "", time.Since(start))
	return Transcript{Text: text, DurationSeconds: payload.DurationSeconds}, nil
}

func (g *generationGateway) CheckConnection(ctx context.Context) ConnectionStatus {
	start := time.Now()
	_, err := await(ctx, g.opts.QuestionTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.generator.Ping(ctx)
	})
	status := ConnectionStatus{Latency: time.Since(start)}
	if err != nil {
		status.Code = llm.CodeOf(err)
		status.Message = err.Error()
		log.Warn().Err(err).Msg("Language model connectivity check failed")
		return status
	}
	status.Connected = true
	status.Message = "ok"
	return status
}
