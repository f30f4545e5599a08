package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/bizcoach/internal/metrics"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/rs/zerolog/log"
)

// TurnOutcome names what a turn led to.
type TurnOutcome string

const (
	OutcomeAdvanced       TurnOutcome = "advanced"
	OutcomeFollowUpsAdded TurnOutcome = "follow_ups_added"
	OutcomeCompleted      TurnOutcome = "completed"
)

// TurnResult is the session after a turn plus how its content was produced.
type TurnResult struct {
	Session         session.Session
	Outcome         TurnOutcome
	QuestionSource  session.Source
	FallbackReason  string
	NearLengthLimit bool
}

// FlowController drives one answer submission through validation, storage,
// follow-up generation and feedback. It holds no per-session state.
type FlowController interface {
	SubmitAnswer(ctx context.Context, store *session.Store, text string, durationSeconds int) (TurnResult, error)
	GenerateFeedback(ctx context.Context, store *session.Store) (TurnResult, error)
}

type flowController struct {
	gateway GenerationGateway
	limits  session.AnswerLimits
	metrics *metrics.Metrics
}

// NewFlowController creates a new instance of FlowController.
func NewFlowController(gateway GenerationGateway, limits session.AnswerLimits, m *metrics.Metrics) FlowController {
	return &flowController{gateway: gateway, limits: limits, metrics: m}
}

func (f *flowController) SubmitAnswer(ctx context.Context, store *session.Store, text string, durationSeconds int) (TurnResult, error) {
	answer, err := f.limits.Validate(text)
	if err != nil {
		f.metrics.ObserveTurn("rejected")
		return TurnResult{}, err
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	saved, err := store.SaveAnswer(answer, durationSeconds)
	if err != nil {
		return TurnResult{}, err
	}
	nearLimit := f.limits.NearLimit(answer)

	current, _ := saved.CurrentQuestion()
	if current.IsFixedQuestion && len(saved.Questions) == session.FixedQuestionCount {
		res, err := f.addFollowUps(ctx, store, saved.SceneID, answer)
		res.NearLengthLimit = nearLimit
		return res, err
	}

	next, moved, err := store.AdvanceCursor(saved)
	if err != nil {
		return TurnResult{}, err
	}
	if moved {
		f.metrics.ObserveTurn(string(OutcomeAdvanced))
		return TurnResult{Session: next, Outcome: OutcomeAdvanced, NearLengthLimit: nearLimit}, nil
	}

	res, err := f.GenerateFeedback(ctx, store)
	res.NearLengthLimit = nearLimit
	return res, err
}

func (f *flowController) addFollowUps(ctx context.Context, store *session.Store, sceneID, fixedAnswer string) (TurnResult, error) {
	ticket, err := store.BeginFollowUps()
	if err != nil {
		return TurnResult{}, err
	}

	batch, err := f.gateway.GenerateFollowUpQuestions(ctx, sceneID, fixedAnswer)
	if err != nil {
		if abortErr := store.AbortPending(ticket); abortErr != nil && !errors.Is(abortErr, session.ErrSessionDiscarded) {
			log.Warn().Err(abortErr).Msg("Failed to release follow-up ticket")
		}
		f.metrics.ObserveTurn("unauthenticated")
		return TurnResult{}, err
	}

	appended, err := store.AppendFollowUpQuestions(ticket, batch.Questions)
	if err != nil {
		if errors.Is(err, session.ErrSessionDiscarded) {
			log.Info().Str("scene_id", sceneID).Msg("Session ended while follow-ups were generated, discarding result")
			f.metrics.ObserveTurn("discarded")
		}
		return TurnResult{}, err
	}

	next, moved, err := store.AdvanceCursor(appended)
	if err != nil {
		return TurnResult{}, fmt.Errorf("advance after follow-ups: %w", err)
	}
	if !moved {
		return TurnResult{}, fmt.Errorf("advance after follow-ups: %w", session.ErrUnansweredQuestion)
	}

	f.metrics.ObserveTurn(string(OutcomeFollowUpsAdded))
	return TurnResult{
		Session:        next,
		Outcome:        OutcomeFollowUpsAdded,
		QuestionSource: batch.Source,
		FallbackReason: batch.Reason,
	}, nil
}

// GenerateFeedback requests feedback for a fully answered session and
// attaches it. It is also the retry path after an authentication failure.
func (f *flowController) GenerateFeedback(ctx context.Context, store *session.Store) (TurnResult, error) {
	ticket, err := store.BeginFeedback()
	if err != nil {
		return TurnResult{}, err
	}
	snap := store.Snapshot()

	result, err := f.gateway.GenerateFeedback(ctx, snap.SceneID, snap.SceneName, snap.QAList())
	if err != nil {
		if abortErr := store.AbortPending(ticket); abortErr != nil && !errors.Is(abortErr, session.ErrSessionDiscarded) {
			log.Warn().Err(abortErr).Msg("Failed to release feedback ticket")
		}
		f.metrics.ObserveTurn("unauthenticated")
		return TurnResult{}, err
	}

	done, err := store.AttachFeedback(ticket, session.ReconcileFeedback(result.Feedback))
	if err != nil {
		if errors.Is(err, session.ErrSessionDiscarded) {
			f.metrics.ObserveTurn("discarded")
		}
		return TurnResult{}, err
	}

	f.metrics.ObserveTurn(string(OutcomeCompleted))
	return TurnResult{
		Session:        done,
		Outcome:        OutcomeCompleted,
		QuestionSource: result.Feedback.Source,
		FallbackReason: result.Reason,
	}, nil
}
