package service

import (
	"context"
	"fmt"

	"github.com/lshigami/bizcoach/internal/auth"
	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/lshigami/bizcoach/internal/metrics"
	"github.com/lshigami/bizcoach/internal/scene"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/rs/zerolog/log"
)

// PracticeOptions configures live sessions. Completed sessions of anonymous
// callers are never saved.
type PracticeOptions struct {
	AICount  int
	AutoSave bool
}

// PracticeService is the HTTP-facing entry point for live practice sessions.
type PracticeService interface {
	ListScenes() []dto.SceneResponse
	StartSession(ctx context.Context, userID, sceneID string) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	UpdateDraft(ctx context.Context, userID, sessionID, text string) (*dto.SessionResponse, error)
	SubmitAnswer(ctx context.Context, userID, sessionID string, req dto.SubmitAnswerRequest) (*dto.TurnResponse, error)
	RequestFeedback(ctx context.Context, userID, sessionID string) (*dto.TurnResponse, error)
	Transcribe(ctx context.Context, userID, sessionID string, audio []byte, format string) (*dto.TranscriptionResponse, error)
	EndSession(ctx context.Context, userID, sessionID string) error
}

type practiceService struct {
	catalog  *scene.Catalog
	registry *SessionRegistry
	flow     FlowController
	gateway  GenerationGateway
	history  HistoryService
	metrics  *metrics.Metrics
	opts     PracticeOptions
}

// NewPracticeService creates a new instance of PracticeService.
func NewPracticeService(
	catalog *scene.Catalog,
	registry *SessionRegistry,
	flow FlowController,
	gateway GenerationGateway,
	history HistoryService,
	m *metrics.Metrics,
	opts PracticeOptions,
) PracticeService {
	return &practiceService{
		catalog:  catalog,
		registry: registry,
		flow:     flow,
		gateway:  gateway,
		history:  history,
		metrics:  m,
		opts:     opts,
	}
}

func (s *practiceService) ListScenes() []dto.SceneResponse {
	scenes := s.catalog.All()
	out := make([]dto.SceneResponse, 0, len(scenes))
	for _, sc := range scenes {
		out = append(out, dto.SceneResponse{
			ID:            sc.ID,
			Name:          sc.Name,
			Description:   sc.Description,
			Icon:          sc.Icon,
			FixedQuestion: sc.FixedQuestion,
		})
	}
	return out
}

func (s *practiceService) StartSession(ctx context.Context, userID, sceneID string) (*dto.SessionResponse, error) {
	sc, err := s.catalog.Get(sceneID)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(session.StoreOptions{AICount: s.opts.AICount})
	snap, err := store.Create(sc.Seed())
	if err != nil {
		return nil, fmt.Errorf("error creating session for scene %s: %w", sceneID, err)
	}
	s.registry.Add(snap.ID, userID, store)
	s.metrics.ObserveSession("started")
	log.Info().Str("session_id", snap.ID).Str("scene_id", sceneID).Str("user_id", userID).Msg("Practice session started")

	resp := toSessionResponse(snap, store.State(), nil)
	return &resp, nil
}

func (s *practiceService) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	entry, err := s.registry.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(entry.Store.Snapshot(), entry.Store.State(), entry.HistoryID())
	return &resp, nil
}

func (s *practiceService) UpdateDraft(ctx context.Context, userID, sessionID, text string) (*dto.SessionResponse, error) {
	entry, err := s.registry.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !entry.TryBeginTurn() {
		return nil, session.ErrTurnInProgress
	}
	defer entry.EndTurn()

	snap, err := entry.Store.SetDraft(text)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(snap, entry.Store.State(), entry.HistoryID())
	return &resp, nil
}

func (s *practiceService) SubmitAnswer(ctx context.Context, userID, sessionID string, req dto.SubmitAnswerRequest) (*dto.TurnResponse, error) {
	entry, err := s.registry.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !entry.TryBeginTurn() {
		return nil, session.ErrTurnInProgress
	}
	defer entry.EndTurn()

	result, err := s.flow.SubmitAnswer(ctx, entry.Store, req.AnswerText, req.DurationSeconds)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("SubmitAnswer: Turn rejected")
		return nil, err
	}
	return s.turnResponse(ctx, userID, entry, result), nil
}

// RequestFeedback retries feedback for a fully answered session whose
// previous attempt failed authentication.
func (s *practiceService) RequestFeedback(ctx context.Context, userID, sessionID string) (*dto.TurnResponse, error) {
	entry, err := s.registry.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !entry.TryBeginTurn() {
		return nil, session.ErrTurnInProgress
	}
	defer entry.EndTurn()

	result, err := s.flow.GenerateFeedback(ctx, entry.Store)
	if err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("RequestFeedback: Feedback not attached")
		return nil, err
	}
	return s.turnResponse(ctx, userID, entry, result), nil
}

func (s *practiceService) turnResponse(ctx context.Context, userID string, entry *ActiveSession, result TurnResult) *dto.TurnResponse {
	resp := &dto.TurnResponse{
		Outcome:         string(result.Outcome),
		QuestionSource:  string(result.QuestionSource),
		FallbackReason:  result.FallbackReason,
		NearLengthLimit: result.NearLengthLimit,
	}
	if result.Outcome == OutcomeCompleted {
		s.metrics.ObserveSession("completed")
		if s.opts.AutoSave && userID != auth.AnonymousUserID {
			id, saveErr := s.history.SaveCompleted(ctx, userID, result.Session)
			if saveErr != nil {
				resp.AutoSaveError = saveErr.Error()
			} else {
				entry.SetHistoryID(id)
				resp.AutoSaved = true
			}
		}
	}
	resp.Session = toSessionResponse(result.Session, entry.Store.State(), entry.HistoryID())
	return resp
}

// Transcribe converts the recording and places the text in the draft so the
// user can review it before submitting.
func (s *practiceService) Transcribe(ctx context.Context, userID, sessionID string, audio []byte, format string) (*dto.TranscriptionResponse, error) {
	entry, err := s.registry.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	// The turn stays held across the remote call.
	if !entry.TryBeginTurn() {
		return nil, session.ErrTurnInProgress
	}
	defer entry.EndTurn()
	if state := entry.Store.State(); state != session.StateActive {
		return nil, fmt.Errorf("cannot transcribe in state %s: %w", state, session.ErrTurnInProgress)
	}

	transcript, err := s.gateway.Transcribe(ctx, audio, format)
	if err != nil {
		return nil, err
	}

	snap, err := entry.Store.SetDraft(transcript.Text)
	if err != nil {
		return nil, err
	}
	return &dto.TranscriptionResponse{
		Text:            transcript.Text,
		DurationSeconds: transcript.DurationSeconds,
		Session:         toSessionResponse(snap, entry.Store.State(), entry.HistoryID()),
	}, nil
}

// EndSession discards the session. A generation still in flight is dropped
// when it returns.
func (s *practiceService) EndSession(ctx context.Context, userID, sessionID string) error {
	entry, err := s.registry.Get(sessionID, userID)
	if err != nil {
		return err
	}
	entry.Store.Reset()
	s.registry.Remove(sessionID)
	s.metrics.ObserveSession("ended")
	log.Info().Str("session_id", sessionID).Str("user_id", userID).Msg("Practice session ended")
	return nil
}
