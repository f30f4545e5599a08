package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FixedQuestionCount is the number of seed questions every session starts with.
const FixedQuestionCount = 1

// DefaultAICount is the number of follow-up questions requested after the fixed question.
const DefaultAICount = 3

// State is the lifecycle position of a Store.
type State string

const (
	StateIdle              State = "idle"
	StateActive            State = "active"
	StateAwaitingFollowUps State = "awaiting_follow_ups"
	StateAwaitingFeedback  State = "awaiting_feedback"
	StateComplete          State = "complete"
)

var (
	ErrNoActiveSession    = errors.New("no active session")
	ErrSessionActive      = errors.New("a session is already active")
	ErrTurnInProgress     = errors.New("a turn is already in progress")
	ErrSessionComplete    = errors.New("session is already complete")
	ErrSessionDiscarded   = errors.New("session was reset while the request was in flight")
	ErrStaleSnapshot      = errors.New("session snapshot is out of date")
	ErrNotPending         = errors.New("no generation is pending for this ticket")
	ErrNotFixedQuestion   = errors.New("current question is not the fixed question")
	ErrUnansweredQuestion = errors.New("session has unanswered questions")
	ErrFollowUpsMissing   = errors.New("follow-up questions have not been added yet")
	ErrFeedbackAttached   = errors.New("feedback is already attached")
	ErrEmptyFixedQuestion = errors.New("fixed question text is empty")
)

// Seed is what a scene contributes to a new session.
type Seed struct {
	SceneID       string
	SceneName     string
	FixedQuestion string
}

// Ticket identifies one outstanding generation request. A ticket issued before
// Reset is rejected with ErrSessionDiscarded when its result arrives.
type Ticket struct {
	epoch uint64
	seq   uint64
}

// StoreOptions configures a Store. Zero values fall back to defaults.
type StoreOptions struct {
	AICount int
	Clock   func() time.Time
	NewID   func() string
}

// Store owns the lifecycle of a single session. All methods are in-memory
// and hold the lock only for the duration of the mutation.
type Store struct {
	mu sync.Mutex

	aiCount int
	clock   func() time.Time
	newID   func() string

	state    State
	current  Session
	epoch    uint64
	seq      uint64
	pending  uint64
	appended bool
}

// NewStore creates an idle Store.
func NewStore(opts StoreOptions) *Store {
	if opts.AICount <= 0 {
		opts.AICount = DefaultAICount
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Store{
		aiCount: opts.AICount,
		clock:   opts.Clock,
		newID:   opts.NewID,
		state:   StateIdle,
	}
}

// Create starts a session with only the fixed question. Idle -> Active.
func (s *Store) Create(seed Seed) (Session, error) {
	if strings.TrimSpace(seed.FixedQuestion) == "" {
		return Session{}, ErrEmptyFixedQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return Session{}, ErrSessionActive
	}
	s.epoch++
	s.pending = 0
	s.appended = false
	s.current = Session{
		ID:        s.newID(),
		SceneID:   seed.SceneID,
		SceneName: seed.SceneName,
		Questions: []QuestionAnswer{{
			QuestionID:      questionID(0),
			QuestionText:    seed.FixedQuestion,
			IsFixedQuestion: true,
		}},
		Cursor:                0,
		TotalQuestionsPlanned: FixedQuestionCount + s.aiCount,
		CreatedAt:             s.clock(),
		Version:               1,
	}
	s.state = StateActive
	return s.current.clone(), nil
}

func (s *Store) requireActive() error {
	switch s.state {
	case StateActive:
		return nil
	case StateIdle:
		return ErrNoActiveSession
	case StateComplete:
		return ErrSessionComplete
	default:
		return ErrTurnInProgress
	}
}

// SaveAnswer writes the answer of the question under the cursor. Calling it
// again for the same cursor overwrites the previous answer.
func (s *Store) SaveAnswer(text string, durationSeconds int) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActive(); err != nil {
		return Session{}, err
	}
	s.current = s.current.withAnswer(text, durationSeconds)
	return s.current.clone(), nil
}

// SetDraft stores the in-progress answer buffer, e.g. a fresh transcript.
func (s *Store) SetDraft(text string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActive(); err != nil {
		return Session{}, err
	}
	s.current = s.current.withDraft(text)
	return s.current.clone(), nil
}

// Draft returns the in-progress answer buffer.
func (s *Store) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Draft
}

// BeginFollowUps moves Active -> AwaitingFollowUps once the fixed question has
// been answered. Only one ticket is outstanding at a time.
func (s *Store) BeginFollowUps() (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActive(); err != nil {
		return Ticket{}, err
	}
	qa, ok := s.current.CurrentQuestion()
	if !ok || !qa.IsFixedQuestion {
		return Ticket{}, ErrNotFixedQuestion
	}
	if !qa.Answered() {
		return Ticket{}, ErrUnansweredQuestion
	}
	return s.issue(StateAwaitingFollowUps), nil
}

// BeginFeedback moves Active -> AwaitingFeedback once the follow-ups have been
// added and every question is answered.
func (s *Store) BeginFeedback() (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActive(); err != nil {
		return Ticket{}, err
	}
	if s.current.Feedback != nil {
		return Ticket{}, ErrFeedbackAttached
	}
	if len(s.current.Questions) <= FixedQuestionCount {
		return Ticket{}, ErrFollowUpsMissing
	}
	if !s.current.IsComplete() {
		return Ticket{}, ErrUnansweredQuestion
	}
	return s.issue(StateAwaitingFeedback), nil
}

func (s *Store) issue(next State) Ticket {
	s.seq++
	s.pending = s.seq
	s.appended = false
	s.state = next
	return Ticket{epoch: s.epoch, seq: s.seq}
}

func (s *Store) checkTicket(t Ticket, want State) error {
	if t.epoch != s.epoch || s.state == StateIdle {
		return ErrSessionDiscarded
	}
	if s.state != want || s.pending == 0 || s.pending != t.seq {
		return ErrNotPending
	}
	return nil
}

// AppendFollowUpQuestions appends the batch with fresh sequential ids. The
// ticket is consumed, so an overlapping second append is rejected. The cursor
// does not move; pass the returned snapshot to AdvanceCursor.
func (s *Store) AppendFollowUpQuestions(t Ticket, questions []string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTicket(t, StateAwaitingFollowUps); err != nil {
		return Session{}, err
	}
	s.current = s.current.withQuestions(questions)
	s.pending = 0
	s.appended = true
	return s.current.clone(), nil
}

// AdvanceCursor moves the cursor to the next question if it exists. from must
// be the latest snapshot; an older one is rejected with ErrStaleSnapshot so the
// decision is never made against a list that predates an append.
func (s *Store) AdvanceCursor(from Session) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateIdle {
		return Session{}, false, ErrNoActiveSession
	}
	if from.ID != s.current.ID {
		return Session{}, false, ErrSessionDiscarded
	}
	if from.Version != s.current.Version {
		return Session{}, false, fmt.Errorf("%w: have version %d, current is %d", ErrStaleSnapshot, from.Version, s.current.Version)
	}
	switch {
	case s.state == StateActive:
	case s.state == StateAwaitingFollowUps && s.appended:
	case s.state == StateComplete:
		return Session{}, false, ErrSessionComplete
	default:
		return Session{}, false, ErrTurnInProgress
	}

	next, ok := s.current.advanced()
	s.current = next
	s.state = StateActive
	s.appended = false
	return s.current.clone(), ok, nil
}

// AttachFeedback records the feedback and elapsed time. AwaitingFeedback -> Complete.
func (s *Store) AttachFeedback(t Ticket, fb Feedback) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkTicket(t, StateAwaitingFeedback); err != nil {
		return Session{}, err
	}
	if s.current.Feedback != nil {
		return Session{}, ErrFeedbackAttached
	}
	s.current = s.current.withFeedback(fb, s.clock())
	s.pending = 0
	s.state = StateComplete
	return s.current.clone(), nil
}

// AbortPending returns an interrupted generation phase to Active without
// touching the question list.
func (s *Store) AbortPending(t Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.epoch != s.epoch || s.state == StateIdle {
		return ErrSessionDiscarded
	}
	if s.pending == 0 || s.pending != t.seq {
		return ErrNotPending
	}
	s.pending = 0
	s.appended = false
	s.state = StateActive
	return nil
}

// Reset drops all session data. Results of requests still in flight will be
// rejected on arrival.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.pending = 0
	s.appended = false
	s.current = Session{}
	s.state = StateIdle
}

// State reports the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// CurrentQuestion returns the question under the cursor.
func (s *Store) CurrentQuestion() (QuestionAnswer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return QuestionAnswer{}, false
	}
	return s.current.CurrentQuestion()
}

func (s *Store) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return false
	}
	return s.current.IsComplete()
}

func (s *Store) ProgressPercent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return 0
	}
	return s.current.ProgressPercent()
}

func (s *Store) AICount() int {
	return s.aiCount
}
