package session

import (
	"fmt"
	"strings"
	"time"
)

// QuestionAnswer is one question of a session together with the answer given to it.
type QuestionAnswer struct {
	QuestionID            string `json:"question_id"`
	QuestionText          string `json:"question_text"`
	AnswerText            string `json:"answer_text"`
	AnswerDurationSeconds int    `json:"answer_duration_seconds"`
	IsFixedQuestion       bool   `json:"is_fixed_question"`
}

func (qa QuestionAnswer) Answered() bool {
	return strings.TrimSpace(qa.AnswerText) != ""
}

// Session is an immutable snapshot of one practice run. Mutations go through
// Store, which replaces the snapshot with a new value and bumps Version.
type Session struct {
	ID                    string           `json:"session_id"`
	SceneID               string           `json:"scene_id"`
	SceneName             string           `json:"scene_name"`
	Questions             []QuestionAnswer `json:"questions"`
	Cursor                int              `json:"current_question_index"`
	TotalQuestionsPlanned int              `json:"total_questions_planned"`
	Feedback              *Feedback        `json:"feedback,omitempty"`
	ElapsedSeconds        int              `json:"elapsed_seconds"`
	CreatedAt             time.Time        `json:"created_at"`
	Version               uint64           `json:"version"`
	Draft                 string           `json:"draft,omitempty"`
}

func questionID(position int) string {
	return fmt.Sprintf("q%d", position)
}

func (s Session) clone() Session {
	out := s
	out.Questions = append([]QuestionAnswer(nil), s.Questions...)
	if s.Feedback != nil {
		fb := s.Feedback.clone()
		out.Feedback = &fb
	}
	return out
}

func (s Session) next() Session {
	out := s.clone()
	out.Version++
	return out
}

func (s Session) withAnswer(text string, durationSeconds int) Session {
	out := s.next()
	qa := &out.Questions[out.Cursor]
	qa.AnswerText = text
	qa.AnswerDurationSeconds = durationSeconds
	return out
}

// withQuestions appends follow-ups. Ids continue from the current length so
// they stay unique however many batches are appended.
func (s Session) withQuestions(texts []string) Session {
	out := s.next()
	for _, text := range texts {
		out.Questions = append(out.Questions, QuestionAnswer{
			QuestionID:   questionID(len(out.Questions)),
			QuestionText: text,
		})
	}
	return out
}

func (s Session) advanced() (Session, bool) {
	if s.Cursor+1 >= len(s.Questions) {
		return s, false
	}
	out := s.next()
	out.Cursor++
	out.Draft = ""
	return out, true
}

func (s Session) withDraft(text string) Session {
	out := s.next()
	out.Draft = text
	return out
}

func (s Session) withFeedback(fb Feedback, now time.Time) Session {
	out := s.next()
	reconciled := ReconcileFeedback(fb)
	out.Feedback = &reconciled
	out.ElapsedSeconds = int(now.Sub(s.CreatedAt) / time.Second)
	return out
}

// CurrentQuestion returns the question under the cursor.
func (s Session) CurrentQuestion() (QuestionAnswer, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return QuestionAnswer{}, false
	}
	return s.Questions[s.Cursor], true
}

func (s Session) AnsweredCount() int {
	n := 0
	for _, qa := range s.Questions {
		if qa.Answered() {
			n++
		}
	}
	return n
}

// IsComplete is true when every question, including freshly appended
// follow-ups, has a non-blank answer.
func (s Session) IsComplete() bool {
	if len(s.Questions) == 0 {
		return false
	}
	return s.AnsweredCount() == len(s.Questions)
}

// ProgressPercent uses the planned question count as denominator so progress
// never moves backwards when follow-ups are appended.
func (s Session) ProgressPercent() int {
	if s.TotalQuestionsPlanned <= 0 {
		return 0
	}
	p := s.AnsweredCount() * 100 / s.TotalQuestionsPlanned
	if p > 100 {
		p = 100
	}
	return p
}

// QAList returns question/answer text pairs in session order.
func (s Session) QAList() []QAPair {
	out := make([]QAPair, 0, len(s.Questions))
	for _, qa := range s.Questions {
		out = append(out, QAPair{QuestionText: qa.QuestionText, AnswerText: qa.AnswerText})
	}
	return out
}

// QAPair is one question with its answer, as sent for feedback.
type QAPair struct {
	QuestionText string `json:"question_text"`
	AnswerText   string `json:"answer_text"`
}
