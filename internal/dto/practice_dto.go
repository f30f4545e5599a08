package dto

import "time"

// SceneResponse is used for listing practice scenes.
type SceneResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	FixedQuestion string `json:"fixed_question"`
}

type StartSessionRequest struct {
	SceneID string `json:"scene_id" binding:"required"`
}

type UpdateDraftRequest struct {
	Text string `json:"text"`
}

type SubmitAnswerRequest struct {
	AnswerText      string `json:"answer_text"`
	DurationSeconds int    `json:"duration_seconds" binding:"min=0"`
}

type QuestionAnswerDTO struct {
	QuestionID            string `json:"question_id"`
	QuestionText          string `json:"question_text"`
	AnswerText            string `json:"answer_text"`
	AnswerDurationSeconds int    `json:"answer_duration_seconds"`
	IsFixedQuestion       bool   `json:"is_fixed_question"`
}

type GoodPointDTO struct {
	Aspect  string `json:"aspect"`
	Quote   string `json:"quote,omitempty"`
	Comment string `json:"comment"`
}

type ImprovementPointDTO struct {
	Aspect   string `json:"aspect"`
	Original string `json:"original,omitempty"`
	Improved string `json:"improved"`
	Reason   string `json:"reason"`
}

type FeedbackDTO struct {
	Summary           string                `json:"summary"`
	GoodPoints        []GoodPointDTO        `json:"good_points"`
	ImprovementPoints []ImprovementPointDTO `json:"improvement_points"`
	Encouragement     string                `json:"encouragement"`
	Source            string                `json:"source"` // "AI" or "DEFAULT"
}

// SessionResponse is the live state of an in-memory practice session.
type SessionResponse struct {
	SessionID             string              `json:"session_id"`
	SceneID               string              `json:"scene_id"`
	SceneName             string              `json:"scene_name"`
	State                 string              `json:"state"`
	Questions             []QuestionAnswerDTO `json:"questions"`
	CurrentQuestionIndex  int                 `json:"current_question_index"`
	CurrentQuestion       *QuestionAnswerDTO  `json:"current_question,omitempty"`
	TotalQuestionsPlanned int                 `json:"total_questions_planned"`
	ProgressPercent       int                 `json:"progress_percent"`
	IsComplete            bool                `json:"is_complete"`
	Draft                 string              `json:"draft,omitempty"`
	Feedback              *FeedbackDTO        `json:"feedback,omitempty"`
	ElapsedSeconds        int                 `json:"elapsed_seconds"`
	HistoryID             *uint               `json:"history_id,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
}

// TurnResponse reports what a submitted answer led to.
type TurnResponse struct {
	Outcome         string          `json:"outcome"` // "advanced", "follow_ups_added", "completed"
	QuestionSource  string          `json:"question_source,omitempty"`
	FallbackReason  string          `json:"fallback_reason,omitempty"`
	NearLengthLimit bool            `json:"near_length_limit"`
	AutoSaved       bool            `json:"auto_saved"`
	AutoSaveError   string          `json:"auto_save_error,omitempty"`
	Session         SessionResponse `json:"session"`
}

type TranscriptionResponse struct {
	Text            string          `json:"text"`
	DurationSeconds float64         `json:"duration_seconds"`
	Session         SessionResponse `json:"session"`
}
