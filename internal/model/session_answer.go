package model

import (
	"time"

	"gorm.io/gorm"
)

type SessionAnswer struct {
	ID                    uint           `gorm:"primarykey" json:"id"`
	PracticeSessionID     uint           `json:"practice_session_id" gorm:"not null;index"`
	QuestionKey           string         `json:"question_key" gorm:"not null"` // "q0", "q1", ...
	Position              int            `json:"position" gorm:"not null"`
	QuestionText          string         `json:"question_text" gorm:"type:text;not null"`
	AnswerText            string         `json:"answer_text" gorm:"type:text;not null"`
	AnswerDurationSeconds int            `json:"answer_duration_seconds"`
	IsFixedQuestion       bool           `json:"is_fixed_question"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`
}
