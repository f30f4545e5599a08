package model

import (
	"time"

	"github.com/lshigami/bizcoach/internal/session"
	"gorm.io/gorm"
)

type PracticeSession struct {
	ID              uint              `gorm:"primarykey" json:"id"`
	UserID          string            `json:"user_id" gorm:"not null;index:idx_practice_sessions_user_created,priority:1"`
	SessionKey      string            `json:"session_key" gorm:"not null;uniqueIndex"` // in-memory session id
	SceneID         string            `json:"scene_id" gorm:"not null;index"`
	SceneName       string            `json:"scene_name" gorm:"not null"`
	TotalQuestions  int               `json:"total_questions" gorm:"not null"`
	DurationSeconds int               `json:"duration_seconds"`
	Feedback        *session.Feedback `json:"feedback,omitempty" gorm:"type:text;serializer:json"`
	FeedbackSource  string            `json:"feedback_source"` // "AI", "DEFAULT"
	Answers         []SessionAnswer   `json:"answers,omitempty" gorm:"foreignKey:PracticeSessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time         `json:"created_at" gorm:"index:idx_practice_sessions_user_created,priority:2"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
}
