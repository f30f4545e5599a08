package repository

import (
	"context"

	"github.com/lshigami/bizcoach/internal/model"
	"gorm.io/gorm"
)

// SessionRepository stores completed practice sessions with their answers.
type SessionRepository interface {
	Create(ctx context.Context, s *model.PracticeSession) error
	FindByIDWithAnswers(ctx context.Context, id uint) (*model.PracticeSession, error)
	FindBySessionKey(ctx context.Context, key string) (*model.PracticeSession, error)
	FindAllByUser(ctx context.Context, userID string, limit int) ([]model.PracticeSession, error)
	FindSummariesByUser(ctx context.Context, userID string) ([]model.PracticeSession, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new instance of SessionRepository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts the session together with its answers.
func (r *sessionRepository) Create(ctx context.Context, s *model.PracticeSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepository) FindByIDWithAnswers(ctx context.Context, id uint) (*model.PracticeSession, error) {
	var s model.PracticeSession
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("session_answers.position ASC")
		}).
		First(&s, id).Error
	return &s, err
}

func (r *sessionRepository) FindBySessionKey(ctx context.Context, key string) (*model.PracticeSession, error) {
	var s model.PracticeSession
	err := r.db.WithContext(ctx).Where("session_key = ?", key).First(&s).Error
	return &s, err
}

// FindAllByUser returns the newest sessions first, without answers.
func (r *sessionRepository) FindAllByUser(ctx context.Context, userID string, limit int) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	query := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}

// FindSummariesByUser loads only the columns statistics need.
func (r *sessionRepository) FindSummariesByUser(ctx context.Context, userID string) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	err := r.db.WithContext(ctx).
		Select("id", "scene_id", "scene_name", "duration_seconds", "created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PracticeSession{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *sessionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Answers").Delete(&model.PracticeSession{ID: id}).Error
}
