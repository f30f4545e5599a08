package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/lshigami/bizcoach/internal/model"
	"github.com/lshigami/bizcoach/internal/repository"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrHistoryNotFound is returned for ids that do not exist.
var ErrHistoryNotFound = errors.New("history entry not found")

// HistoryService persists completed sessions and serves them back to their owner.
type HistoryService interface {
	SaveCompleted(ctx context.Context, userID string, s session.Session) (uint, error)
	ListHistory(ctx context.Context, userID string) (*dto.HistoryListResponse, error)
	GetHistory(ctx context.Context, userID string, id uint) (*dto.HistoryDetailDTO, error)
	DeleteHistory(ctx context.Context, userID string, id uint) error
	GetStatistics(ctx context.Context, userID string) (*dto.StatisticsResponse, error)
}

type historyService struct {
	repo  repository.SessionRepository
	limit int
	now   func() time.Time
}

// NewHistoryService creates a new instance of HistoryService. limit caps the list size.
func NewHistoryService(repo repository.SessionRepository, limit int) HistoryService {
	if limit <= 0 {
		limit = 10
	}
	return &historyService{repo: repo, limit: limit, now: time.Now}
}

func (s *historyService) SaveCompleted(ctx context.Context, userID string, snap session.Session) (uint, error) {
	if snap.Feedback == nil || !snap.IsComplete() {
		return 0, fmt.Errorf("cannot save session %s: %w", snap.ID, session.ErrUnansweredQuestion)
	}
	if existing, err := s.repo.FindBySessionKey(ctx, snap.ID); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("error checking saved session %s: %w", snap.ID, err)
	}

	m := toPracticeSessionModel(userID, snap)
	if err := s.repo.Create(ctx, m); err != nil {
		log.Error().Err(err).Str("session_id", snap.ID).Str("user_id", userID).Msg("SaveCompleted: Failed to persist practice session")
		return 0, fmt.Errorf("error saving practice session: %w", err)
	}
	log.Info().Uint("history_id", m.ID).Str("session_id", snap.ID).Str("feedback_source", m.FeedbackSource).Msg("Practice session saved")
	return m.ID, nil
}

func (s *historyService) ListHistory(ctx context.Context, userID string) (*dto.HistoryListResponse, error) {
	var (
		sessions []model.PracticeSession
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = s.repo.FindAllByUser(gctx, userID, s.limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.CountByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("ListHistory: Failed to load history")
		return nil, fmt.Errorf("error fetching history: %w", err)
	}

	resp := &dto.HistoryListResponse{Items: make([]dto.HistorySummaryDTO, 0, len(sessions)), Total: total}
	for i := range sessions {
		resp.Items = append(resp.Items, toHistorySummary(&sessions[i]))
	}
	return resp, nil
}

func (s *historyService) findOwned(ctx context.Context, userID string, id uint) (*model.PracticeSession, error) {
	m, err := s.repo.FindByIDWithAnswers(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		return nil, fmt.Errorf("error fetching history %d: %w", id, err)
	}
	if m.UserID != userID {
		log.Warn().Uint("history_id", id).Str("user_id", userID).Msg("Rejected access to another user's history")
		return nil, ErrForbidden
	}
	return m, nil
}

func (s *historyService) GetHistory(ctx context.Context, userID string, id uint) (*dto.HistoryDetailDTO, error) {
	m, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	detail := toHistoryDetail(m)
	return &detail, nil
}

func (s *historyService) DeleteHistory(ctx context.Context, userID string, id uint) error {
	if _, err := s.findOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting history %d: %w", id, err)
	}
	return nil
}

func (s *historyService) GetStatistics(ctx context.Context, userID string) (*dto.StatisticsResponse, error) {
	sessions, err := s.repo.FindSummariesByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("GetStatistics: Failed to load sessions")
		return nil, fmt.Errorf("error fetching statistics: %w", err)
	}
	stats := calculateStatistics(sessions, s.now())
	return &stats, nil
}

// calculateStatistics aggregates sessions in now's location. Weeks start on Sunday.
func calculateStatistics(sessions []model.PracticeSession, now time.Time) dto.StatisticsResponse {
	stats := dto.StatisticsResponse{
		SceneStats:     []dto.SceneStatDTO{},
		RecentActivity: []dto.DailyActivityDTO{},
	}
	if len(sessions) == 0 {
		stats.TotalDurationLabel = FormatTotalDuration(0)
		return stats
	}

	loc := now.Location()
	stats.TotalSessions = len(sessions)

	byScene := make(map[string]*dto.SceneStatDTO)
	var order []string
	for _, ps := range sessions {
		stats.TotalDuration += ps.DurationSeconds
		st, ok := byScene[ps.SceneID]
		if !ok {
			st = &dto.SceneStatDTO{SceneID: ps.SceneID, SceneName: ps.SceneName}
			byScene[ps.SceneID] = st
			order = append(order, ps.SceneID)
		}
		st.Count++
		if ps.CreatedAt.After(st.LastPracticed) {
			st.LastPracticed = ps.CreatedAt
		}
	}
	stats.AverageDuration = stats.TotalDuration / stats.TotalSessions
	stats.TotalDurationLabel = FormatTotalDuration(stats.TotalDuration)

	for _, id := range order {
		stats.SceneStats = append(stats.SceneStats, *byScene[id])
	}
	sort.SliceStable(stats.SceneStats, func(i, j int) bool {
		return stats.SceneStats[i].Count > stats.SceneStats[j].Count
	})

	today := startOfDay(now)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		next := day.AddDate(0, 0, 1)
		count := 0
		for _, ps := range sessions {
			at := ps.CreatedAt.In(loc)
			if !at.Before(day) && at.Before(next) {
				count++
			}
		}
		stats.RecentActivity = append(stats.RecentActivity, dto.DailyActivityDTO{
			Date:  fmt.Sprintf("%d/%d", int(day.Month()), day.Day()),
			Count: count,
		})
	}

	thisWeekStart := today.AddDate(0, 0, -int(today.Weekday()))
	lastWeekStart := thisWeekStart.AddDate(0, 0, -7)
	for _, ps := range sessions {
		at := ps.CreatedAt.In(loc)
		switch {
		case !at.Before(thisWeekStart):
			stats.WeeklyStats.ThisWeek++
		case !at.Before(lastWeekStart):
			stats.WeeklyStats.LastWeek++
		}
	}
	return stats
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatTotalDuration renders seconds as "H時間M分", "M分S秒" or "S秒".
func FormatTotalDuration(seconds int) string {
	if seconds <= 0 {
		return "0分"
	}
	hours := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%d時間%d分", hours, mins)
	case mins > 0:
		return fmt.Sprintf("%d分%d秒", mins, secs)
	default:
		return fmt.Sprintf("%d秒", secs)
	}
}
