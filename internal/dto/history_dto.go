package dto

import "time"

type HistorySummaryDTO struct {
	ID              uint      `json:"id"`
	SceneID         string    `json:"scene_id"`
	SceneName       string    `json:"scene_name"`
	TotalQuestions  int       `json:"total_questions"`
	DurationSeconds int       `json:"duration_seconds"`
	FeedbackSource  string    `json:"feedback_source"`
	CreatedAt       time.Time `json:"created_at"`
}

type HistoryListResponse struct {
	Items []HistorySummaryDTO `json:"items"`
	Total int64               `json:"total"`
}

type HistoryAnswerDTO struct {
	QuestionKey           string `json:"question_key"`
	Position              int    `json:"position"`
	QuestionText          string `json:"question_text"`
	AnswerText            string `json:"answer_text"`
	AnswerDurationSeconds int    `json:"answer_duration_seconds"`
	IsFixedQuestion       bool   `json:"is_fixed_question"`
}

type HistoryDetailDTO struct {
	HistorySummaryDTO
	Answers  []HistoryAnswerDTO `json:"answers"`
	Feedback *FeedbackDTO       `json:"feedback,omitempty"`
}

type SceneStatDTO struct {
	SceneID       string    `json:"scene_id"`
	SceneName     string    `json:"scene_name"`
	Count         int       `json:"count"`
	LastPracticed time.Time `json:"last_practiced"`
}

type DailyActivityDTO struct {
	Date  string `json:"date"` // "M/D"
	Count int    `json:"count"`
}

type WeeklyStatsDTO struct {
	ThisWeek int `json:"this_week"`
	LastWeek int `json:"last_week"`
}

type StatisticsResponse struct {
	TotalSessions      int                `json:"total_sessions"`
	TotalDuration      int                `json:"total_duration"`
	TotalDurationLabel string             `json:"total_duration_label"`
	AverageDuration    int                `json:"average_duration"`
	SceneStats         []SceneStatDTO     `json:"scene_stats"`
	RecentActivity     []DailyActivityDTO `json:"recent_activity"`
	WeeklyStats        WeeklyStatsDTO     `json:"weekly_stats"`
}
