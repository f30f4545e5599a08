package service

import (
	"github.com/jinzhu/copier"
	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/lshigami/bizcoach/internal/model"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/rs/zerolog/log"
)

func toFeedbackDTO(fb *session.Feedback) *dto.FeedbackDTO {
	if fb == nil {
		return nil
	}
	var out dto.FeedbackDTO
	if err := copier.Copy(&out, fb); err != nil {
		log.Error().Err(err).Msg("Failed to copy feedback to DTO")
	}
	out.Source = string(fb.Source)
	return &out
}

func toQuestionDTO(qa session.QuestionAnswer) dto.QuestionAnswerDTO {
	var out dto.QuestionAnswerDTO
	if err := copier.Copy(&out, &qa); err != nil {
		log.Error().Err(err).Str("question_id", qa.QuestionID).Msg("Failed to copy question to DTO")
	}
	return out
}

func toSessionResponse(s session.Session, state session.State, historyID *uint) dto.SessionResponse {
	resp := dto.SessionResponse{
		SessionID:             s.ID,
		SceneID:               s.SceneID,
		SceneName:             s.SceneName,
		State:                 string(state),
		Questions:             make([]dto.QuestionAnswerDTO, 0, len(s.Questions)),
		CurrentQuestionIndex:  s.Cursor,
		TotalQuestionsPlanned: s.TotalQuestionsPlanned,
		ProgressPercent:       s.ProgressPercent(),
		IsComplete:            s.IsComplete(),
		Draft:                 s.Draft,
		Feedback:              toFeedbackDTO(s.Feedback),
		ElapsedSeconds:        s.ElapsedSeconds,
		HistoryID:             historyID,
		CreatedAt:             s.CreatedAt,
	}
	for _, qa := range s.Questions {
		resp.Questions = append(resp.Questions, toQuestionDTO(qa))
	}
	if qa, ok := s.CurrentQuestion(); ok && state != session.StateComplete {
		current := toQuestionDTO(qa)
		resp.CurrentQuestion = &current
	}
	return resp
}

func toPracticeSessionModel(userID string, s session.Session) *model.PracticeSession {
	m := &model.PracticeSession{
		UserID:          userID,
		SessionKey:      s.ID,
		SceneID:         s.SceneID,
		SceneName:       s.SceneName,
		TotalQuestions:  len(s.Questions),
		DurationSeconds: s.ElapsedSeconds,
	}
	if s.Feedback != nil {
		fb := session.ReconcileFeedback(*s.Feedback)
		m.Feedback = &fb
		m.FeedbackSource = string(fb.Source)
	}
	for i, qa := range s.Questions {
		m.Answers = append(m.Answers, model.SessionAnswer{
			QuestionKey:           qa.QuestionID,
			Position:              i,
			QuestionText:          qa.QuestionText,
			AnswerText:            qa.AnswerText,
			AnswerDurationSeconds: qa.AnswerDurationSeconds,
			IsFixedQuestion:       qa.IsFixedQuestion,
		})
	}
	return m
}

func toHistorySummary(m *model.PracticeSession) dto.HistorySummaryDTO {
	var out dto.HistorySummaryDTO
	if err := copier.Copy(&out, m); err != nil {
		log.Error().Err(err).Uint("history_id", m.ID).Msg("Failed to copy practice session to summary DTO")
	}
	return out
}

func toHistoryDetail(m *model.PracticeSession) dto.HistoryDetailDTO {
	out := dto.HistoryDetailDTO{
		HistorySummaryDTO: toHistorySummary(m),
		Answers:           make([]dto.HistoryAnswerDTO, 0, len(m.Answers)),
		Feedback:          toFeedbackDTO(m.Feedback),
	}
	if err := copier.Copy(&out.Answers, &m.Answers); err != nil {
		log.Error().Err(err).Uint("history_id", m.ID).Msg("Failed to copy answers to DTO")
	}
	return out
}
