package user

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/bizcoach/internal/controller"
	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/lshigami/bizcoach/internal/middleware"
	"github.com/lshigami/bizcoach/internal/service"
	"github.com/rs/zerolog/log"
)

type PracticeController struct {
	practiceService service.PracticeService
	maxAudioBytes   int64
}

// NewPracticeController creates a new instance of PracticeController.
func NewPracticeController(ps service.PracticeService, maxAudioBytes int64) *PracticeController {
	if maxAudioBytes <= 0 {
		maxAudioBytes = service.DefaultGatewayOptions().MaxAudioBytes
	}
	return &PracticeController{practiceService: ps, maxAudioBytes: maxAudioBytes}
}

// RegisterRoutes mounts the scene and session endpoints on an authenticated group.
func (c *PracticeController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/scenes", c.ListScenes)

	sessions := rg.Group("/sessions")
	sessions.POST("", c.StartSession)
	sessions.GET("/:session_id", c.GetSession)
	sessions.PUT("/:session_id/draft", c.UpdateDraft)
	sessions.POST("/:session_id/answers", c.SubmitAnswer)
	sessions.POST("/:session_id/feedback", c.RequestFeedback)
	sessions.POST("/:session_id/transcriptions", c.Transcribe)
	sessions.DELETE("/:session_id", c.EndSession)
}

// ListScenes godoc
// @Summary List practice scenes
// @Description Get every business scene with its fixed opening question.
// @Tags Practice
// @Produce json
// @Success 200 {array} dto.SceneResponse
// @Router /scenes [get]
func (c *PracticeController) ListScenes(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.practiceService.ListScenes())
}

// StartSession godoc
// @Summary Start a practice session
// @Description Create a session for the scene. The first question is always the scene's fixed question.
// @Tags Practice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartSessionRequest true "Scene to practice"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "Unknown scene"
// @Router /sessions [post]
func (c *PracticeController) StartSession(ctx *gin.Context) {
	var req dto.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("StartSession: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}

	resp, err := c.practiceService.StartSession(ctx.Request.Context(), middleware.UserID(ctx), req.SceneID)
	if err != nil {
		controller.RespondError(ctx, "Failed to start session", err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetSession godoc
// @Summary Get a practice session
// @Tags Practice
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} dto.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Session not found or expired"
// @Router /sessions/{session_id} [get]
func (c *PracticeController) GetSession(ctx *gin.Context) {
	resp, err := c.practiceService.GetSession(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"))
	if err != nil {
		controller.RespondError(ctx, "Failed to get session", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateDraft godoc
// @Summary Save the answer draft
// @Description Store the text typed so far for the current question. The draft is cleared when the cursor moves.
// @Tags Practice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Param request body dto.UpdateDraftRequest true "Draft text"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} dto.ErrorResponse "A turn is in progress"
// @Router /sessions/{session_id}/draft [put]
func (c *PracticeController) UpdateDraft(ctx *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.practiceService.UpdateDraft(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"), req.Text)
	if err != nil {
		controller.RespondError(ctx, "Failed to save draft", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitAnswer godoc
// @Summary Answer the current question
// @Description Answering the fixed question adds follow-up questions. Answering the last question attaches feedback.
// @Description Generated content falls back to scene defaults (source DEFAULT) when the model is unavailable.
// @Tags Practice
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.TurnResponse
// @Failure 401 {object} dto.ErrorResponse "Model call was not authenticated"
// @Failure 409 {object} dto.ErrorResponse "A turn is in progress or the session is complete"
// @Failure 422 {object} dto.ErrorResponse "Answer is empty or outside the length limits"
// @Router /sessions/{session_id}/answers [post]
func (c *PracticeController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAnswer: Failed to bind JSON")
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.practiceService.SubmitAnswer(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"), req)
	if err != nil {
		controller.RespondError(ctx, "Failed to submit answer", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RequestFeedback godoc
// @Summary Retry feedback generation
// @Description Request feedback again for a fully answered session after an authentication failure.
// @Tags Practice
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.TurnResponse
// @Failure 401 {object} dto.ErrorResponse "Model call was not authenticated"
// @Failure 409 {object} dto.ErrorResponse "Session has unanswered questions or already has feedback"
// @Router /sessions/{session_id}/feedback [post]
func (c *PracticeController) RequestFeedback(ctx *gin.Context) {
	resp, err := c.practiceService.RequestFeedback(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"))
	if err != nil {
		controller.RespondError(ctx, "Failed to generate feedback", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Transcribe godoc
// @Summary Transcribe a spoken answer
// @Description Convert the uploaded recording to text and store it as the draft for review.
// @Tags Practice
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Param audio formData file true "Recorded answer"
// @Param format formData string false "Audio format hint such as webm or m4a"
// @Success 200 {object} dto.TranscriptionResponse
// @Failure 400 {object} dto.ErrorResponse "Missing audio file"
// @Failure 413 {object} dto.ErrorResponse "Audio is too large"
// @Failure 502 {object} dto.ErrorResponse "Transcription failed, enter the answer manually"
// @Router /sessions/{session_id}/transcriptions [post]
func (c *PracticeController) Transcribe(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("audio")
	if err != nil {
		controller.BadRequest(ctx, "Missing audio file", err)
		return
	}
	defer file.Close()

	// One byte past the limit is enough for the size check downstream.
	audio, err := io.ReadAll(io.LimitReader(file, c.maxAudioBytes+1))
	if err != nil {
		controller.BadRequest(ctx, "Failed to read audio file", err)
		return
	}
	format := ctx.PostForm("format")
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	}

	resp, err := c.practiceService.Transcribe(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id"), audio, format)
	if err != nil {
		controller.RespondError(ctx, "音声の認識に失敗しました。手動で入力してください。", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// EndSession godoc
// @Summary End a practice session
// @Description Discard the session. A generation still running for it is dropped.
// @Tags Practice
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found or expired"
// @Router /sessions/{session_id} [delete]
func (c *PracticeController) EndSession(ctx *gin.Context) {
	if err := c.practiceService.EndSession(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("session_id")); err != nil {
		controller.RespondError(ctx, "Failed to end session", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Session ended"})
}
