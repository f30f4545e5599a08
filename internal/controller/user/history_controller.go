package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/bizcoach/internal/controller"
	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/lshigami/bizcoach/internal/middleware"
	"github.com/lshigami/bizcoach/internal/service"
)

type HistoryController struct {
	historyService service.HistoryService
}

// NewHistoryController creates a new instance of HistoryController.
func NewHistoryController(hs service.HistoryService) *HistoryController {
	return &HistoryController{historyService: hs}
}

// RegisterRoutes mounts the history endpoints. Anonymous callers are rejected.
func (c *HistoryController) RegisterRoutes(rg *gin.RouterGroup) {
	history := rg.Group("/history", middleware.RequireUser())
	history.GET("", c.ListHistory)
	history.GET("/statistics", c.GetStatistics)
	history.GET("/:history_id", c.GetHistory)
	history.DELETE("/:history_id", c.DeleteHistory)
}

// ListHistory godoc
// @Summary List saved sessions
// @Description Newest first, up to the configured limit. Total counts every saved session.
// @Tags History
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.HistoryListResponse
// @Failure 401 {object} dto.ErrorResponse "Sign-in required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /history [get]
func (c *HistoryController) ListHistory(ctx *gin.Context) {
	resp, err := c.historyService.ListHistory(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, "Failed to retrieve history", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetHistory godoc
// @Summary Get a saved session
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param history_id path int true "History ID"
// @Success 200 {object} dto.HistoryDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid history_id format"
// @Failure 403 {object} dto.ErrorResponse "Entry belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "History entry not found"
// @Router /history/{history_id} [get]
func (c *HistoryController) GetHistory(ctx *gin.Context) {
	id, ok := controller.UintParam(ctx, "history_id")
	if !ok {
		return
	}
	resp, err := c.historyService.GetHistory(ctx.Request.Context(), middleware.UserID(ctx), id)
	if err != nil {
		controller.RespondError(ctx, "Failed to retrieve history entry", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteHistory godoc
// @Summary Delete a saved session
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param history_id path int true "History ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse "Entry belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "History entry not found"
// @Router /history/{history_id} [delete]
func (c *HistoryController) DeleteHistory(ctx *gin.Context) {
	id, ok := controller.UintParam(ctx, "history_id")
	if !ok {
		return
	}
	if err := c.historyService.DeleteHistory(ctx.Request.Context(), middleware.UserID(ctx), id); err != nil {
		controller.RespondError(ctx, "Failed to delete history entry", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "History entry deleted"})
}

// GetStatistics godoc
// @Summary Practice statistics
// @Description Totals, per-scene counts, activity over the last seven days and this week against last week.
// @Tags History
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatisticsResponse
// @Failure 401 {object} dto.ErrorResponse "Sign-in required"
// @Router /history/statistics [get]
func (c *HistoryController) GetStatistics(ctx *gin.Context) {
	resp, err := c.historyService.GetStatistics(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		controller.RespondError(ctx, "Failed to calculate statistics", err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
