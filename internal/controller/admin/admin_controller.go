package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/lshigami/bizcoach/internal/middleware"
	"github.com/lshigami/bizcoach/internal/scene"
	"github.com/lshigami/bizcoach/internal/service"
	"github.com/rs/zerolog/log"
)

// AdminController serves operational checks for signed-in users.
type AdminController struct {
	gateway service.GenerationGateway
	catalog *scene.Catalog
	aiCount int
}

// NewAdminController creates a new instance of AdminController.
func NewAdminController(gateway service.GenerationGateway, catalog *scene.Catalog, aiCount int) *AdminController {
	return &AdminController{gateway: gateway, catalog: catalog, aiCount: aiCount}
}

// RegisterRoutes mounts the admin endpoints. rg must already run
// middleware.Authenticate; anonymous callers are rejected.
func (c *AdminController) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin", middleware.RequireUser())
	admin.GET("/ai/status", c.AIStatus)
	admin.GET("/scenes/validate", c.ValidateScenes)
}

// AIStatus godoc
// @Summary (Admin) Check the language model connection
// @Description Sends a lightweight request to the configured provider and reports the result.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AIStatusResponse "Provider reachable"
// @Failure 401 {object} dto.ErrorResponse "Sign-in required"
// @Failure 503 {object} dto.AIStatusResponse "Provider unreachable or misconfigured"
// @Router /admin/ai/status [get]
func (c *AdminController) AIStatus(ctx *gin.Context) {
	status := c.gateway.CheckConnection(ctx.Request.Context())
	resp := dto.AIStatusResponse{
		Connected: status.Connected,
		Code:      string(status.Code),
		Message:   status.Message,
		LatencyMS: status.Latency.Milliseconds(),
		CheckedAt: time.Now().UTC(),
	}
	if !status.Connected {
		ctx.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ValidateScenes godoc
// @Summary (Admin) Validate the scene catalog
// @Description Checks every scene for a fixed question, a prompt, enough fallback questions and well-formed default feedback.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SceneValidationResponse
// @Failure 401 {object} dto.ErrorResponse "Sign-in required"
// @Failure 500 {object} dto.SceneValidationResponse "Catalog has problems"
// @Router /admin/scenes/validate [get]
func (c *AdminController) ValidateScenes(ctx *gin.Context) {
	resp := dto.SceneValidationResponse{Valid: true, Scenes: len(c.catalog.All())}
	if err := c.catalog.Validate(c.aiCount); err != nil {
		resp.Valid = false
		resp.Errors = flatten(err)
		log.Error().Err(err).Msg("Admin ValidateScenes: Scene catalog is invalid")
		ctx.JSON(http.StatusInternalServerError, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func flatten(err error) []string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		if e != nil {
			out = append(out, e.Error())
		}
	}
	return out
}
