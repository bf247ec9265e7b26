package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/placementai/internal/controller"
	"github.com/lshigami/placementai/internal/dto"
	"github.com/lshigami/placementai/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminSubmissionController struct {
	adminService service.AdminService
}

func NewAdminSubmissionController(adminService service.AdminService) *AdminSubmissionController {
	return &AdminSubmissionController{adminService: adminService}
}

// ListSubmissions handles GET /admin?skill=...
func (c *AdminSubmissionController) ListSubmissions(ctx *gin.Context) {
	var q dto.AdminFilterQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		log.Warn().Err(err).Msg("Admin ListSubmissions: failed to bind query")
	}

	rows, err := c.adminService.ListSubmissions(ctx.Request.Context(), q.Skill)
	if err != nil {
		controller.RenderError(ctx, err, "Admin ListSubmissions: service error")
		return
	}
	controller.Render(ctx, http.StatusOK, "admin.html", gin.H{
		"Title": "Admin",
		"Skill": q.Skill,
		"Rows":  rows,
	})
}
