package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/policy"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
	access           *policy.AccessPolicy
	jwtSecret        string
}

// NewDashboardHandler sets up the routing dependencies for dashboard endpoints
func NewDashboardHandler(dashboardService service.DashboardService, access *policy.AccessPolicy, jwtSecret string) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, access: access, jwtSecret: jwtSecret}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard",
		middleware.Authenticate(h.jwtSecret),
		middleware.RequireAdmin(h.access),
	)
	{
		dashboard.GET("/summary", h.Summary)
	}
}

// Summary returns the headline totals and monthly breakdown
// @Summary      Dashboard summary
// @Description  Aggregated totals across all ledgers plus a per-month breakdown. Served from cache when fresh.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DashboardSummary}
// @Failure      403  {object}  response.Response
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
