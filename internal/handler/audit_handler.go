package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	access       *policy.AccessPolicy
	jwtSecret    string
}

// NewAuditHandler sets up the routing dependencies for audit endpoints
func NewAuditHandler(auditService service.AuditService, access *policy.AccessPolicy, jwtSecret string) *AuditHandler {
	return &AuditHandler{auditService: auditService, access: access, jwtSecret: jwtSecret}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audits := router.Group("/audit-logs",
		middleware.Authenticate(h.jwtSecret),
		middleware.RequireSuperAdmin(h.access),
	)
	{
		audits.GET("", h.List)
	}
}

// List returns the audit trail, newest first
// @Summary      List audit entries
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page        query  int     false  "Page number"
// @Param        limit       query  int     false  "Page size"
// @Param        actor       query  string  false  "Filter by actor email"
// @Param        action      query  string  false  "Filter by action"
// @Param        collection  query  string  false  "Filter by collection"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := repository.AuditFilter{
		Actor:      c.Query("actor"),
		Action:     c.Query("action"),
		Collection: c.Query("collection"),
	}

	entries, total, err := h.auditService.List(c.Request.Context(), middleware.Identity(c), filter, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, params.Meta(total)))
}
