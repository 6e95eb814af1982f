package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/policy"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	access        *policy.AccessPolicy
	jwtSecret     string
}

// NewReportHandler sets up the routing dependencies for report endpoints
func NewReportHandler(reportService service.ReportService, access *policy.AccessPolicy, jwtSecret string) *ReportHandler {
	return &ReportHandler{reportService: reportService, access: access, jwtSecret: jwtSecret}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports",
		middleware.Authenticate(h.jwtSecret),
		middleware.RequireAdmin(h.access),
	)
	{
		reports.GET("/:collection", h.Generate)
	}
}

// Generate renders a collection report and streams it back
// @Summary      Export a collection report
// @Description  Renders the collection as PDF or CSV with totals, optionally limited to a date range.
// @Tags         reports
// @Produce      application/pdf
// @Produce      text/csv
// @Security     BearerAuth
// @Param        collection  path   string  true   "Collection name"
// @Param        format      query  string  false  "pdf (default) or csv"
// @Param        from        query  string  false  "From date (YYYY-MM-DD)"
// @Param        to          query  string  false  "To date (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      400  {object}  response.Response
// @Router       /reports/{collection} [get]
func (h *ReportHandler) Generate(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatPDF)

	report, err := h.reportService.Generate(c.Request.Context(), middleware.Identity(c), service.ReportRequest{
		Collection: c.Param("collection"),
		Format:     format,
		FromDate:   c.Query("from"),
		ToDate:     c.Query("to"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
