package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/policy"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
	access          *policy.AccessPolicy
	jwtSecret       string
}

// NewApprovalHandler sets up the routing dependencies for approval endpoints
func NewApprovalHandler(approvalService service.ApprovalService, access *policy.AccessPolicy, jwtSecret string) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService, access: access, jwtSecret: jwtSecret}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/approvals", middleware.Authenticate(h.jwtSecret), middleware.RequireAdmin(h.access))
	{
		approvals.POST("", h.Submit)
		approvals.GET("/mine", h.ListMine)
		approvals.DELETE("/:id", h.Clear)

		review := approvals.Group("", middleware.RequireSuperAdmin(h.access))
		{
			review.GET("/pending", h.ListPending)
			review.PUT("/:id/approve", h.Approve)
			review.PUT("/:id/reject", h.Reject)
			review.POST("/:id/retry", h.Retry)
		}
	}
}

// Submit routes a mutation attempt through the workflow engine
// @Summary      Submit a mutation
// @Description  Applies the mutation directly for super-admins, otherwise creates a pending approval request.
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SubmitMutationInput  true  "Mutation payload"
// @Success      200      {object}  response.Response{data=service.MutationResult}  "Mutation applied"
// @Success      202      {object}  response.Response{data=service.MutationResult}  "Approval request created"
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /approvals [post]
func (h *ApprovalHandler) Submit(c *gin.Context) {
	var in service.SubmitMutationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.approvalService.SubmitMutation(c.Request.Context(), middleware.Identity(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMutation(c, result)
}

// ListPending returns all pending requests for review
// @Summary      List pending requests
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /approvals/pending [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	requests, err := h.approvalService.ListPending(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// ListMine returns the caller's own requests, newest first
// @Summary      List my requests
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /approvals/mine [get]
func (h *ApprovalHandler) ListMine(c *gin.Context) {
	requests, err := h.approvalService.ListMyRequests(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// Approve approves a pending request and executes its mutation
// @Summary      Approve a request
// @Description  Marks the request approved and applies the deferred mutation. An execution failure is reported on the response, not rolled back.
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.ReviewResult}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response  "Request is no longer pending"
// @Router       /approvals/{id}/approve [put]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	result, err := h.approvalService.Approve(c.Request.Context(), id, middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Reject rejects a pending request with a reason
// @Summary      Reject a request
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string  true   "Request ID"
// @Param        payload  body  object  false  "Rejection reason"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response  "Request is no longer pending"
// @Router       /approvals/{id}/reject [put]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	req, err := h.approvalService.Reject(c.Request.Context(), id, middleware.Identity(c), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// Retry re-runs the deferred mutation of an approved request
// @Summary      Retry a failed execution
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.ReviewResult}
// @Failure      400  {object}  response.Response
// @Router       /approvals/{id}/retry [post]
func (h *ApprovalHandler) Retry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	result, err := h.approvalService.RetryExecution(c.Request.Context(), id, middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Clear removes the caller's own reviewed request
// @Summary      Clear a reviewed request
// @Description  Requesters may remove their own approved or rejected requests; pending ones stay until reviewed.
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response  "Request is still pending"
// @Router       /approvals/{id} [delete]
func (h *ApprovalHandler) Clear(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request id"))
		return
	}

	if err := h.approvalService.ClearRequest(c.Request.Context(), middleware.Identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "request cleared"}))
}
