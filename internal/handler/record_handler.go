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

type RecordHandler struct {
	recordService service.RecordService
	access        *policy.AccessPolicy
	jwtSecret     string
}

// NewRecordHandler sets up the routing dependencies for record endpoints
func NewRecordHandler(recordService service.RecordService, access *policy.AccessPolicy, jwtSecret string) *RecordHandler {
	return &RecordHandler{recordService: recordService, access: access, jwtSecret: jwtSecret}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/records/:collection",
		middleware.Authenticate(h.jwtSecret),
		middleware.RequireAdmin(h.access),
	)
	{
		records.GET("", h.List)
		records.POST("", h.Create)
		records.GET("/:id", h.Get)
		records.PUT("/:id", h.Update)
		records.DELETE("/:id", h.Delete)
	}
}

// List returns every record in a collection
// @Summary      List records
// @Description  Lists records in a collection, newest first. Filter customer-scoped collections with ?customer_id=.
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        collection   path   string  true   "Collection name"
// @Param        customer_id  query  string  false  "Filter by customer"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /records/{collection} [get]
func (h *RecordHandler) List(c *gin.Context) {
	collection := c.Param("collection")

	if rawCustomer := c.Query("customer_id"); rawCustomer != "" {
		customerID, err := uuid.Parse(rawCustomer)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid customer_id"))
			return
		}
		rows, err := h.recordService.ListByCustomer(c.Request.Context(), middleware.Identity(c), collection, customerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
		return
	}

	rows, err := h.recordService.List(c.Request.Context(), middleware.Identity(c), collection)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// Get returns one record by id
// @Summary      Get a record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection name"
// @Param        id          path  string  true  "Record ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /records/{collection}/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid record id"))
		return
	}

	row, err := h.recordService.Get(c.Request.Context(), middleware.Identity(c), c.Param("collection"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

// Create inserts a new record directly
// @Summary      Create a record
// @Description  Creation is applied immediately for any authorized admin; only updates and deletes go through approval.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection name"
// @Param        payload     body  object  true  "Record fields"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /records/{collection} [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	id, err := h.recordService.Create(c.Request.Context(), middleware.Identity(c), c.Param("collection"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"id": id}))
}

// Update submits an update mutation
// @Summary      Update a record
// @Description  Super-admins see the change applied immediately; everyone else gets a pending approval request back.
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection name"
// @Param        id          path  string  true  "Record ID"
// @Param        payload     body  object  true  "Changed fields"
// @Success      200  {object}  response.Response  "Mutation applied"
// @Success      202  {object}  response.Response  "Approval request created"
// @Failure      404  {object}  response.Response
// @Router       /records/{collection}/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid record id"))
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.recordService.Update(c.Request.Context(), middleware.Identity(c), c.Param("collection"), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMutation(c, result)
}

// Delete submits a delete mutation
// @Summary      Delete a record
// @Description  Super-admins see the record removed immediately; everyone else gets a pending approval request back.
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection name"
// @Param        id          path  string  true  "Record ID"
// @Success      200  {object}  response.Response  "Mutation applied"
// @Success      202  {object}  response.Response  "Approval request created"
// @Failure      404  {object}  response.Response
// @Router       /records/{collection}/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid record id"))
		return
	}

	result, err := h.recordService.Delete(c.Request.Context(), middleware.Identity(c), c.Param("collection"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMutation(c, result)
}

// respondMutation picks the status code from the engine's outcome: applied
// mutations return 200, deferred ones return 202 with the created request.
func respondMutation(c *gin.Context, result service.MutationResult) {
	status := http.StatusOK
	if result.Outcome == service.OutcomeDeferred {
		status = http.StatusAccepted
	}
	c.JSON(status, response.Success(status, result))
}
