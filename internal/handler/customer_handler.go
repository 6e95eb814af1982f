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

type CustomerHandler struct {
	customerService service.CustomerService
	access          *policy.AccessPolicy
	jwtSecret       string
}

// NewCustomerHandler sets up the routing dependencies for customer endpoints
func NewCustomerHandler(customerService service.CustomerService, access *policy.AccessPolicy, jwtSecret string) *CustomerHandler {
	return &CustomerHandler{customerService: customerService, access: access, jwtSecret: jwtSecret}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *CustomerHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/customers",
		middleware.Authenticate(h.jwtSecret),
		middleware.RequireCustomerManager(h.access),
	)
	{
		customers.GET("", h.List)
		customers.GET("/:id", h.Get)
		customers.POST("", h.Create)
		customers.DELETE("/:id", h.Delete)
	}
}

// List returns all customers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.List(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customers))
}

// Get returns one customer by id
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid customer id"))
		return
	}

	customer, err := h.customerService.Get(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, customer))
}

// Create adds a customer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body  object  true  "Customer name"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	id, err := h.customerService.Create(c.Request.Context(), middleware.Identity(c), body.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"id": id}))
}

// Delete removes a customer
// @Summary      Delete a customer
// @Description  Removes the customer entry only; its scoped transaction records are kept.
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid customer id"))
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), middleware.Identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "customer deleted"}))
}
