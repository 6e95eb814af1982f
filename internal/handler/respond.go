package handler

import (
	"backend/pkg/apperrors"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the standard envelope using the
// HTTP status carried by the typed error.
func respondError(c *gin.Context, err error) {
	e := apperrors.FromError(err)
	c.JSON(e.Status, response.Error(e.Status, e.Message))
}
