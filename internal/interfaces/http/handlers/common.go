// internal/interfaces/http/handlers/common.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/gardenops-backend/internal/domain/user"
	"github.com/your-org/gardenops-backend/internal/interfaces/http/middleware"
	"github.com/your-org/gardenops-backend/internal/pkg/apperrors"
)

// requireActor pulls the authenticated actor set by the auth middleware
func requireActor(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authentication required",
		})
		return user.Actor{}, false
	}
	return actor, true
}

// parseOptionalUintQuery parses an optional numeric query parameter
func parseOptionalUintQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid " + name + " parameter",
		})
		return 0, false
	}
	return uint(id), true
}

// respondError maps a service error to an HTTP response
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.KindForbidden:
		status = http.StatusForbidden
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindConflict, apperrors.KindInsufficientStock:
		status = http.StatusConflict
	case apperrors.KindDependency:
		status = http.StatusBadGateway
	}

	body := gin.H{
		"success": false,
		"message": err.Error(),
	}
	if kind == apperrors.KindInternal {
		// Internal details stay in the logs
		body["message"] = "internal server error"
	}
	if fields := apperrors.FieldsOf(err); len(fields) > 0 {
		body["errors"] = fields
	}

	c.JSON(status, body)
}

// respondBindError reports request parsing failures
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request data",
		"errors":  err.Error(),
	})
}

func respondOK(c *gin.Context, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusCreated, body)
}
