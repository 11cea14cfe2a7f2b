package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/middleware"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
)

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(middleware.RequestIDKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader(middleware.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

// identityFromContext falls back to a plain user built from "userID" for
// routes mounted without the full identity.
func identityFromContext(c *gin.Context) models.Identity {
	if identity, ok := middleware.IdentityFrom(c); ok {
		return identity
	}
	return models.Identity{UserID: c.GetInt(middleware.UserIDKey), Role: models.RoleUser}
}

// intParam parses a positive path parameter, answering 400 when it is not one.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name, "status": "validation"})
		return 0, false
	}
	return id, true
}
