package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/services"
)

var statusByKind = map[services.Kind]int{
	services.KindValidation: http.StatusBadRequest,
	services.KindConflict:   http.StatusConflict,
	services.KindForbidden:  http.StatusForbidden,
	services.KindNotFound:   http.StatusNotFound,
}

// respondError writes {"error", "status"} for err. Internal errors are logged and
// answered with a generic message.
func respondError(c *gin.Context, err error) {
	kind := services.Classify(err)
	code, ok := statusByKind[kind]
	if !ok {
		log.Printf("request failed method=%s path=%s request_id=%s: %v", c.Request.Method, c.FullPath(), requestIDFromContext(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "status": services.KindInternal})
		return
	}
	c.JSON(code, gin.H{"error": err.Error(), "status": kind})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "status": services.KindValidation})
}
