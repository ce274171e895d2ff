package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET / as a liveness check.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: "KPA Forms API is running",
		Data:    gin.H{"status": "healthy"},
	})
}
