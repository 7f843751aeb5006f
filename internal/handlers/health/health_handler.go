package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	serviceName = "pulse-epm-agent"
	version     = "1.0.0"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check reports liveness. Reachable even while the agent backend is offline.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": version,
	})
}
