package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AvailabilityConfig names the settings the agent cannot operate without.
type AvailabilityConfig struct {
	ProjectID string
	APIKey    string
}

// Configured reports whether the agent backend can be reached at all.
func (c AvailabilityConfig) Configured() bool {
	return c.ProjectID != "" && c.APIKey != ""
}

// exemptPaths stay reachable while the agent is offline.
var exemptPaths = []string{
	"/api/v1/pulse-epm-agent/health",
	"/api/v1/pulse-epm-agent/openapi.json",
	"/docs",
}

// AvailabilityMiddleware rejects everything except the exempt paths with
// 503 while the agent backend is not configured.
func AvailabilityMiddleware(cfg AvailabilityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range exemptPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}
		if !cfg.Configured() {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"status":  "offline",
				"message": "Agent Offline",
				"detail":  "Agent project or model API key is not configured. The agent is currently unavailable.",
				"service": "pulse-epm-agent",
			})
			return
		}
		c.Next()
	}
}
