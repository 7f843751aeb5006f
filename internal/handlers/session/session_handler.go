package session

import (
	"net/http"

	domain "pulse-agent-service/internal/domain/session"
	"pulse-agent-service/internal/pkg/response"
	service "pulse-agent-service/internal/service/session"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *service.Service
}

func NewSessionHandler(sessionService *service.Service) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSession opens a new session bound to the caller's bearer token.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req domain.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.sessionService.Create(c.Request.Context(), c.GetHeader("Authorization"), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}

// ListSessions returns the caller's unexpired sessions.
func (h *SessionHandler) ListSessions(c *gin.Context) {
	result, err := h.sessionService.List(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}

// GetSessionState returns the raw state of one session.
func (h *SessionHandler) GetSessionState(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, "user_id query parameter is required", nil)
		return
	}

	result, err := h.sessionService.GetState(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}

// DeleteSession removes a session, or clears its state when the store cannot
// delete rows.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		response.Error(c, http.StatusBadRequest, "user_id query parameter is required", nil)
		return
	}

	result, err := h.sessionService.Delete(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, result)
}
