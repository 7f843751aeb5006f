// Package ws streams agent events for a chat turn over a websocket.
package ws

import (
	"net/http"

	"pulse-agent-service/internal/agent"
	xerrors "pulse-agent-service/internal/pkg/errors"
	service "pulse-agent-service/internal/service/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientMessage is the single frame the client sends to start a turn.
type clientMessage struct {
	Message string `json:"message"`
}

// frame is one event or terminal status pushed to the client.
type frame struct {
	Type     string       `json:"type"`
	Event    *agent.Event `json:"event,omitempty"`
	Response string       `json:"response,omitempty"`
	Agent    string       `json:"agent_name,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type WSHandler struct {
	chatService *service.Service
	logger      *zap.Logger
}

func NewWSHandler(chatService *service.Service, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{chatService: chatService, logger: logger}
}

// ChatStream upgrades the connection, reads one message frame, and streams
// the turn's events followed by a final frame. One turn per connection.
func (h *WSHandler) ChatStream(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id query parameter is required"})
		return
	}
	sessionID := c.Param("session_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var msg clientMessage
	if err := conn.ReadJSON(&msg); err != nil || msg.Message == "" {
		_ = conn.WriteJSON(frame{Type: "error", Error: "expected a JSON frame with a non-empty message field"})
		return
	}

	resp, err := h.chatService.Stream(c.Request.Context(), userID, sessionID, msg.Message, func(ev agent.Event) error {
		return conn.WriteJSON(frame{Type: "event", Event: &ev})
	})
	if err != nil {
		h.logger.Warn("websocket chat turn failed",
			zap.String("session_id", sessionID),
			zap.Int("status", xerrors.HTTPStatus(err)),
			zap.Error(err))
		_ = conn.WriteJSON(frame{Type: "error", Error: err.Error()})
		return
	}

	_ = conn.WriteJSON(frame{
		Type:     "final",
		Response: resp.Response,
		Agent:    resp.AgentName,
	})
}
