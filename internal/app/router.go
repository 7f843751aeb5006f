package app

import (
	chatHandler "pulse-agent-service/internal/handlers/chat"
	healthHandler "pulse-agent-service/internal/handlers/health"
	infoHandler "pulse-agent-service/internal/handlers/info"
	sessionHandler "pulse-agent-service/internal/handlers/session"
	wsHandler "pulse-agent-service/internal/handlers/ws"
	"pulse-agent-service/internal/middleware"
)

type routerHandlers struct {
	health  *healthHandler.HealthHandler
	session *sessionHandler.SessionHandler
	chat    *chatHandler.ChatHandler
	info    *infoHandler.InfoHandler
	ws      *wsHandler.WSHandler
}

func (s *Server) registerRoutes(h routerHandlers) {
	s.engine.Use(middleware.RecoveryMiddleware(s.logger))
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.AvailabilityMiddleware(middleware.AvailabilityConfig{
		ProjectID: s.cfg.AgentProjectID,
		APIKey:    s.cfg.OpenAIAPIKey,
	}))

	api := s.engine.Group("/api/v1/pulse-epm-agent")
	{
		api.GET("/health", h.health.Check)
		api.GET("/usage", h.info.Usage)

		api.POST("/sessions", h.session.CreateSession)
		api.GET("/sessions", h.session.ListSessions)
		api.GET("/sessions/:session_id", h.session.GetSessionState)
		api.DELETE("/sessions/:session_id", h.session.DeleteSession)

		api.POST("/chat/:session_id", h.chat.Chat)
		api.GET("/ws/chat/:session_id", h.ws.ChatStream)
	}
}
