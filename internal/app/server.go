package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pulse-agent-service/internal/agent"
	"pulse-agent-service/internal/agent/model"
	"pulse-agent-service/internal/config"
	"pulse-agent-service/internal/db"
	domain "pulse-agent-service/internal/domain/session"
	"pulse-agent-service/internal/graphql"
	chatHandler "pulse-agent-service/internal/handlers/chat"
	healthHandler "pulse-agent-service/internal/handlers/health"
	infoHandler "pulse-agent-service/internal/handlers/info"
	sessionHandler "pulse-agent-service/internal/handlers/session"
	wsHandler "pulse-agent-service/internal/handlers/ws"
	"pulse-agent-service/internal/pkg/auth"
	"pulse-agent-service/internal/pkg/ratelimit"
	"pulse-agent-service/internal/repository/memory"
	"pulse-agent-service/internal/repository/postgres"
	chatService "pulse-agent-service/internal/service/chat"
	sessionService "pulse-agent-service/internal/service/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	http   *http.Server
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	s.logger = logger

	// ----- Session store -----
	store, err := s.buildStore(ctx)
	if err != nil {
		return err
	}

	// ----- Rate limiter (optional) -----
	var limiter *ratelimit.Limiter
	if s.cfg.RedisAddr != "" {
		redisClient, err := db.NewRedisClient(db.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		limiter = ratelimit.NewLimiter(redisClient, s.cfg.ChatRateLimit, s.cfg.ChatRateWindow)
		logger.Info("chat rate limiting enabled",
			zap.Int64("limit", s.cfg.ChatRateLimit),
			zap.Duration("window", s.cfg.ChatRateWindow))
	}

	// ----- Credential validator -----
	validator := auth.NewValidator(auth.Config{
		SecretKey:     s.cfg.JWTSecretKey,
		AllowUnsigned: s.cfg.JWTAllowUnsigned,
		DevMode:       s.cfg.DevMode,
	})

	// ----- Agent runtime -----
	gqlClient := graphql.NewClient(s.cfg.GraphQLAPIURL, s.cfg.ServiceToken, logger)
	toolset := graphql.NewToolset(gqlClient)
	llmAgent := model.NewLLMAgent(model.Config{
		Name:        s.cfg.AgentName,
		Model:       s.cfg.AgentModel,
		Instruction: agent.LoadInstructions(s.cfg.AgentInstructionFile, logger),
		APIKey:      s.cfg.OpenAIAPIKey,
		Tools:       toolset.Tools(),
	}, logger)
	runner := agent.NewRunner(llmAgent, logger)

	// ----- Services -----
	sessionSvc := sessionService.NewService(store, validator, s.cfg.AppName, logger)
	chatSvc := chatService.NewService(store, runner, s.cfg.AppName, logger)

	// ----- Handlers -----
	handlers := routerHandlers{
		health:  healthHandler.NewHealthHandler(),
		session: sessionHandler.NewSessionHandler(sessionSvc),
		chat:    chatHandler.NewChatHandler(chatSvc, limiter),
		info:    infoHandler.NewInfoHandler(),
		ws:      wsHandler.NewWSHandler(chatSvc, logger),
	}
	s.registerRoutes(handlers)

	s.http = &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.engine,
	}
	logger.Info("server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// buildStore selects the session backend. Postgres is the default; the
// in-memory store serves development and tests.
func (s *Server) buildStore(ctx context.Context) (domain.Store, error) {
	switch s.cfg.SessionBackend {
	case "memory":
		return memory.NewSessionStore(), nil
	case "postgres", "":
		pool, err := db.ConnectPostgres(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		repo := postgres.NewSessionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", s.cfg.SessionBackend)
	}
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
