// Package session implements the session lifecycle: creation bound to a
// validated bearer credential, listing scoped to the caller, state inspection
// and deletion with a degraded fallback for stores that cannot remove rows.
package session

import (
	"context"
	"time"

	domain "pulse-agent-service/internal/domain/session"
	"pulse-agent-service/internal/pkg/auth"
	xerrors "pulse-agent-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Service struct {
	store     domain.Store
	validator *auth.Validator
	appName   string
	logger    *zap.Logger
}

func NewService(store domain.Store, validator *auth.Validator, appName string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, validator: validator, appName: appName, logger: logger}
}

// Create validates the bearer credential and opens a session bound to it.
// Identity fields missing from the request are derived from token claims.
func (s *Service) Create(ctx context.Context, authorization string, req *domain.CreateSessionRequest) (*domain.CreateSessionResponse, error) {
	token, claims, expiration, err := s.validator.ValidateBearer(authorization)
	if err != nil {
		return nil, err
	}

	userEmail := req.UserEmail
	if userEmail == "" {
		userEmail = auth.FirstStringClaim(claims, "email", "username")
	}
	userName := req.UserName
	if userName == "" {
		userName = auth.FirstStringClaim(claims, "name", "username")
	}

	state := domain.InitialState(token, userEmail, userName, req.UserID, expiration, time.Now())
	created, err := s.store.Create(ctx, s.appName, req.UserID, state)
	if err != nil {
		s.logger.Error("failed to create session",
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrInternal, "failed to create session")
	}

	s.logger.Info("session created",
		zap.String("session_id", created.ID),
		zap.String("user_id", req.UserID))

	return &domain.CreateSessionResponse{
		SessionID: created.ID,
		Message:   "Session created successfully",
	}, nil
}

// List returns the caller's unexpired sessions. The caller is identified by
// the token's email claim; sessions whose stored email differs are invisible.
// A store failure degrades to an empty listing rather than an error.
func (s *Service) List(ctx context.Context, authorization string) (*domain.SessionsListResponse, error) {
	_, claims, _, err := s.validator.ValidateBearer(authorization)
	if err != nil {
		return nil, err
	}

	userEmail := auth.StringClaim(claims, "email")
	if userEmail == "" {
		return nil, xerrors.Wrap(xerrors.ErrValidation, "JWT token missing 'email' claim. Cannot identify user sessions")
	}
	jwtUserID := auth.FirstStringClaim(claims, "sub", "user_id", "username")
	if jwtUserID == "" {
		jwtUserID = userEmail
	}

	sessions, err := s.store.List(ctx, s.appName)
	if err != nil {
		s.logger.Error("failed to list sessions", zap.Error(err))
		sessions = nil
	}

	now := time.Now()
	infos := []domain.SessionInfo{}
	for _, sess := range sessions {
		if sess == nil || sess.Email() != userEmail {
			continue
		}
		if sess.IsExpired(now) {
			continue
		}

		userID := sess.StateUserIDValue()
		if userID == "" {
			userID = jwtUserID
		}
		createdAt := ""
		if !sess.CreatedAt.IsZero() {
			createdAt = sess.CreatedAt.UTC().Format(time.RFC3339)
		} else if v := sess.CreatedAtString(); v != "" {
			createdAt = v
		}

		infos = append(infos, domain.SessionInfo{
			SessionID:        sess.ID,
			UserID:           userID,
			UserEmail:        userEmail,
			UserName:         sess.Name(),
			TokenExpiration:  sess.TokenExpiryString(),
			IsExpired:        false,
			InteractionCount: sess.InteractionCount(),
			CreatedAt:        createdAt,
		})
	}

	return &domain.SessionsListResponse{
		UserID:         jwtUserID,
		TotalSessions:  len(infos),
		ActiveSessions: len(infos),
		Sessions:       infos,
	}, nil
}

// GetState returns the raw state of a session.
func (s *Service) GetState(ctx context.Context, userID, sessionID string) (*domain.SessionStateResponse, error) {
	sess, err := s.store.Get(ctx, s.appName, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return &domain.SessionStateResponse{
		SessionID: sessionID,
		State:     sess.State,
	}, nil
}

// Delete removes a session. When the store does not support native deletion
// it degrades to clearing the state, and the response says so.
func (s *Service) Delete(ctx context.Context, userID, sessionID string) (*domain.DeleteResponse, error) {
	if _, err := s.store.Get(ctx, s.appName, userID, sessionID); err != nil {
		return nil, err
	}

	err := s.store.Delete(ctx, s.appName, userID, sessionID)
	if err == nil {
		s.logger.Info("session deleted", zap.String("session_id", sessionID))
		return &domain.DeleteResponse{
			Message:   "Session deleted successfully",
			SessionID: sessionID,
		}, nil
	}
	if !xerrors.Is(err, xerrors.ErrUnsupported) {
		s.logger.Error("failed to delete session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, xerrors.Wrap(xerrors.ErrInternal, "failed to delete session")
	}

	// Degraded path: the backing store cannot remove rows.
	if clearErr := s.store.ClearState(ctx, s.appName, userID, sessionID); clearErr != nil {
		s.logger.Error("failed to clear session state",
			zap.String("session_id", sessionID),
			zap.Error(clearErr))
		return nil, xerrors.Wrap(xerrors.ErrInternal, "failed to delete session")
	}
	s.logger.Warn("session state cleared, row retained",
		zap.String("session_id", sessionID))
	return &domain.DeleteResponse{
		Message:   "Session state cleared successfully",
		SessionID: sessionID,
		Note:      "Session record may still exist in the backing store",
	}, nil
}
