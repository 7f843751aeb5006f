package session

import (
	"context"
	"testing"
	"time"

	domain "pulse-agent-service/internal/domain/session"
	"pulse-agent-service/internal/pkg/auth"
	xerrors "pulse-agent-service/internal/pkg/errors"
	"pulse-agent-service/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testApp    = "pulse-epm-agent"
	testSecret = "test-secret"
)

func bearer(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func newService(store domain.Store) *Service {
	validator := auth.NewValidator(auth.Config{SecretKey: testSecret})
	return NewService(store, validator, testApp, nil)
}

func TestCreate_StateFromClaims(t *testing.T) {
	store := memory.NewSessionStore()
	svc := newService(store)

	resp, err := svc.Create(context.Background(), bearer(t, jwt.MapClaims{
		"email": "a@x.com",
		"name":  "Alice",
	}), &domain.CreateSessionRequest{UserID: "u1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "Session created successfully", resp.Message)

	sess, err := store.Get(context.Background(), testApp, "u1", resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sess.Email())
	assert.Equal(t, "Alice", sess.Name())
	assert.Equal(t, "u1", sess.StateUserIDValue())
	assert.NotEmpty(t, sess.Token())
	_, ok := sess.ExpiresAt()
	assert.True(t, ok, "token expiry must be embedded in state")
}

func TestCreate_RequestFieldsWinOverClaims(t *testing.T) {
	store := memory.NewSessionStore()
	svc := newService(store)

	resp, err := svc.Create(context.Background(), bearer(t, jwt.MapClaims{
		"email": "claims@x.com",
		"name":  "Claims Name",
	}), &domain.CreateSessionRequest{
		UserID:    "u1",
		UserEmail: "req@x.com",
		UserName:  "Req Name",
	})
	require.NoError(t, err)

	sess, err := store.Get(context.Background(), testApp, "u1", resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "req@x.com", sess.Email())
	assert.Equal(t, "Req Name", sess.Name())
}

func TestCreate_UsernameFallback(t *testing.T) {
	store := memory.NewSessionStore()
	svc := newService(store)

	resp, err := svc.Create(context.Background(), bearer(t, jwt.MapClaims{
		"username": "jdoe",
	}), &domain.CreateSessionRequest{UserID: "u1"})
	require.NoError(t, err)

	sess, err := store.Get(context.Background(), testApp, "u1", resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", sess.Email())
	assert.Equal(t, "jdoe", sess.Name())
}

func TestCreate_InvalidToken(t *testing.T) {
	svc := newService(memory.NewSessionStore())

	_, err := svc.Create(context.Background(), "Bearer garbage", &domain.CreateSessionRequest{UserID: "u1"})
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrAuthentication))
}

func TestList_FiltersByEmailAndExpiry(t *testing.T) {
	store := memory.NewSessionStore()
	svc := newService(store)
	ctx := context.Background()

	// Two live sessions for a@x.com, one expired, one other user.
	_, err := store.Create(ctx, testApp, "u1",
		domain.InitialState("tok", "a@x.com", "Alice", "u1", time.Now().Add(time.Hour), time.Now()))
	require.NoError(t, err)
	_, err = store.Create(ctx, testApp, "u1",
		domain.InitialState("tok", "a@x.com", "Alice", "u1", time.Now().Add(time.Hour), time.Now()))
	require.NoError(t, err)
	_, err = store.Create(ctx, testApp, "u1",
		domain.InitialState("tok", "a@x.com", "Alice", "u1", time.Now().Add(-time.Hour), time.Now()))
	require.NoError(t, err)
	_, err = store.Create(ctx, testApp, "u2",
		domain.InitialState("tok", "b@x.com", "Bob", "u2", time.Now().Add(time.Hour), time.Now()))
	require.NoError(t, err)

	resp, err := svc.List(ctx, bearer(t, jwt.MapClaims{"email": "a@x.com", "sub": "u1"}))
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, 2, resp.TotalSessions)
	assert.Equal(t, 2, resp.ActiveSessions)
	require.Len(t, resp.Sessions, 2)
	for _, info := range resp.Sessions {
		assert.Equal(t, "a@x.com", info.UserEmail)
		assert.False(t, info.IsExpired)
	}
}

func TestList_RequiresEmailClaim(t *testing.T) {
	svc := newService(memory.NewSessionStore())

	_, err := svc.List(context.Background(), bearer(t, jwt.MapClaims{"sub": "u1"}))
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrValidation))
}

type failingListStore struct {
	domain.Store
}

func (s *failingListStore) List(ctx context.Context, appName string) ([]*domain.Session, error) {
	return nil, xerrors.ErrInternal
}

func TestList_StoreFailureDegradesToEmpty(t *testing.T) {
	svc := newService(&failingListStore{Store: memory.NewSessionStore()})

	resp, err := svc.List(context.Background(), bearer(t, jwt.MapClaims{"email": "a@x.com"}))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalSessions)
	assert.Empty(t, resp.Sessions)
}

func TestGetState(t *testing.T) {
	store := memory.NewSessionStore()
	svc := newService(store)
	ctx := context.Background()

	created, err := store.Create(ctx, testApp, "u1",
		domain.InitialState("tok", "a@x.com", "Alice", "u1", time.Now().Add(time.Hour), time.Now()))
	require.NoError(t, err)

	resp, err := svc.GetState(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.SessionID)
	assert.Equal(t, "tok", resp.State[domain.StateJWTToken])

	_, err = svc.GetState(ctx, "u1", "missing")
	assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
}

func TestDelete_Native(t *testing.T) {
	store := memory.NewSessionStore()
	svc := newService(store)
	ctx := context.Background()

	created, err := store.Create(ctx, testApp, "u1", nil)
	require.NoError(t, err)

	resp, err := svc.Delete(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Session deleted successfully", resp.Message)
	assert.Empty(t, resp.Note)

	_, err = store.Get(ctx, testApp, "u1", created.ID)
	assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
}

type noDeleteStore struct {
	domain.Store
}

func (s *noDeleteStore) Delete(ctx context.Context, appName, userID, id string) error {
	return xerrors.Wrap(xerrors.ErrUnsupported, "store cannot remove rows")
}

func TestDelete_DegradesToStateClear(t *testing.T) {
	inner := memory.NewSessionStore()
	svc := newService(&noDeleteStore{Store: inner})
	ctx := context.Background()

	created, err := inner.Create(ctx, testApp, "u1",
		domain.InitialState("tok", "a@x.com", "Alice", "u1", time.Now().Add(time.Hour), time.Now()))
	require.NoError(t, err)

	resp, err := svc.Delete(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Session state cleared successfully", resp.Message)
	assert.NotEmpty(t, resp.Note)

	sess, err := inner.Get(ctx, testApp, "u1", created.ID)
	require.NoError(t, err)
	assert.Empty(t, sess.State, "degraded delete must clear the state")
}

func TestDelete_NotFound(t *testing.T) {
	svc := newService(memory.NewSessionStore())

	_, err := svc.Delete(context.Background(), "u1", "missing")
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrNotFound))
}
