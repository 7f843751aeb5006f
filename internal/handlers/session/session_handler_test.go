package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "pulse-agent-service/internal/domain/session"
	"pulse-agent-service/internal/pkg/auth"
	"pulse-agent-service/internal/repository/memory"
	service "pulse-agent-service/internal/service/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testApp    = "pulse-epm-agent"
	testSecret = "test-secret"
)

func newRouter(store domain.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator := auth.NewValidator(auth.Config{SecretKey: testSecret})
	handler := NewSessionHandler(service.NewService(store, validator, testApp, nil))

	r := gin.New()
	r.POST("/sessions", handler.CreateSession)
	r.GET("/sessions", handler.ListSessions)
	r.GET("/sessions/:session_id", handler.GetSessionState)
	r.DELETE("/sessions/:session_id", handler.DeleteSession)
	return r
}

func bearer(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestCreateSession(t *testing.T) {
	store := memory.NewSessionStore()
	r := newRouter(store)

	body, _ := json.Marshal(domain.CreateSessionRequest{UserID: "u1"})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, jwt.MapClaims{"email": "a@x.com", "name": "Alice"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp domain.CreateSessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "Session created successfully", resp.Message)

	sess, err := store.Get(req.Context(), testApp, "u1", resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sess.Email())
}

func TestCreateSession_MissingAuthorization(t *testing.T) {
	r := newRouter(memory.NewSessionStore())

	body, _ := json.Marshal(domain.CreateSessionRequest{UserID: "u1"})
	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateSession_MissingUserID(t *testing.T) {
	r := newRouter(memory.NewSessionStore())

	req := httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, jwt.MapClaims{"email": "a@x.com"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSessions(t *testing.T) {
	store := memory.NewSessionStore()
	r := newRouter(store)

	_, err := store.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), testApp, "u1",
		domain.InitialState("tok", "a@x.com", "Alice", "u1", time.Now().Add(time.Hour), time.Now()))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	req.Header.Set("Authorization", bearer(t, jwt.MapClaims{"email": "a@x.com", "sub": "u1"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp domain.SessionsListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalSessions)
	assert.Equal(t, "u1", resp.UserID)
}

func TestGetSessionState_RequiresUserID(t *testing.T) {
	r := newRouter(memory.NewSessionStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/some-id", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSessionState_NotFound(t *testing.T) {
	r := newRouter(memory.NewSessionStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/some-id?user_id=u1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSession(t *testing.T) {
	store := memory.NewSessionStore()
	r := newRouter(store)

	created, err := store.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), testApp, "u1", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sessions/"+created.ID+"?user_id=u1", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp domain.DeleteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Session deleted successfully", resp.Message)
	assert.Equal(t, created.ID, resp.SessionID)
}
