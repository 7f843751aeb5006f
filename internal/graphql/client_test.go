package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"pulse-agent-service/internal/pkg/tokenctx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestExecute_SendsQueryAndBearer(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"data":{"user":{"id":"u1"}}}`)
	})

	client := NewClient(server.URL, "", nil)
	ctx := tokenctx.WithToken(context.Background(), "ctx-token")

	data, err := client.Execute(ctx, GetUser, map[string]interface{}{"id": "u1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer ctx-token", gotAuth)
	assert.Equal(t, GetUser, gotBody["query"])
	assert.Equal(t, map[string]interface{}{"id": "u1"}, gotBody["variables"])
	assert.Equal(t, map[string]interface{}{"id": "u1"}, data["user"])
}

func TestExecute_TokenPrecedence(t *testing.T) {
	var mu sync.Mutex
	var auths []string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auths = append(auths, r.Header.Get("Authorization"))
		mu.Unlock()
		fmt.Fprint(w, `{"data":{}}`)
	})

	client := NewClient(server.URL, "fallback-token", nil)
	ctx := tokenctx.WithToken(context.Background(), "ctx-token")

	_, err := client.Execute(ctx, GetUsers, nil, "explicit-token")
	require.NoError(t, err)
	_, err = client.Execute(ctx, GetUsers, nil, "")
	require.NoError(t, err)
	_, err = client.Execute(context.Background(), GetUsers, nil, "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Bearer explicit-token",
		"Bearer ctx-token",
		"Bearer fallback-token",
	}, auths)
}

func TestExecute_GraphQLErrors(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":null,"errors":[{"message":"access denied"}]}`)
	})

	client := NewClient(server.URL, "", nil)
	_, err := client.Execute(context.Background(), GetGoals, nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestExecute_HTTPError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	client := NewClient(server.URL, "", nil)
	_, err := client.Execute(context.Background(), GetGoals, nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

// Concurrent chats must each authenticate with their own request token.
func TestExecute_ConcurrentRequestsCarryOwnToken(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Echo the auth header back so each caller can verify its own.
		resp := map[string]interface{}{
			"data": map[string]interface{}{"auth": r.Header.Get("Authorization")},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	client := NewClient(server.URL, "fallback", nil)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token := fmt.Sprintf("token-%d", i)
			ctx := tokenctx.WithToken(context.Background(), token)
			data, err := client.Execute(ctx, GetUsers, nil, "")
			assert.NoError(t, err)
			assert.Equal(t, "Bearer "+token, data["auth"])
		}(i)
	}
	wg.Wait()
}

func TestEnsureDate(t *testing.T) {
	assert.Equal(t, "", ensureDate(""))
	assert.Equal(t, "2026-01-15", ensureDate("2026-01-15"))
	assert.Equal(t, "2026-01-15", ensureDate("2026-01-15T10:30:00Z"))
}
