package tokenctx

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	_, ok := FromContext(ctx)
	assert.False(t, ok, "empty context should carry no token")

	ctx = WithToken(ctx, "tok-1")
	token, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-1", token)
}

func TestResolvePrecedence(t *testing.T) {
	ctx := WithToken(context.Background(), "ctx-token")

	assert.Equal(t, "explicit", Resolve(ctx, "explicit", "fallback"))
	assert.Equal(t, "ctx-token", Resolve(ctx, "", "fallback"))
	assert.Equal(t, "fallback", Resolve(context.Background(), "", "fallback"))
	assert.Equal(t, "", Resolve(context.Background(), "", ""))
}

func TestConcurrentRequestsSeeOwnToken(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprintf("token-%d", i)
			ctx := WithToken(context.Background(), want)
			got, ok := FromContext(ctx)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}(i)
	}
	wg.Wait()
}
