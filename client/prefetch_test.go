package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/epistula/epistula-go/tests"
)

func waitForPrefetch(t *testing.T, check func() bool) {
	t.Helper()
	require.Eventually(t, check, 2*time.Second, 5*time.Millisecond)
}

func TestPrefetch_DuplicateCallsScheduleOneFetch(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/api/y", `{"ok":true}`)
	c := newTestClient(t, backend)

	c.Prefetch("/api/y", nil)
	c.Prefetch("/api/y", nil)

	waitForPrefetch(t, func() bool { return backend.Hits(http.MethodGet, "/api/y") > 0 })
	// settle: give a would-be second fetch time to happen
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, backend.Hits(http.MethodGet, "/api/y"))
}

func TestPrefetch_DistinctEndpointsAllFetched(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/api/a", `1`)
	backend.Stub("/api/b", `2`)
	backend.Stub("/api/c", `3`)
	c := newTestClient(t, backend)

	c.Prefetch("/api/a", nil)
	c.Prefetch("/api/b", nil)
	c.Prefetch("/api/c", nil)

	// every distinct queued endpoint is fetched exactly once by the flush
	waitForPrefetch(t, func() bool {
		return backend.Hits(http.MethodGet, "/api/a") == 1 &&
			backend.Hits(http.MethodGet, "/api/b") == 1 &&
			backend.Hits(http.MethodGet, "/api/c") == 1
	})
}

func TestPrefetch_WarmsTheCache(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/api/y", `{"ok":true}`)
	c := newTestClient(t, backend)

	c.Prefetch("/api/y", nil)
	waitForPrefetch(t, func() bool { return backend.Hits(http.MethodGet, "/api/y") == 1 })

	// the real read is then served from cache, no second request
	require.NoError(t, c.Get(context.Background(), "/api/y", nil))
	assert.Equal(t, 1, backend.Hits(http.MethodGet, "/api/y"))
}

func TestPrefetch_CachedEndpointIsNoOp(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Stub("/api/y", `{"ok":true}`)
	c := newTestClient(t, backend)

	require.NoError(t, c.Get(context.Background(), "/api/y", nil))
	c.Prefetch("/api/y", nil)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, backend.Hits(http.MethodGet, "/api/y"))
}

func TestPrefetch_FailuresAreSwallowed(t *testing.T) {
	backend := testutil.NewBackend(t)
	c := newTestClient(t, backend)

	c.Prefetch("/api/missing", nil) // 404s during flush; nothing to observe but no panic
	waitForPrefetch(t, func() bool { return backend.Hits(http.MethodGet, "/api/missing") == 1 })
	assert.False(t, c.cache.Has(Key(http.MethodGet, c.conf.BackendURL+"/api/missing", nil)))
}
