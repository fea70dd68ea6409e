package client

import (
	"context"
	"net/http"
	"time"
)

// prefetchRequest keeps the full request alongside its key. The queue maps
// key -> request so a flush fetches every distinct queued endpoint, not just
// the last one handed to Prefetch.
type prefetchRequest struct {
	endpoint string
	opts     *ReqOptions
}

// Prefetch queues a speculative GET to warm the cache ahead of navigation
// (eg. on hover). Already-cached or already-queued endpoints are a no-op.
// Queued requests are flushed in one batch once no Prefetch call has arrived
// for Config.PrefetchDelay. Failures never surface to the caller.
func (c *Client) Prefetch(endpoint string, opts *ReqOptions) {
	key := Key(http.MethodGet, c.conf.BackendURL+endpoint, nil)
	if c.cache.Has(key) {
		return
	}

	c.pmu.Lock()
	defer c.pmu.Unlock()
	if _, queued := c.pending[key]; queued {
		return
	}
	c.pending[key] = prefetchRequest{endpoint: endpoint, opts: opts}

	// single shared timer, reset on every call within the window
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.prefetchDelay(), c.flushPrefetch)
}

func (c *Client) prefetchDelay() time.Duration {
	if c.conf.PrefetchDelay > 0 {
		return c.conf.PrefetchDelay
	}
	return 100 * time.Millisecond
}

// flushPrefetch drains the queue. It runs on a background context: a
// prefetched response outlives whatever UI intent queued it, so no single
// caller's cancellation should abort the batch.
func (c *Client) flushPrefetch() {
	c.pmu.Lock()
	batch := c.pending
	c.pending = make(map[string]prefetchRequest)
	c.timer = nil
	c.pmu.Unlock()

	timeout := c.conf.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	for key, req := range batch {
		if c.cache.Has(key) {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		if err := c.Do(ctx, http.MethodGet, req.endpoint, nil, nil, req.opts); err != nil {
			// best effort: prefetching is an optimization, not a correctness requirement
			c.log.Debug("client: prefetch failed", map[string]interface{}{"endpoint": req.endpoint, "err": err})
		}
		cancel()
	}
}
