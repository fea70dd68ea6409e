// Package client implements the authenticated Epistula API client with its
// read-through response cache and the debounced prefetch scheduler.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/epistula/epistula-go/cache"
	"github.com/epistula/epistula-go/core"
	"github.com/epistula/epistula-go/core/user"
)

var ErrNotLoggedIn = errors.New("not logged in")

type (
	Options struct {
		Token      string // explicit bearer token; overrides the token file
		HTTPClient *http.Client
	}

	// ReqOptions tweak a single request.
	ReqOptions struct {
		SkipCache bool          // bypass the cache even for GETs
		TTL       time.Duration // per-entry TTL override, 0 => cache default
		Headers   http.Header
	}

	Client struct {
		conf  *core.Config
		cache *cache.Cache
		log   core.Logger
		http  *http.Client

		tokenMu     sync.Mutex
		token       string
		tokenLoaded bool

		// sf collapses concurrent GETs for the same key into one request,
		// so two overlapping identical reads cannot race on the cache write.
		sf singleflight.Group

		pmu     sync.Mutex
		pending map[string]prefetchRequest
		timer   *time.Timer
	}
)

func New(conf *core.Config, cch *cache.Cache, log core.Logger, opts *Options) *Client {
	if opts == nil {
		opts = &Options{}
	}
	if cch == nil {
		cch = cache.New(conf.CacheTTL)
	}
	if log == nil {
		log = core.NewStdLogger(defaultStdLog(), conf.Debug)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: conf.RequestTimeout}
	}
	return &Client{
		conf:    conf,
		cache:   cch,
		log:     log,
		http:    httpClient,
		token:   opts.Token,
		pending: make(map[string]prefetchRequest),
	}
}

func defaultStdLog() *log.Logger {
	return log.New(os.Stdout, "CLIENT : ", log.LstdFlags|log.Lmicroseconds)
}

// Key builds the deterministic cache key for a request: identical logical
// requests (same method, URL and body) collide to the same key.
func Key(method, url string, body []byte) string {
	return fmt.Sprintf("%s:%s:%s", method, url, body)
}

// EscapeKey escapes regex metacharacters in a dynamic key segment so it can
// be embedded in an Invalidate pattern verbatim.
func EscapeKey(segment string) string {
	return regexp.QuoteMeta(segment)
}

// Do performs an API request. GET responses are served from and stored into
// the cache unless opts.SkipCache is set; non-GET requests always hit the
// network and are never cached. out may be nil when the caller does not need
// the response body.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out interface{}, opts *ReqOptions) error {
	if opts == nil {
		opts = &ReqOptions{}
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(err, "client: encoding request body")
		}
	}

	url := c.conf.BackendURL + endpoint
	key := Key(method, url, payload)

	if method == http.MethodGet && !opts.SkipCache {
		if raw, ok := c.cache.Get(key); ok {
			return decode(raw.([]byte), out)
		}
		raw, err, _ := c.sf.Do(key, func() (interface{}, error) {
			data, err := c.fetch(ctx, method, url, payload, opts.Headers)
			if err != nil {
				return nil, err
			}
			c.cache.Set(key, data, opts.TTL)
			return data, nil
		})
		if err != nil {
			return err
		}
		return decode(raw.([]byte), out)
	}

	data, err := c.fetch(ctx, method, url, payload, opts.Headers)
	if err != nil {
		return err
	}
	return decode(data, out)
}

// Get is shorthand for a cached GET.
func (c *Client) Get(ctx context.Context, endpoint string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, endpoint, nil, out, nil)
}

// InvalidateCache removes cached responses; without a pattern it clears
// everything, with one it deletes keys matching the regex.
func (c *Client) InvalidateCache(pattern ...string) error {
	return c.cache.Invalidate(pattern...)
}

// invalidateEndpoint drops every cached GET under an endpoint prefix.
// Used by the entity services after any write.
func (c *Client) invalidateEndpoint(prefix string) {
	pattern := "^GET:" + EscapeKey(c.conf.BackendURL+prefix)
	if err := c.cache.Invalidate(pattern); err != nil {
		c.log.Warn("client: cache invalidation failed", map[string]interface{}{"pattern": pattern, "err": err})
	}
}

func (c *Client) fetch(ctx context.Context, method, url string, payload []byte, hdrs http.Header) ([]byte, error) {
	var rd io.Reader
	if len(payload) > 0 {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, errors.Wrapf(err, "client: building %s %s", method, url)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, vs := range hdrs {
		req.Header[k] = vs
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "client: %s %s", method, url)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "client: reading %s %s response", method, url)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(data, &body) // best effort; fall back to HTTP <status>
		return nil, core.NewAPIError(resp.StatusCode, body.Detail)
	}
	return data, nil
}

func decode(data []byte, out interface{}) error {
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "client: decoding response body")
	}
	return nil
}

// Token returns the bearer token: the explicit Options.Token when set,
// otherwise the one persisted at Config.TokenPath (loaded once).
func (c *Client) Token() string {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if !c.tokenLoaded {
		c.tokenLoaded = true
		if c.token == "" {
			if data, err := os.ReadFile(c.conf.TokenPath); err == nil {
				c.token = strings.TrimSpace(string(data))
			}
		}
	}
	return c.token
}

func (c *Client) SetToken(token string) {
	c.tokenMu.Lock()
	c.token = token
	c.tokenLoaded = true
	c.tokenMu.Unlock()
}

// SaveToken persists the token at Config.TokenPath and starts using it.
func (c *Client) SaveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(c.conf.TokenPath), 0o700); err != nil {
		return errors.Wrap(err, "client: creating token dir")
	}
	if err := os.WriteFile(c.conf.TokenPath, []byte(token), 0o600); err != nil {
		return errors.Wrap(err, "client: writing token file")
	}
	c.SetToken(token)
	return nil
}

// Claims decodes the stored bearer token. ErrNotLoggedIn when there is none.
func (c *Client) Claims() (*user.Claims, error) {
	tok := c.Token()
	if tok == "" {
		return nil, ErrNotLoggedIn
	}
	return user.DecodeClaims(tok)
}

// Login authenticates against the backend and persists the returned token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{core.CleanString(username, true /* lower */), password}

	var out struct {
		Token string `json:"token"`
	}
	if err := c.Do(ctx, http.MethodPost, "/auth/login", body, &out, nil); err != nil {
		return "", err
	}
	if err := c.SaveToken(out.Token); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Logout drops the persisted token and clears the cache.
func (c *Client) Logout() error {
	c.SetToken("")
	if err := os.Remove(c.conf.TokenPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "client: removing token file")
	}
	return c.cache.Invalidate()
}
