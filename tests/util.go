// Package testutil runs a fake Epistula backend for client tests: enough of
// the auth, entity and data-transfer endpoints to exercise caching, bearer
// auth and the transfer flows, with per-route hit counters.
package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/epistula/epistula-go/core"
)

const (
	// TestUsername / TestPassword are the only accepted credentials.
	TestUsername = "root@epistula.edu"
	TestPassword = "s3cret!"
)

type Backend struct {
	Srv *httptest.Server

	mu        sync.Mutex
	hits      map[string]int
	snapshots map[string]json.RawMessage // schema -> snapshot body
	entities  map[string]json.RawMessage // path -> response body
	nextID    int
}

// NewBackend starts the fake backend; it is torn down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		hits:      make(map[string]int),
		snapshots: make(map[string]json.RawMessage),
		entities:  make(map[string]json.RawMessage),
		nextID:    100,
	}
	b.snapshots["production"] = json.RawMessage(`{"universities":[],"users":[]}`)
	b.snapshots["temp"] = json.RawMessage(`{"universities":[],"users":[]}`)

	app := echo.New()
	app.HideBanner = true
	app.Use(b.countHits)

	app.POST("/auth/login", b.login)

	app.GET("/data-transfer/export", b.export, b.requireAuth)
	app.POST("/data-transfer/import", b.importSnapshot, b.requireAuth)

	// generic entity endpoints; bodies are canned per path via Stub
	app.Any("/*", b.entity, b.requireAuth)

	b.Srv = httptest.NewServer(app)
	t.Cleanup(b.Srv.Close)
	return b
}

// NewConfig returns a Config pointed at the fake backend, with fast timeouts
// and throwaway token/prefs paths.
func NewConfig(t *testing.T, b *Backend) *core.Config {
	t.Helper()
	return &core.Config{
		Debug:          true,
		TestMode:       true,
		Env:            "TEST",
		AppName:        "Epistula",
		Build:          "test",
		BackendURL:     b.Srv.URL,
		RequestTimeout: 5 * time.Second,
		CacheTTL:       time.Minute,
		PrefetchDelay:  10 * time.Millisecond,
		TokenPath:      filepath.Join(t.TempDir(), "token"),
	}
}

// Token returns a signed bearer token the fake backend accepts.
func Token(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      "1",
		"username": TestUsername,
		"roles":    []string{"root"},
		"exp":      expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// Stub cans a JSON response for a GET path, eg. Stub("/universities", `[...]`).
func (b *Backend) Stub(path, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entities[path] = json.RawMessage(body)
}

// Hits counts how many requests reached "METHOD /path".
func (b *Backend) Hits(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[method+" "+path]
}

// StubSnapshot replaces a schema's export body.
func (b *Backend) StubSnapshot(schema, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshots[schema] = json.RawMessage(body)
}

func (b *Backend) countHits(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		b.hits[c.Request().Method+" "+c.Request().URL.Path]++
		b.mu.Unlock()
		return next(c)
	}
}

func (b *Backend) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if len(auth) < len("Bearer ") || auth[:len("Bearer ")] != "Bearer " {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "missing or malformed token"})
		}
		return next(c)
	}
}

func (b *Backend) login(c echo.Context) error {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	if creds.Username != TestUsername || creds.Password != TestPassword {
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "authentication failed"})
	}
	// unsigned-claims token is fine here: the client never verifies signatures
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "1",
		"username": creds.Username,
		"roles":    []string{"root"},
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

func (b *Backend) export(c echo.Context) error {
	schema := c.QueryParam("schema")
	b.mu.Lock()
	snap, ok := b.snapshots[schema]
	b.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": fmt.Sprintf("unknown schema %q", schema)})
	}
	return c.JSONBlob(http.StatusOK, snap)
}

func (b *Backend) importSnapshot(c echo.Context) error {
	var req struct {
		Schema          string          `json:"schema"`
		DefaultStrategy string          `json:"default_strategy"`
		Snapshot        json.RawMessage `json:"snapshot"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	b.mu.Lock()
	b.snapshots[req.Schema] = req.Snapshot
	b.mu.Unlock()

	var snap struct {
		Universities []json.RawMessage `json:"universities"`
		Users        []json.RawMessage `json:"users"`
	}
	_ = json.Unmarshal(req.Snapshot, &snap)
	return c.JSON(http.StatusOK, echo.Map{
		"created": len(snap.Universities) + len(snap.Users),
		"updated": 0,
		"skipped": 0,
		"failed":  0,
	})
}

// entity serves canned bodies for GETs and echoes writes back with an id.
func (b *Backend) entity(c echo.Context) error {
	path := c.Request().URL.Path

	switch c.Request().Method {
	case http.MethodGet:
		b.mu.Lock()
		body, ok := b.entities[path]
		b.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "not found"})
		}
		return c.JSONBlob(http.StatusOK, body)

	case http.MethodDelete:
		return c.NoContent(http.StatusNoContent)

	default: // POST | PATCH
		var body map[string]interface{}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
		}
		if body == nil {
			body = make(map[string]interface{})
		}
		if _, ok := body["id"]; !ok {
			b.mu.Lock()
			b.nextID++
			body["id"] = b.nextID
			b.mu.Unlock()
		}
		status := http.StatusOK
		if c.Request().Method == http.MethodPost {
			status = http.StatusCreated
		}
		return c.JSON(status, body)
	}
}

// UnverifiedToken builds a token with arbitrary claims and a junk signature;
// handy for Claims-decoding tests.
func UnverifiedToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("UnverifiedToken() failed: %v", err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".junk"
}
