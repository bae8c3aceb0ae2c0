// Package testsuite runs the HTTP API in-process on the memory store with a
// clock that tests control.
package testsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	httpapp "github.com/14kear/online-polls/internal/app/http"
	"github.com/14kear/online-polls/internal/config"
	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/handlers"
	"github.com/14kear/online-polls/internal/lib/jwt"
	"github.com/14kear/online-polls/internal/middleware"
	"github.com/14kear/online-polls/internal/repo/memory"
	"github.com/14kear/online-polls/internal/services"
)

// Clock is a services.Clock moved by hand.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type Suite struct {
	*testing.T
	Cfg       *config.Config
	Clock     *Clock
	Store     *memory.Storage
	Voting    *services.OnlineVoting
	Finalizer *services.Finalizer
	HTTP      *httpapp.App
}

// New builds the API around a fresh memory store. now is the initial clock
// reading.
func New(t *testing.T, now time.Time) (context.Context, *Suite) {
	t.Helper()
	t.Parallel()

	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:  "test",
		Auth: config.AuthConfig{Secret: "suite-secret", AccessTTL: time.Hour},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := &Clock{now: now}
	store := memory.New()

	scheduler := services.NewResultScheduler(log, clock, store)
	voting := services.NewOnlineVoting(log, clock, store, store, store, store, scheduler)
	finalizer := services.NewFinalizer(log, clock, store, store, store, store, nil)

	handler := handlers.NewVotingHandler(log, voting)
	auth := middleware.NewAuthMiddleware(log, cfg.Auth.Secret)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	return ctx, &Suite{
		T:         t,
		Cfg:       cfg,
		Clock:     clock,
		Store:     store,
		Voting:    voting,
		Finalizer: finalizer,
		HTTP:      httpapp.NewApp(log, 0, nil, handler, auth.Middleware()),
	}
}

// Token returns an Authorization header value for the identity.
func (s *Suite) Token(identity entity.Identity) string {
	s.Helper()

	token, err := jwt.NewAccessToken(identity, s.Cfg.Auth.Secret, s.Cfg.Auth.AccessTTL)
	if err != nil {
		s.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

// Do sends a request through the gin engine. body is JSON-encoded when not nil.
func (s *Suite) Do(method, path, authHeader string, body any) *httptest.ResponseRecorder {
	s.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	s.HTTP.Engine().ServeHTTP(w, req)
	return w
}

// Decode unmarshals a response body into v.
func (s *Suite) Decode(w *httptest.ResponseRecorder, v any) {
	s.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		s.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}
