package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ecoelite/booking-backend/pkg/errors"
)

type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: map[string]int64{}}
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func loginRequest(body, remote string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.RemoteAddr = remote
	return req
}

func TestAuthRateLimitPreservesBody(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 2)
	handler := AuthRateLimit(policy, newFakeLimiter(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"username":"tester@example.com"`)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"username":"tester@example.com","password":"secret"}`, "1.2.3.4:5678"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimitIdentityLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, newFakeLimiter(), nil)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		// Case and padding do not produce a fresh identity.
		body := `{"username":" Blocked@Example.com ","password":"secret"}`
		handler.ServeHTTP(rec, loginRequest(body, "1.2.3.4:5678"))

		if i < 2 {
			assert.Equal(t, http.StatusOK, rec.Code)
			continue
		}
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))

		var payload struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, string(pkgerrors.CodeRateLimit), payload.Error.Code)
	}
}

func TestAuthRateLimitIPLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, newFakeLimiter(), nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"email":"foo@example.com"}`, "5.6.7.8:1234"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"email":"bar@example.com"}`, "5.6.7.8:1234"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{"email":"foo@example.com"}`, "9.9.9.9:1234"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRateLimitLimiterFailure(t *testing.T) {
	limiter := newFakeLimiter()
	limiter.err = errors.New("redis down")
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", time.Minute, 5, 0), limiter, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest(`{}`, "1.1.1.1:1"))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthRateLimitDisabledPassesThrough(t *testing.T) {
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", 0, 1, 1), newFakeLimiter(), nil)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(`{"username":"x"}`, "1.1.1.1:1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
