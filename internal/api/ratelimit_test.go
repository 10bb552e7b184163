package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/hydroponics-core/internal/infrastructure/config"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := newRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	now := time.Now()

	for i := range 2 {
		if ok, _ := rl.allow("10.0.0.1", now); !ok {
			t.Fatalf("request %d rejected within burst", i+1)
		}
	}

	ok, wait := rl.allow("10.0.0.1", now)
	if ok {
		t.Fatal("request beyond burst allowed")
	}
	if wait <= 0 || wait > time.Second {
		t.Errorf("wait = %v, want (0, 1s] at 60 rpm", wait)
	}

	if ok, _ := rl.allow("10.0.0.2", now); !ok {
		t.Error("other client rejected; buckets must be per client")
	}

	if ok, _ := rl.allow("10.0.0.1", now.Add(time.Second)); !ok {
		t.Error("request after refill rejected")
	}
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := newRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 1})
	now := time.Now()

	rl.allow("old", now.Add(-limiterIdleTTL-time.Second))
	rl.allow("fresh", now)
	rl.evictIdle(now)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["old"]; ok {
		t.Error("idle client not evicted")
	}
	if _, ok := rl.clients["fresh"]; !ok {
		t.Error("active client evicted")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	srv, _ := testServerWith(t, func(d *Deps) {
		d.Security.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2}
	})
	router := srv.buildRouter()

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.RemoteAddr = remote
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	for i := range 2 {
		if w := send("192.0.2.1:5000"); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}

	w := send("192.0.2.1:5001")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
	if got := decodeError(t, w).Code; got != ErrCodeRateLimited {
		t.Errorf("code = %q, want %q", got, ErrCodeRateLimited)
	}

	if w := send("192.0.2.2:5000"); w.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", w.Code)
	}

	metrics := do(t, srv.metrics.handler(), http.MethodGet, "/", "", "")
	if !strings.Contains(metrics.Body.String(), "hydroponics_http_rate_limited_total 1") {
		t.Error("rate limited counter not incremented")
	}
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.buildRouter()

	for i := range 50 {
		if w := do(t, router, http.MethodGet, "/api/v1/health", "", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, w.Code)
		}
	}
}
