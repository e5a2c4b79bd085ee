package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
}

func TestRedisRateLimiter_FailOpenAndClosed(t *testing.T) {
	rdb := unreachableRedis()
	defer rdb.Close()
	rl := NewRedisRateLimiter(rdb, 10, 0, "")

	rec := httptest.NewRecorder()
	rl.Middleware(nil, true)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("fail-open: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	rl.Middleware(nil, false)(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("fail-closed: expected 503, got %d", rec.Code)
	}
}

func TestNewRedisRateLimiter_Defaults(t *testing.T) {
	rl := NewRedisRateLimiter(nil, 0, 0, " ")
	if rl.limit != 60 || rl.prefix != "rl" || rl.window <= 0 {
		t.Fatalf("unexpected defaults %+v", rl)
	}
}

func TestRedisRateLimiter_KeyIsPerWindow(t *testing.T) {
	rl := NewRedisRateLimiter(nil, 5, time.Minute, "availability:ratelimit")
	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	a := rl.key("203.0.113.7", start)
	b := rl.key("203.0.113.7", start.Add(time.Minute))
	if a == b {
		t.Fatal("expected distinct keys per window")
	}
	if a != "availability:ratelimit:203.0.113.7:1792054800" {
		t.Fatalf("unexpected key %q", a)
	}
}
