package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/matchday/football-news-api/internal/config"
)

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache-test",
		MaxBodyBytes: 1 << 20,
	}
}

func TestRedisCacheHitAndMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var hits int64
	e := echo.New()
	e.GET("/feed", func(c echo.Context) error {
		atomic.AddInt64(&hits, 1)
		return c.JSON(http.StatusOK, echo.Map{"items": []string{"a", "b"}})
	}, NewRedisCache(cacheConfig(), rdb))

	get := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/feed")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("first request X-Cache = %q, want MISS", got)
	}

	rec2 := get("/feed")
	if got := rec2.Header().Get("X-Cache"); got != "HIT" {
		t.Fatalf("second request X-Cache = %q, want HIT", got)
	}
	if rec2.Body.String() != rec.Body.String() {
		t.Fatal("cached body differs from original")
	}
	if n := atomic.LoadInt64(&hits); n != 1 {
		t.Fatalf("handler ran %d times, want 1", n)
	}

	// A different query string is a different cache entry.
	rec3 := get("/feed?page=2")
	if got := rec3.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("distinct query X-Cache = %q, want MISS", got)
	}
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Fatalf("handler ran %d times, want 2", n)
	}
}

func TestRedisCacheSkipsNon200(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var hits int64
	e := echo.New()
	e.GET("/missing", func(c echo.Context) error {
		atomic.AddInt64(&hits, 1)
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}, NewRedisCache(cacheConfig(), rdb))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	}
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Fatalf("handler ran %d times, want 2 (404s must not be cached)", n)
	}
}

func TestRedisCacheDisabledPassesThrough(t *testing.T) {
	var hits int64
	e := echo.New()
	e.GET("/feed", func(c echo.Context) error {
		atomic.AddInt64(&hits, 1)
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, NewRedisCache(config.CacheConfig{Enabled: false}, nil))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/feed", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Header().Get("X-Cache") != "" {
			t.Fatal("pass-through middleware should not set X-Cache")
		}
	}
	if n := atomic.LoadInt64(&hits); n != 2 {
		t.Fatalf("handler ran %d times, want 2", n)
	}
}
