package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"book-review/pkg/metrics"
	"book-review/pkg/utils"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const msgTooManyRequests = "Too many requests from this IP, please try again later."

// RateStore counts hits per key inside a fixed window.
type RateStore interface {
	// Hit records one request and returns the count so far and when the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error)
	Name() string
}

// RedisStore shares counters between instances.
type RedisStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, now: time.Now}
}

func (s *RedisStore) Name() string { return "redis" }

// Hit uses INCR and sets the expiry on the first hit of a window.
func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	cnt, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("incr %s: %w", key, err)
	}
	if cnt == 1 {
		if err := s.rdb.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("expire %s: %w", key, err)
		}
	}

	ttl, err := s.rdb.PTTL(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("pttl %s: %w", key, err)
	}
	if ttl < 0 {
		// key lost its expiry, start a new window
		s.rdb.PExpire(ctx, key, window)
		ttl = window
	}

	return cnt, s.now().Add(ttl), nil
}

type windowCount struct {
	count   int64
	resetAt time.Time
}

// MemoryStore keeps counters in process, evicting idle keys after their window.
type MemoryStore struct {
	mu    sync.Mutex
	cache *ttlcache.Cache[string, *windowCount]
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		cache: ttlcache.New[string, *windowCount](),
		now:   time.Now,
	}
	go s.cache.Start()
	return s
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Hit(_ context.Context, key string, window time.Duration) (int64, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	var wc *windowCount
	if item := s.cache.Get(key); item != nil {
		wc = item.Value()
	}
	if wc == nil || !now.Before(wc.resetAt) {
		wc = &windowCount{resetAt: now.Add(window)}
		s.cache.Set(key, wc, window)
	}
	wc.count++

	return wc.count, wc.resetAt, nil
}

// Stop ends the eviction loop.
func (s *MemoryStore) Stop() {
	s.cache.Stop()
}

// RateLimit allows limit requests per window for each client IP and answers 429 beyond that.
// Store failures let the request through.
func RateLimit(store RateStore, limit int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.With(zap.String("middleware", "ratelimit"), zap.String("store", store.Name()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			count, resetAt, err := store.Hit(r.Context(), "rl:api:"+ip, window)
			if err != nil {
				logger.Warn("Rate limit store unavailable, allowing request", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			resetIn := int64(math.Ceil(time.Until(resetAt).Seconds()))
			if resetIn < 0 {
				resetIn = 0
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(limit))
			h.Set("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("RateLimit-Reset", strconv.FormatInt(resetIn, 10))

			if count > int64(limit) {
				metrics.RateLimitRejections.WithLabelValues(store.Name()).Inc()
				logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
				h.Set("Retry-After", strconv.FormatInt(resetIn, 10))
				utils.ResponseTooManyRequests(w, msgTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
