package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartblink/smartblink-server/internal/logger"
)

// RateLimit is a fixed-window rate limiter backed by Redis. Clients over
// the limit inside a window are blocked for blockDuration. Redis being
// unavailable fails open.
type RateLimit struct {
	rdb           *redis.Client
	limit         int
	window        time.Duration
	blockDuration time.Duration
	keyPrefix     string
	logger        *logger.Logger
}

// NewRateLimit creates a rate limiting middleware with the given window
// parameters.
func NewRateLimit(rdb *redis.Client, limit int, window, blockDuration time.Duration, keyPrefix string, logger *logger.Logger) *RateLimit {
	return &RateLimit{
		rdb:           rdb,
		limit:         limit,
		window:        window,
		blockDuration: blockDuration,
		keyPrefix:     keyPrefix,
		logger:        logger,
	}
}

// Handle enforces the limit per client IP.
func (m *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip = r.RemoteAddr
		}
		clientID := strings.TrimSpace(strings.Split(ip, ",")[0])

		key := m.keyPrefix + ":ip:" + clientID
		blockKey := key + ":blocked"

		blocked, _ := m.rdb.Get(ctx, blockKey).Result()
		if blocked == "1" {
			ttl, _ := m.rdb.TTL(ctx, blockKey).Result()
			w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		count, err := m.rdb.Incr(ctx, key).Result()
		if err != nil {
			m.logger.Debug("rate limiter unavailable, failing open",
				"error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		if count == 1 {
			m.rdb.Expire(ctx, key, m.window)
		}

		if count > int64(m.limit) {
			m.rdb.Set(ctx, blockKey, "1", m.blockDuration)
			w.Header().Set("Retry-After", strconv.Itoa(int(m.blockDuration.Seconds())))
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
