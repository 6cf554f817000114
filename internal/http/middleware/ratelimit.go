// README: Per-client token bucket rate limiting (x/time/rate), limiters kept in an expiring cache.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

type limiterStore struct {
	limiters *cache.Cache
	every    time.Duration
	burst    int
}

func (s *limiterStore) get(ip string) *rate.Limiter {
	if v, ok := s.limiters.Get(ip); ok {
		s.limiters.SetDefault(ip, v)
		return v.(*rate.Limiter)
	}
	l := rate.NewLimiter(rate.Every(s.every), s.burst)
	if err := s.limiters.Add(ip, l, cache.DefaultExpiration); err != nil {
		// Lost the race to another request from the same client.
		if v, ok := s.limiters.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

// RateLimit allows perMinute requests per client IP with the given burst. perMinute <= 0 disables it.
func RateLimit(perMinute, burst int, log *zap.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	store := &limiterStore{
		limiters: cache.New(limiterIdle, 2*limiterIdle),
		every:    time.Minute / time.Duration(perMinute),
		burst:    burst,
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.get(ip).Allow() {
			log.Warn("rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			return
		}
		c.Next()
	}
}
