package servehttp

import (
	"autobay/bizerror"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// NewIntakeLimiter returns nil when ratePerSecond is not positive, which disables limiting.
func NewIntakeLimiter(ratePerSecond float64, burst int) *rate.Limiter {
	if ratePerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(ratePerSecond), burst)
}

func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			panic(bizerror.ErrTooManyRequests)
		}
		c.Next()
	}
}
