package middleware

import (
	apierrors "github.com/DevNiNi18/flowtrack/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewIPRateLimiter returns middleware that limits by client IP (in-memory store).
// rateFormatted: "20-M", "1000-H", "5-S". Empty disables.
func NewIPRateLimiter(rateFormatted string) (gin.HandlerFunc, error) {
	if rateFormatted == "" {
		return noop, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)
	return mgin.NewMiddleware(instance,
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			apierrors.TooManyRequests(c, "Rate limit exceeded")
		}),
	), nil
}

func noop(c *gin.Context) {
	c.Next()
}
