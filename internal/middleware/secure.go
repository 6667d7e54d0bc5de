package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// SecureOptions returns secure.Options for security headers.
func SecureOptions(isDevelopment bool) secure.Options {
	return secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
}

// NewSecure returns a middleware that adds security headers.
func NewSecure(opts secure.Options) gin.HandlerFunc {
	s := secure.New(opts)
	return func(c *gin.Context) {
		if err := s.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		// Process may have written a redirect
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
