package middleware

import (
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request.
func RequestLogger(log zerolog.Logger) drift.HandlerFunc {
	return func(c *drift.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path

		c.Next()

		log.Info().
			Str("method", method).
			Str("path", path).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
