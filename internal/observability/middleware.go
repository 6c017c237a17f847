package observability

import (
	"time"

	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// outcomeKey holds the Classify label of the decode a handler ran, if any.
const outcomeKey = "tlvdump.decode_outcome"

// MarkDecode records the outcome of a decode on the request so the access
// log line carries it.
func MarkDecode(c *gin.Context, err error) {
	c.Set(outcomeKey, protocol.Classify(err))
}

func decodeOutcome(c *gin.Context) string {
	if v, ok := c.Get(outcomeKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func routePath(c *gin.Context) string {
	if path := c.FullPath(); path != "" {
		return path
	}
	return c.Request.URL.Path
}

// Instrument logs one line per request and feeds the http metrics. Client
// errors log at warn, server errors at error.
func Instrument(logger zerolog.Logger, service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		path := routePath(c)
		RecordHTTPRequest(service, c.Request.Method, path, status, elapsed)

		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		}
		if outcome := decodeOutcome(c); outcome != "" {
			event = event.Str("decode", outcome)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", elapsed).
			Int("request_bytes", int(c.Request.ContentLength)).
			Int("response_bytes", c.Writer.Size()).
			Msg("http_request")
	}
}
