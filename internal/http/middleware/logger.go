package middleware

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
)

// LoggerWithWriter logs one JSON object per request to w.
// Fields:
// - ts (RFC3339Nano in loc)
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
// - bytes_in (request body size)
// - trace_id (only when the request carries a span; install inside otelfiber, see Chain)
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}
	enc := json.NewEncoder(w)
	var mu sync.Mutex

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// With a global ErrorHandler the final status is only known once it has run.
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		entry := map[string]any{
			"ts":         start.In(loc).Format(time.RFC3339Nano),
			"request_id": rid,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
			"bytes_in":   len(c.Request().Body()),
		}

		if sc := trace.SpanContextFromContext(c.UserContext()); sc.HasTraceID() {
			entry["trace_id"] = sc.TraceID().String()
		}

		mu.Lock()
		_ = enc.Encode(entry)
		mu.Unlock()

		return nil
	}
}
