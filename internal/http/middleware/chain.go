package middleware

import (
	"io"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Chain returns the global middleware in the order it must be installed.
//
// otelfiber restores the caller's context once the rest of the chain returns, so the
// request logger sits inside it to see the request span. recover sits inside the logger
// and the metrics so a panic is counted and logged as a 500.
// A nil prom leaves request metrics out.
func Chain(logOut io.Writer, loc *time.Location, prom *PrometheusMiddleware) []fiber.Handler {
	chain := []fiber.Handler{
		RequestID(),
		otelfiber.Middleware(),
		LoggerWithWriter(logOut, loc),
	}
	if prom != nil {
		chain = append(chain, prom.Handler())
	}
	return append(chain, recover.New(), cors.New())
}
