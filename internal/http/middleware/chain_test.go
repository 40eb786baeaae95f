package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// useSampledTracing installs an always-sampling provider for the duration of the test.
func useSampledTracing(t *testing.T) {
	t.Helper()
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
}

func TestChain_LogsRequestTraceID(t *testing.T) {
	useSampledTracing(t)

	var buf bytes.Buffer
	app := fiber.New()
	for _, h := range Chain(&buf, time.UTC, nil) {
		app.Use(h)
	}

	var handlerTraceID string
	app.Get("/health", func(c *fiber.Ctx) error {
		handlerTraceID = trace.SpanContextFromContext(c.UserContext()).TraceID().String()
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	require.NotEmpty(t, handlerTraceID)
	assert.NotEqual(t, trace.TraceID{}.String(), handlerTraceID)
	assert.Equal(t, handlerTraceID, logData["trace_id"])
	assert.NotEmpty(t, logData["request_id"])
}

func TestChain_RecoversPanicAndLogsStatus(t *testing.T) {
	useSampledTracing(t)

	reg := prometheus.NewRegistry()
	prom, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	var buf bytes.Buffer
	app := fiber.New()
	for _, h := range Chain(&buf, time.UTC, prom) {
		app.Use(h)
	}
	app.Post("/upload", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/upload", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var logData map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logData))
	assert.Equal(t, float64(fiber.StatusInternalServerError), logData["status"])
	assert.NotEmpty(t, logData["trace_id"])

	assert.Equal(t, float64(1), testutil.ToFloat64(prom.requestCount.WithLabelValues("POST", "/upload", "500")))
}

func TestChain_CORS(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	for _, h := range Chain(&buf, time.UTC, nil) {
		app.Use(h)
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://cards.example")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
