package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/tickets", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/tickets/:id", "GET", "NOT_FOUND")

	snap := m.Snapshot()
	require.Len(t, snap.Requests, 1)
	assert.Equal(t, "GET /api/tickets|200", snap.Requests[0].Key)
	assert.Equal(t, int64(2), snap.Requests[0].Count)
	assert.Equal(t, 20.0, snap.Requests[0].AvgLatencyMS)
	assert.Equal(t, int64(1), snap.Errors["GET /api/tickets/:id|NOT_FOUND"])

	var nilMetrics *Metrics
	nilMetrics.RecordRequest("/", "GET", 200, time.Millisecond)
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	snap := metrics.Snapshot()
	require.Len(t, snap.Requests, 1)
	assert.Equal(t, int64(2), snap.Requests[0].Count)
}
