package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"devmate/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func middlewareTestApp(t *testing.T) *fiber.App {
	t.Helper()

	s := &Server{config: &config.Config{JWTSecret: "test-secret"}}
	app := fiber.New()
	s.SetupMiddleware(app)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	return app
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	app := middlewareTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := app.Test(req)
	require.NoError(t, err)
	drainBody(resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RejectsUnknownOrigin(t *testing.T) {
	app := middlewareTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	drainBody(resp)

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightBypassesRateLimit(t *testing.T) {
	app := middlewareTestApp(t)

	// Preflight requests must never be throttled, no matter how many arrive.
	for i := 0; i < 150; i++ {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		resp, err := app.Test(req)
		require.NoError(t, err)
		drainBody(resp)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestRateLimit_KicksInAfterLimit(t *testing.T) {
	app := middlewareTestApp(t)

	var lastStatus int
	for i := 0; i < 101; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		resp, err := app.Test(req)
		require.NoError(t, err)

		lastStatus = resp.StatusCode
		if i < 100 {
			drainBody(resp)
			require.Equal(t, http.StatusOK, resp.StatusCode, "request %d should pass", i+1)
			continue
		}

		// The 101st request is throttled but still carries CORS headers.
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
		var body map[string]string
		decodeJSON(t, resp, &body)
		assert.Equal(t, "Too many requests, please try again later.", body["error"])
	}
	assert.Equal(t, http.StatusTooManyRequests, lastStatus)
}
