package middleware

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workbuddy-store/pkg/common/config"
)

var ua = ut.Header{Key: "User-Agent", Value: "middleware-test"}

func TestTokenBucket(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	tb := NewTokenBucket(3, time.Second, now)
	assert.True(t, tb.Allow(now))
	assert.True(t, tb.Allow(now))
	assert.True(t, tb.Allow(now))
	assert.False(t, tb.Allow(now), "starts with capacity tokens")

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, tb.Allow(now))
	assert.False(t, tb.Allow(now), "one token per interval")

	now = now.Add(time.Hour)
	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(now))
	}
	assert.False(t, tb.Allow(now), "refill stops at capacity")
}

func TestClientLimiterIsPerKey(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	l := NewClientLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	now = now.Add(time.Minute)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestRateLimitMiddleware(t *testing.T) {
	h := server.New()
	h.Use(RateLimitMiddleware(1, time.Hour))
	h.GET("/ping", func(_ context.Context, c *app.RequestContext) { c.String(consts.StatusOK, "pong") })

	assert.Equal(t, consts.StatusOK, ut.PerformRequest(h.Engine, consts.MethodGet, "/ping", nil).Result().StatusCode())
	assert.Equal(t, consts.StatusTooManyRequests, ut.PerformRequest(h.Engine, consts.MethodGet, "/ping", nil).Result().StatusCode())
}

func TestRecoveryMiddleware(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			cfg := &config.Config{Env: env}
			h := server.New()
			h.Use(RecoveryMiddleware(cfg))
			h.GET("/boom", func(context.Context, *app.RequestContext) { panic("kaput") })

			resp := ut.PerformRequest(h.Engine, consts.MethodGet, "/boom", nil).Result()
			require.Equal(t, consts.StatusInternalServerError, resp.StatusCode())

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(resp.Body(), &body))
			if cfg.IsProd() {
				assert.Equal(t, "internal server error", body["message"])
				assert.NotContains(t, body, "stack")
			} else {
				assert.Equal(t, "kaput", body["error"])
			}
		})
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	h := server.New()
	h.Use(TimeoutMiddleware(1))
	h.GET("/slow", func(ctx context.Context, c *app.RequestContext) {
		<-ctx.Done()
	})

	resp := ut.PerformRequest(h.Engine, consts.MethodGet, "/slow", nil).Result()
	assert.Equal(t, consts.StatusServiceUnavailable, resp.StatusCode())
}

func TestSecurityCheckMiddleware(t *testing.T) {
	h := server.New()
	h.Use(SecurityCheckMiddleware(config.SecurityConfig{
		MaxBodySize:    16,
		AllowedMethods: []string{"GET", "POST"},
		FreeTextParams: []string{"q"},
	}))
	ok := func(_ context.Context, c *app.RequestContext) { c.String(consts.StatusOK, "ok") }
	h.GET("/q", ok)
	h.POST("/q", ok)

	perform := func(method, url string, body *ut.Body, headers ...ut.Header) int {
		return ut.PerformRequest(h.Engine, method, url, body, headers...).Result().StatusCode()
	}

	assert.Equal(t, consts.StatusOK, perform(consts.MethodGet, "/q?term=silla", nil, ua))
	assert.Equal(t, consts.StatusBadRequest, perform(consts.MethodGet, "/q", nil))
	assert.Equal(t, consts.StatusUnprocessableEntity, perform(consts.MethodGet, "/q?x=%3Cscript%3E", nil, ua))
	assert.Equal(t, consts.StatusUnprocessableEntity, perform(consts.MethodGet, "/q?x=DROP%20table", nil, ua))
	assert.Equal(t, consts.StatusMethodNotAllowed, perform(consts.MethodPut, "/q", nil, ua))

	// free-text search terms may contain SQL keywords but never scripts
	assert.Equal(t, consts.StatusOK, perform(consts.MethodGet, "/q?q=Drop", nil, ua))
	assert.Equal(t, consts.StatusOK, perform(consts.MethodGet, "/q?q=select%20insert%20delete", nil, ua))
	assert.Equal(t, consts.StatusUnprocessableEntity, perform(consts.MethodGet, "/q?q=%3Cscript%3E", nil, ua))
	assert.Equal(t, consts.StatusUnprocessableEntity, perform(consts.MethodGet, "/q?q=drop&sort=drop", nil, ua))
}

func TestIsAllowedHost(t *testing.T) {
	c := app.NewContext(0)
	c.Request.SetHost("store.example.com:8080")

	assert.True(t, isAllowedHost(c, nil))
	assert.True(t, isAllowedHost(c, []string{"STORE.example.com"}))
	assert.False(t, isAllowedHost(c, []string{"evil.example.com"}))
}
