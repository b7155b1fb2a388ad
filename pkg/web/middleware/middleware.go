package middleware

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"
	"github.com/hertz-contrib/jwt"

	"workbuddy-store/pkg/common/config"
)

// IdentityKey is the claim holding the account id.
const IdentityKey = "user_id"

// LoggerMiddleware writes one access log line per request.
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		latency := time.Since(start)

		hlog.CtxInfof(c, "| %3d | %13v | %15s | %-7s | %s | UA=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			ctx.GetHeader("User-Agent"),
		)
	}
}

// RecoveryMiddleware turns a panic into a 500. Outside production the body
// carries the panic value and stack.
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())
				hlog.CtxErrorf(c, "[PANIC RECOVERED] %v\n%s", err, stack)

				if cfg.IsProd() {
					ctx.AbortWithStatusJSON(consts.StatusInternalServerError, utils.H{
						"code":    consts.StatusInternalServerError,
						"message": "internal server error",
					})
					return
				}
				ctx.AbortWithStatusJSON(consts.StatusInternalServerError, utils.H{
					"code":  consts.StatusInternalServerError,
					"error": fmt.Sprintf("%v", err),
					"stack": strings.Split(stack, "\n"),
				})
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware allows the configured origins plus any origin under a
// trusted domain.
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	allowed := make(map[string]bool, len(corsConfig.AllowOrigins))
	for _, o := range corsConfig.AllowOrigins {
		allowed[o] = true
	}
	return cors.New(
		cors.Config{
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAge,
			AllowOriginFunc: func(origin string) bool {
				if allowed[origin] {
					return true
				}
				for _, domain := range corsConfig.TrustedDomains {
					if strings.HasSuffix(origin, domain) {
						return true
					}
				}
				return false
			},
		},
	)
}

// TimeoutMiddleware answers 503 when the rest of the chain exceeds seconds.
func TimeoutMiddleware(seconds int) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		timeoutCtx, cancel := context.WithTimeout(c, time.Duration(seconds)*time.Second)
		defer cancel()

		done := make(chan struct{})
		var panicErr interface{}

		go func() {
			defer func() {
				if r := recover(); r != nil {
					panicErr = r
				}
				close(done)
			}()
			ctx.Next(timeoutCtx)
		}()

		select {
		case <-timeoutCtx.Done():
			ctx.AbortWithStatusJSON(consts.StatusServiceUnavailable, utils.H{
				"code":    503000,
				"message": "service unavailable",
			})
			hlog.CtxWarnf(timeoutCtx, "request timeout path=%s", ctx.Path())
		case <-done:
			if panicErr != nil {
				// rethrow for RecoveryMiddleware
				panic(panicErr)
			}
		}
	}
}

// RateLimitMiddleware gives every client IP a bucket of rate tokens, refilled
// one per interval.
func RateLimitMiddleware(rate int, interval time.Duration) app.HandlerFunc {
	limiter := NewClientLimiter(rate, interval)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow(ctx.ClientIP()) {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s ip=%s", ctx.Path(), ctx.ClientIP())
			ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{
				"code":    429001,
				"message": "too many requests",
			})
			return
		}
		ctx.Next(c)
	}
}

// TokenBucket refills lazily on Allow. It starts full.
type TokenBucket struct {
	mu       sync.Mutex
	capacity int
	tokens   int
	rate     time.Duration
	last     time.Time
}

func NewTokenBucket(rate int, interval time.Duration, now time.Time) *TokenBucket {
	if rate < 1 {
		rate = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &TokenBucket{capacity: rate, tokens: rate, rate: interval, last: now}
}

func (tb *TokenBucket) Allow(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if earned := int(now.Sub(tb.last) / tb.rate); earned > 0 {
		tb.tokens += earned
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.last = tb.last.Add(time.Duration(earned) * tb.rate)
	}
	if tb.tokens == 0 {
		return false
	}
	tb.tokens--
	return true
}

// full reports whether the bucket has refilled completely, so it can be dropped.
func (tb *TokenBucket) full(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.tokens+int(now.Sub(tb.last)/tb.rate) >= tb.capacity
}

// ClientLimiter keeps one TokenBucket per key.
type ClientLimiter struct {
	rate     int
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*TokenBucket
	calls   int
}

func NewClientLimiter(rate int, interval time.Duration) *ClientLimiter {
	return &ClientLimiter{
		rate:     rate,
		interval: interval,
		now:      time.Now,
		buckets:  make(map[string]*TokenBucket),
	}
}

const limiterSweepEvery = 1024

func (l *ClientLimiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = NewTokenBucket(l.rate, l.interval, now)
		l.buckets[key] = b
	}
	l.calls++
	if l.calls%limiterSweepEvery == 0 {
		for k, other := range l.buckets {
			if other != b && other.full(now) {
				delete(l.buckets, k)
			}
		}
	}
	l.mu.Unlock()

	return b.Allow(now)
}

// SecurityCheckMiddleware rejects requests without a User-Agent, oversized
// bodies, script or SQL keywords in parameters, unknown hosts and methods.
// Parameters listed in FreeTextParams are only checked for scripts.
func SecurityCheckMiddleware(cfg config.SecurityConfig) app.HandlerFunc {
	xssRegex := regexp.MustCompile(`(?i)<script.*?>|<\/script>|alert\(|onerror=`)
	sqlInjectRegex := regexp.MustCompile(`(?i)\b(union|select|drop|delete|insert)\b`)

	methods := make(map[string]bool, len(cfg.AllowedMethods))
	for _, m := range cfg.AllowedMethods {
		methods[strings.ToUpper(m)] = true
	}
	freeText := make(map[string]bool, len(cfg.FreeTextParams))
	for _, p := range cfg.FreeTextParams {
		freeText[p] = true
	}

	return func(c context.Context, ctx *app.RequestContext) {
		if isInvalidUserAgent(ctx) {
			securityResponse(c, ctx, 400001, "missing required header: User-Agent", consts.StatusBadRequest)
			return
		}

		if int64(ctx.Request.Header.ContentLength()) > cfg.MaxBodySize {
			securityResponse(c, ctx, 413001, "request body exceeds max size", consts.StatusRequestEntityTooLarge)
			return
		}

		if hasMaliciousContent(ctx, xssRegex, sqlInjectRegex, freeText) {
			securityResponse(c, ctx, 422001, "request contains invalid characters", consts.StatusUnprocessableEntity)
			return
		}

		if !isAllowedHost(ctx, cfg.AllowedHosts) {
			securityResponse(c, ctx, 400002, "host not allowed", consts.StatusBadRequest)
			return
		}

		if len(methods) > 0 && !methods[string(ctx.Method())] {
			securityResponse(c, ctx, 405001, "method not allowed", consts.StatusMethodNotAllowed)
			return
		}

		ctx.Next(c)
	}
}

// JWTAuthMiddleware validates bearer tokens issued by the login handler and
// stores IdentityKey on the request context.
func JWTAuthMiddleware(cfg *config.JWTAuthConfig) app.HandlerFunc {
	authMiddleware, err := jwt.New(&jwt.HertzJWTMiddleware{
		Realm:            cfg.Realm,
		SigningAlgorithm: cfg.SigningMethod,
		Key:              []byte(cfg.Secret),
		Timeout:          cfg.ExpireDuration,
		TimeFunc:         time.Now,
		IdentityKey:      IdentityKey,
		TokenLookup:      "header: Authorization",
		TokenHeadName:    "Bearer",
		Unauthorized:     handleJWTError,
	})
	if err != nil {
		panic(fmt.Sprintf("jwt middleware init: %v", err))
	}
	return authMiddleware.MiddlewareFunc()
}

func handleJWTError(ctx context.Context, c *app.RequestContext, code int, message string) {
	hlog.CtxWarnf(ctx, "JWT Error (code=%d) path=%s: %s", code, c.Path(), message)
	c.JSON(code, utils.H{
		"code":    code,
		"message": message,
	})
}

func isInvalidUserAgent(ctx *app.RequestContext) bool {
	return len(ctx.GetHeader("User-Agent")) == 0
}

func isAllowedHost(ctx *app.RequestContext, hosts []string) bool {
	if len(hosts) == 0 {
		return true
	}
	host := string(ctx.Host())
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	for _, h := range hosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

func hasMaliciousContent(ctx *app.RequestContext, xss *regexp.Regexp, sql *regexp.Regexp, freeText map[string]bool) bool {
	var found int32

	check := func(data []byte) bool {
		return xss.Match(data) || sql.Match(data)
	}

	visitor := func(key, value []byte) {
		if atomic.LoadInt32(&found) == 1 {
			return
		}
		if check(key) || check(value) {
			atomic.StoreInt32(&found, 1)
		}
	}

	ctx.QueryArgs().VisitAll(func(key, value []byte) {
		if freeText[string(key)] {
			if xss.Match(value) {
				atomic.StoreInt32(&found, 1)
			}
			return
		}
		visitor(key, value)
	})
	if atomic.LoadInt32(&found) == 1 {
		return true
	}

	ctx.PostArgs().VisitAll(visitor)
	return atomic.LoadInt32(&found) == 1
}

func securityResponse(c context.Context, ctx *app.RequestContext, code int, msg string, status int) {
	hlog.CtxWarnf(c, "SecurityAlert[code=%d]: %s", code, msg)
	ctx.AbortWithStatusJSON(status, utils.H{
		"code":    code,
		"message": msg,
	})
}
