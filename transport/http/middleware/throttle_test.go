package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"studio/config"
	otelMocks "studio/infras/otel/mocks"
	cacheMocks "studio/shared/cache/mocks"
	"studio/shared/constant"
	"studio/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(handler http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/v1/login", nil)
	req.Header.Set(constant.RequestHeaderForwardedFor, ip)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec.Code
}

func TestAppMiddleware_AuthThrottle(t *testing.T) {
	t.Run("limits each client address separately", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cfg := &config.Config{}
		cfg.App.AuthThrottle.Enable = true
		cfg.App.AuthThrottle.RequestsPerMinute = 2
		cfg.App.AuthThrottle.Burst = 2

		app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cacheMocks.NewMockRedisCache(ctrl))
		handler := app.AuthThrottle()(okHandler)

		assert.Equal(t, http.StatusOK, serve(handler, "10.0.0.1"))
		assert.Equal(t, http.StatusOK, serve(handler, "10.0.0.1"))
		assert.Equal(t, http.StatusTooManyRequests, serve(handler, "10.0.0.1"))
		assert.Equal(t, http.StatusOK, serve(handler, "10.0.0.2"))
	})

	t.Run("disabled throttle lets everything through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cfg := &config.Config{}
		cfg.App.AuthThrottle.RequestsPerMinute = 1
		cfg.App.AuthThrottle.Burst = 1

		app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cacheMocks.NewMockRedisCache(ctrl))
		handler := app.AuthThrottle()(okHandler)

		for range 5 {
			assert.Equal(t, http.StatusOK, serve(handler, "10.0.0.1"))
		}
	})
}

func TestAppMiddleware_RateLimit(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		err           error
		wantStatus    int
		wantRemaining string
	}{
		{name: "first request starts the window", count: 1, wantStatus: http.StatusOK, wantRemaining: "2"},
		{name: "last allowed request", count: 3, wantStatus: http.StatusOK, wantRemaining: "0"},
		{name: "request over the limit is rejected", count: 4, wantStatus: http.StatusTooManyRequests, wantRemaining: "0"},
		{name: "cache outage fails open", err: assert.AnError, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := cacheMocks.NewMockRedisCache(ctrl)
			redisCache.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.1:unknown", 60).Return(tt.count, tt.err)

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = true
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, redisCache)

			req := httptest.NewRequest(http.MethodGet, "/v1/services/", nil)
			req.RemoteAddr = "10.0.0.1:52341"

			rec := httptest.NewRecorder()
			app.RateLimit()(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}

func TestAppMiddleware_RateLimitDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), &config.Config{}, cacheMocks.NewMockRedisCache(ctrl))

	assert.Equal(t, http.StatusOK, serve(app.RateLimit()(okHandler), "10.0.0.1"))
}
