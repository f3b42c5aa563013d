package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	httpH "github.com/yungbote/neurobridge-coach/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-coach/internal/http/middleware"
	"github.com/yungbote/neurobridge-coach/internal/observability"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/realtime"
)

func TestRouterProtectsStaffRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := logger.NewObserved()
	r := NewRouter(RouterConfig{
		Log:             log,
		Metrics:         observability.New(prometheus.NewRegistry()),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, "secret"),
		StaffHandler:    httpH.NewStaffHandler(nil),
		RealtimeHandler: httpH.NewRealtimeHandler(log, realtime.NewSSEHub(log)),
		HealthHandler:   httpH.NewHealthHandler("neurobridge-coach", "test", httpH.Features{}),
	})

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodGet, path: "/healthcheck", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/health", want: http.StatusOK},
		{method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/staff/flags", want: http.StatusUnauthorized},
		{method: http.MethodPost, path: "/api/staff/flags/abc/review", want: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/api/staff/stream", want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s %s=%d, want %d", tc.method, tc.path, rec.Code, tc.want)
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s %s missing X-Request-Id", tc.method, tc.path)
		}
	}
}
