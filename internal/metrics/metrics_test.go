package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGinMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	before := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/ping", "200"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	after := testutil.ToFloat64(requestTotal.WithLabelValues("GET", "/ping", "200"))
	if after-before != 1 {
		t.Fatalf("requests_total delta = %v, want 1", after-before)
	}
}

func TestObserveAI(t *testing.T) {
	before := testutil.ToFloat64(aiRequests.WithLabelValues("assessment", OutcomeFallback))
	ObserveAI("assessment", OutcomeFallback, 10*time.Millisecond)
	after := testutil.ToFloat64(aiRequests.WithLabelValues("assessment", OutcomeFallback))
	if after-before != 1 {
		t.Fatalf("ai requests delta = %v, want 1", after-before)
	}
}
