package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler)
	r.GET("/", func(c *gin.Context) { _ = c.Error(assertErr{}) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != 500 {
		t.Fatalf("code=%d", w.Code)
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) { panic("secret internals") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != 500 {
		t.Fatalf("code=%d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret internals") {
		t.Fatalf("panic value leaked to client: %s", w.Body.String())
	}
}

func TestRecoveryMiddleware_AfterWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/late", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("late")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late", nil))
	if w.Code != http.StatusAccepted || w.Body.String() != "partial" {
		t.Fatalf("written response must be kept, got %d %q", w.Code, w.Body.String())
	}
}

func TestRateLimiter(t *testing.T) {
	cases := []struct {
		name   string
		reqs   int
		rps    float64
		burst  int
		expect int
	}{
		{name: "within burst", reqs: 3, rps: 1, burst: 3, expect: http.StatusOK},
		{name: "burst exhausted", reqs: 5, rps: 1, burst: 3, expect: http.StatusTooManyRequests},
		{name: "zero burst allows one", reqs: 2, rps: 0.001, burst: 0, expect: http.StatusTooManyRequests},
		{name: "disabled", reqs: 50, rps: 0, burst: 1, expect: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RateLimiter(tc.rps, tc.burst))
			r.GET("/", func(c *gin.Context) { c.String(200, "ok") })
			var last *httptest.ResponseRecorder
			for i := 0; i < tc.reqs; i++ {
				last = httptest.NewRecorder()
				r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/", nil))
			}
			if last.Code != tc.expect {
				t.Fatalf("expected %d, got %d", tc.expect, last.Code)
			}
			if tc.expect == http.StatusTooManyRequests && last.Header().Get("Retry-After") == "" {
				t.Fatalf("missing Retry-After header")
			}
		})
	}
}

func TestRateLimiter_PerClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(0.001, 1))
	r.GET("/", func(c *gin.Context) { c.String(200, "ok") })

	send := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		return w.Code
	}
	if send("10.0.0.1:1234") != http.StatusOK || send("10.0.0.2:1234") != http.StatusOK {
		t.Fatalf("first request of each client must pass")
	}
	if send("10.0.0.1:1234") != http.StatusTooManyRequests {
		t.Fatalf("second request of the same client must be limited")
	}
}

func TestIPLimiter_DropsIdleVisitors(t *testing.T) {
	now := time.Now()
	l := &ipLimiter{visitors: map[string]*visitor{}, rps: 1, burst: 1, lastGC: now}
	l.allow("a", now)
	l.allow("b", now.Add(idleTTL/2))
	l.allow("c", now.Add(idleTTL+time.Second))
	if _, ok := l.visitors["a"]; ok {
		t.Fatalf("idle visitor should be dropped")
	}
	if len(l.visitors) != 2 {
		t.Fatalf("unexpected visitors %v", l.visitors)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.POST("/", func(c *gin.Context) { c.String(200, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight code=%d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin=%q", got)
	}
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name         string
		d            time.Duration
		wantDeadline bool
	}{
		{name: "bounded", d: time.Second, wantDeadline: true},
		{name: "disabled", d: 0, wantDeadline: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Timeout(tc.d))
			var has bool
			r.GET("/", func(c *gin.Context) {
				_, has = c.Request.Context().Deadline()
				c.Status(http.StatusOK)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			if has != tc.wantDeadline {
				t.Fatalf("deadline=%v want %v", has, tc.wantDeadline)
			}
		})
	}
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/err", func(c *gin.Context) {
		AbortWithError(c, http.StatusBadRequest, "bad stuff", assertErr{})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
	if !strings.Contains(w.Body.String(), `"message":"bad stuff"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestErrorHandler_KeepsWrittenResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler)
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(assertErr{})
		c.String(http.StatusTeapot, "tea")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTeapot {
		t.Fatalf("code=%d", w.Code)
	}
}
