package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", strings.NewReader(`{"email":" Jane@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "jane@example.com|1.2.3.4" {
		t.Fatalf("key want jane@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Jane@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := map[string]string{
		"missing":    `{"name":"x"}`,
		"non-string": `{"email":42}`,
		"malformed":  `{bad`,
		"empty":      ``,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			c.Request.RemoteAddr = "5.6.7.8:1234"
			if key := KeyByIPAndJSONField("email")(c); key != "5.6.7.8" {
				t.Fatalf("key want 5.6.7.8 got %s", key)
			}
		})
	}
}

func TestRateLimitKeyPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "9.9.9.9:80"

	if key := rateLimitKey(c, "abc:rate:subscribe", nil); key != "abc:rate:subscribe:9.9.9.9" {
		t.Fatalf("unexpected key %s", key)
	}
	if key := rateLimitKey(c, "", func(*gin.Context) string { return " custom " }); key != "custom" {
		t.Fatalf("unexpected key %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("request %d should pass through, got %d %s", i, w.Code, w.Body.String())
		}
	}
}

func TestRateLimitRuleRetryAfter(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 5}
	if got := rule.retryAfter(12); got != 12 {
		t.Fatalf("retry after want 12 got %d", got)
	}
	if got := rule.retryAfter(-1); got != 60 {
		t.Fatalf("missing ttl should fall back to window, got %d", got)
	}
	if got := (RateLimitRule{}).retryAfter(0); got != 1 {
		t.Fatalf("retry after should be at least 1, got %d", got)
	}
	if msg := rule.message(30); msg != "too many requests, please retry in 30 seconds" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestParseRateLimitResult(t *testing.T) {
	count, ttl, ok := parseRateLimitResult([]interface{}{int64(3), int64(42)})
	if !ok || count != 3 || ttl != 42 {
		t.Fatalf("unexpected parse result %d %d %v", count, ttl, ok)
	}
	if _, _, ok := parseRateLimitResult([]interface{}{int64(1)}); ok {
		t.Fatalf("short result should be rejected")
	}
	if _, _, ok := parseRateLimitResult("OK"); ok {
		t.Fatalf("non-slice result should be rejected")
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "int64", input: int64(10), want: 10, ok: true},
		{name: "int", input: int(11), want: 11, ok: true},
		{name: "float64", input: float64(13.9), want: 13, ok: true},
		{name: "numeric string", input: "14", want: 14, ok: true},
		{name: "string", input: "bad", want: 0, ok: false},
		{name: "nil", input: nil, want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}
