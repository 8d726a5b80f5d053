package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{name: "remote addr with port", remote: "203.0.113.9:51234", want: "203.0.113.9"},
		{name: "forwarded single", remote: "10.0.0.1:80", xff: "198.51.100.7", want: "198.51.100.7"},
		{name: "forwarded chain takes first", remote: "10.0.0.1:80", xff: "198.51.100.7, 10.0.0.2", want: "198.51.100.7"},
		{name: "empty forwarded falls back", remote: "203.0.113.9:51234", xff: "  ", want: "203.0.113.9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := ClientIP(r); got != tc.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Now()

	if !rl.allow("1.2.3.4", now) {
		t.Fatal("first request should be allowed")
	}
	if !rl.allow("1.2.3.4", now) {
		t.Fatal("second request should be allowed")
	}
	if rl.allow("1.2.3.4", now) {
		t.Fatal("third request should be rejected")
	}
	if !rl.allow("5.6.7.8", now) {
		t.Fatal("different IP should have its own bucket")
	}
	if !rl.allow("1.2.3.4", now.Add(2*time.Minute)) {
		t.Fatal("bucket should reset after the window passes")
	}
}

func TestRateLimiterSweepsExpiredBuckets(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Now()

	for _, ip := range []string{"1.2.3.4", "5.6.7.8", "9.10.11.12"} {
		rl.allow(ip, now)
	}
	if got := len(rl.buckets); got != 3 {
		t.Fatalf("buckets before sweep = %d, want 3", got)
	}

	// Past the window every earlier bucket is stale; the next request
	// should leave only its own entry behind.
	rl.allow("13.14.15.16", now.Add(2*time.Minute))
	if got := len(rl.buckets); got != 1 {
		t.Fatalf("buckets after sweep = %d, want 1", got)
	}
	if _, ok := rl.buckets["13.14.15.16"]; !ok {
		t.Fatal("active bucket must survive the sweep")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:51234"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", w.Code, http.StatusOK)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on rejection")
	}
}
