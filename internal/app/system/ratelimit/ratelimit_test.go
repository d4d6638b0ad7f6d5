package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndRemaining(t *testing.T) {
	l := New(3, time.Hour)
	defer l.Close()

	if got := l.Remaining("a"); got != 3 {
		t.Fatalf("Remaining before use = %d, want 3", got)
	}
	for i := 0; i < 3; i++ {
		if !l.Allow("a") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("a") {
		t.Error("fourth request should be limited")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining after exhaustion = %d, want 0", got)
	}
	if !l.Allow("b") {
		t.Error("keys must be independent")
	}

	l.Reset("a")
	if !l.Allow("a") {
		t.Error("Reset should restore the allowance")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded list", "203.0.113.5, 10.0.0.1", "", "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", "", "198.51.100.7", "10.0.0.2:1234", "198.51.100.7"},
		{"remote addr", "", "", "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_EmailLimitAndReset(t *testing.T) {
	ll := NewLoginLimiter(100, 2)
	defer ll.Close()
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(r, "Asha@Example.com"); !ok {
			t.Fatalf("attempt %d should pass", i+1)
		}
	}
	ok, reason := ll.Check(r, " asha@example.com ")
	if ok || reason == "" {
		t.Fatal("third attempt for the same account should be blocked")
	}

	ll.ResetEmail("ASHA@example.com")
	if ok, _ := ll.Check(r, "asha@example.com"); !ok {
		t.Error("ResetEmail should clear the account counter")
	}
}

func TestMiddleware_Returns429(t *testing.T) {
	l := New(1, time.Hour)
	defer l.Close()
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/register", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first request: got %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/register", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", rec.Code)
	}
}
