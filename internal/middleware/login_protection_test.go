// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestLoginProtection returns a protector driven by a fake clock.
func newTestLoginProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) (*LoginProtection, *fakeClock) {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Close)

	clock := &fakeClock{t: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)}
	lp.now = clock.now
	return lp, clock
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Close()

	if lp.maxFailedAttempts != 5 {
		t.Errorf("maxFailedAttempts = %d, want 5 (default)", lp.maxFailedAttempts)
	}
	if lp.lockoutDuration != 15*time.Minute {
		t.Errorf("lockoutDuration = %v, want 15m (default)", lp.lockoutDuration)
	}
	if lp.attemptWindow != 15*time.Minute {
		t.Errorf("attemptWindow = %v, want 15m (default)", lp.attemptWindow)
	}
}

func TestLoginProtection_LocksAndExpires(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 3, time.Minute, time.Hour)
	const scope, email = "alumni", "rahim@example.com"

	for i := 1; i < 3; i++ {
		if locked, _ := lp.RecordFailedAttempt(scope, email); locked {
			t.Fatalf("attempt %d locked the account", i)
		}
	}
	locked, d := lp.RecordFailedAttempt(scope, email)
	if !locked || d != time.Minute {
		t.Fatalf("third attempt: locked=%v duration=%v, want true 1m", locked, d)
	}

	if locked, remaining := lp.IsAccountLocked(scope, email); !locked || remaining != time.Minute {
		t.Errorf("IsAccountLocked = %v %v, want true 1m", locked, remaining)
	}

	clock.advance(time.Minute + time.Second)
	if locked, _ := lp.IsAccountLocked(scope, email); locked {
		t.Error("account should unlock after the lockout")
	}
}

func TestLoginProtection_IdentifierIsCaseInsensitive(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 2, time.Minute, time.Hour)

	lp.RecordFailedAttempt("alumni", "Rahim@Example.com")
	lp.RecordFailedAttempt("alumni", " rahim@example.com ")

	if locked, _ := lp.IsAccountLocked("alumni", "rahim@example.com"); !locked {
		t.Error("differently cased identifiers should share a counter")
	}
}

func TestLoginProtection_ScopesAreIndependent(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 2, time.Minute, time.Hour)

	lp.RecordFailedAttempt("admin", "admin")
	lp.RecordFailedAttempt("admin", "admin")

	if locked, _ := lp.IsAccountLocked("alumni", "admin"); locked {
		t.Error("admin lockout leaked into the alumni scope")
	}
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(t, 3, time.Minute, time.Hour)

	lp.RecordFailedAttempt("alumni", "a@example.com")
	lp.RecordFailedAttempt("alumni", "a@example.com")
	lp.RecordSuccessfulLogin("alumni", "a@example.com")

	if got := lp.RemainingAttempts("alumni", "a@example.com"); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}
}

func TestLoginProtection_RemainingAttempts(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 5, time.Minute, 10*time.Minute)

	if got := lp.RemainingAttempts("alumni", "a@example.com"); got != 5 {
		t.Errorf("initial RemainingAttempts() = %d, want 5", got)
	}
	lp.RecordFailedAttempt("alumni", "a@example.com")
	lp.RecordFailedAttempt("alumni", "a@example.com")
	if got := lp.RemainingAttempts("alumni", "a@example.com"); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}

	clock.advance(11 * time.Minute)
	if got := lp.RemainingAttempts("alumni", "a@example.com"); got != 5 {
		t.Errorf("RemainingAttempts() after window = %d, want 5", got)
	}
}

func TestLoginProtection_ExponentialBackoff(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 2, time.Minute, time.Hour)

	lp.RecordFailedAttempt("alumni", "a@example.com")
	_, first := lp.RecordFailedAttempt("alumni", "a@example.com")

	clock.advance(first + time.Second)
	lp.RecordFailedAttempt("alumni", "a@example.com")
	_, second := lp.RecordFailedAttempt("alumni", "a@example.com")

	if second != 2*first {
		t.Errorf("second lockout = %v, want %v", second, 2*first)
	}
}

func TestLoginProtection_CleanupStaleEntries(t *testing.T) {
	lp, clock := newTestLoginProtection(t, 5, time.Minute, time.Minute)

	lp.RecordFailedAttempt("alumni", "a@example.com")
	clock.advance(2 * time.Minute)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	n := len(lp.failedAttempts)
	lp.attemptsMu.RUnlock()
	if n != 0 {
		t.Errorf("failedAttempts has %d entries after cleanup, want 0", n)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xForwarded string
		xRealIP    string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "remote addr without port", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
		{name: "X-Forwarded-For single", remoteAddr: "127.0.0.1:8080", xForwarded: "10.0.0.1", want: "10.0.0.1"},
		{name: "X-Forwarded-For multiple", remoteAddr: "127.0.0.1:8080", xForwarded: "10.0.0.1, 10.0.0.2", want: "10.0.0.1"},
		{name: "X-Real-IP wins", remoteAddr: "127.0.0.1:8080", xForwarded: "10.0.0.1", xRealIP: "10.0.0.5", want: "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwarded)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Close()

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// GETs are never limited.
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %d status = %d, want 200", i, rr.Code)
		}
	}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("POST status codes = %v, want [200 200 429]", codes)
	}
}
