package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{"direct", "203.0.113.7:5000", "", "", "203.0.113.7"},
		{"untrusted proxy ignored", "203.0.113.7:5000", "198.51.100.1", "", "203.0.113.7"},
		{"trusted proxy xff", "10.0.0.2:5000", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"trusted proxy x-real-ip", "127.0.0.1:5000", "", "198.51.100.9", "198.51.100.9"},
		{"trusted proxy bad header", "127.0.0.1:5000", "garbage", "", "127.0.0.1"},
		{"no port", "192.0.2.1", "", "", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := extractClientIP(r); got != tt.want {
				t.Errorf("extractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	m := &securityMetrics{}
	if detectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/?q=food", nil), m) {
		t.Error("plain search flagged")
	}
	if !detectSuspiciousRequest(httptest.NewRequest(http.MethodGet, "/.env", nil), m) {
		t.Error(".env probe not flagged")
	}
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("User-Agent", "sqlmap/1.7")
	if !detectSuspiciousRequest(r, m) {
		t.Error("scanner user agent not flagged")
	}
	if m.suspiciousRequests != 2 {
		t.Errorf("suspiciousRequests = %d, want 2", m.suspiciousRequests)
	}
}

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := &rateLimiter{limit: 2, clients: map[string]*clientInfo{}, now: func() time.Time { return now }, stopCleanup: make(chan struct{})}

	if !rl.allow("a", nil) || !rl.allow("a", nil) {
		t.Fatal("requests within limit rejected")
	}
	if rl.allow("a", nil) {
		t.Fatal("third request allowed")
	}
	if !rl.allow("b", nil) {
		t.Fatal("limit should be per client")
	}

	now = now.Add(61 * time.Second)
	if !rl.allow("a", nil) {
		t.Fatal("new window should reset the budget")
	}

	now = now.Add(11 * time.Minute)
	rl.cleanupStaleEntries()
	if len(rl.clients) != 0 {
		t.Errorf("stale clients kept: %d", len(rl.clients))
	}
	rl.stop()
	rl.stop()
}

func TestSanitizeAndRequestID(t *testing.T) {
	if got := sanitizeInput("  Fo\x00od\t "); got != "Food" {
		t.Errorf("sanitizeInput = %q", got)
	}
	id := generateRequestID()
	if len(id) != len("req_")+16 || !validRequestID(id) {
		t.Errorf("generateRequestID = %q", id)
	}
	for _, bad := range []string{"", "has space", "<x>"} {
		if validRequestID(bad) {
			t.Errorf("validRequestID(%q) = true", bad)
		}
	}
}
