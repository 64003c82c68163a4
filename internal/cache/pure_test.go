package cache

import (
	"strings"
	"testing"
	"time"
)

func TestHashIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ip   string
	}{
		{"IPv4", "192.168.1.1"},
		{"IPv6 localhost", "::1"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash := hashIP(tt.ip)
			if len(hash) != 16 {
				t.Errorf("hashIP(%q) length = %d, want 16", tt.ip, len(hash))
			}
			if hash != hashIP(tt.ip) {
				t.Errorf("hashIP(%q) not deterministic", tt.ip)
			}
		})
	}

	if hashIP("10.0.0.1") == hashIP("10.0.0.2") {
		t.Error("different IPs should produce different hashes")
	}
}

func TestIPRateLimitKey_SeparatesBuckets(t *testing.T) {
	t.Parallel()

	signup := ipRateLimitKey("signup", "10.0.0.1")
	login := ipRateLimitKey("login", "10.0.0.1")

	if signup == login {
		t.Error("buckets should not share a key")
	}
	if !strings.HasPrefix(signup, "ratelimit:ip:signup:") {
		t.Errorf("unexpected key %q", signup)
	}
	if strings.Contains(signup, "10.0.0.1") {
		t.Error("raw IP must not appear in the key")
	}
}

func TestSessionTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   time.Duration
	}{
		{"no expiry", time.Time{}, sessionCacheTTL},
		{"far expiry", now.Add(5 * time.Hour), sessionCacheTTL},
		{"near expiry", now.Add(90 * time.Second), 90 * time.Second},
		{"expired", now.Add(-time.Second), -time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sessionTTL(now, tt.expiry); got != tt.want {
				t.Errorf("sessionTTL() = %s, want %s", got, tt.want)
			}
		})
	}
}
