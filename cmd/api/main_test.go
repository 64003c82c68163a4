package main

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"postgres://minutes:s3cret@db:5432/minutes", "postgres://minutes@db:5432/minutes"},
		{"redis://:s3cret@cache:6379", "redis://redacted@cache:6379"},
		{"redis://cache:6379", "redis://cache:6379"},
	}
	for _, tt := range tests {
		if got := redactURL(tt.in); got != tt.want {
			t.Errorf("redactURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://minutes:s3cret@db:5432/minutes"
	err := errors.New("dial " + dsn + " failed; password=hunter2 api_key=tvly-123")

	got := sanitizeError(err, dsn)
	for _, secret := range []string{"s3cret", "hunter2", "tvly-123"} {
		if strings.Contains(got, secret) {
			t.Errorf("sanitized message %q still contains %q", got, secret)
		}
	}
	if sanitizeError(nil) != "" {
		t.Error("expected empty string for nil error")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
