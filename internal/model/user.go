// Package model defines domain entities for the application.
package model

import (
	"net/url"
	"strings"
	"time"
)

// User represents an account that owns meetings.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultAvatarURL builds the generated avatar URL for a display name.
func DefaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

// AuthContext holds the authenticated caller for a request.
type AuthContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
