// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"encoding/json"
	"time"

	"github.com/minutes/minutes/internal/model"
	"github.com/minutes/minutes/internal/tools"
)

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse carries a human-readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Name     string `json:"name" validate:"notblank,max=200"`
	Email    string `json:"email" validate:"required,max=320"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CheckEmailRequest asks whether an address is registered.
type CheckEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// CheckEmailResponse answers CheckEmailRequest.
type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is returned by signup and login.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
	if u.Avatar != "" {
		avatar := u.Avatar
		resp.Avatar = &avatar
	}
	return resp
}

// CreateMeetingRequest represents the request body for storing a meeting.
type CreateMeetingRequest struct {
	Title          string             `json:"title" validate:"notblank,max=500"`
	Date           string             `json:"date" validate:"max=100"`
	Duration       string             `json:"duration" validate:"max=100"`
	Status         string             `json:"status" validate:"omitempty,oneof=Processing Completed Failed"`
	AudioURL       string             `json:"audio_url" validate:"max=2048"`
	Summary        string             `json:"summary"`
	Transcript     string             `json:"transcript"`
	Sentiment      string             `json:"sentiment" validate:"omitempty,oneof=Positive Neutral Negative"`
	SentimentScore int                `json:"sentimentScore"`
	Keywords       []string           `json:"keywords"`
	ActionItems    []model.ActionItem `json:"actionItems"`
	Speakers       []model.Speaker    `json:"speakers"`
}

// SemanticSearchRequest represents a similarity query over the caller's meetings.
type SemanticSearchRequest struct {
	Query string `json:"query" validate:"max=2000"`
}

// SemanticSearchResponse lists matching meeting IDs, most similar first.
type SemanticSearchResponse struct {
	MatchedIDs []string `json:"matched_ids"`
}

// FactCheckRequest represents a web fact-check query.
type FactCheckRequest struct {
	Query string `json:"query" validate:"notblank,max=2000"`
}

// FactCheckResponse carries the formatted search context.
type FactCheckResponse struct {
	Context string `json:"context"`
}

// ParsePDFResponse carries text extracted from an uploaded PDF.
type ParsePDFResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ExtractEntitiesRequest represents text to run entity recognition on.
type ExtractEntitiesRequest struct {
	Text string `json:"text"`
}

// ExtractEntitiesResponse lists recognized entities.
type ExtractEntitiesResponse struct {
	Entities []model.Entity `json:"entities"`
}

// SendEmailRequest represents an outbound email.
type SendEmailRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject" validate:"max=998"`
	Body      string `json:"body"`
}

// UploadMediaResponse carries the public URL of a stored upload.
type UploadMediaResponse struct {
	URL string `json:"url"`
}

// ToolCallRequest asks the dispatcher to run one tool. Args is kept raw so
// a malformed argument payload can be reported in the tool result.
type ToolCallRequest struct {
	Tool string          `json:"tool"`
	Args json.RawMessage `json:"args"`
}

// ToolCallResponse is the dispatcher's text result.
type ToolCallResponse struct {
	Tool   string `json:"tool"`
	Result string `json:"result"`
}

// ToolListResponse lists the tools the dispatcher knows.
type ToolListResponse struct {
	Tools []tools.Definition `json:"tools"`
}
