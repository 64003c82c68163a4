package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/minutes/minutes/internal/auth"
	"github.com/minutes/minutes/internal/handler/dto"
	"github.com/minutes/minutes/internal/model"
	"github.com/minutes/minutes/internal/service"
)

// AuthService is the account logic the auth handler depends on.
type AuthService interface {
	Signup(ctx context.Context, input service.SignupInput) (*service.TokenResult, error)
	Login(ctx context.Context, email, password string) (*service.TokenResult, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CurrentUser(ctx context.Context, userID string) (*model.User, error)
}

// AuthHandler handles account endpoints.
type AuthHandler struct {
	svc    AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(result))
}

// Login handles POST /auth/login-json.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toTokenResponse(result))
}

// CheckEmail handles POST /auth/check-email.
func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	exists, err := h.svc.EmailExists(r.Context(), req.Email)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CheckEmailResponse{Exists: exists})
}

// Me handles GET /users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

func toTokenResponse(result *service.TokenResult) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
		User:        dto.ToUserResponse(result.User),
	}
}
