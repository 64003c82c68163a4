// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"strings"
	"time"

	"github.com/minutes/minutes/internal/auth"
	"github.com/minutes/minutes/internal/metrics"
	"github.com/minutes/minutes/internal/model"
	"github.com/minutes/minutes/internal/repository"
	"github.com/oklog/ulid/v2"
)

// Auth errors.
var (
	ErrEmailRegistered      = errors.New("email already registered")
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrInvalidEmail         = errors.New("invalid email")
	ErrPasswordRequired     = errors.New("password is required")
	ErrNameRequired         = errors.New("name is required")
	ErrUserNotFound         = errors.New("user not found")
)

// UserStore is the persistence the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// EmailVerifier checks that an email domain can receive mail.
type EmailVerifier interface {
	Verify(ctx context.Context, email string) error
}

// MXVerifier requires at least one MX record (or an address record as the
// implicit MX) for the email's domain.
type MXVerifier struct {
	Resolver *net.Resolver
}

// Verify looks up the domain of email.
func (v MXVerifier) Verify(ctx context.Context, email string) error {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return fmt.Errorf("%w: missing @", ErrInvalidEmail)
	}
	domain := email[at+1:]

	resolver := v.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	if mx, err := resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return nil
	}
	if hosts, err := resolver.LookupHost(ctx, domain); err == nil && len(hosts) > 0 {
		return nil
	}
	return fmt.Errorf("%w: the domain %s does not accept email", ErrInvalidEmail, domain)
}

// TokenResult is returned by signup and login.
type TokenResult struct {
	AccessToken string
	User        *model.User
}

// AuthService handles signup, login and session lookups.
type AuthService struct {
	users    UserStore
	issuer   *auth.TokenIssuer
	verifier EmailVerifier
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewAuthService creates a new AuthService. A nil verifier skips deliverability checks.
func NewAuthService(users UserStore, issuer *auth.TokenIssuer, verifier EmailVerifier, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:    users,
		issuer:   issuer,
		verifier: verifier,
		logger:   logger,
		metrics:  recorder,
	}
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup registers a user and issues an access token.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*TokenResult, error) {
	result, err := s.signup(ctx, input)
	s.recordAuth("signup", err)
	return result, err
}

func (s *AuthService) signup(ctx context.Context, input SignupInput) (*TokenResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if s.verifier != nil {
		if err := s.verifier.Verify(ctx, email); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       model.DefaultAvatarURL(name),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return &TokenResult{AccessToken: token, User: user}, nil
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	result, err := s.login(ctx, email, password)
	s.recordAuth("login", err)
	return result, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (*TokenResult, error) {
	user, err := s.users.GetUserByEmail(ctx, model.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrIncorrectCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrIncorrectCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &TokenResult{AccessToken: token, User: user}, nil
}

// EmailExists reports whether an account uses email.
func (s *AuthService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.users.EmailExists(ctx, model.NormalizeEmail(email))
}

// CurrentUser loads the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) recordAuth(event string, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	s.metrics.IncAuthEvent(event, outcome)
}

// normalizeEmail validates syntax and lowercases the address.
func normalizeEmail(raw string) (string, error) {
	email := model.NormalizeEmail(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", fmt.Errorf("%w: %s is not a valid address", ErrInvalidEmail, raw)
	}
	return email, nil
}
