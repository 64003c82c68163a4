package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minutes/minutes/internal/auth"
	"github.com/minutes/minutes/internal/mail"
	"github.com/minutes/minutes/internal/middleware"
	"github.com/minutes/minutes/internal/model"
	"github.com/minutes/minutes/internal/search"
	"github.com/minutes/minutes/internal/service"
	"github.com/minutes/minutes/internal/tools"
)

const testSecret = "handler-test-secret"

type fakeAuthService struct {
	mu    sync.Mutex
	users map[string]*model.User // by email
	err   error
}

func newFakeAuthService() *fakeAuthService {
	return &fakeAuthService{users: make(map[string]*model.User)}
}

func (f *fakeAuthService) issue(u *model.User) (*service.TokenResult, error) {
	token, err := auth.NewTokenIssuer(testSecret, time.Hour).Issue(u)
	if err != nil {
		return nil, err
	}
	return &service.TokenResult{AccessToken: token, User: u}, nil
}

func (f *fakeAuthService) Signup(_ context.Context, in service.SignupInput) (*service.TokenResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	email := model.NormalizeEmail(in.Email)
	if _, ok := f.users[email]; ok {
		return nil, service.ErrEmailRegistered
	}
	u := &model.User{
		ID:           "user-" + email,
		Name:         in.Name,
		Email:        email,
		PasswordHash: in.Password,
		Avatar:       model.DefaultAvatarURL(in.Name),
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	f.users[email] = u
	return f.issue(u)
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (*service.TokenResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[model.NormalizeEmail(email)]
	if !ok || u.PasswordHash != password {
		return nil, service.ErrIncorrectCredentials
	}
	return f.issue(u)
}

func (f *fakeAuthService) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[model.NormalizeEmail(email)]
	return ok, nil
}

func (f *fakeAuthService) CurrentUser(_ context.Context, userID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, service.ErrUserNotFound
}

type fakeMeetingService struct {
	mu        sync.Mutex
	meetings  []*model.Meeting
	searchIDs []string
	listErr   error
}

func (f *fakeMeetingService) List(_ context.Context, userID string) ([]*model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*model.Meeting
	for i := len(f.meetings) - 1; i >= 0; i-- {
		if f.meetings[i].UserID == userID {
			out = append(out, f.meetings[i])
		}
	}
	return out, nil
}

func (f *fakeMeetingService) Create(_ context.Context, userID string, in service.CreateMeetingInput) (*model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.TrimSpace(in.Title) == "" {
		return nil, service.ErrTitleRequired
	}
	status := model.MeetingStatus(in.Status)
	if status == "" {
		status = model.MeetingStatusProcessing
	}
	m := &model.Meeting{
		ID:             "meeting-" + in.Title,
		UserID:         userID,
		Title:          in.Title,
		Date:           in.Date,
		Duration:       in.Duration,
		Status:         status,
		Summary:        in.Summary,
		Sentiment:      model.Sentiment(in.Sentiment),
		SentimentScore: in.SentimentScore,
		Keywords:       append([]string{}, in.Keywords...),
		ActionItems:    append([]model.ActionItem{}, in.ActionItems...),
		Speakers:       append([]model.Speaker{}, in.Speakers...),
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	f.meetings = append(f.meetings, m)
	return m, nil
}

func (f *fakeMeetingService) SemanticSearch(context.Context, string, string) []string {
	if f.searchIDs == nil {
		return []string{}
	}
	return f.searchIDs
}

func (f *fakeMeetingService) RegenerateEmbeddings(_ context.Context, userID string) (int, error) {
	ms, err := f.List(context.Background(), userID)
	return len(ms), err
}

type fakeFactChecker struct {
	text string
	err  error
}

func (f fakeFactChecker) FactCheck(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeEntities struct {
	entities []model.Entity
	err      error
}

func (f fakeEntities) Extract(string) ([]model.Entity, error) {
	return f.entities, f.err
}

type fakeMailer struct {
	status string
	err    error
	sent   []mail.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, msg)
	return f.status, nil
}

type fakeMediaStore struct {
	saved map[string][]byte
	err   error
}

func (f *fakeMediaStore) Save(filename string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[filename] = data
	return "http://localhost:8000/static/uploads/1700000000_" + strings.ReplaceAll(filename, " ", "_"), nil
}

type fakeSearcher struct {
	results []search.Result
	err     error
}

func (f fakeSearcher) Search(context.Context, string, search.Request) (*search.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &search.Response{Results: f.results}, nil
}

type testDeps struct {
	auth     *fakeAuthService
	meetings *fakeMeetingService
	facts    fakeFactChecker
	entities fakeEntities
	mailer   *fakeMailer
	media    *fakeMediaStore
	searcher fakeSearcher
}

func newTestDeps() *testDeps {
	return &testDeps{
		auth:     newFakeAuthService(),
		meetings: &fakeMeetingService{},
		facts:    fakeFactChecker{text: "- Paris is the capital of France. (Source: https://example.com/paris)"},
		entities: fakeEntities{entities: []model.Entity{{Text: "Ada Lovelace", Label: "PERSON"}}},
		mailer:   &fakeMailer{status: mail.MockSentMessage},
		media:    &fakeMediaStore{},
		searcher: fakeSearcher{results: []search.Result{
			{Content: "first", URL: "https://a.example"},
			{Content: "second", URL: "https://b.example"},
			{Content: "third", URL: "https://c.example"},
		}},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (d *testDeps) router(t *testing.T) http.Handler {
	t.Helper()
	logger := discardLogger()

	registry := tools.NewRegistry(logger, nil)
	registry.MustRegister(tools.NewSearchWebTool(d.searcher, "primary-key"))

	return NewRouter(RouterConfig{
		Logger:   logger,
		Health:   NewHealthHandler(nil, nil),
		Auth:     NewAuthHandler(d.auth, logger),
		Meetings: NewMeetingHandler(d.meetings, logger),
		Tools: NewToolsHandler(ToolsConfig{
			FactChecker:   d.facts,
			Entities:      d.entities,
			Mailer:        d.mailer,
			Logger:        logger,
			MaxUploadSize: 1 << 20,
		}),
		Media: NewMediaHandler(d.media, 1<<20, logger),
		MCP:   NewMCPHandler(registry),
		RequireAuth: middleware.Auth(middleware.AuthConfig{
			Logger:   logger,
			Verifier: auth.NewTokenIssuer(testSecret, time.Hour),
		}),
		CORS:        middleware.DefaultCORSConfig(),
		Security:    middleware.SecurityConfig{IsDevelopment: true, StaticPrefix: "/static/"},
		MaxBodySize: 1 << 20,
	})
}

// doJSON performs a request against h and returns the recorder.
func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartRequest(t *testing.T, path, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

// signup registers a user through the router and returns its token.
func signup(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Test User", "email": email, "password": "pw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d body = %s", rec.Code, rec.Body.String())
	}
	return decodeBody[map[string]any](t, rec)["access_token"].(string)
}

var errBoom = errors.New("boom")
