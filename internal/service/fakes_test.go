package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/minutes/minutes/internal/model"
	"github.com/minutes/minutes/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
	err     error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrEmailExists
	}
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byEmail[email]
	return ok, nil
}

type fakeVerifier struct {
	err   error
	calls int
}

func (v *fakeVerifier) Verify(context.Context, string) error {
	v.calls++
	return v.err
}

type fakeMeetingStore struct {
	meetings []*model.Meeting
	err      error
}

func (f *fakeMeetingStore) CreateMeeting(_ context.Context, m *model.Meeting) error {
	if f.err != nil {
		return f.err
	}
	f.meetings = append(f.meetings, m)
	return nil
}

func (f *fakeMeetingStore) ListMeetingsByUser(_ context.Context, userID string) ([]*model.Meeting, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Meeting
	for i := len(f.meetings) - 1; i >= 0; i-- {
		if f.meetings[i].UserID == userID {
			out = append(out, f.meetings[i])
		}
	}
	return out, nil
}

type fakeIndexer struct {
	indexed   []string
	failFor   map[string]bool
	searchIDs []string
	searchErr error
	lastLimit int
}

var errIndexDown = errors.New("index unavailable")

func (f *fakeIndexer) IndexMeeting(_ context.Context, m *model.Meeting) error {
	if f.failFor[m.ID] || f.failFor["*"] {
		return errIndexDown
	}
	f.indexed = append(f.indexed, m.ID)
	return nil
}

func (f *fakeIndexer) Search(_ context.Context, _ string, _ string, limit int) ([]string, error) {
	f.lastLimit = limit
	return f.searchIDs, f.searchErr
}
