package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minutes/minutes/internal/model"
)

// ErrDisabled is returned when no embedder or store is configured.
var ErrDisabled = errors.New("semantic index is not configured")

// Index embeds meetings and runs per-user similarity search.
type Index struct {
	embedder Embedder
	store    Store
	logger   *slog.Logger
}

// New creates an Index. A nil embedder or store yields a disabled index.
func New(embedder Embedder, store Store, logger *slog.Logger) *Index {
	return &Index{embedder: embedder, store: store, logger: logger}
}

// Enabled reports whether indexing is available.
func (i *Index) Enabled() bool {
	return i != nil && i.embedder != nil && i.store != nil
}

// IndexMeeting embeds the meeting's index text and upserts it.
func (i *Index) IndexMeeting(ctx context.Context, m *model.Meeting) error {
	if !i.Enabled() {
		return ErrDisabled
	}

	text := m.IndexText()
	vector, err := i.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed meeting %s: %w", m.ID, err)
	}

	if err := i.store.Upsert(ctx, Document{
		MeetingID: m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Content:   text,
		Vector:    vector,
	}); err != nil {
		return fmt.Errorf("store meeting %s: %w", m.ID, err)
	}
	return nil
}

// Search returns up to limit meeting IDs belonging to userID, most similar first.
func (i *Index) Search(ctx context.Context, userID, query string, limit int) ([]string, error) {
	if !i.Enabled() {
		return nil, ErrDisabled
	}

	vector, err := i.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return i.store.Query(ctx, userID, vector, limit)
}
