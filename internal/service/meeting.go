package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minutes/minutes/internal/metrics"
	"github.com/minutes/minutes/internal/model"
	"github.com/oklog/ulid/v2"
)

// Meeting errors.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidStatus    = errors.New("status must be Processing, Completed or Failed")
	ErrInvalidSentiment = errors.New("sentiment must be Positive, Neutral or Negative")
)

// SemanticSearchLimit is how many meeting IDs semantic search returns.
const SemanticSearchLimit = 5

// MeetingStore is the persistence the meeting service needs.
type MeetingStore interface {
	CreateMeeting(ctx context.Context, m *model.Meeting) error
	ListMeetingsByUser(ctx context.Context, userID string) ([]*model.Meeting, error)
}

// Indexer embeds meetings and answers similarity queries.
type Indexer interface {
	IndexMeeting(ctx context.Context, m *model.Meeting) error
	Search(ctx context.Context, userID, query string, limit int) ([]string, error)
}

// MeetingService handles meeting persistence and semantic indexing.
type MeetingService struct {
	store   MeetingStore
	index   Indexer
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(store MeetingStore, index Indexer, logger *slog.Logger, recorder metrics.Recorder) *MeetingService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &MeetingService{
		store:   store,
		index:   index,
		logger:  logger,
		metrics: recorder,
	}
}

// CreateMeetingInput defines input for creating a meeting.
type CreateMeetingInput struct {
	Title          string
	Date           string
	Duration       string
	Status         string
	AudioURL       string
	Summary        string
	Transcript     string
	Sentiment      string
	SentimentScore int
	Keywords       []string
	ActionItems    []model.ActionItem
	Speakers       []model.Speaker
}

// List returns the user's meetings, newest first.
func (s *MeetingService) List(ctx context.Context, userID string) ([]*model.Meeting, error) {
	return s.store.ListMeetingsByUser(ctx, userID)
}

// Create persists a meeting, then indexes it. Index failures are logged and
// do not fail the call.
func (s *MeetingService) Create(ctx context.Context, userID string, input CreateMeetingInput) (*model.Meeting, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := model.MeetingStatus(input.Status)
	if input.Status == "" {
		status = model.MeetingStatusProcessing
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	sentiment := model.Sentiment(input.Sentiment)
	if !sentiment.IsValid() {
		return nil, ErrInvalidSentiment
	}

	m := &model.Meeting{
		ID:             ulid.Make().String(),
		UserID:         userID,
		Title:          title,
		Date:           input.Date,
		Duration:       input.Duration,
		Status:         status,
		AudioURL:       input.AudioURL,
		Summary:        input.Summary,
		Transcript:     input.Transcript,
		Sentiment:      sentiment,
		SentimentScore: input.SentimentScore,
		Keywords:       nonNil(input.Keywords),
		ActionItems:    nonNil(input.ActionItems),
		Speakers:       nonNil(input.Speakers),
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.CreateMeeting(ctx, m); err != nil {
		return nil, err
	}
	s.metrics.IncMeetingCreated()

	if err := s.indexMeeting(ctx, m); err != nil {
		s.logger.WarnContext(ctx, "meeting indexing failed",
			"meeting_id", m.ID,
			"error", err,
		)
	}

	return m, nil
}

// SemanticSearch returns up to SemanticSearchLimit of the user's meeting IDs
// ranked by similarity. Any failure yields an empty list.
func (s *MeetingService) SemanticSearch(ctx context.Context, userID, query string) []string {
	if strings.TrimSpace(query) == "" || s.index == nil {
		return []string{}
	}

	ids, err := s.index.Search(ctx, userID, query, SemanticSearchLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "semantic search failed", "error", err)
		return []string{}
	}
	if ids == nil {
		return []string{}
	}
	return ids
}

// RegenerateEmbeddings re-indexes every meeting the user owns and returns
// how many were written.
func (s *MeetingService) RegenerateEmbeddings(ctx context.Context, userID string) (int, error) {
	meetings, err := s.store.ListMeetingsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list meetings: %w", err)
	}

	count := 0
	for _, m := range meetings {
		if err := s.indexMeeting(ctx, m); err != nil {
			s.logger.WarnContext(ctx, "meeting re-index failed",
				"meeting_id", m.ID,
				"error", err,
			)
			continue
		}
		count++
	}

	s.logger.InfoContext(ctx, "embeddings regenerated", "user_id", userID, "indexed", count, "total", len(meetings))
	return count, nil
}

func (s *MeetingService) indexMeeting(ctx context.Context, m *model.Meeting) error {
	if s.index == nil {
		return errors.New("no index configured")
	}
	err := s.index.IndexMeeting(ctx, m)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	s.metrics.IncMeetingIndexed(outcome)
	return err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
