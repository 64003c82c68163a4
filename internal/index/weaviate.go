package index

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// Property names on the meeting class.
const (
	propMeetingID = "meeting_id"
	propUserID    = "user_id"
	propTitle     = "title"
	propContent   = "content"
)

// objectNamespace seeds deterministic object UUIDs so re-indexing a meeting
// overwrites its previous vector.
var objectNamespace = uuid.MustParse("6f1c2a52-8d5e-4d3b-9a47-2b1f0c7e9a10")

// Document is one indexed meeting.
type Document struct {
	MeetingID string
	UserID    string
	Title     string
	Content   string
	Vector    []float32
}

// Store persists vectors and answers nearest-neighbour queries scoped to a user.
type Store interface {
	Upsert(ctx context.Context, doc Document) error
	Query(ctx context.Context, userID string, vector []float32, limit int) ([]string, error)
}

// WeaviateStore implements Store on a Weaviate class with caller-provided vectors.
type WeaviateStore struct {
	client *weaviate.Client
	class  string
}

// NewWeaviateStore creates a store for rawURL (e.g. http://localhost:8080).
func NewWeaviateStore(rawURL, class string) (*WeaviateStore, error) {
	cfg, err := weaviateConfig(rawURL)
	if err != nil {
		return nil, err
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}
	return &WeaviateStore{client: client, class: class}, nil
}

func weaviateConfig(rawURL string) (weaviate.Config, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return weaviate.Config{}, fmt.Errorf("invalid weaviate URL %q", rawURL)
	}
	return weaviate.Config{Host: u.Host, Scheme: u.Scheme}, nil
}

// Ping reports whether the Weaviate instance is ready.
func (s *WeaviateStore) Ping(ctx context.Context) error {
	ready, err := s.client.Misc().ReadyChecker().Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate ready check: %w", err)
	}
	if !ready {
		return fmt.Errorf("weaviate not ready")
	}
	return nil
}

// ObjectID returns the stable Weaviate object ID for a meeting.
func ObjectID(meetingID string) string {
	return uuid.NewSHA1(objectNamespace, []byte(meetingID)).String()
}

// EnsureSchema creates the class when it does not exist yet.
func (s *WeaviateStore) EnsureSchema(ctx context.Context, logger *slog.Logger) error {
	if _, err := s.client.Schema().ClassGetter().WithClassName(s.class).Do(ctx); err == nil {
		logger.Debug("vector class exists", "class", s.class)
		return nil
	}

	err := s.client.Schema().ClassCreator().WithClass(meetingClass(s.class)).Do(ctx)
	if err != nil {
		return fmt.Errorf("create class %s: %w", s.class, err)
	}
	logger.Info("vector class created", "class", s.class)
	return nil
}

func meetingClass(name string) *models.Class {
	text := []string{"text"}
	return &models.Class{
		Class:       name,
		Description: "Meeting title, summary and transcript head",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{Name: propMeetingID, DataType: text},
			{Name: propUserID, DataType: text},
			{Name: propTitle, DataType: text},
			{Name: propContent, DataType: text},
		},
	}
}

// Upsert writes the document, replacing any previous vector for the meeting.
func (s *WeaviateStore) Upsert(ctx context.Context, doc Document) error {
	obj := &models.Object{
		Class:  s.class,
		ID:     strfmt.UUID(ObjectID(doc.MeetingID)),
		Vector: doc.Vector,
		Properties: map[string]any{
			propMeetingID: doc.MeetingID,
			propUserID:    doc.UserID,
			propTitle:     doc.Title,
			propContent:   doc.Content,
		},
	}

	res, err := s.client.Batch().ObjectsBatcher().WithObjects(obj).Do(ctx)
	if err != nil {
		return fmt.Errorf("batch upsert: %w", err)
	}
	for _, r := range res {
		if r.Result != nil && r.Result.Errors != nil && len(r.Result.Errors.Error) > 0 {
			return fmt.Errorf("batch upsert: %s", r.Result.Errors.Error[0].Message)
		}
	}
	return nil
}

// Query returns meeting IDs nearest to vector among the user's documents.
func (s *WeaviateStore) Query(ctx context.Context, userID string, vector []float32, limit int) ([]string, error) {
	where := filters.Where().
		WithPath([]string{propUserID}).
		WithOperator(filters.Equal).
		WithValueString(userID)

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(s.class).
		WithFields(graphql.Field{Name: propMeetingID}).
		WithWhere(where).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("near vector query: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("near vector query: %s", result.Errors[0].Message)
	}

	return parseMeetingIDs(result.Data, s.class), nil
}

// parseMeetingIDs extracts meeting IDs from a GraphQL Get response.
func parseMeetingIDs(data map[string]models.JSONObject, class string) []string {
	ids := []string{}

	get, ok := data["Get"].(map[string]any)
	if !ok {
		return ids
	}
	objects, ok := get[class].([]any)
	if !ok {
		return ids
	}

	for _, obj := range objects {
		m, ok := obj.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := m[propMeetingID].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
