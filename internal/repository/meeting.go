package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/minutes/minutes/internal/model"
)

// ErrMeetingNotFound is returned when a meeting does not exist for the owner.
var ErrMeetingNotFound = errors.New("meeting not found")

const meetingColumns = `
	id, user_id, title, date, duration, status, audio_url, summary, transcript,
	sentiment, sentiment_score, keywords_json, action_items_json, speakers_json, created_at
`

// CreateMeeting inserts a new meeting. List fields are stored as JSON text.
func (r *Repository) CreateMeeting(ctx context.Context, m *model.Meeting) error {
	keywords, actionItems, speakers, err := encodeMeetingLists(m)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.pool.Exec(ctx, query,
		m.ID,
		m.UserID,
		m.Title,
		m.Date,
		m.Duration,
		string(m.Status),
		nullIfEmpty(m.AudioURL),
		nullIfEmpty(m.Summary),
		nullIfEmpty(m.Transcript),
		nullIfEmpty(string(m.Sentiment)),
		m.SentimentScore,
		keywords,
		actionItems,
		speakers,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	return nil
}

// GetMeeting retrieves one meeting owned by userID.
func (r *Repository) GetMeeting(ctx context.Context, userID, id string) (*model.Meeting, error) {
	query := `SELECT ` + meetingColumns + ` FROM meetings WHERE id = $1 AND user_id = $2`

	m, err := scanMeeting(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return m, nil
}

// ListMeetingsByUser returns the user's meetings, newest first.
func (r *Repository) ListMeetingsByUser(ctx context.Context, userID string) ([]*model.Meeting, error) {
	query := `
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	defer rows.Close()

	meetings := make([]*model.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meeting: %w", err)
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meetings: %w", err)
	}

	return meetings, nil
}

func scanMeeting(row pgx.Row) (*model.Meeting, error) {
	var (
		m                                           model.Meeting
		status                                      string
		audioURL, summary, transcript, sentiment    *string
		keywordsJSON, actionItemsJSON, speakersJSON string
	)

	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Title,
		&m.Date,
		&m.Duration,
		&status,
		&audioURL,
		&summary,
		&transcript,
		&sentiment,
		&m.SentimentScore,
		&keywordsJSON,
		&actionItemsJSON,
		&speakersJSON,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Status = model.MeetingStatus(status)
	m.AudioURL = deref(audioURL)
	m.Summary = deref(summary)
	m.Transcript = deref(transcript)
	m.Sentiment = model.Sentiment(deref(sentiment))

	if err := decodeMeetingLists(&m, keywordsJSON, actionItemsJSON, speakersJSON); err != nil {
		return nil, err
	}
	return &m, nil
}

// encodeMeetingLists serializes list fields; nil lists become "[]".
func encodeMeetingLists(m *model.Meeting) (keywords, actionItems, speakers string, err error) {
	encode := func(v any, empty bool) (string, error) {
		if empty {
			return "[]", nil
		}
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	if keywords, err = encode(m.Keywords, len(m.Keywords) == 0); err != nil {
		return "", "", "", fmt.Errorf("encode keywords: %w", err)
	}
	if actionItems, err = encode(m.ActionItems, len(m.ActionItems) == 0); err != nil {
		return "", "", "", fmt.Errorf("encode action items: %w", err)
	}
	if speakers, err = encode(m.Speakers, len(m.Speakers) == 0); err != nil {
		return "", "", "", fmt.Errorf("encode speakers: %w", err)
	}
	return keywords, actionItems, speakers, nil
}

// decodeMeetingLists fills list fields; blank columns decode to empty lists.
func decodeMeetingLists(m *model.Meeting, keywords, actionItems, speakers string) error {
	m.Keywords = []string{}
	m.ActionItems = []model.ActionItem{}
	m.Speakers = []model.Speaker{}

	if keywords != "" {
		if err := json.Unmarshal([]byte(keywords), &m.Keywords); err != nil {
			return fmt.Errorf("decode keywords: %w", err)
		}
	}
	if actionItems != "" {
		if err := json.Unmarshal([]byte(actionItems), &m.ActionItems); err != nil {
			return fmt.Errorf("decode action items: %w", err)
		}
	}
	if speakers != "" {
		if err := json.Unmarshal([]byte(speakers), &m.Speakers); err != nil {
			return fmt.Errorf("decode speakers: %w", err)
		}
	}
	return nil
}
