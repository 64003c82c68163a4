package model

import "time"

// MeetingStatus is the processing state of a meeting.
type MeetingStatus string

const (
	MeetingStatusProcessing MeetingStatus = "Processing"
	MeetingStatusCompleted  MeetingStatus = "Completed"
	MeetingStatusFailed     MeetingStatus = "Failed"
)

// IsValid checks if the status is one of the known values.
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusProcessing, MeetingStatusCompleted, MeetingStatusFailed:
		return true
	}
	return false
}

// Sentiment is the overall tone detected for a meeting.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// IsValid checks if the sentiment is empty or one of the known values.
func (s Sentiment) IsValid() bool {
	switch s {
	case "", SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// ActionItem is a follow-up extracted from a meeting.
type ActionItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Speaker is a participant's share of talk time.
type Speaker struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Meeting represents a recorded meeting and its analysis.
type Meeting struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	Title          string        `json:"title"`
	Date           string        `json:"date"`
	Duration       string        `json:"duration"`
	Status         MeetingStatus `json:"status"`
	AudioURL       string        `json:"audio_url,omitempty"`
	Summary        string        `json:"summary,omitempty"`
	Transcript     string        `json:"transcript,omitempty"`
	Sentiment      Sentiment     `json:"sentiment,omitempty"`
	SentimentScore int           `json:"sentimentScore"`
	Keywords       []string      `json:"keywords"`
	ActionItems    []ActionItem  `json:"actionItems"`
	Speakers       []Speaker     `json:"speakers"`
	CreatedAt      time.Time     `json:"created_at"`
}

// maxIndexedTranscript bounds how much transcript goes into the embedding text.
const maxIndexedTranscript = 2000

// IndexText returns the document embedded for semantic search:
// title, summary and the head of the transcript, newline separated.
func (m *Meeting) IndexText() string {
	return m.Title + "\n" + m.Summary + "\n" + truncateRunes(m.Transcript, maxIndexedTranscript)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
