package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/minutes/minutes/internal/auth"
	"github.com/minutes/minutes/internal/handler/dto"
	"github.com/minutes/minutes/internal/model"
	"github.com/minutes/minutes/internal/service"
)

// MeetingService is the meeting logic the meeting handler depends on.
type MeetingService interface {
	List(ctx context.Context, userID string) ([]*model.Meeting, error)
	Create(ctx context.Context, userID string, input service.CreateMeetingInput) (*model.Meeting, error)
	SemanticSearch(ctx context.Context, userID, query string) []string
	RegenerateEmbeddings(ctx context.Context, userID string) (int, error)
}

// MeetingHandler handles meeting endpoints. All routes require auth.
type MeetingHandler struct {
	svc    MeetingService
	logger *slog.Logger
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(svc MeetingService, logger *slog.Logger) *MeetingHandler {
	return &MeetingHandler{svc: svc, logger: logger}
}

// List handles GET /meetings.
func (h *MeetingHandler) List(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.svc.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	if meetings == nil {
		meetings = []*model.Meeting{}
	}

	writeJSON(w, http.StatusOK, meetings)
}

// Create handles POST /meetings.
func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMeetingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := h.svc.Create(r.Context(), auth.UserIDFromContext(r.Context()), service.CreateMeetingInput{
		Title:          req.Title,
		Date:           req.Date,
		Duration:       req.Duration,
		Status:         req.Status,
		AudioURL:       req.AudioURL,
		Summary:        req.Summary,
		Transcript:     req.Transcript,
		Sentiment:      req.Sentiment,
		SentimentScore: req.SentimentScore,
		Keywords:       req.Keywords,
		ActionItems:    req.ActionItems,
		Speakers:       req.Speakers,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// SemanticSearch handles POST /tools/semantic-search.
func (h *MeetingHandler) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req dto.SemanticSearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ids := h.svc.SemanticSearch(r.Context(), auth.UserIDFromContext(r.Context()), req.Query)
	writeJSON(w, http.StatusOK, dto.SemanticSearchResponse{MatchedIDs: ids})
}

// RegenerateEmbeddings handles POST /debug/regenerate-embeddings.
func (h *MeetingHandler) RegenerateEmbeddings(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.RegenerateEmbeddings(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Successfully indexed %d meetings.", n)})
}
