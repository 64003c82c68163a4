package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/minutes/minutes/internal/handler/dto"
	"github.com/minutes/minutes/internal/mail"
	"github.com/minutes/minutes/internal/model"
	"github.com/minutes/minutes/internal/pdf"
)

// FactChecker runs a web search with credential failover.
type FactChecker interface {
	FactCheck(ctx context.Context, query string) (string, error)
}

// EntityExtractor finds named entities in text.
type EntityExtractor interface {
	Extract(text string) ([]model.Entity, error)
}

// Mailer sends outbound email and returns a status message.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

// ToolsConfig holds the dependencies of ToolsHandler.
type ToolsConfig struct {
	FactChecker   FactChecker
	Entities      EntityExtractor
	Mailer        Mailer
	Logger        *slog.Logger
	MaxUploadSize int64
}

// ToolsHandler handles the stateless auxiliary endpoints.
type ToolsHandler struct {
	cfg ToolsConfig
}

// NewToolsHandler creates a new ToolsHandler.
func NewToolsHandler(cfg ToolsConfig) *ToolsHandler {
	return &ToolsHandler{cfg: cfg}
}

// FactCheck handles POST /tools/fact-check.
func (h *ToolsHandler) FactCheck(w http.ResponseWriter, r *http.Request) {
	var req dto.FactCheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	text, err := h.cfg.FactChecker.FactCheck(r.Context(), req.Query)
	if err != nil {
		handleServiceError(w, r, h.cfg.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FactCheckResponse{Context: text})
}

// ParsePDF handles POST /tools/parse-pdf (multipart field "file").
func (h *ToolsHandler) ParsePDF(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := formFile(w, r, h.cfg.MaxUploadSize)
	if !ok {
		return
	}
	defer file.Close()

	text, err := pdf.ExtractText(file, h.cfg.MaxUploadSize)
	if err != nil {
		if errors.Is(err, pdf.ErrEmptyDocument) {
			writeError(w, http.StatusBadRequest, "EMPTY_FILE", "Uploaded file is empty")
			return
		}
		h.cfg.Logger.WarnContext(r.Context(), "pdf parse failed", "filename", filename, "error", err)
		writeError(w, http.StatusInternalServerError, "PDF_PARSE_FAILED", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ParsePDFResponse{Filename: filename, Content: text})
}

// ExtractEntities handles POST /nlp/extract-entities.
func (h *ToolsHandler) ExtractEntities(w http.ResponseWriter, r *http.Request) {
	var req dto.ExtractEntitiesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entities, err := h.cfg.Entities.Extract(req.Text)
	if err != nil {
		h.cfg.Logger.WarnContext(r.Context(), "entity extraction failed", "error", err)
		entities = nil
	}
	if entities == nil {
		entities = []model.Entity{}
	}

	writeJSON(w, http.StatusOK, dto.ExtractEntitiesResponse{Entities: entities})
}

// SendEmail handles POST /tools/send-email.
func (h *ToolsHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.SendEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	status, err := h.cfg.Mailer.Send(r.Context(), mail.Message{
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
	})
	if err != nil {
		if errors.Is(err, mail.ErrInvalidMessage) {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		h.cfg.Logger.ErrorContext(r.Context(), "email send failed", "error", err)
		writeError(w, http.StatusInternalServerError, "EMAIL_FAILED", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: status})
}

// formFile returns the multipart "file" field. On failure it writes the
// error response and returns ok=false.
func formFile(w http.ResponseWriter, r *http.Request, maxSize int64) (io.ReadCloser, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Uploaded file too large")
			return nil, "", false
		}
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "Multipart field \"file\" is required")
		return nil, "", false
	}
	return file, header.Filename, true
}
