package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/minutes/minutes/internal/handler/dto"
	"github.com/minutes/minutes/internal/media"
)

// MediaStore persists uploaded files and returns their public URL.
type MediaStore interface {
	Save(filename string, r io.Reader) (string, error)
}

// MediaHandler handles media uploads.
type MediaHandler struct {
	store   MediaStore
	maxSize int64
	logger  *slog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(store MediaStore, maxSize int64, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{store: store, maxSize: maxSize, logger: logger}
}

// Upload handles POST /upload-media (multipart field "file").
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := formFile(w, r, h.maxSize)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.store.Save(filename, file)
	if err != nil {
		if errors.Is(err, media.ErrInvalidFilename) {
			writeError(w, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
			return
		}
		h.logger.ErrorContext(r.Context(), "media upload failed", "filename", filename, "error", err)
		writeError(w, http.StatusInternalServerError, "UPLOAD_FAILED", "Could not store upload")
		return
	}

	h.logger.InfoContext(r.Context(), "media uploaded", "url", url)
	writeJSON(w, http.StatusOK, dto.UploadMediaResponse{URL: url})
}
