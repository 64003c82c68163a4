package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/minutes/minutes/internal/handler/dto"
	"github.com/minutes/minutes/internal/tools"
)

// Dispatcher runs agent tools by name.
type Dispatcher interface {
	Dispatch(ctx context.Context, name string, args map[string]any) string
	Definitions() []tools.Definition
}

// MCPHandler exposes the tool dispatcher to an external agent.
type MCPHandler struct {
	dispatcher Dispatcher
}

// NewMCPHandler creates a new MCPHandler.
func NewMCPHandler(dispatcher Dispatcher) *MCPHandler {
	return &MCPHandler{dispatcher: dispatcher}
}

// Process handles POST /mcp/process. Tool failures and unknown tools are
// reported in the result text with status 200.
func (h *MCPHandler) Process(w http.ResponseWriter, r *http.Request) {
	var req dto.ToolCallRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	args, err := toolArgs(req.Args)
	if err != nil {
		writeJSON(w, http.StatusOK, dto.ToolCallResponse{Tool: req.Tool, Result: tools.InvalidArgsText})
		return
	}

	result := h.dispatcher.Dispatch(r.Context(), req.Tool, args)
	writeJSON(w, http.StatusOK, dto.ToolCallResponse{Tool: req.Tool, Result: result})
}

// toolArgs decodes the raw args field. Absent or null args yield an empty map.
func toolArgs(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Tools handles GET /mcp/tools.
func (h *MCPHandler) Tools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToolListResponse{Tools: h.dispatcher.Definitions()})
}
