package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/running-order/internal/timecode"
	"github.com/example/running-order/internal/tokens"
)

const (
	dialectMatchday = "matchday"
	dialectFanZone  = "fanzone"
)

// ToolHandler exposes the stateless token and time-code engines.
type ToolHandler struct {
	responder responder
	logger    *slog.Logger
}

func NewToolHandler(logger *slog.Logger) *ToolHandler {
	base := defaultLogger(logger)
	return &ToolHandler{responder: newResponder(base), logger: base}
}

func (h *ToolHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ToolHandler", operation, attrs...)
}

// ApplyTokens substitutes the tokens in text with values from the supplied context.
func (h *ToolHandler) ApplyTokens(w http.ResponseWriter, r *http.Request) {
	var req applyTokensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status, msg := decodeError(err)
		h.log(r.Context(), "ApplyTokens", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode token request", "error", err)
		h.responder.writeError(r.Context(), w, status, msg)
		return
	}

	unresolved := tokens.Unresolved(req.Text, req.Context)
	if unresolved == nil {
		unresolved = []string{}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, applyTokensResponse{
		Text:       tokens.Apply(req.Text, req.Context),
		Unresolved: unresolved,
	})
}

// ParseTimeCode reports how a time expression sorts in the requested dialect.
func (h *ToolHandler) ParseTimeCode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	value := query.Get("value")
	dialect := strings.ToLower(strings.TrimSpace(query.Get("dialect")))
	if dialect == "" {
		dialect = dialectMatchday
	}

	var code timecode.Code
	switch dialect {
	case dialectMatchday:
		code = timecode.Parse(value)
	case dialectFanZone:
		code = timecode.ParseFanZone(value)
	default:
		h.log(r.Context(), "ParseTimeCode", "dialect", dialect, "error_kind", "bad_request").ErrorContext(r.Context(), "unknown time code dialect")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errUnknownDialect)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, timeCodeResponse{
		Value:      value,
		Dialect:    dialect,
		Recognized: code.Recognized(),
		Band:       code.Band().String(),
		Key:        code.Key(),
	})
}

type applyTokensRequest struct {
	Text    string         `json:"text"`
	Context tokens.Context `json:"context"`
}

type applyTokensResponse struct {
	Text       string   `json:"text"`
	Unresolved []string `json:"unresolved"`
}

type timeCodeResponse struct {
	Value      string `json:"value"`
	Dialect    string `json:"dialect"`
	Recognized bool   `json:"recognized"`
	Band       string `json:"band"`
	Key        int    `json:"key"`
}
