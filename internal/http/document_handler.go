package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/running-order/internal/application"
	"github.com/example/running-order/internal/document"
)

type documentService interface {
	Convert(ctx context.Context, raw []byte) (application.ImportResult, error)
	Import(ctx context.Context, key string, raw []byte) (application.ImportResult, error)
	Load(ctx context.Context, key string) (document.Document, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]application.DocumentSummary, error)
	RunningOrder(ctx context.Context, key string) (application.RunningOrderView, error)
	FanZone(ctx context.Context, key string) (application.FanZoneView, error)
	Validate(ctx context.Context, key string) (application.ValidationReport, error)
	CreateItem(ctx context.Context, key string, input application.ItemInput) (document.Item, error)
	SetAudioSources(ctx context.Context, key, itemID string, sources []string) (document.Item, error)
	DeleteItem(ctx context.Context, key, itemID string) error
	AddCategory(ctx context.Context, key string, input application.CategoryInput) (document.Category, error)
}

// DocumentHandler serves stored running-order documents and their views.
type DocumentHandler struct {
	service   documentService
	responder responder
	logger    *slog.Logger
}

func NewDocumentHandler(service documentService, logger *slog.Logger) *DocumentHandler {
	base := defaultLogger(logger)
	return &DocumentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *DocumentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "DocumentHandler", operation, attrs...)
}

func (h *DocumentHandler) ready(w http.ResponseWriter) bool {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}
	return true
}

// Migrate converts the request body to the canonical shape without storing it.
func (h *DocumentHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		status, msg := decodeError(err)
		h.log(r.Context(), "Migrate", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to read migrate request", "error", err)
		h.responder.writeError(r.Context(), w, status, msg)
		return
	}

	result, err := h.service.Convert(r.Context(), raw)
	if err != nil {
		h.log(r.Context(), "Migrate").ErrorContext(r.Context(), "document migration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, migrationResponse{Document: result.Document, Migration: toMigrationDTO(result)})
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.ready(w) {
		return
	}

	summaries, err := h.service.List(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "document listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, documentListResponse{Documents: summaries})
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "Get")
	if !ok {
		return
	}

	doc, err := h.service.Load(r.Context(), key)
	if err != nil {
		h.serviceError(w, r, "Get", "document load failed", err, "key", key)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, documentResponse{Key: key, Document: doc})
}

// Put accepts a document of any supported version and stores its canonical form.
func (h *DocumentHandler) Put(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "Put")
	if !ok {
		return
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		status, msg := decodeError(err)
		h.log(r.Context(), "Put", "key", key, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to read document body", "error", err)
		h.responder.writeError(r.Context(), w, status, msg)
		return
	}

	result, err := h.service.Import(r.Context(), key, raw)
	if err != nil {
		h.serviceError(w, r, "Put", "document import failed", err, "key", key)
		return
	}

	h.log(r.Context(), "Put", "key", key).InfoContext(r.Context(), "document stored", "from_version", result.Migration.FromVersion)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, migrationResponse{Key: key, Document: result.Document, Migration: toMigrationDTO(result)})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "Delete")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), key); err != nil {
		h.serviceError(w, r, "Delete", "document deletion failed", err, "key", key)
		return
	}

	h.log(r.Context(), "Delete", "key", key).InfoContext(r.Context(), "document deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *DocumentHandler) RunningOrder(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "RunningOrder")
	if !ok {
		return
	}

	view, err := h.service.RunningOrder(r.Context(), key)
	if err != nil {
		h.serviceError(w, r, "RunningOrder", "running order render failed", err, "key", key)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, view)
}

func (h *DocumentHandler) FanZone(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "FanZone")
	if !ok {
		return
	}

	view, err := h.service.FanZone(r.Context(), key)
	if err != nil {
		h.serviceError(w, r, "FanZone", "fan zone render failed", err, "key", key)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, view)
}

func (h *DocumentHandler) Validation(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "Validation")
	if !ok {
		return
	}

	report, err := h.service.Validate(r.Context(), key)
	if err != nil {
		h.serviceError(w, r, "Validation", "document validation failed", err, "key", key)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, report)
}

func (h *DocumentHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "CreateItem")
	if !ok {
		return
	}

	var input application.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		status, msg := decodeError(err)
		h.log(r.Context(), "CreateItem", "key", key, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode item request", "error", err)
		h.responder.writeError(r.Context(), w, status, msg)
		return
	}

	item, err := h.service.CreateItem(r.Context(), key, input)
	if err != nil {
		h.serviceError(w, r, "CreateItem", "item creation failed", err, "key", key)
		return
	}

	h.log(r.Context(), "CreateItem", "key", key, "item_id", item.ID).InfoContext(r.Context(), "item created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, itemResponse{Item: item})
}

func (h *DocumentHandler) SetAudioSources(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "SetAudioSources")
	if !ok {
		return
	}
	itemID, ok := h.itemID(w, r, "SetAudioSources")
	if !ok {
		return
	}

	var req audioSourcesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status, msg := decodeError(err)
		h.log(r.Context(), "SetAudioSources", "key", key, "item_id", itemID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode audio sources", "error", err)
		h.responder.writeError(r.Context(), w, status, msg)
		return
	}

	item, err := h.service.SetAudioSources(r.Context(), key, itemID, req.AudioSources)
	if err != nil {
		h.serviceError(w, r, "SetAudioSources", "audio source update failed", err, "key", key, "item_id", itemID)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, itemResponse{Item: item})
}

func (h *DocumentHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "DeleteItem")
	if !ok {
		return
	}
	itemID, ok := h.itemID(w, r, "DeleteItem")
	if !ok {
		return
	}

	if err := h.service.DeleteItem(r.Context(), key, itemID); err != nil {
		h.serviceError(w, r, "DeleteItem", "item deletion failed", err, "key", key, "item_id", itemID)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *DocumentHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r, "AddCategory")
	if !ok {
		return
	}

	var input application.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		status, msg := decodeError(err)
		h.log(r.Context(), "AddCategory", "key", key, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode category request", "error", err)
		h.responder.writeError(r.Context(), w, status, msg)
		return
	}

	category, err := h.service.AddCategory(r.Context(), key, input)
	if err != nil {
		h.serviceError(w, r, "AddCategory", "category creation failed", err, "key", key)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, categoryResponse{Category: category})
}

func (h *DocumentHandler) key(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	if !h.ready(w) {
		return "", false
	}
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing document key")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingKey)
		return "", false
	}
	return key, true
}

func (h *DocumentHandler) itemID(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	itemID := strings.TrimSpace(chi.URLParam(r, "itemID"))
	if itemID == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing item id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingItemID)
		return "", false
	}
	return itemID, true
}

func (h *DocumentHandler) serviceError(w http.ResponseWriter, r *http.Request, operation, message string, err error, attrs ...any) {
	h.log(r.Context(), operation, attrs...).ErrorContext(r.Context(), message, "error", err, "error_kind", application.ErrorKind(err))
	h.responder.handleServiceError(r.Context(), w, err)
}

type audioSourcesRequest struct {
	AudioSources []string `json:"audioSources"`
}

type documentResponse struct {
	Key      string            `json:"key"`
	Document document.Document `json:"document"`
}

type documentListResponse struct {
	Documents []application.DocumentSummary `json:"documents"`
}

type migrationDTO struct {
	FromVersion int      `json:"fromVersion"`
	ToVersion   int      `json:"toVersion"`
	Applied     []string `json:"applied"`
}

type migrationResponse struct {
	Key       string            `json:"key,omitempty"`
	Document  document.Document `json:"document"`
	Migration migrationDTO      `json:"migration"`
}

type itemResponse struct {
	Item document.Item `json:"item"`
}

type categoryResponse struct {
	Category document.Category `json:"category"`
}

func toMigrationDTO(result application.ImportResult) migrationDTO {
	applied := result.Migration.Applied
	if applied == nil {
		applied = []string{}
	}
	return migrationDTO{
		FromVersion: result.Migration.FromVersion,
		ToVersion:   result.Migration.ToVersion,
		Applied:     applied,
	}
}
