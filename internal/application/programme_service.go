package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/migrate"
	"github.com/example/running-order/internal/persistence"
)

// DocumentStore captures the persistence operations needed by the service.
type DocumentStore interface {
	GetDocument(ctx context.Context, key string) ([]byte, error)
	PutDocument(ctx context.Context, key string, raw []byte) error
	DeleteDocument(ctx context.Context, key string) error
	ListDocuments(ctx context.Context) ([]persistence.DocumentInfo, error)
}

// ProgrammeService loads, migrates, renders and edits stored running-order
// documents. Every document leaving the service is canonical.
type ProgrammeService struct {
	store       DocumentStore
	migrator    *migrate.Migrator
	idGenerator func() string
	logger      *slog.Logger
	cache       *documentCache

	// serializes read-modify-write cycles
	mu sync.Mutex
}

// NewProgrammeService constructs a programme service with the provided dependencies.
func NewProgrammeService(store DocumentStore, migrator *migrate.Migrator, idGenerator func() string, now func() time.Time) *ProgrammeService {
	return NewProgrammeServiceWithLogger(store, migrator, idGenerator, now, nil)
}

// NewProgrammeServiceWithLogger constructs a programme service with a specified logger.
// A nil migrator uses the bundled reference data and a nil idGenerator
// produces random UUIDs.
func NewProgrammeServiceWithLogger(store DocumentStore, migrator *migrate.Migrator, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ProgrammeService {
	if migrator == nil {
		migrator = migrate.New(nil)
	}
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &ProgrammeService{
		store:       store,
		migrator:    migrator,
		idGenerator: idGenerator,
		logger:      defaultLogger(logger),
		cache:       newDocumentCache(30*time.Second, 64, now),
	}
}

func (s *ProgrammeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ProgrammeService", operation, attrs...)
}

func (s *ProgrammeService) ready() error {
	if s == nil {
		return fmt.Errorf("ProgrammeService is nil")
	}
	if s.store == nil {
		return fmt.Errorf("document store not configured")
	}
	return nil
}

// Import migrates a raw payload of any supported version and stores its
// canonical form under key.
func (s *ProgrammeService) Import(ctx context.Context, key string, raw []byte) (result ImportResult, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "Import", "key", key, "bytes", len(raw))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to import document", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "document imported",
			"from_version", result.Migration.FromVersion,
			"to_version", result.Migration.ToVersion,
			"items", len(result.Document.RunningOrder),
		)
	}()

	if vErr := validateKey(key); vErr.HasErrors() {
		err = vErr
		return
	}

	doc, report, err := s.migrator.MigrateJSON(raw)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.put(ctx, key, doc); err != nil {
		return
	}
	result = ImportResult{Key: key, Document: doc, Migration: report}
	return
}

// Convert migrates a raw payload to the canonical shape without storing it.
func (s *ProgrammeService) Convert(ctx context.Context, raw []byte) (ImportResult, error) {
	if s == nil {
		return ImportResult{}, fmt.Errorf("ProgrammeService is nil")
	}
	doc, report, err := s.migrator.MigrateJSON(raw)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		s.loggerWith(ctx, "Convert").ErrorContext(ctx, "failed to convert document", "error", err, "error_kind", ErrorKind(err))
		return ImportResult{}, err
	}
	return ImportResult{Document: doc, Migration: report}, nil
}

// Load returns the canonical document stored under key. Documents stored in
// an older version are upgraded and written back so the upgrade runs once.
func (s *ProgrammeService) Load(ctx context.Context, key string) (document.Document, error) {
	if err := s.ready(); err != nil {
		return document.Document{}, err
	}
	if doc, ok := s.cache.Get(key); ok {
		return doc, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, key)
}

// load must be called with s.mu held.
func (s *ProgrammeService) load(ctx context.Context, key string) (document.Document, error) {
	if doc, ok := s.cache.Get(key); ok {
		return doc, nil
	}

	logger := s.loggerWith(ctx, "Load", "key", key)

	raw, err := s.store.GetDocument(ctx, key)
	if err != nil {
		err = mapRepoError(err)
		if !errors.Is(err, ErrNotFound) {
			logger.ErrorContext(ctx, "failed to read document", "error", err, "error_kind", ErrorKind(err))
		}
		return document.Document{}, err
	}

	doc, report, err := s.migrator.MigrateJSON(raw)
	if err != nil {
		err = fmt.Errorf("%w: stored document %s: %v", ErrInvalidDocument, key, err)
		logger.ErrorContext(ctx, "stored document is not valid JSON", "error", err, "error_kind", ErrorKind(err))
		return document.Document{}, err
	}

	if len(report.Applied) > 0 {
		if err := s.put(ctx, key, doc); err != nil {
			logger.ErrorContext(ctx, "failed to persist upgraded document", "error", err, "error_kind", ErrorKind(err))
			return document.Document{}, err
		}
		logger.InfoContext(ctx, "document upgraded",
			"from_version", report.FromVersion,
			"to_version", report.ToVersion,
			"steps", report.Applied,
		)
		return doc, nil
	}

	s.cache.Store(key, doc)
	return doc, nil
}

// Save canonicalizes doc and stores it under key.
func (s *ProgrammeService) Save(ctx context.Context, key string, doc document.Document) (saved document.Document, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "Save", "key", key)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to save document", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "document saved", "items", len(saved.RunningOrder))
	}()

	if vErr := validateKey(key); vErr.HasErrors() {
		err = vErr
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved = s.migrator.Canonical(doc)
	err = s.put(ctx, key, saved)
	return
}

// Delete removes the document stored under key.
func (s *ProgrammeService) Delete(ctx context.Context, key string) error {
	if err := s.ready(); err != nil {
		return err
	}

	logger := s.loggerWith(ctx, "Delete", "key", key)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Invalidate(key)
	if err := s.store.DeleteDocument(ctx, key); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete document", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "document deleted")
	return nil
}

// List returns the stored documents ordered by key.
func (s *ProgrammeService) List(ctx context.Context) ([]DocumentSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	infos, err := s.store.ListDocuments(ctx)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "List").ErrorContext(ctx, "failed to list documents", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	summaries := make([]DocumentSummary, 0, len(infos))
	for _, info := range infos {
		summaries = append(summaries, DocumentSummary{Key: info.Key, Size: info.Size, UpdatedAt: info.UpdatedAt})
	}
	return summaries, nil
}

// RunningOrder renders the grouped, token-resolved running order for key.
func (s *ProgrammeService) RunningOrder(ctx context.Context, key string) (RunningOrderView, error) {
	doc, err := s.Load(ctx, key)
	if err != nil {
		return RunningOrderView{}, err
	}
	view := RenderRunningOrder(doc)
	view.Key = key
	return view, nil
}

// FanZone renders the ordered fan-zone schedule for key.
func (s *ProgrammeService) FanZone(ctx context.Context, key string) (FanZoneView, error) {
	doc, err := s.Load(ctx, key)
	if err != nil {
		return FanZoneView{}, err
	}
	view := RenderFanZone(doc)
	view.Key = key
	return view, nil
}

// Validate reports data-quality issues for key.
func (s *ProgrammeService) Validate(ctx context.Context, key string) (ValidationReport, error) {
	doc, err := s.Load(ctx, key)
	if err != nil {
		return ValidationReport{}, err
	}
	report := Validate(doc)
	report.Key = key
	if !report.Valid {
		s.loggerWith(ctx, "Validate", "key", key).InfoContext(ctx, "document has issues", "issues", len(report.Issues))
	}
	return report, nil
}

// CreateItem appends a new item with a fresh id to the running order of key.
func (s *ProgrammeService) CreateItem(ctx context.Context, key string, input ItemInput) (item document.Item, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "CreateItem", "key", key)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create item", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("item_id", item.ID).InfoContext(ctx, "item created")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc document.Document
	doc, err = s.load(ctx, key)
	if err != nil {
		return
	}

	if vErr := validateItemInput(doc, input); vErr.HasErrors() {
		err = vErr
		return
	}

	item = document.NewItem(s.idGenerator(), strings.TrimSpace(input.Category))
	item.Time = strings.TrimSpace(input.Time)
	item.Title = input.Title
	item.Script1 = input.Script1
	item.Script2 = input.Script2
	item.Material = document.ParseMaterial(input.Material)
	item.Loop = input.Loop
	item.Screen = input.Screen
	item.Lighting = input.Lighting
	item.Responsible = input.Responsible
	item.Notes = input.Notes
	item.Duration = input.Duration
	if input.Active != nil {
		item.Active = *input.Active
	}
	item.SetAudioSources(input.AudioSources)

	doc.RunningOrder = append(doc.RunningOrder, item)
	err = s.put(ctx, key, doc)
	return
}

// SetAudioSources replaces the audio sources of one item, re-deriving its
// legacy audio option.
func (s *ProgrammeService) SetAudioSources(ctx context.Context, key, itemID string, sources []string) (item document.Item, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "SetAudioSources", "key", key, "item_id", itemID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set audio sources", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "audio sources updated", "audio_option", item.AudioOption)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc document.Document
	doc, err = s.load(ctx, key)
	if err != nil {
		return
	}

	idx := doc.ItemIndex(itemID)
	if idx < 0 {
		err = ErrNotFound
		return
	}
	doc.RunningOrder[idx].SetAudioSources(sources)
	item = doc.RunningOrder[idx]

	err = s.put(ctx, key, doc)
	return
}

// DeleteItem removes one item from the running order of key.
func (s *ProgrammeService) DeleteItem(ctx context.Context, key, itemID string) error {
	if err := s.ready(); err != nil {
		return err
	}

	logger := s.loggerWith(ctx, "DeleteItem", "key", key, "item_id", itemID)

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx, key)
	if err == nil {
		idx := doc.ItemIndex(itemID)
		if idx < 0 {
			err = ErrNotFound
		} else {
			doc.RunningOrder = append(doc.RunningOrder[:idx], doc.RunningOrder[idx+1:]...)
			err = s.put(ctx, key, doc)
		}
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete item", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "item deleted")
	return nil
}

// AddCategory appends a category to the document stored under key. A blank
// id is generated.
func (s *ProgrammeService) AddCategory(ctx context.Context, key string, input CategoryInput) (category document.Category, err error) {
	if err = s.ready(); err != nil {
		return
	}

	logger := s.loggerWith(ctx, "AddCategory", "key", key)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add category", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("category_id", category.ID).InfoContext(ctx, "category added")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc document.Document
	doc, err = s.load(ctx, key)
	if err != nil {
		return
	}

	category = document.Category{ID: strings.TrimSpace(input.ID), Name: strings.TrimSpace(input.Name)}
	if category.ID == "" {
		category.ID = s.idGenerator()
	}

	vErr := &ValidationError{}
	if category.Name == "" {
		vErr.add("name", "name is required")
	}
	if _, exists := doc.CategoryByID(category.ID); exists {
		vErr.add("id", fmt.Sprintf("category %q already exists", category.ID))
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	doc.Categories = append(doc.Categories, category)
	err = s.put(ctx, key, doc)
	return
}

// put must be called with s.mu held.
func (s *ProgrammeService) put(ctx context.Context, key string, doc document.Document) error {
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document %s: %w", key, err)
	}

	s.cache.Invalidate(key)
	if err := s.store.PutDocument(ctx, key, encoded); err != nil {
		return mapRepoError(err)
	}
	s.cache.Store(key, doc)
	return nil
}

func validateKey(key string) *ValidationError {
	vErr := &ValidationError{}
	if err := persistence.ValidateKey(key); err != nil {
		vErr.add("key", "key must be 1-128 letters, digits, '.', '_' or '-' starting with a letter or digit")
	}
	return vErr
}

func validateItemInput(doc document.Document, input ItemInput) *ValidationError {
	vErr := &ValidationError{}
	category := strings.TrimSpace(input.Category)
	switch {
	case category == "":
		vErr.add("category", "category is required")
	default:
		if _, ok := doc.CategoryByID(category); !ok {
			vErr.add("category", fmt.Sprintf("category %q does not exist", category))
		}
	}
	return vErr
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrInvalidKey) {
		return validateKey("")
	}
	return err
}
