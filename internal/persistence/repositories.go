package persistence

import "context"

// DocumentRepository stores raw running-order documents by key.
//
// Payloads are opaque JSON; callers own canonicalization. Implementations
// return ErrNotFound for missing keys and ErrInvalidKey for keys rejected by
// ValidateKey.
type DocumentRepository interface {
	GetDocument(ctx context.Context, key string) ([]byte, error)
	PutDocument(ctx context.Context, key string, raw []byte) error
	DeleteDocument(ctx context.Context, key string) error
	// ListDocuments returns stored documents ordered by key.
	ListDocuments(ctx context.Context) ([]DocumentInfo, error)
}
