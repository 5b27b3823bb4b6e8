package persistence_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/running-order/internal/persistence"
	"github.com/example/running-order/internal/testfixtures"
)

func TestDocumentRepositoryConformance(t *testing.T) {
	t.Parallel()

	for name, repo := range testfixtures.DocumentStores(t) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			t.Run("stores, replaces and deletes documents", func(t *testing.T) {
				doc := testfixtures.NewDocumentFixture()
				if err := repo.PutDocument(ctx, "crud", doc.JSON()); err != nil {
					t.Fatalf("PutDocument returned error: %v", err)
				}

				got, err := repo.GetDocument(ctx, "crud")
				if err != nil {
					t.Fatalf("GetDocument returned error: %v", err)
				}
				if string(got) != string(doc.JSON()) {
					t.Fatalf("stored payload differs from written payload")
				}

				if err := repo.PutDocument(ctx, "crud", []byte(`{"dataVersion":2}`)); err != nil {
					t.Fatalf("PutDocument replace returned error: %v", err)
				}
				got, err = repo.GetDocument(ctx, "crud")
				if err != nil || string(got) != `{"dataVersion":2}` {
					t.Fatalf("expected replaced payload, got %q (err %v)", got, err)
				}

				if err := repo.DeleteDocument(ctx, "crud"); err != nil {
					t.Fatalf("DeleteDocument returned error: %v", err)
				}
				if _, err := repo.GetDocument(ctx, "crud"); !errors.Is(err, persistence.ErrNotFound) {
					t.Fatalf("expected ErrNotFound after delete, got %v", err)
				}
				if err := repo.DeleteDocument(ctx, "crud"); !errors.Is(err, persistence.ErrNotFound) {
					t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
				}
			})

			t.Run("lists documents ordered by key", func(t *testing.T) {
				for _, key := range []string{"list-c", "list-a", "list-b"} {
					if err := repo.PutDocument(ctx, key, []byte(`{}`)); err != nil {
						t.Fatalf("PutDocument(%s) returned error: %v", key, err)
					}
				}

				infos, err := repo.ListDocuments(ctx)
				if err != nil {
					t.Fatalf("ListDocuments returned error: %v", err)
				}
				var keys []string
				for _, info := range infos {
					keys = append(keys, info.Key)
					if info.Size != 2 {
						t.Fatalf("expected size 2 for %s, got %d", info.Key, info.Size)
					}
					if info.UpdatedAt.IsZero() {
						t.Fatalf("expected update time for %s", info.Key)
					}
				}
				want := []string{"list-a", "list-b", "list-c"}
				if len(keys) != len(want) {
					t.Fatalf("expected keys %v, got %v", want, keys)
				}
				for i := range want {
					if keys[i] != want[i] {
						t.Fatalf("expected keys %v, got %v", want, keys)
					}
				}
			})

			t.Run("rejects invalid keys", func(t *testing.T) {
				for _, key := range []string{"", "../escape", ".hidden", "with space"} {
					if err := repo.PutDocument(ctx, key, []byte(`{}`)); !errors.Is(err, persistence.ErrInvalidKey) {
						t.Fatalf("PutDocument(%q): expected ErrInvalidKey, got %v", key, err)
					}
					if _, err := repo.GetDocument(ctx, key); !errors.Is(err, persistence.ErrInvalidKey) {
						t.Fatalf("GetDocument(%q): expected ErrInvalidKey, got %v", key, err)
					}
				}
			})

			t.Run("serializes concurrent writers", func(t *testing.T) {
				var wg sync.WaitGroup
				for range 8 {
					wg.Add(1)
					go func() {
						defer wg.Done()
						if err := repo.PutDocument(ctx, "contended", []byte(`{"dataVersion":2}`)); err != nil {
							t.Errorf("concurrent PutDocument returned error: %v", err)
						}
					}()
				}
				wg.Wait()

				got, err := repo.GetDocument(ctx, "contended")
				if err != nil || string(got) != `{"dataVersion":2}` {
					t.Fatalf("expected intact payload, got %q (err %v)", got, err)
				}
			})
		})
	}
}
