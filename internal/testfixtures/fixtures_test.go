package testfixtures

import (
	"testing"

	"github.com/example/running-order/internal/application"
	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/migrate"
)

func TestDocumentFixtureIsCanonical(t *testing.T) {
	fixture := NewDocumentFixture(WithItems(
		NewItem(WithItemID("walkout"), WithItemTime("-00:08:00")),
		NewItem(WithItemID("show"), WithItemCategory("cat-ht"), WithItemTime("HT+00:02:00")),
	))

	doc, err := migrate.MigrateJSON(fixture.JSON())
	if err != nil {
		t.Fatalf("fixture JSON did not migrate: %v", err)
	}
	if doc.DataVersion != document.CurrentVersion {
		t.Fatalf("expected version %d, got %d", document.CurrentVersion, doc.DataVersion)
	}
	if doc.SelectedStadium != "al-bayt" || doc.Match.TeamB != "bhr" {
		t.Fatalf("unexpected references after migration: %+v", doc.Match)
	}

	report := application.Validate(fixture.Canonical())
	if !report.Valid {
		t.Fatalf("fixture should validate cleanly, got %+v", report.Issues)
	}
}

func TestNewItemIsUniqueAndConfigurable(t *testing.T) {
	first := NewItem()
	second := NewItem(WithItemAudio("PA", "PA", "Radio mic"), WithItemActive(false))

	if first.ID == second.ID {
		t.Fatalf("expected unique ids, both were %q", first.ID)
	}
	if second.Active {
		t.Fatal("expected inactive item")
	}
	if len(second.AudioSources) != 2 {
		t.Fatalf("expected duplicate audio labels to collapse, got %v", second.AudioSources)
	}

	input := ItemInput(second)
	if input.Active == nil || *input.Active {
		t.Fatal("ItemInput should carry the inactive flag")
	}
}
