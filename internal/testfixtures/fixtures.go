package testfixtures

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/running-order/internal/application"
	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/migrate"
)

var (
	itemCounter    uint64
	fanZoneCounter uint64
)

// Opening match of the FIFA Arab Cup 2021, Al Bayt Stadium.
var referenceTime = time.Date(2021, time.November, 30, 16, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Document fixtures ---------------------------

// DocumentFixture is a canonical programme for Qatar v Bahrain at Al Bayt
// with a pre-match and a half-time category.
type DocumentFixture struct {
	document.Document
}

// DocumentOption configures the generated document fixture.
type DocumentOption func(*DocumentFixture)

// NewDocumentFixture returns a canonical document with optional overrides.
// The running order is empty unless WithItems is supplied.
func NewDocumentFixture(opts ...DocumentOption) DocumentFixture {
	doc := document.Empty()
	doc.Competition.Name1 = "FIFA Arab Cup"
	doc.Competition.Name2 = "كأس العرب"
	doc.Competition.Stadiums = []document.Stadium{
		{ID: "al-bayt", Name1: "Al Bayt Stadium", Name2: "استاد البيت", City1: "Al Khor", City2: "الخور"},
	}
	doc.Competition.Teams = []document.Team{
		{ID: "qat", Name1: "Qatar", Name2: "قطر", Code: "QAT"},
		{ID: "bhr", Name1: "Bahrain", Name2: "البحرين", Code: "BHR"},
	}
	doc.SelectedStadium = "al-bayt"
	doc.Match = document.MatchConfig{
		TeamA:       "qat",
		TeamB:       "bhr",
		Kickoff:     "19:30",
		Date:        referenceTime.Format(time.DateOnly),
		MatchNumber: "1",
	}
	doc.Categories = []document.Category{
		{ID: "cat-pre", Name: "Pre-match"},
		{ID: "cat-ht", Name: "Half time"},
	}

	fixture := DocumentFixture{Document: doc}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithItems replaces the running order.
func WithItems(items ...document.Item) DocumentOption {
	return func(f *DocumentFixture) {
		f.RunningOrder = items
	}
}

// WithFanZone replaces the fan-zone schedule.
func WithFanZone(items ...document.FanZoneItem) DocumentOption {
	return func(f *DocumentFixture) {
		f.FanZone = items
	}
}

// WithCategories replaces the category list.
func WithCategories(categories ...document.Category) DocumentOption {
	return func(f *DocumentFixture) {
		f.Categories = categories
	}
}

// WithMatch overrides the selected fixture.
func WithMatch(teamA, teamB, kickoff string) DocumentOption {
	return func(f *DocumentFixture) {
		f.Match.TeamA = teamA
		f.Match.TeamB = teamB
		f.Match.Kickoff = kickoff
	}
}

// WithStadium overrides the selected stadium id.
func WithStadium(id string) DocumentOption {
	return func(f *DocumentFixture) {
		f.SelectedStadium = id
	}
}

// Canonical returns the fixture as the migrator would emit it.
func (f DocumentFixture) Canonical() document.Document {
	return migrate.New(nil).Canonical(f.Document.Clone())
}

// JSON returns the fixture encoded the way the service stores documents.
func (f DocumentFixture) JSON() []byte {
	raw, err := json.MarshalIndent(f.Document, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("testfixtures: encode document: %v", err))
	}
	return raw
}

// ----------------------------- Item fixtures -----------------------------

// ItemOption configures the generated running-order item.
type ItemOption func(*document.Item)

// NewItem returns an active pre-match item with a unique id.
func NewItem(opts ...ItemOption) document.Item {
	idx := atomic.AddUint64(&itemCounter, 1)
	item := document.NewItem(fmt.Sprintf("item-%03d", idx), "cat-pre")
	item.Time = fmt.Sprintf("-00:%02d:00", 5+idx%50)
	item.Title = fmt.Sprintf("Cue %03d", idx)
	for _, opt := range opts {
		opt(&item)
	}
	return item
}

// WithItemID overrides the generated item id.
func WithItemID(id string) ItemOption {
	return func(i *document.Item) {
		i.ID = id
	}
}

// WithItemTime overrides the time expression.
func WithItemTime(expr string) ItemOption {
	return func(i *document.Item) {
		i.Time = expr
	}
}

// WithItemCategory overrides the category id.
func WithItemCategory(id string) ItemOption {
	return func(i *document.Item) {
		i.Category = id
	}
}

// WithItemTitle overrides the title.
func WithItemTitle(title string) ItemOption {
	return func(i *document.Item) {
		i.Title = title
	}
}

// WithItemScripts sets both script languages.
func WithItemScripts(primary, secondary string) ItemOption {
	return func(i *document.Item) {
		i.Script1 = primary
		i.Script2 = secondary
	}
}

// WithItemAudio replaces the audio sources.
func WithItemAudio(sources ...string) ItemOption {
	return func(i *document.Item) {
		i.SetAudioSources(sources)
	}
}

// WithItemActive sets the active flag.
func WithItemActive(active bool) ItemOption {
	return func(i *document.Item) {
		i.Active = active
	}
}

// ItemInput returns the fields of item as a service input.
func ItemInput(item document.Item) application.ItemInput {
	active := item.Active
	return application.ItemInput{
		Time:         item.Time,
		Title:        item.Title,
		Script1:      item.Script1,
		Script2:      item.Script2,
		Material:     string(item.Material),
		AudioSources: item.AudioSources,
		Loop:         item.Loop,
		Screen:       item.Screen,
		Lighting:     item.Lighting,
		Responsible:  item.Responsible,
		Notes:        item.Notes,
		Duration:     item.Duration,
		Active:       &active,
		Category:     item.Category,
	}
}

// --------------------------- Fan-zone fixtures ---------------------------

// NewFanZoneItem returns a fan-zone entry at the given time expression.
func NewFanZoneItem(expr string) document.FanZoneItem {
	idx := atomic.AddUint64(&fanZoneCounter, 1)
	return document.FanZoneItem{
		ID:    fmt.Sprintf("fz-%03d", idx),
		Type:  document.FanZoneEntertainment,
		Time:  expr,
		Title: fmt.Sprintf("Fan zone %03d", idx),
	}
}

// ---------------------------- Legacy payloads ----------------------------

// LegacyPayload is an unversioned programme in the oldest supported shape:
// venues instead of stadiums, home/away teams and plain names.
const LegacyPayload = `{
  "competition": {
    "name": "FIFA Arab Cup",
    "venues": [{"id": "v7", "name": "Al Bayt Stadium", "city": "Al Khor"}],
    "teams": [{"id": "home", "name": "Qatar"}, {"id": "away", "name": "Bahrain"}]
  },
  "selectedVenue": "v7",
  "match": {"homeTeam": "home", "awayTeam": "away", "matchTime": "19:30"},
  "categories": [{"id": "cat-pre", "name": "Pre-match"}, {"id": "cat-ht", "name": "Half time"}],
  "runningOrder": [
    {"id": "anthems", "time": "-00:04:00", "title": "Anthems: [TeamA] and [TeamB]", "category": "cat-pre", "active": true},
    {"id": "gates", "time": "17:30", "title": "Gates open at [Stadium]", "category": "cat-pre", "active": true},
    {"id": "halftime-show", "time": "HT+00:03:00", "title": "Half-time show", "category": "cat-ht", "active": true, "audioOption": "PA"}
  ],
  "fanZone": [
    {"id": "fz-close", "time": "CLOSE", "title": "Fan zone closes"},
    {"id": "fz-screen", "time": "KO", "title": "Big screen"}
  ]
}`
