package application

import (
	"time"

	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/migrate"
	"github.com/example/running-order/internal/tokens"
)

// DocumentSummary describes a stored programme.
type DocumentSummary struct {
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ImportResult is returned after a raw payload has been migrated and stored.
type ImportResult struct {
	Key       string            `json:"key"`
	Document  document.Document `json:"document"`
	Migration migrate.Report    `json:"migration"`
}

// RenderedItem is an item with its tokens resolved and its sort key exposed.
type RenderedItem struct {
	document.Item
	Band    string `json:"band"`
	SortKey int    `json:"sortKey"`
}

// CategoryView is one display group of a rendered running order.
type CategoryView struct {
	Category document.Category `json:"category"`
	Items    []RenderedItem    `json:"items"`
}

// RunningOrderView is the grouped, time-ordered and token-resolved display
// form of a document.
type RunningOrderView struct {
	Key     string         `json:"key"`
	Context tokens.Context `json:"context"`
	Groups  []CategoryView `json:"groups"`
}

// FanZoneEntry is a fan-zone item with its sort key.
type FanZoneEntry struct {
	document.FanZoneItem
	SortKey    int  `json:"sortKey"`
	Recognized bool `json:"recognized"`
}

// FanZoneView is the time-ordered fan-zone schedule of a document.
type FanZoneView struct {
	Key   string         `json:"key"`
	Items []FanZoneEntry `json:"items"`
}

// Issue codes reported by Validate.
const (
	IssueUnrecognizedTime        = "unrecognized_time"
	IssueUnrecognizedFanZoneTime = "unrecognized_fan_zone_time"
	IssueDanglingCategory        = "dangling_category"
	IssueDuplicateItemID         = "duplicate_item_id"
	IssueUnresolvedToken         = "unresolved_token"
	IssueUnknownToken            = "unknown_token"
)

// Issue is a data-quality finding. Issues never block rendering.
type Issue struct {
	Code    string `json:"code"`
	ItemID  string `json:"itemId,omitempty"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationReport lists every issue found in a document.
type ValidationReport struct {
	Key    string  `json:"key"`
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// ItemInput captures caller provided fields for a new running-order item.
// Active defaults to true when nil.
type ItemInput struct {
	Time         string   `json:"time"`
	Title        string   `json:"title"`
	Script1      string   `json:"script1"`
	Script2      string   `json:"script2"`
	Material     string   `json:"material"`
	AudioSources []string `json:"audioSources"`
	Loop         bool     `json:"loop"`
	Screen       string   `json:"screen"`
	Lighting     string   `json:"lighting"`
	Responsible  string   `json:"responsible"`
	Notes        string   `json:"notes"`
	Duration     string   `json:"duration"`
	Active       *bool    `json:"active"`
	Category     string   `json:"category"`
}

// CategoryInput captures caller provided fields for a new category.
type CategoryInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
