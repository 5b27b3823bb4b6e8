// Package schedule orders running-order items for display.
package schedule

import (
	"cmp"
	"math"
	"slices"

	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/timecode"
)

// CategoryGroup is one category with its active items in time order.
type CategoryGroup struct {
	Category document.Category `json:"category"`
	Items    []document.Item   `json:"items"`
}

// Earliest returns the key of the group's first item, or math.MaxInt when
// the group is empty.
func (g CategoryGroup) Earliest() int {
	if len(g.Items) == 0 {
		return math.MaxInt
	}
	return timecode.Key(g.Items[0].Time)
}

// Group partitions active items by category, sorts each partition by time
// and orders categories by their earliest item. Categories without active
// items are omitted, as are items whose category does not exist. Ties keep
// input order throughout. Inputs are not modified.
func Group(items []document.Item, categories []document.Category) []CategoryGroup {
	byCategory := make(map[string][]document.Item, len(categories))
	for _, item := range items {
		if !item.Active {
			continue
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	groups := make([]CategoryGroup, 0, len(categories))
	seen := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		if _, dup := seen[category.ID]; dup || category.ID == "" {
			continue
		}
		seen[category.ID] = struct{}{}

		members := byCategory[category.ID]
		if len(members) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: category, Items: SortItems(members)})
	}

	slices.SortStableFunc(groups, func(a, b CategoryGroup) int {
		return cmp.Compare(a.Earliest(), b.Earliest())
	})
	return groups
}

// SortItems returns a copy of items ordered by matchday time, stable.
func SortItems(items []document.Item) []document.Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b document.Item) int {
		return timecode.Compare(a.Time, b.Time)
	})
	return out
}

// SortFanZone returns a copy of fan-zone items ordered by fan-zone time,
// stable.
func SortFanZone(items []document.FanZoneItem) []document.FanZoneItem {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b document.FanZoneItem) int {
		return cmp.Compare(timecode.FanZoneKey(a.Time), timecode.FanZoneKey(b.Time))
	})
	return out
}

// Orphans returns the active items Group drops because their category
// reference is empty or dangling, in input order.
func Orphans(items []document.Item, categories []document.Category) []document.Item {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c.ID] = struct{}{}
	}
	var out []document.Item
	for _, item := range items {
		if !item.Active {
			continue
		}
		if _, ok := known[item.Category]; ok && item.Category != "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
