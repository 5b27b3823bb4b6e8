package migrate

import (
	"strings"

	"github.com/example/running-order/internal/document"
)

// Alias lists, canonical name first.
var (
	itemListKeys     = []string{"runningOrder", "running_order", "items"}
	categoryListKeys = []string{"categories", "sections"}
	fanZoneListKeys  = []string{"fanZone", "fanZoneItems", "fanzone"}
	stadiumListKeys  = []string{"stadiums", "venues"}
	teamListKeys     = []string{"teams"}
	selectedKeys     = []string{"selectedStadium", "selectedVenue", "stadiumId", "venue"}
	matchKeys        = []string{"match", "matchConfig"}
)

func shapeDocument(raw map[string]any) document.Document {
	doc := document.Empty()
	doc.Competition = shapeCompetition(raw)
	doc.Categories = shapeCategories(raw)
	doc.RunningOrder = shapeRunningOrder(raw, doc.Categories)
	doc.FanZone = shapeFanZone(raw)
	doc.SelectedStadium = pickID(raw, selectedKeys...)
	doc.Match = shapeMatch(raw)
	return doc
}

func shapeCompetition(raw map[string]any) document.Competition {
	comp := object(raw["competition"])

	branding := object(pickOr(comp, raw, "branding"))
	primary := strings.TrimSpace(pickString(branding, "primaryColor", "primary"))
	if primary == "" {
		primary = document.DefaultPrimaryColor
	}
	secondary := strings.TrimSpace(pickString(branding, "secondaryColor", "secondary"))
	if secondary == "" {
		secondary = document.DefaultSecondaryColor
	}
	logo, ok := pick(branding, "logo")
	if !ok {
		logo = pickOr(comp, raw, "logo")
	}

	name1, ok := pick(comp, "name1", "name", "nameEn")
	if !ok {
		name1, _ = pick(raw, "competitionName")
	}

	return document.Competition{
		Name1: str(name1),
		Name2: pickString(comp, "name2", "nameAr"),
		Branding: document.Branding{
			PrimaryColor:   primary,
			SecondaryColor: secondary,
			Logo:           str(logo),
		},
		Stadiums: shapeStadiums(list(pickOr(comp, raw, stadiumListKeys...))),
		Teams:    shapeTeams(list(pickOr(comp, raw, teamListKeys...))),
	}
}

// pickOr reads keys from primary, falling back to the top-level document
// where older revisions stored them.
func pickOr(primary, fallback map[string]any, keys ...string) any {
	if v, ok := pick(primary, keys...); ok {
		return v
	}
	v, _ := pick(fallback, keys...)
	return v
}

func shapeStadiums(rawList []any) []document.Stadium {
	out := make([]document.Stadium, 0, len(rawList))
	records := objects(rawList)
	alloc := newIDAllocator("stadium", collectIDs(records, "id"))
	for i, m := range records {
		out = append(out, document.Stadium{
			ID:    alloc.assign(pickID(m, "id"), i),
			Name1: pickString(m, "name1", "name", "nameEn"),
			Name2: pickString(m, "name2", "nameAr"),
			City1: pickString(m, "city1", "city", "cityEn"),
			City2: pickString(m, "city2", "cityAr"),
		})
	}
	return out
}

func shapeTeams(rawList []any) []document.Team {
	out := make([]document.Team, 0, len(rawList))
	records := objects(rawList)
	alloc := newIDAllocator("team", collectIDs(records, "id"))
	for i, m := range records {
		out = append(out, document.Team{
			ID:    alloc.assign(pickID(m, "id"), i),
			Name1: pickString(m, "name1", "name", "nameEn"),
			Name2: pickString(m, "name2", "nameAr"),
			Code:  strings.TrimSpace(pickString(m, "code", "shortName", "abbreviation")),
		})
	}
	return out
}

func shapeCategories(raw map[string]any) []document.Category {
	records := objects(list(firstValue(raw, categoryListKeys...)))
	alloc := newIDAllocator("category", collectIDs(records, "id"))
	out := make([]document.Category, 0, len(records))
	for i, m := range records {
		out = append(out, document.Category{
			ID:   alloc.assign(pickID(m, "id"), i),
			Name: pickString(m, "name", "title", "label"),
		})
	}
	return out
}

// shapeRunningOrder builds items from the top-level list and from the lists
// older documents embedded inside categories. An embedded entry that is not
// already in the top-level list is appended; either way an item without a
// category adopts the embedding one.
func shapeRunningOrder(raw map[string]any, categories []document.Category) []document.Item {
	records := objects(list(firstValue(raw, itemListKeys...)))
	items := make([]document.Item, 0, len(records))
	for _, m := range records {
		items = append(items, shapeItem(m))
	}

	index := make(map[string]int, len(items))
	for i, item := range items {
		if item.ID != "" {
			if _, dup := index[item.ID]; !dup {
				index[item.ID] = i
			}
		}
	}

	rawCategories := objects(list(firstValue(raw, categoryListKeys...)))
	for ci, rawCategory := range rawCategories {
		categoryID := categories[ci].ID
		for _, entry := range list(rawCategory["items"]) {
			if m, ok := entry.(map[string]any); ok {
				embedded := shapeItem(m)
				if pos, found := index[embedded.ID]; found && embedded.ID != "" {
					adoptCategory(&items[pos], categoryID)
					continue
				}
				adoptCategory(&embedded, categoryID)
				if embedded.ID != "" {
					index[embedded.ID] = len(items)
				}
				items = append(items, embedded)
				continue
			}
			if pos, found := index[strings.TrimSpace(str(entry))]; found {
				adoptCategory(&items[pos], categoryID)
			}
		}
	}

	existing := make([]string, 0, len(items))
	for _, item := range items {
		existing = append(existing, item.ID)
	}
	alloc := newIDAllocator("item", existing)
	for i := range items {
		items[i].ID = alloc.assign(items[i].ID, i)
	}
	return items
}

func adoptCategory(item *document.Item, categoryID string) {
	if item.Category == "" {
		item.Category = categoryID
	}
}

func shapeItem(m map[string]any) document.Item {
	item := document.Item{
		ID:          pickID(m, "id", "_id", "uuid"),
		Time:        strings.TrimSpace(pickString(m, "time", "timecode", "timeCode")),
		Title:       pickString(m, "title", "name"),
		Script1:     pickString(m, "script1", "script", "description"),
		Script2:     pickString(m, "script2", "scriptAr", "description2"),
		Material:    document.ParseMaterial(pickString(m, "material", "materialType", "type")),
		Screen:      pickString(m, "screen", "screenContent"),
		Lighting:    pickString(m, "lighting", "lights"),
		Responsible: pickString(m, "responsible", "owner"),
		Notes:       pickString(m, "notes", "note", "remarks"),
		Duration:    pickString(m, "duration"),
		Category:    pickID(m, "category", "categoryId"),
	}
	loop, _ := pick(m, "loop", "isLoop")
	item.Loop = boolean(loop, false)
	active, _ := pick(m, "active", "enabled")
	item.Active = boolean(active, true)

	sources := document.AudioLabels(labels(m["audioSources"]))
	if len(sources) == 0 {
		sources = document.ParseAudioOption(str(m["audioOption"]))
	}
	if len(sources) == 0 && boolean(m["audio"], false) {
		sources = []string{document.GenericAudioSource}
	}
	item.SetAudioSources(sources)
	return item
}

func shapeFanZone(raw map[string]any) []document.FanZoneItem {
	records := objects(list(firstValue(raw, fanZoneListKeys...)))
	alloc := newIDAllocator("fanzone", collectIDs(records, "id"))
	out := make([]document.FanZoneItem, 0, len(records))
	for i, m := range records {
		out = append(out, document.FanZoneItem{
			ID:      alloc.assign(pickID(m, "id"), i),
			Type:    document.ParseFanZoneType(pickString(m, "type", "kind")),
			Time:    strings.TrimSpace(pickString(m, "time")),
			Title:   pickString(m, "title", "name"),
			Screen1: pickString(m, "screen1", "screen"),
			Screen2: pickString(m, "screen2"),
			Screen3: pickString(m, "screen3"),
		})
	}
	return out
}

func shapeMatch(raw map[string]any) document.MatchConfig {
	m := object(firstValue(raw, matchKeys...))
	return document.MatchConfig{
		TeamA:       idOr(m, raw, "teamA", "homeTeam"),
		TeamB:       idOr(m, raw, "teamB", "awayTeam"),
		Kickoff:     strings.TrimSpace(str(pickOr(m, raw, "kickoff", "kickOff", "matchTime"))),
		Date:        strings.TrimSpace(str(pickOr(m, raw, "date", "matchDate"))),
		MatchNumber: strings.TrimSpace(str(pickOr(m, raw, "matchNumber", "number"))),
	}
}

func idOr(primary, fallback map[string]any, keys ...string) string {
	if id := pickID(primary, keys...); id != "" {
		return id
	}
	return pickID(fallback, keys...)
}

func firstValue(m map[string]any, keys ...string) any {
	v, _ := pick(m, keys...)
	return v
}

// objects keeps the JSON objects of a list, dropping scalars and nulls.
func objects(values []any) []map[string]any {
	out := make([]map[string]any, 0, len(values))
	for _, v := range values {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func collectIDs(records []map[string]any, keys ...string) []string {
	ids := make([]string, 0, len(records))
	for _, m := range records {
		ids = append(ids, pickID(m, keys...))
	}
	return ids
}
