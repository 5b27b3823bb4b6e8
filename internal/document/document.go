// Package document defines the canonical, fully-populated running-order
// document that every other component consumes.
package document

import "strings"

// CurrentVersion is the schema version stamped on canonical documents.
const CurrentVersion = 2

// Document is the persisted envelope for one event programme.
type Document struct {
	DataVersion     int           `json:"dataVersion"`
	Competition     Competition   `json:"competition"`
	RunningOrder    []Item        `json:"runningOrder"`
	Categories      []Category    `json:"categories"`
	FanZone         []FanZoneItem `json:"fanZone"`
	SelectedStadium string        `json:"selectedStadium"`
	Match           MatchConfig   `json:"match"`
}

// Competition holds bilingual competition names, branding and the reference
// lists used to resolve tokens.
type Competition struct {
	Name1    string    `json:"name1"`
	Name2    string    `json:"name2"`
	Branding Branding  `json:"branding"`
	Stadiums []Stadium `json:"stadiums"`
	Teams    []Team    `json:"teams"`
}

// Branding carries the colours and logo used by export views.
type Branding struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	Logo           string `json:"logo"`
}

// Default branding colours.
const (
	DefaultPrimaryColor   = "#8A1538"
	DefaultSecondaryColor = "#FFFFFF"
)

// Stadium is a bilingual venue record.
type Stadium struct {
	ID    string `json:"id"`
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`
	City1 string `json:"city1"`
	City2 string `json:"city2"`
}

// Team is a bilingual team record.
type Team struct {
	ID    string `json:"id"`
	Name1 string `json:"name1"`
	Name2 string `json:"name2"`
	Code  string `json:"code"`
}

// MatchConfig selects the fixture the programme is rendered for.
type MatchConfig struct {
	TeamA       string `json:"teamA"`
	TeamB       string `json:"teamB"`
	Kickoff     string `json:"kickoff"`
	Date        string `json:"date"`
	MatchNumber string `json:"matchNumber"`
}

// Category is a named bucket of running-order items. Items point at their
// category; categories do not own item lists.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StadiumByID returns the stadium with the given id.
func (d Document) StadiumByID(id string) (Stadium, bool) {
	if id == "" {
		return Stadium{}, false
	}
	for _, s := range d.Competition.Stadiums {
		if s.ID == id {
			return s, true
		}
	}
	return Stadium{}, false
}

// TeamByID returns the team with the given id.
func (d Document) TeamByID(id string) (Team, bool) {
	if id == "" {
		return Team{}, false
	}
	for _, t := range d.Competition.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// CategoryByID returns the category with the given id.
func (d Document) CategoryByID(id string) (Category, bool) {
	if id == "" {
		return Category{}, false
	}
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ItemIndex returns the position of the item with the given id, or -1.
func (d Document) ItemIndex(id string) int {
	for i, item := range d.RunningOrder {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (d Document) Clone() Document {
	out := d
	out.Competition.Stadiums = append([]Stadium(nil), d.Competition.Stadiums...)
	out.Competition.Teams = append([]Team(nil), d.Competition.Teams...)
	out.Categories = append([]Category(nil), d.Categories...)
	out.FanZone = append([]FanZoneItem(nil), d.FanZone...)
	out.RunningOrder = make([]Item, len(d.RunningOrder))
	for i, item := range d.RunningOrder {
		item.AudioSources = append([]string{}, item.AudioSources...)
		out.RunningOrder[i] = item
	}
	return out
}

// Empty returns a canonical document with every list allocated and every
// default applied.
func Empty() Document {
	return Document{
		DataVersion: CurrentVersion,
		Competition: Competition{
			Branding: Branding{
				PrimaryColor:   DefaultPrimaryColor,
				SecondaryColor: DefaultSecondaryColor,
			},
			Stadiums: []Stadium{},
			Teams:    []Team{},
		},
		RunningOrder: []Item{},
		Categories:   []Category{},
		FanZone:      []FanZoneItem{},
	}
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
