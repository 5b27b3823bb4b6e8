package document

import "strings"

// Material describes what kind of media a running-order item cues.
type Material string

const (
	MaterialVideo Material = "Video"
	MaterialAudio Material = "Audio"
	MaterialOther Material = "Other"
)

// ParseMaterial maps free text onto a Material, defaulting to MaterialOther.
func ParseMaterial(raw string) Material {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "video":
		return MaterialVideo
	case "audio":
		return MaterialAudio
	default:
		return MaterialOther
	}
}

const (
	// NoAudio is the derived audio option for an item without sources.
	NoAudio = "No audio"
	// GenericAudioSource is synthesized for legacy items flagged as having
	// audio without naming a source.
	GenericAudioSource = "Audio"
)

// Item is one scheduled action in the running order.
type Item struct {
	ID           string   `json:"id"`
	Time         string   `json:"time"`
	Title        string   `json:"title"`
	Script1      string   `json:"script1"`
	Script2      string   `json:"script2"`
	Material     Material `json:"material"`
	AudioSources []string `json:"audioSources"`
	AudioOption  string   `json:"audioOption"`
	Loop         bool     `json:"loop"`
	Screen       string   `json:"screen"`
	Lighting     string   `json:"lighting"`
	Responsible  string   `json:"responsible"`
	Notes        string   `json:"notes"`
	Duration     string   `json:"duration"`
	Active       bool     `json:"active"`
	Category     string   `json:"category"`
}

// NewItem returns an active item with canonical defaults.
func NewItem(id, category string) Item {
	item := Item{ID: id, Category: category, Active: true, Material: MaterialOther}
	item.Normalize()
	return item
}

// SetAudioSources replaces the item's sources and re-derives AudioOption.
// Blank, duplicate and NoAudio labels are dropped.
func (i *Item) SetAudioSources(sources []string) {
	i.AudioSources = AudioLabels(sources)
	i.AudioOption = AudioOptionFor(i.AudioSources)
}

// Normalize re-derives the fields that depend on others.
func (i *Item) Normalize() {
	i.Material = ParseMaterial(string(i.Material))
	i.SetAudioSources(i.AudioSources)
}

// AudioOptionFor renders the legacy single-string form of a source list.
func AudioOptionFor(sources []string) string {
	if len(sources) == 0 {
		return NoAudio
	}
	return strings.Join(sources, ", ")
}

// ParseAudioOption splits a legacy audio option string into sources. The
// NoAudio sentinel, compared case-insensitively, yields no sources.
func ParseAudioOption(option string) []string {
	option = strings.TrimSpace(option)
	if option == "" || strings.EqualFold(option, NoAudio) {
		return []string{}
	}
	return AudioLabels(strings.Split(option, ","))
}

// AudioLabels trims values and drops blanks, repeats and the NoAudio
// sentinel, which names the absence of a source rather than a source.
func AudioLabels(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range trimmed(values) {
		if strings.EqualFold(v, NoAudio) {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// FanZoneType classifies an auxiliary fan-zone schedule entry.
type FanZoneType string

const (
	FanZoneOpening       FanZoneType = "opening"
	FanZoneMusic         FanZoneType = "music"
	FanZoneMatch         FanZoneType = "match"
	FanZoneEntertainment FanZoneType = "entertainment"
	FanZoneClosing       FanZoneType = "closing"
)

// ParseFanZoneType maps free text onto a FanZoneType, defaulting to
// FanZoneEntertainment.
func ParseFanZoneType(raw string) FanZoneType {
	switch t := FanZoneType(strings.ToLower(strings.TrimSpace(raw))); t {
	case FanZoneOpening, FanZoneMusic, FanZoneMatch, FanZoneEntertainment, FanZoneClosing:
		return t
	default:
		return FanZoneEntertainment
	}
}

// FanZoneItem is a timed entry in a perpetual or non-matchday schedule. It
// has no category; ordering is by time alone.
type FanZoneItem struct {
	ID      string      `json:"id"`
	Type    FanZoneType `json:"type"`
	Time    string      `json:"time"`
	Title   string      `json:"title"`
	Screen1 string      `json:"screen1"`
	Screen2 string      `json:"screen2"`
	Screen3 string      `json:"screen3"`
}
