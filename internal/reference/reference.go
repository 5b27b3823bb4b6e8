// Package reference holds the bundled canonical stadium and team records and
// matches incoming records against them.
package reference

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/example/running-order/internal/document"
)

//go:embed stadiums.yaml teams.yaml
var files embed.FS

type stadiumRecord struct {
	ID      string   `yaml:"id"`
	Name1   string   `yaml:"name1"`
	Name2   string   `yaml:"name2"`
	City1   string   `yaml:"city1"`
	City2   string   `yaml:"city2"`
	Aliases []string `yaml:"aliases"`
}

type teamRecord struct {
	ID      string   `yaml:"id"`
	Code    string   `yaml:"code"`
	Name1   string   `yaml:"name1"`
	Name2   string   `yaml:"name2"`
	Aliases []string `yaml:"aliases"`
}

// Set is an immutable collection of canonical records.
type Set struct {
	stadiums []stadiumRecord
	teams    []teamRecord
}

var loadDefault = sync.OnceValues(func() (*Set, error) {
	var st struct {
		Stadiums []stadiumRecord `yaml:"stadiums"`
	}
	if err := decode("stadiums.yaml", &st); err != nil {
		return nil, err
	}
	var tm struct {
		Teams []teamRecord `yaml:"teams"`
	}
	if err := decode("teams.yaml", &tm); err != nil {
		return nil, err
	}
	return &Set{stadiums: st.Stadiums, teams: tm.Teams}, nil
})

// Default returns the bundled reference set. The data is compiled into the
// binary, so a decode failure is a programming error and panics.
func Default() *Set {
	set, err := loadDefault()
	if err != nil {
		panic(err)
	}
	return set
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reference: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("reference: decode %s: %w", name, err)
	}
	return nil
}

// Stadiums returns a copy of the canonical stadiums in bundled order.
func (s *Set) Stadiums() []document.Stadium {
	out := make([]document.Stadium, 0, len(s.stadiums))
	for _, r := range s.stadiums {
		out = append(out, r.stadium())
	}
	return out
}

// Teams returns a copy of the canonical teams in bundled order.
func (s *Set) Teams() []document.Team {
	out := make([]document.Team, 0, len(s.teams))
	for _, r := range s.teams {
		out = append(out, r.team())
	}
	return out
}

// MatchStadium finds the canonical stadium for an incoming record: by id
// first, then by any of the supplied names against any known name.
func (s *Set) MatchStadium(id string, names ...string) (document.Stadium, bool) {
	for _, r := range s.stadiums {
		if id != "" && r.ID == id {
			return r.stadium(), true
		}
	}
	wanted := nameKeys(names)
	if len(wanted) == 0 {
		return document.Stadium{}, false
	}
	for _, r := range s.stadiums {
		if matchesAny(wanted, r.Name1, r.Name2, r.Aliases...) {
			return r.stadium(), true
		}
	}
	return document.Stadium{}, false
}

// MatchTeam finds the canonical team for an incoming record: by id first,
// then by any of the supplied names against any known name or code.
func (s *Set) MatchTeam(id string, names ...string) (document.Team, bool) {
	for _, r := range s.teams {
		if id != "" && r.ID == id {
			return r.team(), true
		}
	}
	wanted := nameKeys(names)
	if len(wanted) == 0 {
		return document.Team{}, false
	}
	for _, r := range s.teams {
		if matchesAny(wanted, r.Name1, r.Name2, append([]string{r.Code}, r.Aliases...)...) {
			return r.team(), true
		}
	}
	return document.Team{}, false
}

func (r stadiumRecord) stadium() document.Stadium {
	return document.Stadium{ID: r.ID, Name1: r.Name1, Name2: r.Name2, City1: r.City1, City2: r.City2}
}

func (r teamRecord) team() document.Team {
	return document.Team{ID: r.ID, Name1: r.Name1, Name2: r.Name2, Code: r.Code}
}

func matchesAny(wanted map[string]struct{}, name1, name2 string, more ...string) bool {
	for _, candidate := range append([]string{name1, name2}, more...) {
		if _, ok := wanted[NameKey(candidate)]; ok && candidate != "" {
			return true
		}
	}
	return false
}

func nameKeys(names []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(names))
	for _, n := range names {
		if k := NameKey(n); k != "" {
			keys[k] = struct{}{}
		}
	}
	return keys
}

// NameKey folds a display name into its comparison form: NFC-normalized,
// case-folded, with whitespace runs collapsed.
func NameKey(name string) string {
	folded := cases.Fold().String(norm.NFC.String(name))
	return strings.Join(strings.Fields(folded), " ")
}
