package migrate

import (
	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/reference"
)

// canonicalReferences replaces the stadium and team lists with the bundled
// canonical records. Incoming records that match a canonical one, by id or by
// name, collapse into it and references to their old id are rewritten.
// Records that match nothing are user-authored and are kept after the
// canonical ones.
func canonicalReferences(set *reference.Set) func(*document.Document) {
	return func(doc *document.Document) {
		stadiums := set.Stadiums()
		stadiumIDs := make(map[string]string)
		for _, s := range doc.Competition.Stadiums {
			if canonical, ok := set.MatchStadium(s.ID, s.Name1, s.Name2); ok {
				stadiumIDs[s.ID] = canonical.ID
				continue
			}
			stadiums = append(stadiums, s)
		}

		teams := set.Teams()
		teamIDs := make(map[string]string)
		for _, t := range doc.Competition.Teams {
			if canonical, ok := set.MatchTeam(t.ID, t.Name1, t.Name2); ok {
				teamIDs[t.ID] = canonical.ID
				continue
			}
			teams = append(teams, t)
		}

		doc.Competition.Stadiums = stadiums
		doc.Competition.Teams = teams
		doc.SelectedStadium = rewrite(doc.SelectedStadium, stadiumIDs)
		doc.Match.TeamA = rewrite(doc.Match.TeamA, teamIDs)
		doc.Match.TeamB = rewrite(doc.Match.TeamB, teamIDs)
	}
}

func rewrite(id string, mapping map[string]string) string {
	if next, ok := mapping[id]; ok && id != "" {
		return next
	}
	return id
}
