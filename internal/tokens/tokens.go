// Package tokens resolves bracketed placeholders such as [TeamA-L1] inside
// free text against a bilingual render context.
package tokens

import (
	"regexp"
	"sort"
)

// Context carries the values substituted into text at render time. Fields
// suffixed 1 hold the primary language, fields suffixed 2 the secondary one.
type Context struct {
	Competition1 string `json:"competition1"`
	Competition2 string `json:"competition2"`
	Stadium1     string `json:"stadium1"`
	Stadium2     string `json:"stadium2"`
	City1        string `json:"city1"`
	City2        string `json:"city2"`
	TeamA1       string `json:"teamA1"`
	TeamA2       string `json:"teamA2"`
	TeamB1       string `json:"teamB1"`
	TeamB2       string `json:"teamB2"`
	MatchTime    string `json:"matchTime"`
}

type field func(Context) string

var (
	competition1 field = func(c Context) string { return c.Competition1 }
	competition2 field = func(c Context) string { return c.Competition2 }
	stadium1     field = func(c Context) string { return c.Stadium1 }
	stadium2     field = func(c Context) string { return c.Stadium2 }
	city1        field = func(c Context) string { return c.City1 }
	city2        field = func(c Context) string { return c.City2 }
	teamA1       field = func(c Context) string { return c.TeamA1 }
	teamA2       field = func(c Context) string { return c.TeamA2 }
	teamB1       field = func(c Context) string { return c.TeamB1 }
	teamB2       field = func(c Context) string { return c.TeamB2 }
	matchTime    field = func(c Context) string { return c.MatchTime }
)

// table maps every accepted token name to its field. Primary-language fields
// also answer to the bare legacy name without a suffix.
var table = buildTable()

func buildTable() map[string]field {
	t := make(map[string]field)
	bilingual := []struct {
		name      string
		primary   field
		secondary field
	}{
		{"Competition", competition1, competition2},
		{"Stadium", stadium1, stadium2},
		{"City", city1, city2},
		{"TeamA", teamA1, teamA2},
		{"TeamB", teamB1, teamB2},
	}
	for _, b := range bilingual {
		t[b.name] = b.primary
		t[b.name+"1"] = b.primary
		t[b.name+"-L1"] = b.primary
		t[b.name+"2"] = b.secondary
		t[b.name+"-L2"] = b.secondary
	}
	t["MatchTime"] = matchTime
	t["Time"] = matchTime
	t["KO"] = matchTime
	return t
}

// tokenPattern matches one bracketed name. Brackets cannot nest, so
// [TeamA] and [TeamA1] are always distinct matches.
var tokenPattern = regexp.MustCompile(`\[([A-Za-z0-9-]+)\]`)

// Apply replaces every known token in text with its context value in a
// single pass. Tokens with an empty value and unknown tokens stay literal.
// Substituted values are never rescanned.
func Apply(text string, ctx Context) string {
	if text == "" {
		return ""
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		if value, ok := resolve(match[1:len(match)-1], ctx); ok {
			return value
		}
		return match
	})
}

// Unresolved lists, in order of appearance, the tokens Apply would leave
// literal. Duplicates are reported once.
func Unresolved(text string, ctx Context) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if _, ok := resolve(m[1], ctx); ok {
			continue
		}
		if _, dup := seen[m[0]]; dup {
			continue
		}
		seen[m[0]] = struct{}{}
		out = append(out, m[0])
	}
	return out
}

// Aliases returns every recognized token, bracketed and sorted.
func Aliases() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, "["+name+"]")
	}
	sort.Strings(names)
	return names
}

// Known reports whether name, without brackets, is a recognized token.
func Known(name string) bool {
	_, ok := table[name]
	return ok
}

func resolve(name string, ctx Context) (string, bool) {
	f, ok := table[name]
	if !ok {
		return "", false
	}
	value := f(ctx)
	if value == "" {
		return "", false
	}
	return value, true
}
