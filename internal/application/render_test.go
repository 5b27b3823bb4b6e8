package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/tokens"
)

func renderFixture() document.Document {
	doc := document.Empty()
	doc.Competition.Name1 = "Arab Cup"
	doc.Competition.Name2 = "كأس العرب"
	doc.Competition.Stadiums = []document.Stadium{
		{ID: "lusail", Name1: "Lusail Stadium", Name2: "استاد لوسيل", City1: "Lusail", City2: "لوسيل"},
	}
	doc.Competition.Teams = []document.Team{
		{ID: "qat", Name1: "Qatar", Name2: "قطر", Code: "QAT"},
		{ID: "tun", Name1: "Tunisia", Name2: "تونس", Code: "TUN"},
	}
	doc.SelectedStadium = "lusail"
	doc.Match = document.MatchConfig{TeamA: "qat", TeamB: "tun", Kickoff: "18:00"}
	doc.Categories = []document.Category{{ID: "c-pre", Name: "Pre-match"}, {ID: "c-ht", Name: "Half time"}}
	return doc
}

func TestTokenContext(t *testing.T) {
	t.Parallel()

	ctx := TokenContext(renderFixture())
	assert.Equal(t, tokens.Context{
		Competition1: "Arab Cup",
		Competition2: "كأس العرب",
		Stadium1:     "Lusail Stadium",
		Stadium2:     "استاد لوسيل",
		City1:        "Lusail",
		City2:        "لوسيل",
		TeamA1:       "Qatar",
		TeamA2:       "قطر",
		TeamB1:       "Tunisia",
		TeamB2:       "تونس",
		MatchTime:    "18:00",
	}, ctx)
}

func TestTokenContextLeavesUnknownReferencesEmpty(t *testing.T) {
	t.Parallel()

	doc := renderFixture()
	doc.SelectedStadium = "nowhere"
	doc.Match.TeamB = "unknown"

	ctx := TokenContext(doc)
	assert.Empty(t, ctx.Stadium1)
	assert.Empty(t, ctx.City2)
	assert.Empty(t, ctx.TeamB1)
	assert.Equal(t, "Qatar", ctx.TeamA1)
	assert.Equal(t, "[Stadium] hosts Qatar", tokens.Apply("[Stadium] hosts [TeamA]", ctx))
}

func TestRenderItemResolvesDisplayText(t *testing.T) {
	t.Parallel()

	item := document.NewItem("i-1", "c-pre")
	item.Time = "-00:10:00"
	item.Title = "[TeamA] v [TeamB]"
	item.Script1 = "Welcome to [Stadium-L1], [City1]"
	item.Script2 = "مرحبا بكم في [Stadium-L2]"
	item.Screen = "[Competition]"
	item.Notes = "Kickoff [KO]"
	item.Lighting = "[TeamA]"
	item.AudioSources = []string{"PA"}

	rendered := RenderItem(item, TokenContext(renderFixture()))
	assert.Equal(t, "Qatar v Tunisia", rendered.Title)
	assert.Equal(t, "Welcome to Lusail Stadium, Lusail", rendered.Script1)
	assert.Equal(t, "مرحبا بكم في استاد لوسيل", rendered.Script2)
	assert.Equal(t, "Arab Cup", rendered.Screen)
	assert.Equal(t, "Kickoff 18:00", rendered.Notes)
	assert.Equal(t, "[TeamA]", rendered.Lighting, "lighting cues are not display text")
	assert.Equal(t, "before-kickoff", rendered.Band)
	assert.Equal(t, -600, rendered.SortKey)

	rendered.AudioSources[0] = "changed"
	assert.Equal(t, "PA", item.AudioSources[0], "rendering must not alias the source item")
}

func TestRenderRunningOrderGroupsAndOrders(t *testing.T) {
	t.Parallel()

	doc := renderFixture()
	entries := []struct {
		id, time, category string
		active             bool
	}{
		{"show", "HT+00:02:00", "c-ht", true},
		{"anthem", "-00:05:00", "c-pre", true},
		{"walkout", "-00:08:00", "c-pre", true},
		{"hidden", "-01:00:00", "c-pre", false},
		{"lost", "-02:00:00", "c-gone", true},
	}
	for _, e := range entries {
		item := document.NewItem(e.id, e.category)
		item.Time = e.time
		item.Active = e.active
		doc.RunningOrder = append(doc.RunningOrder, item)
	}

	view := RenderRunningOrder(doc)
	require.Len(t, view.Groups, 2)
	assert.Equal(t, "c-pre", view.Groups[0].Category.ID)
	assert.Equal(t, "c-ht", view.Groups[1].Category.ID)

	var ids []string
	for _, item := range view.Groups[0].Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"walkout", "anthem"}, ids)
	assert.Equal(t, "Qatar", view.Context.TeamA1)
}

func TestRenderFanZone(t *testing.T) {
	t.Parallel()

	doc := document.Empty()
	doc.FanZone = []document.FanZoneItem{
		{ID: "late", Time: "CLOSE"},
		{ID: "odd", Time: "whenever"},
		{ID: "ht", Time: "HTSTART"},
		{ID: "early", Time: "T-30"},
	}

	view := RenderFanZone(doc)
	require.Len(t, view.Items, 4)
	var ids []string
	for _, item := range view.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"early", "ht", "late", "odd"}, ids)
	assert.False(t, view.Items[3].Recognized)
	assert.Equal(t, 45, view.Items[1].SortKey)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	doc := renderFixture()
	doc.Match.TeamB = ""

	good := document.NewItem("good", "c-pre")
	good.Time = "-00:05:00"
	good.Title = "[TeamA] warm-up"

	badTime := document.NewItem("bad-time", "c-pre")
	badTime.Time = "soon"

	orphan := document.NewItem("orphan", "c-gone")
	orphan.Time = "+00:01:00"

	tokensItem := document.NewItem("tokens", "c-ht")
	tokensItem.Script1 = "[TeamB] and [Sponsor] and [TeamB]"

	inactive := document.NewItem("inactive", "c-gone")
	inactive.Time = "never"
	inactive.Active = false

	duplicate := document.NewItem("good", "c-pre")

	doc.RunningOrder = []document.Item{good, badTime, orphan, tokensItem, inactive, duplicate}
	doc.FanZone = []document.FanZoneItem{{ID: "fz", Time: "later"}, {ID: "fz-ok", Time: "KO"}}

	report := Validate(doc)
	assert.False(t, report.Valid)

	type finding struct{ code, item, value string }
	var got []finding
	for _, issue := range report.Issues {
		assert.NotEmpty(t, issue.Message)
		got = append(got, finding{issue.Code, issue.ItemID, issue.Value})
	}
	assert.Equal(t, []finding{
		{IssueUnrecognizedTime, "bad-time", "soon"},
		{IssueUnresolvedToken, "tokens", "[TeamB]"},
		{IssueUnknownToken, "tokens", "[Sponsor]"},
		{IssueDuplicateItemID, "good", "good"},
		{IssueDanglingCategory, "orphan", "c-gone"},
		{IssueUnrecognizedFanZoneTime, "fz", "later"},
	}, got)
}

func TestValidateCleanDocument(t *testing.T) {
	t.Parallel()

	doc := renderFixture()
	item := document.NewItem("i-1", "c-pre")
	item.Time = "17:30"
	item.Title = "Gates open at [Stadium]"
	doc.RunningOrder = []document.Item{item}

	report := Validate(doc)
	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
	assert.NotNil(t, report.Issues)
}
