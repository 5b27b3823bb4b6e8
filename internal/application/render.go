package application

import (
	"fmt"

	"github.com/example/running-order/internal/document"
	"github.com/example/running-order/internal/schedule"
	"github.com/example/running-order/internal/timecode"
	"github.com/example/running-order/internal/tokens"
)

// TokenContext assembles the substitution values for doc: competition names,
// the selected stadium and its city, the names of the configured teams and
// the kickoff time. Unknown references leave their fields empty so the
// matching tokens stay literal.
func TokenContext(doc document.Document) tokens.Context {
	ctx := tokens.Context{
		Competition1: doc.Competition.Name1,
		Competition2: doc.Competition.Name2,
		MatchTime:    doc.Match.Kickoff,
	}
	if stadium, ok := doc.StadiumByID(doc.SelectedStadium); ok {
		ctx.Stadium1, ctx.Stadium2 = stadium.Name1, stadium.Name2
		ctx.City1, ctx.City2 = stadium.City1, stadium.City2
	}
	if team, ok := doc.TeamByID(doc.Match.TeamA); ok {
		ctx.TeamA1, ctx.TeamA2 = team.Name1, team.Name2
	}
	if team, ok := doc.TeamByID(doc.Match.TeamB); ok {
		ctx.TeamB1, ctx.TeamB2 = team.Name1, team.Name2
	}
	return ctx
}

// RenderItem resolves tokens in the item's display text.
func RenderItem(item document.Item, ctx tokens.Context) RenderedItem {
	code := timecode.Parse(item.Time)
	item.AudioSources = append([]string{}, item.AudioSources...)
	item.Title = tokens.Apply(item.Title, ctx)
	item.Script1 = tokens.Apply(item.Script1, ctx)
	item.Script2 = tokens.Apply(item.Script2, ctx)
	item.Screen = tokens.Apply(item.Screen, ctx)
	item.Notes = tokens.Apply(item.Notes, ctx)
	return RenderedItem{Item: item, Band: code.Band().String(), SortKey: code.Key()}
}

// RenderRunningOrder groups doc's active items by category in time order and
// resolves their tokens.
func RenderRunningOrder(doc document.Document) RunningOrderView {
	ctx := TokenContext(doc)
	groups := schedule.Group(doc.RunningOrder, doc.Categories)

	view := RunningOrderView{Context: ctx, Groups: make([]CategoryView, 0, len(groups))}
	for _, group := range groups {
		items := make([]RenderedItem, 0, len(group.Items))
		for _, item := range group.Items {
			items = append(items, RenderItem(item, ctx))
		}
		view.Groups = append(view.Groups, CategoryView{Category: group.Category, Items: items})
	}
	return view
}

// RenderFanZone orders doc's fan-zone schedule by fan-zone time.
func RenderFanZone(doc document.Document) FanZoneView {
	sorted := schedule.SortFanZone(doc.FanZone)
	view := FanZoneView{Items: make([]FanZoneEntry, 0, len(sorted))}
	for _, item := range sorted {
		code := timecode.ParseFanZone(item.Time)
		view.Items = append(view.Items, FanZoneEntry{
			FanZoneItem: item,
			SortKey:     code.Key(),
			Recognized:  code.Recognized(),
		})
	}
	return view
}

// Validate reports data-quality issues in doc's active items and fan-zone
// schedule: unparseable times, items whose category does not exist,
// duplicate item ids, and tokens that would render literally.
func Validate(doc document.Document) ValidationReport {
	issues := []Issue{}
	ctx := TokenContext(doc)

	seen := make(map[string]struct{}, len(doc.RunningOrder))
	for _, item := range doc.RunningOrder {
		if _, dup := seen[item.ID]; dup {
			issues = append(issues, Issue{
				Code:    IssueDuplicateItemID,
				ItemID:  item.ID,
				Field:   "id",
				Value:   item.ID,
				Message: fmt.Sprintf("item id %q is used more than once", item.ID),
			})
		}
		seen[item.ID] = struct{}{}

		if !item.Active {
			continue
		}
		if item.Time != "" && !timecode.IsRecognized(item.Time) {
			issues = append(issues, Issue{
				Code:    IssueUnrecognizedTime,
				ItemID:  item.ID,
				Field:   "time",
				Value:   item.Time,
				Message: fmt.Sprintf("time %q is not recognized and sorts last", item.Time),
			})
		}
		issues = append(issues, tokenIssues(item, ctx)...)
	}

	for _, item := range schedule.Orphans(doc.RunningOrder, doc.Categories) {
		issues = append(issues, Issue{
			Code:    IssueDanglingCategory,
			ItemID:  item.ID,
			Field:   "category",
			Value:   item.Category,
			Message: fmt.Sprintf("category %q does not exist; the item is not displayed", item.Category),
		})
	}

	for _, item := range doc.FanZone {
		if item.Time != "" && !timecode.IsRecognizedFanZone(item.Time) {
			issues = append(issues, Issue{
				Code:    IssueUnrecognizedFanZoneTime,
				ItemID:  item.ID,
				Field:   "time",
				Value:   item.Time,
				Message: fmt.Sprintf("fan-zone time %q is not recognized and sorts last", item.Time),
			})
		}
	}

	return ValidationReport{Valid: len(issues) == 0, Issues: issues}
}

func tokenIssues(item document.Item, ctx tokens.Context) []Issue {
	fields := []struct {
		name string
		text string
	}{
		{"title", item.Title},
		{"script1", item.Script1},
		{"script2", item.Script2},
		{"screen", item.Screen},
		{"notes", item.Notes},
	}

	var issues []Issue
	for _, f := range fields {
		for _, token := range tokens.Unresolved(f.text, ctx) {
			issue := Issue{ItemID: item.ID, Field: f.name, Value: token}
			if tokens.Known(token[1 : len(token)-1]) {
				issue.Code = IssueUnresolvedToken
				issue.Message = fmt.Sprintf("%s has no value for this document", token)
			} else {
				issue.Code = IssueUnknownToken
				issue.Message = fmt.Sprintf("%s is not a known token", token)
			}
			issues = append(issues, issue)
		}
	}
	return issues
}
