package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItem_SetAudioSourcesKeepsOptionInSync(t *testing.T) {
	t.Parallel()

	item := NewItem("item-1", "cat-1")
	assert.Equal(t, NoAudio, item.AudioOption)
	assert.Empty(t, item.AudioSources)
	assert.True(t, item.Active)
	assert.Equal(t, MaterialOther, item.Material)

	item.SetAudioSources([]string{" Mic 1 ", "", "PA", "Mic 1"})
	assert.Equal(t, []string{"Mic 1", "PA"}, item.AudioSources)
	assert.Equal(t, "Mic 1, PA", item.AudioOption)

	item.SetAudioSources(nil)
	assert.Equal(t, NoAudio, item.AudioOption)
	assert.NotNil(t, item.AudioSources)
}

func TestItem_SetAudioSourcesIgnoresNoAudioLabel(t *testing.T) {
	t.Parallel()

	item := NewItem("item-1", "cat-1")
	item.SetAudioSources([]string{"No audio"})
	assert.Empty(t, item.AudioSources)
	assert.Equal(t, NoAudio, item.AudioOption)
	assert.Equal(t, item.AudioSources, ParseAudioOption(item.AudioOption))

	item.SetAudioSources([]string{"no AUDIO", "PA"})
	assert.Equal(t, []string{"PA"}, item.AudioSources)
	assert.Equal(t, item.AudioSources, ParseAudioOption(item.AudioOption))
}

func TestParseAudioOption(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseAudioOption("No audio"))
	assert.Empty(t, ParseAudioOption("no AUDIO"))
	assert.Empty(t, ParseAudioOption("  "))
	assert.Equal(t, []string{"Mic 1", "Playback"}, ParseAudioOption("Mic 1,Playback, "))
	assert.Equal(t, "Mic 1, Playback", AudioOptionFor(ParseAudioOption("Mic 1,Playback")))
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MaterialVideo, ParseMaterial("VIDEO"))
	assert.Equal(t, MaterialAudio, ParseMaterial(" audio"))
	assert.Equal(t, MaterialOther, ParseMaterial("hologram"))
	assert.Equal(t, FanZoneMusic, ParseFanZoneType("Music"))
	assert.Equal(t, FanZoneEntertainment, ParseFanZoneType(""))
}

func TestDocumentLookupsAndClone(t *testing.T) {
	t.Parallel()

	doc := Empty()
	doc.Competition.Stadiums = append(doc.Competition.Stadiums, Stadium{ID: "s1", Name1: "North"})
	doc.Competition.Teams = append(doc.Competition.Teams, Team{ID: "t1", Name1: "Reds"})
	doc.Categories = append(doc.Categories, Category{ID: "c1", Name: "Pre-match"})
	item := NewItem("i1", "c1")
	item.SetAudioSources([]string{"PA"})
	doc.RunningOrder = append(doc.RunningOrder, item)

	s, ok := doc.StadiumByID("s1")
	require.True(t, ok)
	assert.Equal(t, "North", s.Name1)
	_, ok = doc.TeamByID("")
	assert.False(t, ok)
	_, ok = doc.CategoryByID("c1")
	assert.True(t, ok)
	assert.Equal(t, 0, doc.ItemIndex("i1"))
	assert.Equal(t, -1, doc.ItemIndex("missing"))

	clone := doc.Clone()
	clone.RunningOrder[0].AudioSources[0] = "changed"
	clone.Categories[0].Name = "changed"
	assert.Equal(t, "PA", doc.RunningOrder[0].AudioSources[0])
	assert.Equal(t, "Pre-match", doc.Categories[0].Name)
}
