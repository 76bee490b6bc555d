package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/sponsor-finder/internal/types"
)

func TestExtract_Classification(t *testing.T) {
	info := types.BusinessInfo{
		Title:       "Acme Sports",
		Snippet:     "Football gear for the whole family, based in Luxembourg. Join our community.",
		Description: "Quality sports equipment.",
		RawItems: []types.RawItem{
			{Title: "Acme Sports", Snippet: "Football gear for the whole family, based in Luxembourg. Join our community."},
			{Title: "Acme Sports overview", Snippet: "Quality sports equipment."},
		},
	}

	got := Extract("Acme", info)

	assert.Equal(t, "Sports Equipment", got.Industry)
	assert.Equal(t, "community", got.BrandVoice)
	assert.Equal(t, "families", got.Audience)
	assert.Equal(t, "Luxembourg", got.Geography)
	assert.Equal(t, "Acme Sports, Acme Sports overview", got.Services)
	assert.Equal(t, info.RawItems[0].Snippet, got.RelevantNotes)
}

func TestExtract_TableOrderWins(t *testing.T) {
	// "tech" (Technology) and "food" (Food & Beverage) both match; the earlier row wins.
	info := types.BusinessInfo{Description: "Food delivery tech startup"}

	assert.Equal(t, "Technology", Extract("Acme", info).Industry)
}

func TestExtract_Defaults(t *testing.T) {
	got := Extract("Acme", types.BusinessInfo{})

	assert.Equal(t, DefaultIndustry, got.Industry)
	assert.Equal(t, DefaultBrandVoice, got.BrandVoice)
	assert.Equal(t, DefaultAudience, got.Audience)
	assert.Equal(t, DefaultGeography, got.Geography)
	assert.Equal(t, "Acme solutions", got.Services)
	assert.Equal(t, "Limited public info about Acme", got.RelevantNotes)
}

func TestExtract_ServicesUseFirstThreeItems(t *testing.T) {
	info := types.BusinessInfo{RawItems: []types.RawItem{
		{Title: "One"}, {Title: ""}, {Title: "Three"}, {Title: "Four"},
	}}

	assert.Equal(t, "One, Three", Extract("Acme", info).Services)
}

func TestExtract_Geography(t *testing.T) {
	tests := []struct {
		name  string
		items []types.RawItem
		want  string
	}{
		{
			name:  "based in from later item",
			items: []types.RawItem{{Snippet: "Great shoes."}, {Snippet: "We are BASED IN Esch-sur-Alzette. Since 1990."}},
			want:  "Esch-sur-Alzette",
		},
		{
			name:  "city and state token",
			items: []types.RawItem{{Snippet: "Visit us in Austin, TX today"}},
			want:  "Austin, TX",
		},
		{
			name:  "city token only checked in first item",
			items: []types.RawItem{{Snippet: "Nothing here"}, {Snippet: "Austin, TX"}},
			want:  DefaultGeography,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract("Acme", types.BusinessInfo{RawItems: tt.items})
			assert.Equal(t, tt.want, got.Geography)
		})
	}
}

func TestExtract_NeverEmptyAndIdempotent(t *testing.T) {
	inputs := []types.BusinessInfo{
		{},
		{Title: "x"},
		{RawItems: []types.RawItem{{Snippet: "based in ."}}},
		{Description: "premium cloud platform for kids", RawItems: []types.RawItem{{Title: "Cloud"}}},
	}

	for _, info := range inputs {
		first := Extract("Acme", info)
		second := Extract("Acme", info)

		assert.Equal(t, first, second)
		assert.NotEmpty(t, first.Industry)
		assert.NotEmpty(t, first.Services)
		assert.NotEmpty(t, first.BrandVoice)
		assert.NotEmpty(t, first.Audience)
		assert.NotEmpty(t, first.Geography)
	}
}
