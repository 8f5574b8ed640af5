package sizing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func TestRecommend_GenderTokens(t *testing.T) {
	for _, token := range []string{"male", "M", "  Boy ", "JUNGE"} {
		_, ok := Recommend(token, 6)
		assert.True(t, ok, "token %q should be recognized as male", token)
	}
	for _, token := range []string{"female", "f", "Girl", "fille"} {
		_, ok := Recommend(token, 6)
		assert.True(t, ok, "token %q should be recognized as female", token)
	}
	for _, token := range []string{"", "robot", "x"} {
		_, ok := Recommend(token, 6)
		assert.False(t, ok, "token %q should yield no recommendation", token)
	}
}

func TestRecommend_Sizes(t *testing.T) {
	// Six-year-old boy: reference height 116cm -> garment 120, shoe floor(116*0.2325+1) = 27.
	rec, ok := Recommend("male", 6)
	require.True(t, ok)
	assert.Equal(t, 120, rec.Top)
	assert.Equal(t, rec.Top, rec.Pants, "top and pants share a size number")
	assert.Equal(t, 27, rec.Shoes)

	// Ten-year-old girl: 139cm -> garment 140, shoe floor(139*0.2325+1) = 33.
	rec, ok = Recommend("girl", 10)
	require.True(t, ok)
	assert.Equal(t, 140, rec.Top)
	assert.Equal(t, 33, rec.Shoes)
}

func TestRecommend_AgeBounds(t *testing.T) {
	_, ok := Recommend("male", -1)
	assert.False(t, ok)
	_, ok = Recommend("male", 19)
	assert.False(t, ok)
	_, ok = Recommend("male", 0)
	assert.True(t, ok)
	_, ok = Recommend("male", 18)
	assert.True(t, ok)
}

func TestAgeOf(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// Static fallback when no birth date.
	assert.Equal(t, 7, AgeOf(&domain.Member{Age: 7}, now))

	// Birth date authoritative even when static age disagrees.
	birth := time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 6, AgeOf(&domain.Member{Age: 12, BirthDate: &birth}, now))

	// Clamped to [0, 18].
	future := now.AddDate(1, 0, 0)
	assert.Equal(t, 0, AgeOf(&domain.Member{BirthDate: &future}, now))
	old := now.AddDate(-40, 0, 0)
	assert.Equal(t, AdultAge, AgeOf(&domain.Member{BirthDate: &old}, now))
}

func TestExtractSize(t *testing.T) {
	tests := []struct {
		label  string
		want   int
		wantOK bool
	}{
		{"128", 128, true},
		{"EU 31", 31, true},
		{"size 104/110", 104, true},
		{"", 0, false},
		{"one-size", 0, false},
		{"M", 0, false},
	}
	for _, tt := range tests {
		got, ok := ExtractSize(tt.label)
		assert.Equal(t, tt.wantOK, ok, "label %q", tt.label)
		assert.Equal(t, tt.want, got, "label %q", tt.label)
	}
}

func TestOutdatedIDs(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	member := &domain.Member{ID: "mem-1", Gender: "male", Age: 6} // top/pants 120, shoes 27

	items := []*domain.ClothingItem{
		{ID: "itm-small-top", Category: domain.CategoryTop, SizeLabel: "110"},
		{ID: "itm-fits-top", Category: domain.CategoryTop, SizeLabel: "122"},
		{ID: "itm-small-shoes", Category: domain.CategoryShoes, SizeLabel: "EU 25"},
		{ID: "itm-small-hat", Category: domain.CategoryHat, SizeLabel: "48"},
		{ID: "itm-no-digits", Category: domain.CategoryPants, SizeLabel: "one-size"},
	}

	got := OutdatedIDs(items, member, now)
	assert.Contains(t, got, "itm-small-top")
	assert.Contains(t, got, "itm-small-shoes")
	assert.NotContains(t, got, "itm-fits-top")
	assert.NotContains(t, got, "itm-small-hat", "HAT is never flagged")
	assert.NotContains(t, got, "itm-no-digits")

	assert.Equal(t, len(got), CountOutdated(items, member, now),
		"batch count and live set must agree")
}

func TestOutdatedIDs_AdultsExempt(t *testing.T) {
	now := time.Now()
	adult := &domain.Member{ID: "mem-adult", Gender: "female", Age: 34}

	items := []*domain.ClothingItem{
		{ID: "itm-1", Category: domain.CategoryTop, SizeLabel: "1"},
		{ID: "itm-2", Category: domain.CategoryShoes, SizeLabel: "2"},
	}

	assert.Empty(t, OutdatedIDs(items, adult, now))
	assert.Zero(t, CountOutdated(items, adult, now))
}

func TestOutdatedIDs_UnknownGender(t *testing.T) {
	now := time.Now()
	member := &domain.Member{ID: "mem-1", Gender: "unspecified", Age: 6}
	items := []*domain.ClothingItem{
		{ID: "itm-1", Category: domain.CategoryTop, SizeLabel: "50"},
	}
	assert.Empty(t, OutdatedIDs(items, member, now))
}
