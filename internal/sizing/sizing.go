// Package sizing maps a member's age and gender to recommended garment
// sizes and flags items the member has likely outgrown.
package sizing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// AdultAge is the age at which outgrown detection stops applying.
const AdultAge = 18

// millisPerYear is the average year length used for age derivation.
const millisPerYear = 365.25 * 24 * 60 * 60 * 1000

// Reference heights in cm per whole year of age, index 0..18.
// Values follow common growth-chart averages; we only need the rounded
// garment size, so chart-to-chart variance of a centimeter or two is noise.
var (
	boyHeights = [AdultAge + 1]int{
		50, 76, 88, 96, 103, 110, 116, 122, 128, 133,
		139, 144, 150, 157, 164, 170, 173, 175, 176,
	}
	girlHeights = [AdultAge + 1]int{
		49, 74, 86, 95, 102, 109, 115, 121, 127, 133,
		139, 145, 152, 157, 160, 162, 163, 163, 163,
	}
)

// Gender token sets. The app accepts free text in several languages; any
// unrecognized token means "no recommendation" rather than an error.
var (
	maleTokens = map[string]bool{
		"male": true, "m": true, "boy": true, "man": true,
		"junge": true, "garçon": true, "garcon": true, "niño": true, "nino": true,
	}
	femaleTokens = map[string]bool{
		"female": true, "f": true, "girl": true, "woman": true,
		"mädchen": true, "madchen": true, "fille": true, "niña": true, "nina": true,
	}
)

var digitsRe = regexp.MustCompile(`\d+`)

// Recommendation holds the recommended numeric sizes per outfit slot.
// Top and pants share a size number, mirroring children's sizing charts.
type Recommendation struct {
	Top   int `json:"top"`
	Pants int `json:"pants"`
	Shoes int `json:"shoes"`
}

// SizeFor returns the recommended size for a garment category, or 0 for
// categories without a size ceiling (HAT and anything unknown).
func (r Recommendation) SizeFor(c domain.Category) int {
	switch c {
	case domain.CategoryTop:
		return r.Top
	case domain.CategoryPants:
		return r.Pants
	case domain.CategoryShoes:
		return r.Shoes
	default:
		return 0
	}
}

// Recommend computes sizes for a gender token and an age in whole years.
// The second return is false when the gender token is unrecognized or the
// age falls outside the reference tables.
func Recommend(gender string, age int) (Recommendation, bool) {
	if age < 0 || age > AdultAge {
		return Recommendation{}, false
	}

	var height int
	switch token := strings.ToLower(strings.TrimSpace(gender)); {
	case maleTokens[token]:
		height = boyHeights[age]
	case femaleTokens[token]:
		height = girlHeights[age]
	default:
		return Recommendation{}, false
	}

	// Garment size is the height rounded to the nearest multiple of ten.
	garment := int(math.Round(float64(height)/10.0)) * 10
	shoe := int(math.Floor(float64(height)*0.155*1.5 + 1))

	return Recommendation{Top: garment, Pants: garment, Shoes: shoe}, true
}

// AgeOf derives a member's age in whole years. A birth date is
// authoritative when present, clamped to [0, AdultAge]; otherwise the
// stored static age is used as-is.
func AgeOf(m *domain.Member, now time.Time) int {
	if m.BirthDate == nil {
		return m.Age
	}
	years := int(float64(now.Sub(*m.BirthDate).Milliseconds()) / millisPerYear)
	return min(max(years, 0), AdultAge)
}

// ExtractSize pulls the first run of digits out of a size label.
// "EU 31" yields 31; a label without digits yields ok=false.
func ExtractSize(label string) (int, bool) {
	match := digitsRe.FindString(label)
	if match == "" {
		return 0, false
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsOutdated is the single shared outgrown predicate: the item's labeled
// size is strictly below the recommendation for its category. Items
// without a sized category or a parseable label are never flagged.
func IsOutdated(item *domain.ClothingItem, rec Recommendation) bool {
	want := rec.SizeFor(item.Category)
	if want == 0 {
		return false
	}
	size, ok := ExtractSize(item.SizeLabel)
	if !ok {
		return false
	}
	return size < want
}

// OutdatedIDs applies IsOutdated across a member's items and returns the
// flagged ids. Adults (derived age >= AdultAge) always yield an empty set.
func OutdatedIDs(items []*domain.ClothingItem, m *domain.Member, now time.Time) map[string]struct{} {
	out := make(map[string]struct{})
	age := AgeOf(m, now)
	if age >= AdultAge {
		return out
	}
	rec, ok := Recommend(m.Gender, age)
	if !ok {
		return out
	}
	for _, item := range items {
		if IsOutdated(item, rec) {
			out[item.ID] = struct{}{}
		}
	}
	return out
}

// CountOutdated is the batch counterpart of OutdatedIDs; both sides of the
// UI (live badge and settings screen count) go through the same predicate.
func CountOutdated(items []*domain.ClothingItem, m *domain.Member, now time.Time) int {
	return len(OutdatedIDs(items, m, now))
}
