// Package recommend selects a weather-appropriate outfit from a member's
// items. The engine is pure: it never mutates items or talks to storage,
// and last-worn stamping on confirmation is the caller's job.
package recommend

import (
	"math/rand/v2"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// Reason explains the engine's result to the UI. The three failure codes
// are distinct because each renders different guidance text.
type Reason string

// Result reason codes.
const (
	ReasonBasic           Reason = "BASIC"
	ReasonAvoidingRecent  Reason = "AVOIDING_RECENT"
	ReasonNoMatch         Reason = "NO_MATCH"
	ReasonMissingCategory Reason = "MISSING_CATEGORY"
	ReasonNoCombinations  Reason = "NO_COMBINATIONS"
)

// RecencyWindow is how long after wearing an item the engine tries to
// avoid suggesting it again.
const RecencyWindow = 3 * 24 * time.Hour

// Result is the engine's output: either a complete outfit with a success
// reason, or a nil outfit with one of the failure reasons.
type Result struct {
	Outfit     *domain.Outfit `json:"outfit"`
	Reason     Reason         `json:"reason"`
	CanRefresh bool           `json:"can_refresh"`
}

// Engine picks outfits. Safe for sequential reuse; the random source is
// injected so tests can pin selection.
type Engine struct {
	rng *rand.Rand
}

// New creates an engine seeded from the system source.
func New() *Engine {
	return &Engine{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewWithRand creates an engine with a caller-supplied random source.
func NewWithRand(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// TargetWarmth maps apparent temperature to the minimum warmth level.
func TargetWarmth(apparent float64) int {
	switch {
	case apparent <= -10:
		return 5
	case apparent <= 0:
		return 4
	case apparent <= 10:
		return 3
	case apparent <= 18:
		return 2
	default:
		return 1
	}
}

// TargetSeason maps apparent temperature to the season bucket to dress for.
func TargetSeason(apparent float64) domain.Season {
	switch {
	case apparent <= 5:
		return domain.SeasonWinter
	case apparent <= 18:
		return domain.SeasonSpringAutumn
	default:
		return domain.SeasonSummer
	}
}

// IsRainCode reports whether a WMO weather code means drizzle, rain or
// rain showers.
func IsRainCode(code int) bool {
	return (code >= 51 && code <= 67) || (code >= 80 && code <= 82)
}

type combination struct {
	top, pants, shoes *domain.ClothingItem
}

// Recommend derives a target from the weather, filters the member's items
// down to weather-eligible candidates, prefers not-recently-worn ones,
// enumerates top/pants/shoes combinations, drops an exact repeat of last
// when alternatives exist, and picks uniformly at random.
func (e *Engine) Recommend(weather *domain.Weather, items []*domain.ClothingItem, last domain.OutfitRef, now time.Time) Result {
	minWarmth := TargetWarmth(weather.Apparent) - 1 // one-level tolerance band
	season := TargetSeason(weather.Apparent)
	rainy := IsRainCode(weather.Code)

	// Weather-eligible pool. SPRING_AUTUMN items are transitional and
	// always season-eligible.
	var eligible []*domain.ClothingItem
	for _, item := range items {
		if item.Warmth < minWarmth {
			continue
		}
		if item.Season != season && item.Season != domain.SeasonSpringAutumn {
			continue
		}
		if rainy && !item.Waterproof {
			continue
		}
		eligible = append(eligible, item)
	}
	if len(eligible) == 0 {
		return Result{Reason: ReasonNoMatch}
	}

	// Prefer items never worn or worn before the recency cutoff. The reason
	// only reports the avoidance when it actually excluded something; a
	// wardrobe of never-worn items is a plain BASIC pick.
	cutoff := now.Add(-RecencyWindow)
	var fresh []*domain.ClothingItem
	for _, item := range eligible {
		if !item.WornSince(cutoff) {
			fresh = append(fresh, item)
		}
	}
	pool := eligible
	reason := ReasonBasic
	if len(fresh) > 0 && len(fresh) < len(eligible) {
		pool = fresh
		reason = ReasonAvoidingRecent
	}

	var tops, pants, shoes []*domain.ClothingItem
	for _, item := range pool {
		switch item.Category {
		case domain.CategoryTop:
			tops = append(tops, item)
		case domain.CategoryPants:
			pants = append(pants, item)
		case domain.CategoryShoes:
			shoes = append(shoes, item)
		}
	}
	if len(tops) == 0 || len(pants) == 0 || len(shoes) == 0 {
		return Result{Reason: ReasonMissingCategory}
	}

	combos := make([]combination, 0, len(tops)*len(pants)*len(shoes))
	for _, t := range tops {
		for _, p := range pants {
			for _, s := range shoes {
				combos = append(combos, combination{top: t, pants: p, shoes: s})
			}
		}
	}
	if len(combos) == 0 {
		// Unreachable given the category check, but kept as a guard.
		return Result{Reason: ReasonNoCombinations}
	}

	// Drop the exact previous outfit unless it is the only option.
	if !last.Zero() {
		kept := make([]combination, 0, len(combos))
		for _, c := range combos {
			if !last.Matches(c.top, c.pants, c.shoes) {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			combos = kept
		}
	}

	pick := combos[e.rng.IntN(len(combos))]
	return Result{
		Outfit:     &domain.Outfit{Top: pick.top, Pants: pick.pants, Shoes: pick.shoes},
		Reason:     reason,
		CanRefresh: len(combos) > 1,
	}
}
