package domain

import (
	"time"
)

// Category is the garment slot an item occupies.
type Category string

// Garment categories. TOP, PANTS and SHOES are outfit slots; HAT is
// catalogued but never required for a complete outfit.
const (
	CategoryTop   Category = "TOP"
	CategoryPants Category = "PANTS"
	CategoryShoes Category = "SHOES"
	CategoryHat   Category = "HAT"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryTop, CategoryPants, CategoryShoes, CategoryHat:
		return true
	}
	return false
}

// Season buckets garments by the part of the year they suit.
type Season string

// Season buckets. SpringAutumn doubles as the transitional fallback:
// the recommender treats those items as eligible in any weather.
const (
	SeasonSpringAutumn Season = "SPRING_AUTUMN"
	SeasonSummer       Season = "SUMMER"
	SeasonWinter       Season = "WINTER"
)

// Valid reports whether s is a known season.
func (s Season) Valid() bool {
	switch s {
	case SeasonSpringAutumn, SeasonSummer, SeasonWinter:
		return true
	}
	return false
}

// Warmth bounds for the 1 (thinnest) to 5 (thickest) insulation rating.
const (
	WarmthMin = 1
	WarmthMax = 5
)

// Color is one of the fixed display palette values.
type Color string

// The fixed color palette.
const (
	ColorBlack  Color = "BLACK"
	ColorWhite  Color = "WHITE"
	ColorGray   Color = "GRAY"
	ColorRed    Color = "RED"
	ColorOrange Color = "ORANGE"
	ColorYellow Color = "YELLOW"
	ColorGreen  Color = "GREEN"
	ColorBlue   Color = "BLUE"
	ColorPurple Color = "PURPLE"
	ColorPink   Color = "PINK"
	ColorBrown  Color = "BROWN"
	ColorBeige  Color = "BEIGE"
)

// Palette returns the full fixed color palette in display order.
func Palette() []Color {
	return []Color{
		ColorBlack, ColorWhite, ColorGray, ColorRed, ColorOrange, ColorYellow,
		ColorGreen, ColorBlue, ColorPurple, ColorPink, ColorBrown, ColorBeige,
	}
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	for _, p := range Palette() {
		if c == p {
			return true
		}
	}
	return false
}

// ViewMode selects which half of the wardrobe the item list shows.
type ViewMode string

// View modes are mutually exclusive; InUse is the default.
const (
	ViewInUse  ViewMode = "IN_USE"
	ViewStored ViewMode = "STORED"
)

// ClothingItem is a single catalogued garment.
type ClothingItem struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`

	Description string `json:"description"`
	ImagePath   string `json:"image_path,omitempty"`
	BlurHash    string `json:"blur_hash,omitempty"`

	// Stored garments live in a box or closet and are hidden from the
	// in-use view; LocationID optionally says where.
	Stored     bool   `json:"stored"`
	LocationID string `json:"location_id,omitempty"`

	Category   Category `json:"category"`
	Warmth     int      `json:"warmth"` // 1..5, 1 = thinnest
	Season     Season   `json:"season"`
	Color      Color    `json:"color"`
	Waterproof bool     `json:"waterproof"`

	// OccasionTags is a comma-joined free-form secondary classification
	// shown on the item card. Not consulted by the recommender.
	OccasionTags string `json:"occasion_tags,omitempty"`

	// SizeLabel is free text containing a numeric size token, e.g. "128" or
	// "EU 31". Items without any digit are never flagged as outgrown.
	SizeLabel string `json:"size_label,omitempty"`

	Favorite bool `json:"favorite"`

	// LastWornAt is unix milliseconds; 0 means never worn. Updated only by
	// the mark-as-worn operation or outfit confirmation.
	LastWornAt int64 `json:"last_worn_at"`

	// CreatedAt is set once at first insert and preserved across edits.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (i *ClothingItem) Touch() {
	i.UpdatedAt = time.Now()
}

// NeverWorn reports whether the item has never been marked worn.
func (i *ClothingItem) NeverWorn() bool {
	return i.LastWornAt == 0
}

// WornSince reports whether the item was worn at or after the cutoff.
func (i *ClothingItem) WornSince(cutoff time.Time) bool {
	return i.LastWornAt != 0 && i.LastWornAt >= cutoff.UnixMilli()
}

// MarkWorn stamps the last-worn timestamp.
func (i *ClothingItem) MarkWorn(now time.Time) {
	i.LastWornAt = now.UnixMilli()
	i.UpdatedAt = now
}
