package domain

// Outfit is an ephemeral top/pants/shoes suggestion. It is never persisted;
// confirming an outfit only stamps the three items' last-worn timestamps.
type Outfit struct {
	Top   *ClothingItem `json:"top"`
	Pants *ClothingItem `json:"pants"`
	Shoes *ClothingItem `json:"shoes"`
}

// Complete reports whether all three slots are populated.
func (o *Outfit) Complete() bool {
	return o != nil && o.Top != nil && o.Pants != nil && o.Shoes != nil
}

// Ref returns the identity triple for anti-repeat comparison.
func (o *Outfit) Ref() OutfitRef {
	var r OutfitRef
	if o == nil {
		return r
	}
	if o.Top != nil {
		r.TopID = o.Top.ID
	}
	if o.Pants != nil {
		r.PantsID = o.Pants.ID
	}
	if o.Shoes != nil {
		r.ShoesID = o.Shoes.ID
	}
	return r
}

// OutfitRef identifies a previously shown outfit by its slot item ids.
// Used to avoid suggesting the identical combination on a re-roll.
type OutfitRef struct {
	TopID   string `json:"top_id"`
	PantsID string `json:"pants_id"`
	ShoesID string `json:"shoes_id"`
}

// Zero reports whether the ref carries no item ids at all.
func (r OutfitRef) Zero() bool {
	return r.TopID == "" && r.PantsID == "" && r.ShoesID == ""
}

// Matches reports whether an outfit uses exactly the referenced items in
// all three slots.
func (r OutfitRef) Matches(top, pants, shoes *ClothingItem) bool {
	return top.ID == r.TopID && pants.ID == r.PantsID && shoes.ID == r.ShoesID
}
