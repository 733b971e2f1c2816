package domain

import "strings"

// Preset names accepted by ApplyPreset.
const (
	PresetNearby     = "nearby"
	PresetDiscount   = "discount"
	PresetBestseller = "bestseller"
)

// DiscountPriceCeiling is the price-max applied by the discount preset.
const DiscountPriceCeiling = "50000"

// PresetActions expands a quick-filter link into filter actions. Every preset starts from
// ClearFilters; unknown presets yield nil.
func PresetActions(preset string) []Action {
	var extra Action
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case PresetNearby:
		extra = ToggleDistance{Bucket: Distance1Km}
	case PresetDiscount:
		extra = SetPriceMax{Value: DiscountPriceCeiling}
	case PresetBestseller:
		extra = ToggleRating{Bucket: 4}
	default:
		return nil
	}
	return []Action{ClearFilters{}, extra}
}
