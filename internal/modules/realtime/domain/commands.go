package domain

import "encoding/json"

// Websocket command actions handled by the storefront.
const (
	CommandSnapshot      = "snapshot"
	CommandCart          = "cart"
	CommandFilters       = "filters"
	CommandListing       = "listing"
	CommandListingMore   = "listing.more"
	CommandFiltersPreset = "filters.preset"
)

// SnapshotCommand asks for the current state of one scope ("cart", "filters", "listing") or all when empty.
type SnapshotCommand struct {
	Scope   string `json:"scope,omitempty"`
	Context string `json:"context,omitempty"`
}

// StateActionCommand carries one reducer action in its wire form.
type StateActionCommand struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ListingCommand refreshes or extends a listing context.
type ListingCommand struct {
	Context   string   `json:"context"`
	Latitude  *float64 `json:"lat,omitempty"`
	Longitude *float64 `json:"long,omitempty"`
}

// PresetCommand applies a category preset.
type PresetCommand struct {
	Preset string `json:"preset"`
}
