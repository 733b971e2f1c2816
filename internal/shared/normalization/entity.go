package normalization

import "strings"

// entityAliases maps the entity spellings seen on kafka events and websocket
// subscriptions to their canonical stream names.
var entityAliases = map[string]string{
	"":        "",
	"-":       "",
	"default": "",

	"cart":  "cart",
	"carts": "cart",

	"filter":  "filters",
	"filters": "filters",

	"listing":  "listing",
	"listings": "listing",

	"restaurant":  "restaurants",
	"restaurants": "restaurants",
	"resto":       "restaurants",

	"menu":  "menus",
	"menus": "menus",

	"order":        "orders",
	"orders":       "orders",
	"transaction":  "orders",
	"transactions": "orders",

	"system": "system",
}

var validEntities = map[string]bool{
	"cart":        true,
	"filters":     true,
	"listing":     true,
	"restaurants": true,
	"menus":       true,
	"orders":      true,
	"system":      true,
}

// NormalizeEntity converts entity name variants to their canonical form.
//
// Example:
//
//	NormalizeEntity("Restaurant") => "restaurants"
//	NormalizeEntity("transaction") => "orders"
func NormalizeEntity(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	normalized := strings.ReplaceAll(trimmed, "_", "-")

	if canonical, found := entityAliases[normalized]; found {
		return canonical
	}
	return normalized
}

// IsValidEntity checks if the given entity name is a known stream entity.
func IsValidEntity(raw string) bool {
	return validEntities[NormalizeEntity(raw)]
}
