package domain

import (
	"fmt"
	"strings"

	filters "storefrontWs/internal/modules/filters/domain"
)

// Mode is the fetch strategy for one render of a listing.
type Mode string

const (
	ModeSearch  Mode = "search"
	ModeFaceted Mode = "faceted"
	ModePlain   Mode = "plain"
)

// SelectMode picks exactly one strategy: search text wins over facets, facets over plain paging.
func SelectMode(state filters.State) Mode {
	switch {
	case state.HasSearch():
		return ModeSearch
	case state.HasActiveFacets():
		return ModeFaceted
	default:
		return ModePlain
	}
}

// Multi-page modes fetch at most this many pages of this size.
const (
	AggregatePageLimit = 5
	AggregatePageSize  = 12
)

// Context identifies the page hosting a listing.
type Context string

const (
	ContextHome     Context = "home"
	ContextCategory Context = "category"
)

// ParseContext accepts "home" and "category".
func ParseContext(raw string) (Context, error) {
	switch Context(strings.ToLower(strings.TrimSpace(raw))) {
	case ContextHome:
		return ContextHome, nil
	case ContextCategory:
		return ContextCategory, nil
	default:
		return "", fmt.Errorf("unknown listing context %q", raw)
	}
}

// PlainPageSize is the page size used by plain pagination in this context.
func (c Context) PlainPageSize() int {
	if c == ContextCategory {
		return 10
	}
	return 12
}
