package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// PageQuery is one request against the restaurant listing endpoint.
type PageQuery struct {
	Page     int
	Limit    int
	Location string
}

// Normalize returns a sanitized copy applying defaults and bounds.
func (q PageQuery) Normalize() PageQuery {
	normalized := q
	if normalized.Page <= 0 {
		normalized.Page = 1
	}
	if normalized.Limit <= 0 {
		normalized.Limit = AggregatePageSize
	}
	if normalized.Limit > 100 {
		normalized.Limit = 100
	}
	normalized.Location = strings.TrimSpace(normalized.Location)
	return normalized
}

// CanonicalKey builds a stable cache key for the query.
func (q PageQuery) CanonicalKey() string {
	normalized := q.Normalize()
	var builder strings.Builder
	builder.Grow(len(normalized.Location) + 32)
	builder.WriteString("page=")
	builder.WriteString(strconv.Itoa(normalized.Page))
	builder.WriteString("&limit=")
	builder.WriteString(strconv.Itoa(normalized.Limit))
	if normalized.Location != "" {
		builder.WriteString("&location=")
		builder.WriteString(normalized.Location)
	}
	return builder.String()
}

// ToURLValues returns the query parameters for the REST call.
func (q PageQuery) ToURLValues() url.Values {
	normalized := q.Normalize()
	values := url.Values{}
	values.Set("page", strconv.Itoa(normalized.Page))
	values.Set("limit", strconv.Itoa(normalized.Limit))
	if normalized.Location != "" {
		values.Set("location", normalized.Location)
	}
	return values
}

// LocationParam renders the optional user location for PageQuery.Location.
func LocationParam(user *GeoPoint) string {
	if user == nil {
		return ""
	}
	return user.String()
}
