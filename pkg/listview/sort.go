package listview

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type SortMode string

const (
	SortNone   SortMode = "none"
	SortNewest SortMode = "newest"
	SortOldest SortMode = "oldest"
)

// ParseSortMode maps a query value to a SortMode; empty yields fallback.
func ParseSortMode(s string, fallback SortMode) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return fallback, nil
	case SortNone:
		return SortNone, nil
	case SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	}
	return "", fmt.Errorf("sort must be one of: none, newest, oldest")
}

// Sort reorders items in place by the date field. SortNone leaves the input
// order untouched. Equal dates keep their relative order.
func Sort[T any](items []T, mode SortMode, field func(T) time.Time) []T {
	if field == nil {
		return items
	}
	switch mode {
	case SortNewest:
		slices.SortStableFunc(items, func(a, b T) int {
			return field(b).Compare(field(a))
		})
	case SortOldest:
		slices.SortStableFunc(items, func(a, b T) int {
			return field(a).Compare(field(b))
		})
	}
	return items
}
