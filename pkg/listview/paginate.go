package listview

import (
	"hash/fnv"
	"sort"
	"strconv"
	"time"
)

// maxVisibleLinks is the page count up to which every page number is shown.
const maxVisibleLinks = 7

type Page[T any] struct {
	Items      []T        `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	From       int        `json:"from"`
	To         int        `json:"to"`
	Links      []PageLink `json:"links"`
	FilterKey  string     `json:"filter_key,omitempty"`
}

// PageLink is one entry of the pagination control: a page number or a gap.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// TotalPages never returns less than 1 so an empty list still renders one page.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Bounds returns the 1-based "Showing from-to of total" numbers, or 0, 0 when
// the page holds nothing.
func Bounds(page, pageSize, totalItems int) (from, to int) {
	if page < 1 || pageSize <= 0 || totalItems <= 0 {
		return 0, 0
	}
	from = (page-1)*pageSize + 1
	if from > totalItems {
		return 0, 0
	}
	to = min(page*pageSize, totalItems)
	return from, to
}

// Paginate slices one page out of items. Pages past the end are empty.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = max(len(items), 1)
	}

	total := len(items)
	start := (page - 1) * pageSize
	window := []T{}
	if start < total {
		end := min(start+pageSize, total)
		window = items[start:end]
	}

	totalPages := TotalPages(total, pageSize)
	from, to := Bounds(page, pageSize, total)

	return Page[T]{
		Items:      window,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
		From:       from,
		To:         to,
		Links:      PageLinks(page, totalPages),
	}
}

// PageLinks builds the pagination control. Up to seven pages are all listed;
// beyond that the first and last page stay visible and gaps collapse to an
// ellipsis around a window that depends on where current sits.
func PageLinks(current, totalPages int) []PageLink {
	if totalPages < 1 {
		totalPages = 1
	}

	var numbers []int
	switch {
	case totalPages <= maxVisibleLinks:
		for i := 1; i <= totalPages; i++ {
			numbers = append(numbers, i)
		}
	case current <= 4:
		numbers = []int{1, 2, 3, 4, 5, 0, totalPages}
	case current >= totalPages-3:
		numbers = []int{1, 0, totalPages - 4, totalPages - 3, totalPages - 2, totalPages - 1, totalPages}
	default:
		numbers = []int{1, 0, current - 1, current, current + 1, 0, totalPages}
	}

	links := make([]PageLink, 0, len(numbers))
	for _, n := range numbers {
		if n == 0 {
			links = append(links, PageLink{Ellipsis: true})
			continue
		}
		links = append(links, PageLink{Number: n, Current: n == current})
	}
	return links
}

// Spec bundles the filter and sort stages for one list query.
type Spec[T any] struct {
	Predicates []Predicate[T]
	Sort       SortMode
	SortField  func(T) time.Time
}

// Apply runs filter then sort and returns every matching item.
func (s Spec[T]) Apply(items []T) []T {
	return Sort(Filter(items, s.Predicates...), s.Sort, s.SortField)
}

// Page runs filter, sort and paginate.
func (s Spec[T]) Page(items []T, page, pageSize int) Page[T] {
	return Paginate(s.Apply(items), page, pageSize)
}

// FilterKey fingerprints the active filter values so a client can send back
// the key it last saw; a different key means the filters changed.
func FilterKey(filters map[string]string) string {
	keys := make([]string, 0, len(filters))
	for k, v := range filters {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		_, _ = h.Write([]byte(k))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(filters[k]))
		_, _ = h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 36)
}

// ResolvePage returns 1 whenever the filters changed since previousKey was
// issued, otherwise the requested page.
func ResolvePage(requested int, previousKey, currentKey string) int {
	if requested < 1 {
		return 1
	}
	if previousKey != "" && previousKey != currentKey {
		return 1
	}
	return requested
}
