// Package listview implements the filter, sort and paginate stages shared by
// every list endpoint. All functions are pure and operate on in-memory slices.
package listview

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// All is the categorical filter value that disables the filter.
const All = "all"

const dateOnly = "2006-01-02"

// Predicate reports whether an item passes a filter. A nil Predicate is
// inactive and matches everything.
type Predicate[T any] func(T) bool

// Filter keeps the items that satisfy every active predicate, preserving order.
func Filter[T any](items []T, predicates ...Predicate[T]) []T {
	out := make([]T, 0, len(items))
next:
	for _, item := range items {
		for _, p := range predicates {
			if p != nil && !p(item) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}

// MatchText matches when any of the fields contains search, ignoring case.
func MatchText[T any](search string, fields func(T) []string) Predicate[T] {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return nil
	}
	return func(item T) bool {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), needle) {
				return true
			}
		}
		return false
	}
}

// Equals matches a categorical field, ignoring case. Empty or "all" is inactive.
func Equals[T any](want string, field func(T) string) Predicate[T] {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, All) {
		return nil
	}
	return func(item T) bool {
		return strings.EqualFold(field(item), want)
	}
}

// OneOf matches when the field equals any of the wanted values.
func OneOf[T any](wanted []string, field func(T) string) Predicate[T] {
	if len(wanted) == 0 {
		return nil
	}
	return func(item T) bool {
		v := field(item)
		for _, w := range wanted {
			if strings.EqualFold(v, w) {
				return true
			}
		}
		return false
	}
}

// Contains matches when the list field holds want, ignoring case.
func Contains[T any](want string, field func(T) []string) Predicate[T] {
	want = strings.TrimSpace(want)
	if want == "" || strings.EqualFold(want, All) {
		return nil
	}
	return func(item T) bool {
		for _, v := range field(item) {
			if strings.EqualFold(v, want) {
				return true
			}
		}
		return false
	}
}

// DateRange is an inclusive range; a zero bound is unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// ParseDateRange accepts YYYY-MM-DD or RFC3339 bounds. A date-only upper
// bound covers the whole day.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var err error

	if from = strings.TrimSpace(from); from != "" {
		r.From, _, err = parseDate(from)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid from date %q: %w", from, err)
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		var dayOnly bool
		r.To, dayOnly, err = parseDate(to)
		if err != nil {
			return DateRange{}, fmt.Errorf("invalid to date %q: %w", to, err)
		}
		if dayOnly {
			r.To = r.To.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return DateRange{}, fmt.Errorf("from date %s is after to date %s", from, to)
	}
	return r, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}

// InDateRange matches when the date field falls within r.
func InDateRange[T any](r DateRange, field func(T) time.Time) Predicate[T] {
	if r.IsZero() {
		return nil
	}
	return func(item T) bool {
		return r.Contains(field(item))
	}
}

// NumberRange is an inclusive numeric range; nil bounds are unbounded.
type NumberRange struct {
	Min *float64
	Max *float64
}

func (r NumberRange) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

func (r NumberRange) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

func ParseNumberRange(minStr, maxStr string) (NumberRange, error) {
	var r NumberRange
	if minStr = strings.TrimSpace(minStr); minStr != "" {
		v, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return NumberRange{}, fmt.Errorf("invalid minimum %q", minStr)
		}
		r.Min = &v
	}
	if maxStr = strings.TrimSpace(maxStr); maxStr != "" {
		v, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return NumberRange{}, fmt.Errorf("invalid maximum %q", maxStr)
		}
		r.Max = &v
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return NumberRange{}, fmt.Errorf("minimum %s is greater than maximum %s", minStr, maxStr)
	}
	return r, nil
}

func InNumberRange[T any](r NumberRange, field func(T) float64) Predicate[T] {
	if r.IsZero() {
		return nil
	}
	return func(item T) bool {
		return r.Contains(field(item))
	}
}
