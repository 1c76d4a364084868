package listview

import "strings"

// Query is one list request: free-text search, sort mode, the common date and
// amount ranges, paging, and any categorical filters by name.
type Query struct {
	Search    string
	Sort      SortMode
	Dates     DateRange
	Amounts   NumberRange
	Page      int
	PageSize  int
	FilterKey string
	Filters   map[string]string
}

// Value returns a categorical filter, or "" when it is unset or "all".
func (q Query) Value(name string) string {
	v := strings.TrimSpace(q.Filters[name])
	if strings.EqualFold(v, All) {
		return ""
	}
	return v
}

// Values splits a comma separated filter.
func (q Query) Values(name string) []string {
	v := q.Value(name)
	if v == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Reset returns to the first page. Changing any filter must reset.
func (q *Query) Reset() {
	q.Page = 1
}

// WithPageSize applies size when the query did not ask for one.
func (q Query) WithPageSize(size int) Query {
	if q.PageSize <= 0 {
		q.PageSize = size
	}
	return q
}
