package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/export"
	"bondvoyage/pkg/listview"
)

// ParseListQuery reads the query string shared by every list and export
// endpoint: search, sort, from/to, min_amount/max_amount, page,
// page_size, filter_key and the named categorical filters. The page resets to
// 1 when the filters differ from the ones filter_key was issued for.
func ParseListQuery(r *http.Request, defaultSort listview.SortMode, filters ...string) (listview.Query, error) {
	query := r.URL.Query()
	q := listview.Query{Filters: map[string]string{}}

	q.Search = strings.TrimSpace(query.Get("search"))

	sortMode, err := listview.ParseSortMode(query.Get("sort"), defaultSort)
	if err != nil {
		return q, apperrors.InvalidInput(err.Error())
	}
	q.Sort = sortMode

	if q.Dates, err = listview.ParseDateRange(query.Get("from"), query.Get("to")); err != nil {
		return q, apperrors.InvalidInput(err.Error())
	}
	if q.Amounts, err = listview.ParseNumberRange(query.Get("min_amount"), query.Get("max_amount")); err != nil {
		return q, apperrors.InvalidInput(err.Error())
	}

	if q.Page, err = intParam(query.Get("page"), "page"); err != nil {
		return q, err
	}
	if q.PageSize, err = intParam(query.Get("page_size"), "page_size"); err != nil {
		return q, err
	}

	fingerprint := map[string]string{
		"search":     q.Search,
		"sort":       string(q.Sort),
		"from":       query.Get("from"),
		"to":         query.Get("to"),
		"min_amount": query.Get("min_amount"),
		"max_amount": query.Get("max_amount"),
	}
	for _, name := range filters {
		v := strings.TrimSpace(query.Get(name))
		q.Filters[name] = v
		if !strings.EqualFold(v, listview.All) {
			fingerprint[name] = v
		}
	}

	q.FilterKey = listview.FilterKey(fingerprint)
	if page := listview.ResolvePage(q.Page, query.Get("filter_key"), q.FilterKey); page != q.Page {
		q.Reset()
	}

	return q, nil
}

func intParam(s, name string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return v, nil
}

// ExportFormat reads the format query parameter.
func ExportFormat(r *http.Request) (export.Format, error) {
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}
	return f, nil
}

// DecodeJSON decodes a single JSON object and rejects unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.PayloadTooLarge(maxErr.Limit)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("Request body is empty")
		default:
			return apperrors.InvalidInput("Invalid JSON body: " + err.Error())
		}
	}
	if dec.More() {
		return apperrors.InvalidInput("Request body must contain a single JSON object")
	}
	return nil
}
