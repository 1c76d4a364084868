package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "bondvoyage/pkg/errors"
	"bondvoyage/pkg/export"
	"bondvoyage/pkg/listview"
)

type SuccessResponse struct {
	Data any `json:"data"`
}

type Pagination struct {
	TotalItems int                 `json:"total_items"`
	TotalPages int                 `json:"total_pages"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	From       int                 `json:"from"`
	To         int                 `json:"to"`
	Links      []listview.PageLink `json:"links"`
	FilterKey  string              `json:"filter_key,omitempty"`
}

type PaginatedResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err as an ErrorResponse. Errors outside the AppError
// taxonomy become a generic 500 so internals never leak.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), appErr.Response())
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePage[T any](w http.ResponseWriter, page listview.Page[T]) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data: page.Items,
		Pagination: Pagination{
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages,
			Page:       page.Page,
			PageSize:   page.PageSize,
			From:       page.From,
			To:         page.To,
			Links:      page.Links,
			FilterKey:  page.FilterKey,
		},
	})
}

// ExportObserver counts rendered exports. *metrics.Metrics satisfies it.
type ExportObserver interface {
	ExportRendered(resource, format string)
}

// WriteExport renders the whole document before sending headers so a
// rendering failure still produces a JSON error.
func WriteExport(w http.ResponseWriter, format export.Format, table export.Table, meta export.Meta) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, table, meta); err != nil {
		if writeErr := WriteError(w, apperrors.Internal("Failed to render export", err)); writeErr != nil {
			return writeErr
		}
		return fmt.Errorf("failed to render %s export: %w", format, err)
	}

	disposition := "attachment"
	if format == export.FormatHTML {
		disposition = "inline"
	}
	filename := export.Filename(table.Title, format, meta.GeneratedAt)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, err := io.Copy(w, &buf)
	return err
}
