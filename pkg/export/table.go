// Package export renders report tables as CSV, printable HTML or XLSX
// documents with a fixed branded header and footer.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "pdf"
	FormatXLSX Format = "excel"
)

// ParseFormat accepts csv, pdf/html and excel/xlsx.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "pdf", "html":
		return FormatHTML, nil
	case "excel", "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q: use csv, pdf or excel", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// Table is a report: column labels plus rows keyed by FieldKey(label).
type Table struct {
	Title   string
	Columns []string
	Rows    []map[string]string
}

// Meta carries the branding stamped on every document.
type Meta struct {
	Brand       string
	GeneratedAt time.Time
}

// FieldKey maps a column label to its row key: lower-cased, whitespace removed.
// "Customer Name" becomes "customername".
func FieldKey(label string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, label)
}

// Values returns a row's cells in column order.
func (t Table) Values(row map[string]string) []string {
	out := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = row[FieldKey(col)]
	}
	return out
}

// Filename builds "<title>-<date>.<ext>" with the title slugged.
func Filename(title string, f Format, at time.Time) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			return '-'
		}
		return -1
	}, strings.TrimSpace(title))
	if slug == "" {
		slug = "report"
	}
	return fmt.Sprintf("%s-%s.%s", slug, at.Format("2006-01-02"), f.Extension())
}

// Write renders t in format f.
func Write(w io.Writer, f Format, t Table, m Meta) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, t, m)
	case FormatHTML:
		return WriteHTML(w, t, m)
	case FormatXLSX:
		return WriteXLSX(w, t, m)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

func generatedLine(m Meta) string {
	return "Generated: " + m.GeneratedAt.Format("January 2, 2006 3:04 PM")
}

func totalLine(t Table) string {
	return fmt.Sprintf("Total Records: %d", len(t.Rows))
}

func copyrightLine(m Meta) string {
	return fmt.Sprintf("© %d %s. All rights reserved.", m.GeneratedAt.Year(), m.Brand)
}
