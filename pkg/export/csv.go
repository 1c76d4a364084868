package export

import (
	"encoding/csv"
	"io"
)

// utf8BOM makes spreadsheet applications detect UTF-8 (peso signs, accents).
const utf8BOM = "\uFEFF"

// WriteCSV writes the header block, a column row, one line per row and the
// footer block.
func WriteCSV(w io.Writer, t Table, m Meta) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	records := [][]string{
		{m.Brand},
		{t.Title},
		{generatedLine(m)},
		{""},
		t.Columns,
	}
	for _, row := range t.Rows {
		records = append(records, t.Values(row))
	}
	records = append(records,
		[]string{""},
		[]string{totalLine(t)},
		[]string{copyrightLine(m)},
	)

	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// CSVHeaderLines and CSVFooterLines count the boilerplate around data rows.
const (
	CSVHeaderLines = 5
	CSVFooterLines = 3
)
