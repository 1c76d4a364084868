package export

import (
	"html/template"
	"io"
)

var printTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - {{.Brand}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #1f2937; }
  .header { text-align: center; border-bottom: 3px solid #0e7490; padding-bottom: 12px; margin-bottom: 20px; }
  .header h1 { margin: 0; color: #0e7490; font-size: 24px; }
  .header h2 { margin: 6px 0 0; font-size: 18px; font-weight: normal; }
  .header p { margin: 4px 0 0; font-size: 12px; color: #6b7280; }
  table { width: 100%; border-collapse: collapse; font-size: 12px; }
  th { background: #0e7490; color: #fff; text-align: left; padding: 8px; }
  td { border-bottom: 1px solid #e5e7eb; padding: 6px 8px; }
  tr:nth-child(even) td { background: #f9fafb; }
  .footer { margin-top: 20px; text-align: center; font-size: 11px; color: #6b7280; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<div class="header">
  <h1>{{.Brand}}</h1>
  <h2>{{.Title}}</h2>
  <p>{{.Generated}}</p>
</div>
<table>
  <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
  {{- range .Rows}}
    <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
  {{- else}}
    <tr><td colspan="{{len .Columns}}">No records found.</td></tr>
  {{- end}}
  </tbody>
</table>
<div class="footer">
  <p>{{.Total}}</p>
  <p>{{.Copyright}}</p>
</div>
<script>window.onload = function () { window.print(); };</script>
</body>
</html>
`))

type printView struct {
	Brand     string
	Title     string
	Generated string
	Columns   []string
	Rows      [][]string
	Total     string
	Copyright string
}

// WriteHTML writes a self-contained document that opens the print dialog on
// load, which is how the "PDF" export is produced.
func WriteHTML(w io.Writer, t Table, m Meta) error {
	view := printView{
		Brand:     m.Brand,
		Title:     t.Title,
		Generated: generatedLine(m),
		Columns:   t.Columns,
		Rows:      make([][]string, 0, len(t.Rows)),
		Total:     totalLine(t),
		Copyright: copyrightLine(m),
	}
	for _, row := range t.Rows {
		view.Rows = append(view.Rows, t.Values(row))
	}
	return printTemplate.Execute(w, view)
}
