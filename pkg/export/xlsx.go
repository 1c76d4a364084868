package export

import (
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes a single-sheet workbook laid out like the CSV export:
// brand, title and timestamp rows, a styled column header, the data rows and
// the footer.
func WriteXLSX(w io.Writer, t Table, m Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return err
	}

	cols := len(t.Columns)
	if cols == 0 {
		cols = 1
	}
	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	brandStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Color: "0E7490"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0E7490"}},
	})
	if err != nil {
		return err
	}

	row := 1
	for _, line := range []string{m.Brand, t.Title, generatedLine(m)} {
		if err := writeMergedLine(f, sheet, row, cols, line, brandStyle); err != nil {
			return err
		}
		row++
	}
	row++ // blank separator

	headerCell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, headerCell, &t.Columns); err != nil {
		return err
	}
	headerEnd, _ := excelize.CoordinatesToCellName(cols, row)
	if err := f.SetCellStyle(sheet, headerCell, headerEnd, headerStyle); err != nil {
		return err
	}
	row++

	for _, r := range t.Rows {
		values := t.Values(r)
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		row++
	}
	row++

	for _, line := range []string{totalLine(t), copyrightLine(m)} {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet, cell, line); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return err
	}
	return f.Write(w)
}

func writeMergedLine(f *excelize.File, sheet string, row, cols int, text string, style int) error {
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(cols, row)
	if err := f.SetCellValue(sheet, start, text); err != nil {
		return err
	}
	if start != end {
		if err := f.MergeCell(sheet, start, end); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, start, end, style)
}

// sheetName trims title to Excel's 31 character limit and drops the
// characters Excel rejects in sheet names.
func sheetName(title string) string {
	out := make([]rune, 0, 31)
	for _, r := range title {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Report"
	}
	return string(out)
}
