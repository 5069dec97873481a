package docfill

import (
	docxml "github.com/docfill/go-docfill/pkg/docfill/xml"
)

// asMatrix normalizes a table token value into formatted cell text. The
// first row fixes the column count; longer rows are truncated to it and a
// shorter row disqualifies the value. A value that is not a non-empty list
// of lists reports ok=false and the insertion is skipped silently.
func asMatrix(v interface{}) ([][]string, bool) {
	rawRows, ok := asRows(v)
	if !ok || len(rawRows) == 0 {
		return nil, false
	}
	columns := len(rawRows[0])
	if columns == 0 {
		return nil, false
	}
	matrix := make([][]string, 0, len(rawRows))
	for _, row := range rawRows {
		if len(row) < columns {
			return nil, false
		}
		cells := make([]string, columns)
		for i := 0; i < columns; i++ {
			cells[i] = FormatValue(row[i])
		}
		matrix = append(matrix, cells)
	}
	return matrix, true
}

func asRows(v interface{}) ([][]interface{}, bool) {
	switch rows := v.(type) {
	case [][]interface{}:
		return rows, true
	case [][]string:
		out := make([][]interface{}, len(rows))
		for i, row := range rows {
			out[i] = stringsToValues(row)
		}
		return out, true
	case []interface{}:
		out := make([][]interface{}, 0, len(rows))
		for _, el := range rows {
			row, ok := asRow(el)
			if !ok {
				return nil, false
			}
			out = append(out, row)
		}
		return out, true
	default:
		return nil, false
	}
}

func asRow(v interface{}) ([]interface{}, bool) {
	switch row := v.(type) {
	case []interface{}:
		return row, true
	case []string:
		return stringsToValues(row), true
	case []int:
		out := make([]interface{}, len(row))
		for i, n := range row {
			out[i] = n
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(row))
		for i, n := range row {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}

func stringsToValues(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, s := range row {
		out[i] = s
	}
	return out
}

const tableProperties = `<w:tblStyle w:val="TableGrid"></w:tblStyle>` +
	`<w:tblW w:w="0" w:type="auto"></w:tblW>` +
	`<w:tblBorders>` +
	`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"></w:top>` +
	`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"></w:left>` +
	`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"></w:bottom>` +
	`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"></w:right>` +
	`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"></w:insideH>` +
	`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"></w:insideV>` +
	`</w:tblBorders>` +
	`<w:tblLook w:val="04A0" w:firstRow="1" w:lastRow="0" w:firstColumn="1" w:lastColumn="0" w:noHBand="0" w:noVBand="1"></w:tblLook>`

const cellProperties = `<w:tcW w:w="0" w:type="auto"></w:tcW>`

// buildTable constructs a bordered table from formatted cell text, one
// paragraph per cell, filled row by row. The table references the
// TableGrid style and carries inline borders so it renders with visible
// grid lines whether or not the document defines that style.
func buildTable(matrix [][]string) *docxml.Table {
	columns := len(matrix[0])
	table := &docxml.Table{
		Properties: &docxml.RawXMLElement{Name: "w:tblPr", Content: []byte(tableProperties)},
		Grid:       &docxml.TableGrid{Columns: make([]docxml.GridColumn, columns)},
	}
	for _, row := range matrix {
		tr := docxml.TableRow{Cells: make([]docxml.TableCell, 0, columns)}
		for _, text := range row {
			tr.Cells = append(tr.Cells, docxml.TableCell{
				Properties: &docxml.RawXMLElement{Name: "w:tcPr", Content: []byte(cellProperties)},
				Content:    []docxml.CellElement{docxml.NewParagraph(text)},
			})
		}
		table.Rows = append(table.Rows, tr)
	}
	return table
}
