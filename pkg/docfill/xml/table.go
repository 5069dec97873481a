package xml

import (
	"encoding/xml"
)

// Table is a w:tbl element. Table, row, and cell properties are preserved
// raw so that their child order and any exotic settings survive a
// round trip untouched.
type Table struct {
	Properties *RawXMLElement
	Grid       *TableGrid
	Rows       []TableRow

	// Extra holds unrecognized table-level children (bookmark markers and
	// similar); they are re-emitted after the rows.
	Extra []*RawXMLElement
}

func (t *Table) isBodyElement() {}
func (t *Table) isCellElement() {}

// TableGrid is the w:tblGrid column definition list.
type TableGrid struct {
	Columns []GridColumn
}

// GridColumn is a w:gridCol entry. Width is the w:w attribute in twentieths
// of a point; empty means unspecified.
type GridColumn struct {
	Width string
}

// TableRow is a w:tr element.
type TableRow struct {
	Properties *RawXMLElement
	Cells      []TableCell
}

// TableCell is a w:tc element. Content keeps paragraphs, nested tables, and
// unrecognized children in document order.
type TableCell struct {
	Properties *RawXMLElement
	Content    []CellElement
}

// Paragraphs returns the cell's own paragraphs in order, not descending
// into nested tables.
func (c *TableCell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, el := range c.Content {
		if p, ok := el.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// Tables returns tables nested directly inside the cell, in order.
func (c *TableCell) Tables() []*Table {
	var tables []*Table
	for _, el := range c.Content {
		if t, ok := el.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// GetText concatenates the text of the cell's own paragraphs.
func (c *TableCell) GetText() string {
	var out string
	for _, p := range c.Paragraphs() {
		out += p.GetText()
	}
	return out
}

// ColumnCount reports the table's width in columns: the grid definition
// when present, otherwise the widest row.
func (t *Table) ColumnCount() int {
	if t.Grid != nil && len(t.Grid.Columns) > 0 {
		return len(t.Grid.Columns)
	}
	max := 0
	for _, row := range t.Rows {
		if len(row.Cells) > max {
			max = len(row.Cells)
		}
	}
	return max
}

func (t *Table) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tt := tok.(type) {
		case xml.StartElement:
			switch tt.Name.Local {
			case "tblPr":
				raw, err := captureRaw(d, tt)
				if err != nil {
					return err
				}
				t.Properties = raw
			case "tblGrid":
				var grid TableGrid
				if err := d.DecodeElement(&grid, &tt); err != nil {
					return err
				}
				t.Grid = &grid
			case "tr":
				var row TableRow
				if err := d.DecodeElement(&row, &tt); err != nil {
					return err
				}
				t.Rows = append(t.Rows, row)
			default:
				raw, err := captureRaw(d, tt)
				if err != nil {
					return err
				}
				t.Extra = append(t.Extra, raw)
			}
		case xml.EndElement:
			if tt.Name == start.Name {
				return nil
			}
		}
	}
}

func (t *Table) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:tbl"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if t.Properties != nil {
		if err := e.Encode(t.Properties); err != nil {
			return err
		}
	}
	if t.Grid != nil {
		if err := e.Encode(t.Grid); err != nil {
			return err
		}
	}
	for i := range t.Rows {
		if err := e.Encode(&t.Rows[i]); err != nil {
			return err
		}
	}
	for _, extra := range t.Extra {
		if err := e.Encode(extra); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func (g *TableGrid) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "gridCol" {
				var col GridColumn
				for _, attr := range t.Attr {
					if attr.Name.Local == "w" {
						col.Width = attr.Value
					}
				}
				g.Columns = append(g.Columns, col)
			}
			if err := d.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

func (g *TableGrid) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, col := range g.Columns {
		colStart := xml.StartElement{Name: xml.Name{Local: "w:gridCol"}}
		if col.Width != "" {
			colStart.Attr = append(colStart.Attr, xml.Attr{Name: xml.Name{Local: "w:w"}, Value: col.Width})
		}
		if err := e.EncodeElement(struct{}{}, colStart); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func (r *TableRow) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				r.Properties = raw
			case "tc":
				var cell TableCell
				if err := d.DecodeElement(&cell, &t); err != nil {
					return err
				}
				r.Cells = append(r.Cells, cell)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

func (r *TableRow) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:tr"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil {
		if err := e.Encode(r.Properties); err != nil {
			return err
		}
	}
	for i := range r.Cells {
		if err := e.Encode(&r.Cells[i]); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func (c *TableCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				c.Properties = raw
			case "p":
				var p Paragraph
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				c.Content = append(c.Content, &p)
			case "tbl":
				var tbl Table
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				c.Content = append(c.Content, &tbl)
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				c.Content = append(c.Content, raw)
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

func (c *TableCell) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:tc"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if c.Properties != nil {
		if err := e.Encode(c.Properties); err != nil {
			return err
		}
	}
	for _, el := range c.Content {
		if err := e.Encode(el); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
