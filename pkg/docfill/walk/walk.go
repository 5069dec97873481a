package walk

import (
	"github.com/docfill/go-docfill/pkg/docfill/xml"
)

// Part identifies which document part a location belongs to.
type Part int

const (
	PartBody Part = iota
	PartHeader
	PartFooter
)

func (p Part) String() string {
	switch p {
	case PartHeader:
		return "header"
	case PartFooter:
		return "footer"
	default:
		return "body"
	}
}

// Location is one paragraph in the traversal, together with where it lives
// and a handle for splicing a table into its container directly after it.
type Location struct {
	Paragraph *xml.Paragraph
	Part      Part

	insert func(*xml.Table)
}

// InsertTableAfter splices a table into the location's container
// immediately after its paragraph. The paragraph's position is resolved at
// call time, so earlier splices into the same container do not skew it.
func (l Location) InsertTableAfter(t *xml.Table) {
	if l.insert != nil {
		l.insert(t)
	}
}

// Document returns every paragraph reachable from the document in a fixed
// order: body paragraphs, body tables (column-major, descending into nested
// tables), header paragraphs, header tables, footer paragraphs, footer
// tables. The element lists are snapshotted as the sequence is built, so
// content spliced in afterward is not revisited and the traversal always
// terminates. Header or footer may be nil.
func Document(body *xml.Body, header, footer *xml.HeaderFooter) []Location {
	var out []Location
	if body != nil {
		for _, p := range body.Paragraphs() {
			out = append(out, Location{Paragraph: p, Part: PartBody, insert: bodyInserter(body, p)})
		}
		walkTables(&out, PartBody, body.Tables())
	}
	if header != nil {
		for _, p := range header.Paragraphs() {
			out = append(out, Location{Paragraph: p, Part: PartHeader, insert: headerFooterInserter(header, p)})
		}
		walkTables(&out, PartHeader, header.Tables())
	}
	if footer != nil {
		for _, p := range footer.Paragraphs() {
			out = append(out, Location{Paragraph: p, Part: PartFooter, insert: headerFooterInserter(footer, p)})
		}
		walkTables(&out, PartFooter, footer.Tables())
	}
	return out
}

// frame is one pending table list in the traversal: which table of the list
// is current and, within it, the current column and row.
type frame struct {
	tables  []*xml.Table
	t, c, r int
}

// walkTables visits table paragraphs column-major: for each table, for each
// column left to right, for each cell top to bottom, the cell's own
// paragraphs first, then any tables nested in that cell. The descent uses
// an explicit frame stack, so nesting depth is bounded by heap, not by the
// goroutine stack.
func walkTables(out *[]Location, part Part, tables []*xml.Table) {
	if len(tables) == 0 {
		return
	}
	stack := []*frame{{tables: tables}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.t >= len(f.tables) {
			stack = stack[:len(stack)-1]
			continue
		}
		tbl := f.tables[f.t]
		if f.c >= tbl.ColumnCount() {
			f.t++
			f.c, f.r = 0, 0
			continue
		}
		if f.r >= len(tbl.Rows) {
			f.c++
			f.r = 0
			continue
		}
		row := &tbl.Rows[f.r]
		col := f.c
		f.r++
		// Cells are addressed positionally, not by grid column: a row
		// using gridSpan merges presents its later cells one slot to the
		// left of their true grid columns, and a short row contributes
		// nothing to the trailing columns. Fine for rectangular tables.
		if col >= len(row.Cells) {
			continue
		}
		cell := &row.Cells[col]
		for _, p := range cell.Paragraphs() {
			*out = append(*out, Location{Paragraph: p, Part: part, insert: cellInserter(cell, p)})
		}
		if nested := cell.Tables(); len(nested) > 0 {
			stack = append(stack, &frame{tables: nested})
		}
	}
}

func bodyInserter(body *xml.Body, p *xml.Paragraph) func(*xml.Table) {
	return func(t *xml.Table) {
		body.Elements = insertAfter(body.Elements, p, t)
	}
}

func headerFooterInserter(hf *xml.HeaderFooter, p *xml.Paragraph) func(*xml.Table) {
	return func(t *xml.Table) {
		hf.Elements = insertAfter(hf.Elements, p, t)
	}
}

func cellInserter(cell *xml.TableCell, p *xml.Paragraph) func(*xml.Table) {
	return func(t *xml.Table) {
		idx := len(cell.Content)
		for i, el := range cell.Content {
			if pp, ok := el.(*xml.Paragraph); ok && pp == p {
				idx = i + 1
				break
			}
		}
		content := make([]xml.CellElement, 0, len(cell.Content)+1)
		content = append(content, cell.Content[:idx]...)
		content = append(content, t)
		content = append(content, cell.Content[idx:]...)
		cell.Content = content
	}
}

func insertAfter(elements []xml.BodyElement, p *xml.Paragraph, t *xml.Table) []xml.BodyElement {
	idx := len(elements)
	for i, el := range elements {
		if pp, ok := el.(*xml.Paragraph); ok && pp == p {
			idx = i + 1
			break
		}
	}
	out := make([]xml.BodyElement, 0, len(elements)+1)
	out = append(out, elements[:idx]...)
	out = append(out, t)
	out = append(out, elements[idx:]...)
	return out
}
