package walk

import (
	"reflect"
	"strings"
	"testing"

	"github.com/docfill/go-docfill/pkg/docfill/xml"
)

func parseBody(t *testing.T, inner string) *xml.Body {
	t.Helper()
	src := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + inner + `</w:body></w:document>`
	doc, err := xml.ParseDocument(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	return doc.Body
}

func parseHeaderFooter(t *testing.T, root, inner string) *xml.HeaderFooter {
	t.Helper()
	src := `<?xml version="1.0"?><w:` + root + ` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + inner + `</w:` + root + `>`
	hf, err := xml.ParseHeaderFooter(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseHeaderFooter() error = %v", err)
	}
	return hf
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func cell(inner string) string {
	return `<w:tc>` + inner + `</w:tc>`
}

func texts(locs []Location) []string {
	var out []string
	for _, l := range locs {
		out = append(out, l.Paragraph.GetText())
	}
	return out
}

func TestDocumentOrder(t *testing.T) {
	table := `<w:tbl><w:tblGrid><w:gridCol></w:gridCol><w:gridCol></w:gridCol></w:tblGrid>` +
		`<w:tr>` + cell(para("A1")) + cell(para("B1")) + `</w:tr>` +
		`<w:tr>` + cell(para("A2")) + cell(para("B2")) + `</w:tr>` +
		`</w:tbl>`
	body := parseBody(t, para("first")+para("second")+table)
	header := parseHeaderFooter(t, "hdr", para("head"))
	footer := parseHeaderFooter(t, "ftr", para("foot"))

	locs := Document(body, header, footer)

	// Body paragraphs, then table cells column by column, then header, then
	// footer.
	want := []string{"first", "second", "A1", "A2", "B1", "B2", "head", "foot"}
	if got := texts(locs); !reflect.DeepEqual(got, want) {
		t.Errorf("Document() order = %v, want %v", got, want)
	}

	wantParts := []Part{PartBody, PartBody, PartBody, PartBody, PartBody, PartBody, PartHeader, PartFooter}
	for i, l := range locs {
		if l.Part != wantParts[i] {
			t.Errorf("location %d part = %v, want %v", i, l.Part, wantParts[i])
		}
	}
}

func TestDocumentOrderWithoutHeaderFooter(t *testing.T) {
	body := parseBody(t, para("only"))
	locs := Document(body, nil, nil)
	if got := texts(locs); !reflect.DeepEqual(got, []string{"only"}) {
		t.Errorf("Document() order = %v, want [only]", got)
	}
}

func TestNestedTableAfterOwnParagraphs(t *testing.T) {
	nested := `<w:tbl><w:tblGrid><w:gridCol></w:gridCol></w:tblGrid><w:tr>` + cell(para("inner")) + `</w:tr></w:tbl>`
	outer := `<w:tbl><w:tblGrid><w:gridCol></w:gridCol></w:tblGrid><w:tr>` +
		cell(para("before")+nested+para("after")) +
		`</w:tr></w:tbl>`
	body := parseBody(t, outer)

	locs := Document(body, nil, nil)

	// A cell's own paragraphs all come before anything inside its nested
	// tables, regardless of where the nested table sits between them.
	want := []string{"before", "after", "inner"}
	if got := texts(locs); !reflect.DeepEqual(got, want) {
		t.Errorf("Document() order = %v, want %v", got, want)
	}
}

func TestColumnMajorWithRaggedRows(t *testing.T) {
	table := `<w:tbl><w:tblGrid><w:gridCol></w:gridCol><w:gridCol></w:gridCol></w:tblGrid>` +
		`<w:tr>` + cell(para("A1")) + cell(para("B1")) + `</w:tr>` +
		`<w:tr>` + cell(para("A2")) + `</w:tr>` +
		`</w:tbl>`
	body := parseBody(t, table)

	locs := Document(body, nil, nil)
	want := []string{"A1", "A2", "B1"}
	if got := texts(locs); !reflect.DeepEqual(got, want) {
		t.Errorf("Document() order = %v, want %v", got, want)
	}
}

func TestInsertTableAfterBodyParagraph(t *testing.T) {
	body := parseBody(t, para("one")+para("two"))
	locs := Document(body, nil, nil)

	locs[0].InsertTableAfter(&xml.Table{})

	if len(body.Elements) != 3 {
		t.Fatalf("body has %d elements, want 3", len(body.Elements))
	}
	if _, ok := body.Elements[1].(*xml.Table); !ok {
		t.Errorf("element 1 = %T, want *xml.Table", body.Elements[1])
	}
	if p, ok := body.Elements[2].(*xml.Paragraph); !ok || p.GetText() != "two" {
		t.Errorf("element 2 = %T, want the second paragraph", body.Elements[2])
	}
}

func TestInsertPositionResolvedAtCallTime(t *testing.T) {
	body := parseBody(t, para("one")+para("two"))
	locs := Document(body, nil, nil)

	// Splice after the second paragraph first; the first paragraph's
	// location must still find its own position afterward.
	second := &xml.Table{}
	first := &xml.Table{}
	locs[1].InsertTableAfter(second)
	locs[0].InsertTableAfter(first)

	if len(body.Elements) != 4 {
		t.Fatalf("body has %d elements, want 4", len(body.Elements))
	}
	if body.Elements[1] != xml.BodyElement(first) {
		t.Errorf("element 1 = %v, want table inserted after the first paragraph", body.Elements[1])
	}
	if body.Elements[3] != xml.BodyElement(second) {
		t.Errorf("element 3 = %v, want table inserted after the second paragraph", body.Elements[3])
	}
}

func TestInsertTableAfterCellParagraph(t *testing.T) {
	table := `<w:tbl><w:tblGrid><w:gridCol></w:gridCol></w:tblGrid><w:tr>` +
		cell(para("target")+para("tail")) +
		`</w:tr></w:tbl>`
	body := parseBody(t, table)
	locs := Document(body, nil, nil)

	locs[0].InsertTableAfter(&xml.Table{})

	tcell := &body.Tables()[0].Rows[0].Cells[0]
	if len(tcell.Content) != 3 {
		t.Fatalf("cell has %d children, want 3", len(tcell.Content))
	}
	if _, ok := tcell.Content[1].(*xml.Table); !ok {
		t.Errorf("cell child 1 = %T, want *xml.Table", tcell.Content[1])
	}
}

func TestInsertTableAfterHeaderParagraph(t *testing.T) {
	header := parseHeaderFooter(t, "hdr", para("head"))
	locs := Document(nil, header, nil)
	if len(locs) != 1 {
		t.Fatalf("Document() = %d locations, want 1", len(locs))
	}

	locs[0].InsertTableAfter(&xml.Table{})
	if len(header.Elements) != 2 {
		t.Fatalf("header has %d elements, want 2", len(header.Elements))
	}
	if _, ok := header.Elements[1].(*xml.Table); !ok {
		t.Errorf("header element 1 = %T, want *xml.Table", header.Elements[1])
	}
}

func TestSpliceNotRevisited(t *testing.T) {
	body := parseBody(t, para("one"))
	locs := Document(body, nil, nil)

	spliced := &xml.Table{
		Rows: []xml.TableRow{{Cells: []xml.TableCell{{Content: []xml.CellElement{xml.NewParagraph("added")}}}}},
	}
	locs[0].InsertTableAfter(spliced)

	// The sequence built before the splice does not grow.
	if got := texts(locs); !reflect.DeepEqual(got, []string{"one"}) {
		t.Errorf("existing traversal = %v, want [one]", got)
	}
	// A fresh traversal sees the spliced content.
	if got := texts(Document(body, nil, nil)); !reflect.DeepEqual(got, []string{"one", "added"}) {
		t.Errorf("fresh traversal = %v, want [one added]", got)
	}
}

func TestPartString(t *testing.T) {
	tests := []struct {
		part Part
		want string
	}{
		{PartBody, "body"},
		{PartHeader, "header"},
		{PartFooter, "footer"},
	}
	for _, tt := range tests {
		if got := tt.part.String(); got != tt.want {
			t.Errorf("Part(%d).String() = %q, want %q", tt.part, got, tt.want)
		}
	}
}
