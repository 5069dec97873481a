package xml

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// BodyElement is a block-level element inside a document body, header, or
// footer: a paragraph, a table, or an unrecognized element preserved raw.
type BodyElement interface {
	isBodyElement()
}

// ParagraphContent is an element inside a paragraph: a run or an
// unrecognized element preserved raw (hyperlinks, bookmarks, field codes).
type ParagraphContent interface {
	isParagraphContent()
}

// RunContent is an element inside a run: text, a break, a tab, or an
// unrecognized element preserved raw (drawings, footnote refs).
type RunContent interface {
	isRunContent()
}

// CellElement is an element inside a table cell: a paragraph, a nested
// table, or an unrecognized element preserved raw.
type CellElement interface {
	isCellElement()
}

// namespaceToPrefix maps OOXML namespace URIs to their conventional
// prefixes. Raw capture converts qualified names to prefixed form so that
// captured markup can be re-emitted verbatim under the declarations carried
// on the document root.
var namespaceToPrefix = map[string]string{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":        "w",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships": "r",
	"http://schemas.openxmlformats.org/drawingml/2006/main":               "a",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
	"http://schemas.openxmlformats.org/officeDocument/2006/math":             "m",
	"http://schemas.openxmlformats.org/schemaLibrary/2006/main":              "sl",
	"http://schemas.microsoft.com/office/word/2006/wordml":                   "wne",
	"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
	"http://schemas.microsoft.com/office/word/2018/wordml":                   "w16",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas":     "wpc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":      "wpg",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingInk":        "wpi",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":      "wps",
	"http://schemas.microsoft.com/office/drawing/2010/main":                  "a14",
	"urn:schemas-microsoft-com:vml":                                          "v",
	"urn:schemas-microsoft-com:office:office":                                "o",
	"urn:schemas-microsoft-com:office:word":                                  "w10",
	"http://www.w3.org/XML/1998/namespace":                                   "xml",
}

// RawXMLElement holds an element the model does not type: its prefixed tag
// name, its attributes (names already in prefixed form), and its inner
// markup captured verbatim with prefixed names and escaped character data.
// It round-trips through marshalling byte for byte.
type RawXMLElement struct {
	Name    string
	Attrs   []xml.Attr
	Content []byte
}

func (r *RawXMLElement) isBodyElement()      {}
func (r *RawXMLElement) isParagraphContent() {}
func (r *RawXMLElement) isRunContent()       {}
func (r *RawXMLElement) isCellElement()      {}

type rawInner struct {
	Content []byte `xml:",innerxml"`
}

// MarshalXML re-emits the captured element. The inner markup is written
// verbatim through the innerxml field, so captured children keep their
// original order and form.
func (r *RawXMLElement) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: r.Name}}
	start.Attr = append(start.Attr, r.Attrs...)
	return e.EncodeElement(rawInner{r.Content}, start)
}

// captureRaw consumes the element opened by start, including all nested
// children, and returns it as a RawXMLElement. Qualified names are converted
// to prefixed form; character data is re-escaped.
func captureRaw(d *xml.Decoder, start xml.StartElement) (*RawXMLElement, error) {
	el := &RawXMLElement{Name: prefixedName(start.Name)}
	for _, attr := range start.Attr {
		el.Attrs = append(el.Attrs, xml.Attr{
			Name:  xml.Name{Local: prefixedAttrName(attr.Name)},
			Value: attr.Value,
		})
	}

	var buf bytes.Buffer
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			buf.WriteByte('<')
			buf.WriteString(prefixedName(t.Name))
			for _, attr := range t.Attr {
				buf.WriteByte(' ')
				buf.WriteString(prefixedAttrName(attr.Name))
				buf.WriteString(`="`)
				buf.WriteString(escapeAttr(attr.Value))
				buf.WriteByte('"')
			}
			buf.WriteByte('>')
		case xml.EndElement:
			depth--
			if depth > 0 {
				buf.WriteString("</")
				buf.WriteString(prefixedName(t.Name))
				buf.WriteByte('>')
			}
		case xml.CharData:
			buf.WriteString(escapeText(string(t)))
		}
	}
	el.Content = buf.Bytes()
	return el, nil
}

// prefixedName renders a decoded name with its conventional prefix. Names
// in unknown namespaces fall back to the bare local name.
func prefixedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	if prefix, ok := namespaceToPrefix[n.Space]; ok {
		return prefix + ":" + n.Local
	}
	return n.Local
}

func prefixedAttrName(n xml.Name) string {
	if n.Space == "xmlns" {
		return "xmlns:" + n.Local
	}
	return prefixedName(n)
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = escapeText(s)
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
