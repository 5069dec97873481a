package xml

import (
	"encoding/xml"
	"strings"
)

// Run is a contiguous span of uniformly formatted content inside a
// paragraph. Its children are kept in document order; run properties are
// preserved verbatim.
type Run struct {
	Properties *RawXMLElement
	Content    []RunContent
}

func (r *Run) isParagraphContent() {}

// Text is a w:t element.
type Text struct {
	Space string
	Value string
}

func (t *Text) isRunContent() {}

// Break is a w:br element. Type is the w:type attribute (page, column) or
// empty for a line break.
type Break struct {
	Type string
}

func (b *Break) isRunContent() {}

// Tab is a w:tab element inside a run.
type Tab struct{}

func (t *Tab) isRunContent() {}

// GetText returns the run's text with tabs and breaks rendered as their
// plain-text equivalents, matching how word processors expose run text.
func (r *Run) GetText() string {
	var sb strings.Builder
	for _, c := range r.Content {
		switch v := c.(type) {
		case *Text:
			sb.WriteString(v.Value)
		case *Tab:
			sb.WriteByte('\t')
		case *Break:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// SetText replaces the run's entire content with the given text. Tab and
// newline characters become w:tab and w:br elements, the inverse of
// GetText, so text edited through the pair keeps its tabs and line breaks.
// Run properties are kept; raw children such as drawings are dropped.
func (r *Run) SetText(s string) {
	r.Content = nil
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			r.Content = append(r.Content, &Text{Value: pending.String()})
			pending.Reset()
		}
	}
	for _, ch := range s {
		switch ch {
		case '\t':
			flush()
			r.Content = append(r.Content, &Tab{})
		case '\n', '\r':
			flush()
			r.Content = append(r.Content, &Break{})
		default:
			pending.WriteRune(ch)
		}
	}
	flush()
	if len(r.Content) == 0 {
		r.Content = []RunContent{&Text{}}
	}
}

// AppendRaw attaches a raw element (typically a generated drawing) to the
// end of the run.
func (r *Run) AppendRaw(el *RawXMLElement) {
	r.Content = append(r.Content, el)
}

func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				r.Properties = raw
			case "t":
				var text Text
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, &text)
			case "br":
				var br Break
				for _, attr := range t.Attr {
					if attr.Name.Local == "type" {
						br.Type = attr.Value
					}
				}
				if err := d.Skip(); err != nil {
					return err
				}
				r.Content = append(r.Content, &br)
			case "tab":
				if err := d.Skip(); err != nil {
					return err
				}
				r.Content = append(r.Content, &Tab{})
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				r.Content = append(r.Content, raw)
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

func (r *Run) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:r"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil {
		if err := e.Encode(r.Properties); err != nil {
			return err
		}
	}
	for _, c := range r.Content {
		if err := e.Encode(c); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func (t *Text) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		if attr.Name.Local == "space" {
			t.Space = attr.Value
		}
	}
	var value string
	if err := d.DecodeElement(&value, &start); err != nil {
		return err
	}
	t.Value = value
	return nil
}

// MarshalXML always emits xml:space="preserve" so leading and trailing
// whitespace survives consumers that trim by default.
func (t *Text) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "w:t"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xml:space"}, Value: "preserve"}},
	}
	return e.EncodeElement(t.Value, start)
}

func (b *Break) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:br"}}
	if b.Type != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "w:type"}, Value: b.Type})
	}
	return e.EncodeElement(struct{}{}, start)
}

func (t *Tab) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:tab"}})
}
