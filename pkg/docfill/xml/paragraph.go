package xml

import (
	"encoding/xml"
	"strings"
)

// Paragraph is a block of runs. Paragraph properties and any non-run
// children (hyperlinks, bookmarks, field codes) are preserved raw in their
// original positions; only top-level runs are exposed for text access.
type Paragraph struct {
	Properties *RawXMLElement
	Content    []ParagraphContent
}

func (p *Paragraph) isBodyElement() {}
func (p *Paragraph) isCellElement() {}

// Runs returns the paragraph's top-level runs in document order. Runs
// nested inside hyperlinks or other preserved elements are not included.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, c := range p.Content {
		if r, ok := c.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// GetText concatenates the text of the paragraph's top-level runs.
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.GetText())
	}
	return sb.String()
}

// AddRun appends a run to the paragraph.
func (p *Paragraph) AddRun(r *Run) {
	p.Content = append(p.Content, r)
}

func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				p.Properties = raw
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Content = append(p.Content, &run)
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				p.Content = append(p.Content, raw)
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

func (p *Paragraph) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "w:p"}}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Properties != nil {
		if err := e.Encode(p.Properties); err != nil {
			return err
		}
	}
	for _, c := range p.Content {
		if err := e.Encode(c); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// NewParagraph builds a paragraph holding a single run with the given text.
func NewParagraph(text string) *Paragraph {
	run := &Run{}
	run.SetText(text)
	return &Paragraph{Content: []ParagraphContent{run}}
}
