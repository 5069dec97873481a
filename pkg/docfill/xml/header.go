package xml

import (
	"encoding/xml"
	"io"
)

// HeaderFooter is a word/headerN.xml or word/footerN.xml part. The root tag
// (w:hdr or w:ftr) and its attributes are preserved; children follow the
// same block-element model as the document body.
type HeaderFooter struct {
	RootName string
	Attrs    []xml.Attr
	Elements []BodyElement
}

// Paragraphs returns the part's top-level paragraphs in order.
func (h *HeaderFooter) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, el := range h.Elements {
		if p, ok := el.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// Tables returns the part's top-level tables in order.
func (h *HeaderFooter) Tables() []*Table {
	var tables []*Table
	for _, el := range h.Elements {
		if t, ok := el.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

func (h *HeaderFooter) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	h.RootName = start.Name.Local
	h.Attrs = append(h.Attrs, start.Attr...)
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p Paragraph
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				h.Elements = append(h.Elements, &p)
			case "tbl":
				var tbl Table
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				h.Elements = append(h.Elements, &tbl)
			default:
				raw, err := captureRaw(d, t)
				if err != nil {
					return err
				}
				h.Elements = append(h.Elements, raw)
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// ParseHeaderFooter decodes a header or footer part.
func ParseHeaderFooter(r io.Reader) (*HeaderFooter, error) {
	var hf HeaderFooter
	if err := xml.NewDecoder(r).Decode(&hf); err != nil {
		return nil, err
	}
	return &hf, nil
}
