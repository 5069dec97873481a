package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Declaration is the XML declaration written at the top of every part.
const Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relationshipsNS  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// MarshalDocument serializes a document part, re-emitting the root
// attributes captured at parse time. Documents built without any root
// attributes get the minimal namespace set.
func MarshalDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Declaration)

	start := xml.StartElement{Name: xml.Name{Local: "w:document"}}
	start.Attr = rootAttrs(doc.Attrs)

	e := xml.NewEncoder(&buf)
	if err := e.EncodeToken(start); err != nil {
		return nil, err
	}
	if doc.Body != nil {
		if err := e.Encode(doc.Body); err != nil {
			return nil, err
		}
	}
	if err := e.EncodeToken(xml.EndElement{Name: start.Name}); err != nil {
		return nil, err
	}
	if err := e.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalHeaderFooter serializes a header or footer part under its original
// root tag.
func MarshalHeaderFooter(hf *HeaderFooter) ([]byte, error) {
	if hf.RootName == "" {
		return nil, fmt.Errorf("header/footer part has no root element name")
	}
	var buf bytes.Buffer
	buf.WriteString(Declaration)

	start := xml.StartElement{Name: xml.Name{Local: "w:" + hf.RootName}}
	start.Attr = rootAttrs(hf.Attrs)

	e := xml.NewEncoder(&buf)
	if err := e.EncodeToken(start); err != nil {
		return nil, err
	}
	for _, el := range hf.Elements {
		if err := e.Encode(el); err != nil {
			return nil, err
		}
	}
	if err := e.EncodeToken(xml.EndElement{Name: start.Name}); err != nil {
		return nil, err
	}
	if err := e.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rootAttrs converts decoded root attributes back to their written form.
// With no captured attributes the minimal namespace declarations are used
// so generated parts stay valid on their own.
func rootAttrs(attrs []xml.Attr) []xml.Attr {
	if len(attrs) == 0 {
		return []xml.Attr{
			{Name: xml.Name{Local: "xmlns:w"}, Value: wordprocessingNS},
			{Name: xml.Name{Local: "xmlns:r"}, Value: relationshipsNS},
		}
	}
	out := make([]xml.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, xml.Attr{
			Name:  xml.Name{Local: prefixedAttrName(a.Name)},
			Value: a.Value,
		})
	}
	return out
}
