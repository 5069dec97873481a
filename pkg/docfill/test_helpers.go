// test_helpers.go contains helpers that are exposed only for testing
// purposes. They should not be used in production code.

package docfill

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
)

// DocxBuilder assembles a minimal .docx archive in memory. Tests and
// examples use it instead of shipping binary fixtures.
type DocxBuilder struct {
	bodyXML   string
	headerXML string
	footerXML string
	stylesXML string
	extra     map[string]string
	order     []string
}

func NewDocxBuilder() *DocxBuilder {
	return &DocxBuilder{extra: make(map[string]string)}
}

// WithBody sets the body's inner markup verbatim (w:p and w:tbl elements).
func (b *DocxBuilder) WithBody(innerXML string) *DocxBuilder {
	b.bodyXML = innerXML
	return b
}

// WithParagraphs appends one single-run paragraph per text.
func (b *DocxBuilder) WithParagraphs(texts ...string) *DocxBuilder {
	var sb strings.Builder
	sb.WriteString(b.bodyXML)
	for _, text := range texts {
		fmt.Fprintf(&sb, `<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, escapeAttrValue(text))
	}
	b.bodyXML = sb.String()
	return b
}

// WithHeader adds a default header part holding the given inner markup and
// wires it into the document's section properties.
func (b *DocxBuilder) WithHeader(innerXML string) *DocxBuilder {
	b.headerXML = innerXML
	return b
}

// WithFooter adds a default footer part holding the given inner markup.
func (b *DocxBuilder) WithFooter(innerXML string) *DocxBuilder {
	b.footerXML = innerXML
	return b
}

// WithStyles sets the full word/styles.xml part.
func (b *DocxBuilder) WithStyles(stylesXML string) *DocxBuilder {
	b.stylesXML = stylesXML
	return b
}

// WithPart adds an arbitrary extra part.
func (b *DocxBuilder) WithPart(name, content string) *DocxBuilder {
	if _, ok := b.extra[name]; !ok {
		b.order = append(b.order, name)
	}
	b.extra[name] = content
	return b
}

// Bytes assembles the archive.
func (b *DocxBuilder) Bytes() []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	writePart := func(name, content string) {
		f, _ := w.Create(name)
		io.WriteString(f, content)
	}

	var overrides strings.Builder
	overrides.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"></Override>`)
	if b.headerXML != "" {
		overrides.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"></Override>`)
	}
	if b.footerXML != "" {
		overrides.WriteString(`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"></Override>`)
	}
	if b.stylesXML != "" {
		overrides.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"></Override>`)
	}
	writePart(contentTypesPartName, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"></Default>
  <Default Extension="xml" ContentType="application/xml"></Default>
  `+overrides.String()+`
</Types>`)

	writePart("_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`)

	var docRels strings.Builder
	if b.headerXML != "" {
		docRels.WriteString(`<Relationship Id="rId6" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>`)
	}
	if b.footerXML != "" {
		docRels.WriteString(`<Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>`)
	}
	writePart("word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+docRels.String()+`</Relationships>`)

	var sectPr string
	if b.headerXML != "" || b.footerXML != "" {
		var refs strings.Builder
		if b.headerXML != "" {
			refs.WriteString(`<w:headerReference w:type="default" r:id="rId6"></w:headerReference>`)
		}
		if b.footerXML != "" {
			refs.WriteString(`<w:footerReference w:type="default" r:id="rId7"></w:footerReference>`)
		}
		sectPr = `<w:sectPr>` + refs.String() + `</w:sectPr>`
	}
	writePart(documentPartName, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`+b.bodyXML+sectPr+`</w:body></w:document>`)

	if b.headerXML != "" {
		writePart("word/header1.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`+b.headerXML+`</w:hdr>`)
	}
	if b.footerXML != "" {
		writePart("word/footer1.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">`+b.footerXML+`</w:ftr>`)
	}
	if b.stylesXML != "" {
		writePart(stylesPartName, b.stylesXML)
	}
	for _, name := range b.order {
		writePart(name, b.extra[name])
	}
	w.Close()
	return buf.Bytes()
}

// ParagraphXML builds a single-run paragraph for use with WithBody.
func ParagraphXML(text string) string {
	return fmt.Sprintf(`<w:p><w:r><w:t xml:space="preserve">%s</w:t></w:r></w:p>`, escapeAttrValue(text))
}

// MinimalStylesXML is a styles part that defines no table styles, for
// exercising the style injection path.
const MinimalStylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
</w:styles>`

// PNGBytes encodes an opaque width x height PNG.
func PNGBytes(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 0x4a, G: 0x90, B: 0xd9, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
