package docfill

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	docxml "github.com/docfill/go-docfill/pkg/docfill/xml"
)

// Template is a prepared .docx template. Preparation validates the
// archive and locates the parts token processing touches; the parts are
// kept as bytes and re-parsed on every compile, so one Template can be
// compiled many times, including concurrently.
type Template struct {
	reader      *DocxReader
	documentXML []byte
	stylesXML   []byte

	headerPart string
	headerXML  []byte
	footerPart string
	footerXML  []byte
}

// Prepare reads a .docx template from r.
func Prepare(r io.Reader) (*Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DocumentError{Operation: "prepare", Cause: err}
	}
	return prepare(data)
}

// PrepareFile reads and prepares a .docx template from disk.
func PrepareFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Operation: "prepare", Path: path, Cause: err}
	}
	t, err := prepare(data)
	if err != nil {
		var docErr *DocumentError
		if errors.As(err, &docErr) && docErr.Path == "" {
			docErr.Path = path
		}
		return nil, err
	}
	return t, nil
}

func prepare(data []byte) (*Template, error) {
	reader, err := NewDocxReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	documentXML, err := reader.GetDocumentXML()
	if err != nil {
		return nil, err
	}
	t := &Template{reader: reader, documentXML: documentXML}
	if reader.HasPart(stylesPartName) {
		if t.stylesXML, err = reader.GetPart(stylesPartName); err != nil {
			return nil, err
		}
	}
	if err := t.locateHeaderFooter(); err != nil {
		return nil, err
	}
	return t, nil
}

// sectionRefs mirrors the headerReference and footerReference children of
// the document's sectPr.
type sectionRefs struct {
	Headers []sectionRef `xml:"headerReference"`
	Footers []sectionRef `xml:"footerReference"`
}

type sectionRef struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

// locateHeaderFooter resolves the default header and footer of the first
// section through the document relationships. A template without section
// references simply has no header or footer to process.
func (t *Template) locateHeaderFooter() error {
	doc, err := docxml.ParseDocument(bytes.NewReader(t.documentXML))
	if err != nil {
		return &DocumentError{Operation: "parse document", Cause: err}
	}
	if doc.Body == nil || doc.Body.SectionProperties == nil {
		return nil
	}
	var refs sectionRefs
	wrapped := "<sectPr>" + string(doc.Body.SectionProperties.Content) + "</sectPr>"
	if err := xml.Unmarshal([]byte(wrapped), &refs); err != nil {
		return nil
	}
	rels, err := t.reader.GetRelationships(documentPartName)
	if err != nil {
		return err
	}
	if part, data, err := t.resolveRef(rels, defaultRef(refs.Headers)); err != nil {
		return err
	} else if part != "" {
		t.headerPart, t.headerXML = part, data
	}
	if part, data, err := t.resolveRef(rels, defaultRef(refs.Footers)); err != nil {
		return err
	} else if part != "" {
		t.footerPart, t.footerXML = part, data
	}
	return nil
}

func (t *Template) resolveRef(rels *Relationships, id string) (string, []byte, error) {
	if id == "" {
		return "", nil, nil
	}
	target, ok := rels.FindTarget(id)
	if !ok {
		return "", nil, nil
	}
	part := resolvePartTarget(documentPartName, target)
	if !t.reader.HasPart(part) {
		return "", nil, nil
	}
	data, err := t.reader.GetPart(part)
	if err != nil {
		return "", nil, err
	}
	return part, data, nil
}

func defaultRef(refs []sectionRef) string {
	for _, ref := range refs {
		if ref.Type == "default" {
			return ref.ID
		}
	}
	return ""
}

// HeaderPart returns the name of the default header part compiles will
// process, or "" when the template has none.
func (t *Template) HeaderPart() string { return t.headerPart }

// FooterPart returns the name of the default footer part compiles will
// process, or "" when the template has none.
func (t *Template) FooterPart() string { return t.footerPart }

// Parts lists the template's archive part names sorted.
func (t *Template) Parts() []string { return t.reader.ListParts() }

// Compile renders the template with the given data under the global
// configuration and returns the bytes of the produced document.
func (t *Template) Compile(data TemplateData) ([]byte, error) {
	return t.CompileWithConfig(data, GetGlobalConfig())
}

// CompileTo renders the template with the given data and writes the
// produced document to w.
func (t *Template) CompileTo(w io.Writer, data TemplateData) error {
	out, err := t.Compile(data)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return &DocumentError{Operation: "write output", Cause: err}
	}
	return nil
}

// CompileWithConfig renders the template with an explicit configuration.
// The template is never mutated: the document, header, and footer trees
// are parsed fresh from the prepared bytes each call.
func (t *Template) CompileWithConfig(data TemplateData, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	doc, err := docxml.ParseDocument(bytes.NewReader(t.documentXML))
	if err != nil {
		return nil, &DocumentError{Operation: "parse document", Cause: err}
	}
	var header, footer *docxml.HeaderFooter
	if t.headerXML != nil {
		if header, err = docxml.ParseHeaderFooter(bytes.NewReader(t.headerXML)); err != nil {
			return nil, &DocumentError{Operation: "parse header", Path: t.headerPart, Cause: err}
		}
	}
	if t.footerXML != nil {
		if footer, err = docxml.ParseHeaderFooter(bytes.NewReader(t.footerXML)); err != nil {
			return nil, &DocumentError{Operation: "parse footer", Path: t.footerPart, Cause: err}
		}
	}

	c := newCompilation(t.reader, data, cfg)
	c.body = doc.Body
	c.header, c.headerPart = header, t.headerPart
	c.footer, c.footerPart = footer, t.footerPart

	if err := c.run(); err != nil {
		return nil, err
	}
	c.logger.Debug("compile finished: %d replaced, %d unresolved, %d images, %d tables",
		c.replaced, c.unresolved, c.images, c.tables)

	return t.assemble(doc, header, footer, c)
}

// assemble writes the output archive: the original entries in their
// original order with modified parts swapped in, followed by parts created
// during the compile.
func (t *Template) assemble(doc *docxml.Document, header, footer *docxml.HeaderFooter, c *compilation) ([]byte, error) {
	replaced := make(map[string][]byte)

	docBytes, err := docxml.MarshalDocument(doc)
	if err != nil {
		return nil, &DocumentError{Operation: "serialize document", Cause: err}
	}
	replaced[documentPartName] = docBytes

	if header != nil {
		data, err := docxml.MarshalHeaderFooter(header)
		if err != nil {
			return nil, &DocumentError{Operation: "serialize header", Path: t.headerPart, Cause: err}
		}
		replaced[t.headerPart] = data
	}
	if footer != nil {
		data, err := docxml.MarshalHeaderFooter(footer)
		if err != nil {
			return nil, &DocumentError{Operation: "serialize footer", Path: t.footerPart, Cause: err}
		}
		replaced[t.footerPart] = data
	}

	if c.tables > 0 && t.stylesXML != nil {
		if updated, changed := ensureTableStyle(t.stylesXML); changed {
			replaced[stylesPartName] = updated
		}
	}

	for part, changed := range c.relsChanged {
		if !changed {
			continue
		}
		data, err := c.rels[part].Marshal()
		if err != nil {
			return nil, &DocumentError{Operation: "serialize relationships", Path: part, Cause: err}
		}
		replaced[relsPathFor(part)] = data
	}

	if len(c.mediaTypes) > 0 {
		ctXML, err := t.reader.GetPart(contentTypesPartName)
		if err != nil {
			return nil, err
		}
		if updated, changed := registerDefaultTypes(ctXML, c.mediaTypes); changed {
			replaced[contentTypesPartName] = updated
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	written := make(map[string]bool)
	for _, f := range t.reader.Files() {
		data, ok := replaced[f.Name]
		if !ok {
			rc, err := f.Open()
			if err != nil {
				return nil, &DocumentError{Operation: "read part", Path: f.Name, Cause: err}
			}
			data, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return nil, &DocumentError{Operation: "read part", Path: f.Name, Cause: err}
			}
		}
		if err := writeZipEntry(zw, f.Name, data); err != nil {
			return nil, err
		}
		written[f.Name] = true
	}

	var added []string
	for name := range replaced {
		if !written[name] {
			added = append(added, name)
		}
	}
	for name := range c.media {
		if !written[name] {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	for _, name := range added {
		data, ok := replaced[name]
		if !ok {
			data = c.media[name]
		}
		if err := writeZipEntry(zw, name, data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &DocumentError{Operation: "write archive", Cause: err}
	}
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return &DocumentError{Operation: "write archive", Path: name, Cause: err}
	}
	if _, err := w.Write(data); err != nil {
		return &DocumentError{Operation: "write archive", Path: name, Cause: err}
	}
	return nil
}

// contentTypesIndex is a shallow view of [Content_Types].xml, just enough
// to see which default extensions are registered.
type contentTypesIndex struct {
	XMLName  xml.Name             `xml:"Types"`
	Defaults []contentTypeDefault `xml:"Default"`
}

type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// registerDefaultTypes splices Default entries for the given extensions
// into [Content_Types].xml, skipping extensions already registered. It
// reports whether the bytes changed.
func registerDefaultTypes(ctXML []byte, types map[string]string) ([]byte, bool) {
	var index contentTypesIndex
	if err := xml.Unmarshal(ctXML, &index); err != nil {
		return ctXML, false
	}
	existing := make(map[string]bool)
	for _, d := range index.Defaults {
		existing[strings.ToLower(d.Extension)] = true
	}
	var missing []string
	for ext := range types {
		if !existing[strings.ToLower(ext)] {
			missing = append(missing, ext)
		}
	}
	if len(missing) == 0 {
		return ctXML, false
	}
	sort.Strings(missing)
	var add strings.Builder
	for _, ext := range missing {
		fmt.Fprintf(&add, `<Default Extension="%s" ContentType="%s"></Default>`, ext, types[ext])
	}
	content := string(ctXML)
	idx := strings.LastIndex(content, "</Types>")
	if idx < 0 {
		return ctXML, false
	}
	return []byte(content[:idx] + add.String() + content[idx:]), true
}
