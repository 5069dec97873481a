package docfill

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

const (
	documentPartName     = "word/document.xml"
	stylesPartName       = "word/styles.xml"
	contentTypesPartName = "[Content_Types].xml"

	relationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNamespace  = "http://schemas.openxmlformats.org/package/2006/content-types"

	imageRelationshipType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// DocxReader provides access to the parts of a DOCX package.
type DocxReader struct {
	reader *zip.Reader
	parts  map[string]*zip.File
}

// Relationship is one entry of a part's .rels file.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships is the root of a .rels part.
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// NewDocxReader opens a DOCX package and verifies it holds a main document
// part.
func NewDocxReader(r io.ReaderAt, size int64) (*DocxReader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &DocumentError{Operation: "open", Cause: err}
	}
	dr := &DocxReader{
		reader: zr,
		parts:  make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		dr.parts[f.Name] = f
	}
	if _, ok := dr.parts[documentPartName]; !ok {
		return nil, &DocumentError{
			Operation: "open",
			Cause:     fmt.Errorf("missing %s part", documentPartName),
		}
	}
	return dr, nil
}

// Files returns the package's entries in archive order.
func (r *DocxReader) Files() []*zip.File {
	return r.reader.File
}

// HasPart reports whether the package contains the named part.
func (r *DocxReader) HasPart(name string) bool {
	_, ok := r.parts[name]
	return ok
}

// GetPart returns the raw bytes of the named part.
func (r *DocxReader) GetPart(name string) ([]byte, error) {
	f, ok := r.parts[name]
	if !ok {
		return nil, &DocumentError{Operation: "read part", Path: name, Cause: fmt.Errorf("part not found")}
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &DocumentError{Operation: "read part", Path: name, Cause: err}
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &DocumentError{Operation: "read part", Path: name, Cause: err}
	}
	return data, nil
}

// GetDocumentXML returns the main document part.
func (r *DocxReader) GetDocumentXML() ([]byte, error) {
	return r.GetPart(documentPartName)
}

// ListParts returns all part names, sorted.
func (r *DocxReader) ListParts() []string {
	names := make([]string, 0, len(r.parts))
	for name := range r.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// relsPathFor maps a part name to its relationships part, e.g.
// word/document.xml -> word/_rels/document.xml.rels.
func relsPathFor(partName string) string {
	dir := path.Dir(partName)
	base := path.Base(partName)
	if dir == "." {
		return "_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

// GetRelationships loads the relationships of the named part. A part with
// no .rels file yields an empty, usable relationship set.
func (r *DocxReader) GetRelationships(partName string) (*Relationships, error) {
	rels := &Relationships{Namespace: relationshipsNamespace}
	relsPath := relsPathFor(partName)
	if !r.HasPart(relsPath) {
		return rels, nil
	}
	data, err := r.GetPart(relsPath)
	if err != nil {
		return nil, err
	}
	if err := xml.Unmarshal(data, rels); err != nil {
		return nil, &DocumentError{Operation: "parse relationships", Path: partName, Cause: err}
	}
	rels.Namespace = relationshipsNamespace
	return rels, nil
}

// FindTarget returns the target of the relationship with the given ID.
func (rels *Relationships) FindTarget(id string) (string, bool) {
	for _, rel := range rels.Relationship {
		if rel.ID == id {
			return rel.Target, true
		}
	}
	return "", false
}

// NextID allocates the next free rId identifier.
func (rels *Relationships) NextID() string {
	max := 0
	for _, rel := range rels.Relationship {
		if n, err := strconv.Atoi(strings.TrimPrefix(rel.ID, "rId")); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("rId%d", max+1)
}

// AddImage appends an image relationship pointing at target (a path
// relative to the owning part) and returns the allocated ID.
func (rels *Relationships) AddImage(target string) string {
	id := rels.NextID()
	rels.Relationship = append(rels.Relationship, Relationship{
		ID:     id,
		Type:   imageRelationshipType,
		Target: target,
	})
	return id
}

// Marshal serializes the relationships part with its XML declaration.
func (rels *Relationships) Marshal() ([]byte, error) {
	rels.Namespace = relationshipsNamespace
	data, err := xml.Marshal(rels)
	if err != nil {
		return nil, err
	}
	return append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"), data...), nil
}

// resolvePartTarget turns a relationship target into a package part name.
// Targets are relative to the directory of the owning part unless they
// start with a slash.
func resolvePartTarget(ownerPart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	dir := path.Dir(ownerPart)
	if dir == "." {
		return target
	}
	return path.Join(dir, target)
}
