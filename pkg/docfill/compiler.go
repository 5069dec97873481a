package docfill

import (
	"fmt"
	"path"
	"strings"

	"github.com/docfill/go-docfill/pkg/docfill/walk"
	docxml "github.com/docfill/go-docfill/pkg/docfill/xml"
)

// compilation is the per-compile working state: the parsed document trees,
// lazily loaded relationship sets, media added so far, and counters. Each
// Compile call builds a fresh compilation, so a Template can be compiled
// repeatedly and concurrently.
type compilation struct {
	reader *DocxReader
	data   TemplateData
	logger *Logger

	strict        bool
	maxImageBytes int64

	body       *docxml.Body
	header     *docxml.HeaderFooter
	footer     *docxml.HeaderFooter
	headerPart string
	footerPart string

	rels        map[string]*Relationships
	relsChanged map[string]bool
	media       map[string][]byte
	mediaByPath map[string]string
	imageRels   map[string]string
	mediaTypes  map[string]string

	drawingID int
	mediaSeq  int

	replaced   int
	unresolved int
	images     int
	tables     int
}

func newCompilation(reader *DocxReader, data TemplateData, cfg *Config) *compilation {
	c := &compilation{
		reader:        reader,
		data:          data,
		logger:        GetLogger(),
		strict:        cfg.StrictMode,
		maxImageBytes: cfg.MaxImageBytes,
		rels:          make(map[string]*Relationships),
		relsChanged:   make(map[string]bool),
		media:         make(map[string][]byte),
		mediaByPath:   make(map[string]string),
		imageRels:     make(map[string]string),
		mediaTypes:    make(map[string]string),
	}
	// Seed the media counter past anything the template already ships so
	// generated names never collide with existing parts.
	for _, name := range reader.ListParts() {
		var n int
		var ext string
		if _, err := fmt.Sscanf(name, "word/media/image%d.%s", &n, &ext); err == nil && n > c.mediaSeq {
			c.mediaSeq = n
		}
	}
	return c
}

// run walks every paragraph of the document and processes its tokens. The
// location list is built up front, so tables spliced in along the way are
// never revisited.
func (c *compilation) run() error {
	locations := walk.Document(c.body, c.header, c.footer)
	c.logger.Debug("compiling document with %d paragraphs", len(locations))
	for _, loc := range locations {
		if err := c.processParagraph(loc); err != nil {
			return err
		}
	}
	return nil
}

func (c *compilation) processParagraph(loc walk.Location) error {
	if !HasToken(loc.Paragraph.GetText()) {
		return nil
	}
	for _, run := range loc.Paragraph.Runs() {
		tokens := FindTokens(run.GetText())
		for _, tok := range tokens {
			var err error
			switch ParseModifierKind(tok.Modifier) {
			case ModifierImage:
				err = c.applyImage(loc, run, tok)
			case ModifierTable:
				err = c.applyTable(loc, run, tok)
			default:
				err = c.applyReplace(loc, run, tok)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// applyReplace substitutes the token with the formatted value. An
// unresolved reference leaves the run untouched so the token stays visible
// in the output; any other evaluation failure aborts the compile.
func (c *compilation) applyReplace(loc walk.Location, run *docxml.Run, tok Token) error {
	value, err := EvaluateExpression(tok.Expression, c.data)
	if err != nil {
		if !IsUnresolved(err) {
			return err
		}
		if c.strict {
			return err
		}
		c.unresolved++
		c.logger.Debug("leaving unresolved token %s in place in %s", tok.Raw, loc.Part)
		return nil
	}
	rewriteRunText(run, func(s string) string {
		return strings.ReplaceAll(s, tok.Raw, FormatValue(value))
	})
	c.replaced++
	return nil
}

// applyImage evaluates the token, erases it from the run, and embeds the
// referenced picture inline. Evaluation happens before erasure so a fatal
// error aborts with the document unmodified; the token itself is erased
// even when the value is unresolved or empty. A value of the wrong shape
// is skipped without diagnostics.
func (c *compilation) applyImage(loc walk.Location, run *docxml.Run, tok Token) error {
	value, err := EvaluateExpression(tok.Expression, c.data)
	if err != nil && !IsUnresolved(err) {
		return err
	}
	eraseRunToken(run, tok.Raw)
	if err != nil {
		if c.strict {
			return err
		}
		c.unresolved++
		c.logger.Debug("skipping image for unresolved token %s", tok.Raw)
		return nil
	}
	if isEmptyValue(value) {
		return nil
	}
	spec, ok := parseImageValue(value)
	if !ok {
		c.logger.Debug("skipping image token %s: unsupported value shape", tok.Raw)
		return nil
	}
	return c.embedImage(loc, run, spec)
}

// applyTable evaluates the token, erases it, and splices a generated table
// into the paragraph's container right after it. Erasure and skip rules
// mirror applyImage.
func (c *compilation) applyTable(loc walk.Location, run *docxml.Run, tok Token) error {
	value, err := EvaluateExpression(tok.Expression, c.data)
	if err != nil && !IsUnresolved(err) {
		return err
	}
	eraseRunToken(run, tok.Raw)
	if err != nil {
		if c.strict {
			return err
		}
		c.unresolved++
		c.logger.Debug("skipping table for unresolved token %s", tok.Raw)
		return nil
	}
	if isEmptyValue(value) {
		return nil
	}
	matrix, ok := asMatrix(value)
	if !ok {
		c.logger.Debug("skipping table token %s: unsupported value shape", tok.Raw)
		return nil
	}
	loc.InsertTableAfter(buildTable(matrix))
	c.tables++
	c.logger.Debug("inserted %dx%d table in %s", len(matrix), len(matrix[0]), loc.Part)
	return nil
}

// embedImage loads the picture, stores it as a media part, registers a
// relationship on the part owning the paragraph, and appends the drawing
// to the run. Media is shared when the same file is embedded twice;
// relationships are per owning part.
func (c *compilation) embedImage(loc walk.Location, run *docxml.Run, spec imageSpec) error {
	data, cfg, format, err := loadImage(spec.path, c.maxImageBytes)
	if err != nil {
		return err
	}
	owner := c.partNameFor(loc.Part)

	mediaName, ok := c.mediaByPath[spec.path]
	if !ok {
		for {
			c.mediaSeq++
			mediaName = fmt.Sprintf("word/media/image%d.%s", c.mediaSeq, format)
			if !c.reader.HasPart(mediaName) && c.media[mediaName] == nil {
				break
			}
		}
		c.media[mediaName] = data
		c.mediaByPath[spec.path] = mediaName
		c.mediaTypes[format] = imageContentTypes[format]
	}

	relKey := owner + "\x00" + mediaName
	relID, ok := c.imageRels[relKey]
	if !ok {
		rels, err := c.relsFor(owner)
		if err != nil {
			return err
		}
		relID = rels.AddImage(relTargetFor(owner, mediaName))
		c.relsChanged[owner] = true
		c.imageRels[relKey] = relID
	}

	cx, cy := computeExtent(cfg, spec.widthMM, spec.heightMM)
	c.drawingID++
	run.AppendRaw(buildInlineDrawing(relID, c.drawingID, path.Base(spec.path), cx, cy))
	c.images++
	c.logger.Debug("embedded %s as %s (%s) in %s", spec.path, mediaName, relID, loc.Part)
	return nil
}

func (c *compilation) partNameFor(part walk.Part) string {
	switch part {
	case walk.PartHeader:
		return c.headerPart
	case walk.PartFooter:
		return c.footerPart
	default:
		return documentPartName
	}
}

// relsFor returns the mutable relationship set of a part, loading it from
// the archive on first use.
func (c *compilation) relsFor(partName string) (*Relationships, error) {
	if rels, ok := c.rels[partName]; ok {
		return rels, nil
	}
	rels, err := c.reader.GetRelationships(partName)
	if err != nil {
		return nil, err
	}
	c.rels[partName] = rels
	return rels, nil
}

// relTargetFor computes the relationship target for a part as seen from
// its owner, relative when the part lives under the owner's directory and
// package-absolute otherwise.
func relTargetFor(ownerPart, partName string) string {
	dir := path.Dir(ownerPart)
	if dir != "." && strings.HasPrefix(partName, dir+"/") {
		return partName[len(dir)+1:]
	}
	return "/" + partName
}

// eraseRunToken removes every occurrence of the token from the run's text.
func eraseRunToken(run *docxml.Run, token string) {
	rewriteRunText(run, func(s string) string {
		return strings.ReplaceAll(s, token, "")
	})
}

// rewriteRunText applies f to the run's textual stream. Non-textual
// children such as drawings are kept and trail the rewritten text, so a
// picture embedded for one token survives the erasure of the next.
func rewriteRunText(run *docxml.Run, f func(string) string) {
	text := run.GetText()
	next := f(text)
	var kept []docxml.RunContent
	for _, el := range run.Content {
		switch el.(type) {
		case *docxml.Text, *docxml.Tab, *docxml.Break:
		default:
			kept = append(kept, el)
		}
	}
	run.SetText(next)
	run.Content = append(run.Content, kept...)
}
