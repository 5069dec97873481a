// Package docfill fills Microsoft Word documents (DOCX) from data. It
// scans a template for @ tokens, substitutes values from a data map, and
// can embed pictures and generate tables in place of tokens.
//
// Basic Usage:
//
//	// Prepare a template from a file
//	tmpl, err := docfill.PrepareFile("template.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Compile with data
//	data := docfill.TemplateData{
//	    "name":    "Ada Lovelace",
//	    "company": map[string]interface{}{"city": "London"},
//	    "logo":    []interface{}{"logo.png", 40, nil},
//	    "lines": [][]interface{}{
//	        {"Item", "Qty"},
//	        {"Widget", 12},
//	    },
//	}
//
//	output, err := tmpl.Compile(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = os.WriteFile("output.docx", output, 0644)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Token Syntax:
//
// Values: @name, @{name}, @company.city, @items[0], @map['key']
//
// Index accessors in tokens take non-negative integers only; negative
// indices (counting from the end) are accepted by EvaluateExpression but
// the token grammar does not match a minus sign.
//
// Pictures: @logo!img where the value is a path or a (path, width, height)
// triple with dimensions in millimetres.
//
// Tables: @lines!tbl where the value is a list of rows; the first row
// fixes the column count and the table is inserted after the paragraph
// holding the token.
//
// A token whose root name is missing from the data is left in the output
// untouched, so optional fields can be filled by a later pass.
package docfill

import (
	"io"
	"os"
)

// Engine binds a configuration to the template operations. The zero-cost
// alternative is the package-level helpers, which run under the global
// configuration.
type Engine struct {
	config *Config
}

// Option adjusts an Engine at construction time.
type Option func(*Engine)

// WithConfig sets the engine's configuration.
func WithConfig(cfg *Config) Option {
	return func(e *Engine) { e.config = cfg }
}

// New creates an engine with the global configuration.
func New(opts ...Option) *Engine {
	e := &Engine{config: GetGlobalConfig()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewWithConfig creates an engine with an explicit configuration.
func NewWithConfig(cfg *Config) *Engine {
	return New(WithConfig(cfg))
}

// Prepare reads a .docx template from r.
func (e *Engine) Prepare(r io.Reader) (*Template, error) {
	return Prepare(r)
}

// PrepareFile reads and prepares a .docx template from disk.
func (e *Engine) PrepareFile(path string) (*Template, error) {
	return PrepareFile(path)
}

// Compile prepares a template from r and compiles it with data under the
// engine's configuration.
func (e *Engine) Compile(r io.Reader, data TemplateData) ([]byte, error) {
	tmpl, err := Prepare(r)
	if err != nil {
		return nil, err
	}
	return tmpl.CompileWithConfig(data, e.config)
}

// Compile prepares a template from r and compiles it with data in one
// step. Prepare separately when the same template is compiled repeatedly.
func Compile(r io.Reader, data TemplateData) ([]byte, error) {
	tmpl, err := Prepare(r)
	if err != nil {
		return nil, err
	}
	return tmpl.Compile(data)
}

// CompileFile prepares the template at templatePath and compiles it with
// data, returning the bytes of the produced document.
func CompileFile(templatePath string, data TemplateData) ([]byte, error) {
	tmpl, err := PrepareFile(templatePath)
	if err != nil {
		return nil, err
	}
	return tmpl.Compile(data)
}

// CompileFileTo compiles the template at templatePath with data and
// writes the produced document to outputPath.
func CompileFileTo(templatePath, outputPath string, data TemplateData) error {
	out, err := CompileFile(templatePath, data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return &DocumentError{Operation: "write output", Path: outputPath, Cause: err}
	}
	return nil
}
