// Package xml models the WordprocessingML parts of a DOCX package:
// the document body, headers and footers, paragraphs, runs, and tables.
//
// The model is deliberately narrow. It types exactly the elements the
// template engine needs to read and rewrite (paragraph and run structure,
// table grids, cell content) and captures everything else verbatim as
// RawXMLElement values so that unrecognized markup survives a parse and
// re-marshal round trip in its original position.
//
// Parsing a document and reading its text:
//
//	doc, err := xml.ParseDocument(bytes.NewReader(part))
//	if err != nil {
//	    return err
//	}
//	for _, p := range doc.Body.Paragraphs() {
//	    fmt.Println(p.GetText())
//	}
//
// Serialization goes through MarshalDocument and MarshalHeaderFooter,
// which re-emit the root attributes captured at parse time.
package xml
