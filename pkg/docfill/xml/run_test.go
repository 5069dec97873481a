package xml

import (
	"bytes"
	"encoding/xml"
	"reflect"
	"strings"
	"testing"
)

// marshalElement encodes a single element the way the part serializers do,
// without a declaration or root wrapper.
func marshalElement(v interface{}) (string, error) {
	var buf bytes.Buffer
	e := xml.NewEncoder(&buf)
	if err := e.Encode(v); err != nil {
		return "", err
	}
	if err := e.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func TestRunGetText(t *testing.T) {
	tests := []struct {
		name    string
		content []RunContent
		want    string
	}{
		{
			name:    "plain text",
			content: []RunContent{&Text{Value: "hello"}},
			want:    "hello",
		},
		{
			name:    "tab between texts",
			content: []RunContent{&Text{Value: "a"}, &Tab{}, &Text{Value: "b"}},
			want:    "a\tb",
		},
		{
			name:    "break renders as newline",
			content: []RunContent{&Text{Value: "a"}, &Break{}, &Text{Value: "b"}},
			want:    "a\nb",
		},
		{
			name:    "raw children contribute nothing",
			content: []RunContent{&Text{Value: "a"}, &RawXMLElement{Name: "w:drawing"}, &Text{Value: "b"}},
			want:    "ab",
		},
		{
			name:    "empty run",
			content: nil,
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Run{Content: tt.content}
			if got := r.GetText(); got != tt.want {
				t.Errorf("GetText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunSetText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []RunContent
	}{
		{
			name: "plain text",
			text: "hello",
			want: []RunContent{&Text{Value: "hello"}},
		},
		{
			name: "tab becomes element",
			text: "a\tb",
			want: []RunContent{&Text{Value: "a"}, &Tab{}, &Text{Value: "b"}},
		},
		{
			name: "newline becomes break",
			text: "a\nb",
			want: []RunContent{&Text{Value: "a"}, &Break{}, &Text{Value: "b"}},
		},
		{
			name: "carriage return becomes break",
			text: "a\rb",
			want: []RunContent{&Text{Value: "a"}, &Break{}, &Text{Value: "b"}},
		},
		{
			name: "leading and trailing separators",
			text: "\tx\n",
			want: []RunContent{&Tab{}, &Text{Value: "x"}, &Break{}},
		},
		{
			name: "empty text keeps one empty element",
			text: "",
			want: []RunContent{&Text{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Run{}
			r.SetText(tt.text)
			if !reflect.DeepEqual(r.Content, tt.want) {
				t.Errorf("SetText(%q) content = %#v, want %#v", tt.text, r.Content, tt.want)
			}
		})
	}
}

func TestRunSetTextInvertsGetText(t *testing.T) {
	for _, text := range []string{"plain", "a\tb\nc", "\t\t", "line\nline\nline", ""} {
		r := &Run{}
		r.SetText(text)
		if got := r.GetText(); got != text {
			t.Errorf("GetText() after SetText(%q) = %q", text, got)
		}
	}
}

func TestRunSetTextKeepsProperties(t *testing.T) {
	r := &Run{Properties: &RawXMLElement{Name: "w:rPr", Content: []byte("<w:b></w:b>")}}
	r.SetText("new")
	if r.Properties == nil {
		t.Fatal("SetText() dropped the run properties")
	}
	if got := r.GetText(); got != "new" {
		t.Errorf("GetText() = %q, want %q", got, "new")
	}
}

func TestRunMarshal(t *testing.T) {
	r := &Run{
		Properties: &RawXMLElement{Name: "w:rPr", Content: []byte("<w:b></w:b>")},
	}
	r.SetText("a\tb\nc")

	out, err := marshalElement(r)
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}
	want := `<w:r><w:rPr><w:b></w:b></w:rPr><w:t xml:space="preserve">a</w:t><w:tab></w:tab><w:t xml:space="preserve">b</w:t><w:br></w:br><w:t xml:space="preserve">c</w:t></w:r>`
	if out != want {
		t.Errorf("marshal = %q, want %q", out, want)
	}
}

func TestRunParseBreakType(t *testing.T) {
	src := `<w:r xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:t>x</w:t><w:br w:type="page"></w:br></w:r>`
	doc, err := ParseDocument(strings.NewReader(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p>` + src + `</w:p></w:body></w:document>`))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	runs := doc.Body.Paragraphs()[0].Runs()
	if len(runs) != 1 {
		t.Fatalf("Runs() = %d, want 1", len(runs))
	}
	br, ok := runs[0].Content[1].(*Break)
	if !ok {
		t.Fatalf("second run child = %T, want *Break", runs[0].Content[1])
	}
	if br.Type != "page" {
		t.Errorf("Break.Type = %q, want %q", br.Type, "page")
	}

	out, err := marshalElement(runs[0])
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}
	if !strings.Contains(out, `<w:br w:type="page">`) {
		t.Errorf("marshal = %q, want page break attribute preserved", out)
	}
}

func TestTextEscaping(t *testing.T) {
	r := &Run{}
	r.SetText(`a < b & "c"`)
	out, err := marshalElement(r)
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}
	if !strings.Contains(out, "a &lt; b &amp; &#34;c&#34;") {
		t.Errorf("marshal = %q, want escaped text", out)
	}
}
