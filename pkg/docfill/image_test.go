package docfill

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseImageValue(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   imageSpec
		wantOK bool
	}{
		{
			name:   "bare path",
			in:     "logo.png",
			want:   imageSpec{path: "logo.png"},
			wantOK: true,
		},
		{
			name:   "path with both dimensions",
			in:     []interface{}{"logo.png", 25, 30.5},
			want:   imageSpec{path: "logo.png", widthMM: 25, heightMM: 30.5},
			wantOK: true,
		},
		{
			name:   "nil dimensions mean natural size",
			in:     []interface{}{"logo.png", nil, nil},
			want:   imageSpec{path: "logo.png"},
			wantOK: true,
		},
		{
			name:   "width only",
			in:     []interface{}{"logo.png", int64(40), nil},
			want:   imageSpec{path: "logo.png", widthMM: 40},
			wantOK: true,
		},
		{
			name:   "float32 dimension",
			in:     []interface{}{"logo.png", nil, float32(12.5)},
			want:   imageSpec{path: "logo.png", heightMM: 12.5},
			wantOK: true,
		},
		{name: "number value", in: 42, wantOK: false},
		{name: "nil value", in: nil, wantOK: false},
		{name: "two element slice", in: []interface{}{"logo.png", 25}, wantOK: false},
		{name: "four element slice", in: []interface{}{"logo.png", 25, 25, 25}, wantOK: false},
		{name: "non-string path", in: []interface{}{42, 25, 25}, wantOK: false},
		{name: "empty path", in: []interface{}{"", 25, 25}, wantOK: false},
		{name: "string dimension", in: []interface{}{"logo.png", "25", nil}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseImageValue(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("parseImageValue(%v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseImageValue(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsMillimeters(t *testing.T) {
	tests := []struct {
		in     interface{}
		want   float64
		wantOK bool
	}{
		{nil, 0, true},
		{25, 25, true},
		{int64(40), 40, true},
		{float32(1.5), 1.5, true},
		{12.25, 12.25, true},
		{"25", 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := asMillimeters(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("asMillimeters(%v) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestComputeExtent(t *testing.T) {
	cfg := image.Config{Width: 96, Height: 48}
	tests := []struct {
		name     string
		cfg      image.Config
		widthMM  float64
		heightMM float64
		wantCx   int64
		wantCy   int64
	}{
		{
			name: "both dimensions explicit",
			cfg:  cfg, widthMM: 10, heightMM: 20,
			wantCx: 360000, wantCy: 720000,
		},
		{
			name: "width scales height by aspect",
			cfg:  cfg, widthMM: 10,
			wantCx: 360000, wantCy: 180000,
		},
		{
			name: "height scales width by aspect",
			cfg:  cfg, heightMM: 12,
			wantCx: 864000, wantCy: 432000,
		},
		{
			name: "natural size at 96 dpi",
			cfg:  cfg,
			wantCx: 914400, wantCy: 457200,
		},
		{
			name: "degenerate config with explicit width",
			cfg:  image.Config{}, widthMM: 10,
			wantCx: 360000, wantCy: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := computeExtent(tt.cfg, tt.widthMM, tt.heightMM)
			if cx != tt.wantCx || cy != tt.wantCy {
				t.Errorf("computeExtent() = %d, %d, want %d, %d", cx, cy, tt.wantCx, tt.wantCy)
			}
		})
	}
}

func TestMmToEMU(t *testing.T) {
	tests := []struct {
		mm   float64
		want int64
	}{
		{1, 36000},
		{25.4, 914400},
		{0.5, 18000},
		{0, 0},
	}
	for _, tt := range tests {
		if got := mmToEMU(tt.mm); got != tt.want {
			t.Errorf("mmToEMU(%v) = %d, want %d", tt.mm, got, tt.want)
		}
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	png := PNGBytes(4, 6)
	if err := os.WriteFile(path, png, 0644); err != nil {
		t.Fatal(err)
	}

	data, cfg, format, err := loadImage(path, 0)
	if err != nil {
		t.Fatalf("loadImage() error = %v", err)
	}
	if len(data) != len(png) {
		t.Errorf("loadImage() returned %d bytes, want %d", len(data), len(png))
	}
	if cfg.Width != 4 || cfg.Height != 6 {
		t.Errorf("loadImage() config = %dx%d, want 4x6", cfg.Width, cfg.Height)
	}
	if format != "png" {
		t.Errorf("loadImage() format = %q, want %q", format, "png")
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "pic.png")
	if err := os.WriteFile(pngPath, PNGBytes(4, 4), 0644); err != nil {
		t.Fatal(err)
	}
	textPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(textPath, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		maxBytes int64
		wantMsg  string
	}{
		{"missing file", filepath.Join(dir, "absent.png"), 0, "absent.png"},
		{"over size limit", pngPath, 10, "limit is 10"},
		{"not an image", textPath, 0, "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := loadImage(tt.path, tt.maxBytes)
			if err == nil {
				t.Fatal("loadImage() expected error")
			}
			if !IsImageError(err) {
				t.Errorf("loadImage() error = %v, want image error", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want %q inside", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuildInlineDrawing(t *testing.T) {
	el := buildInlineDrawing("rId9", 3, "logo.png", 360000, 180000)
	if el.Name != "w:drawing" {
		t.Errorf("Name = %q, want %q", el.Name, "w:drawing")
	}
	content := string(el.Content)
	for _, want := range []string{
		`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"`,
		`<wp:extent cx="360000" cy="180000">`,
		`<wp:docPr id="3" name="logo.png">`,
		`r:embed="rId9"`,
		`<a:ext cx="360000" cy="180000">`,
		`uri="http://schemas.openxmlformats.org/drawingml/2006/picture"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("drawing content missing %q", want)
		}
	}
}

func TestBuildInlineDrawingEscapesName(t *testing.T) {
	el := buildInlineDrawing("rId1", 1, `a"b<c>`, 1, 1)
	content := string(el.Content)
	if !strings.Contains(content, `name="a&quot;b&lt;c&gt;"`) {
		t.Errorf("drawing content did not escape the name: %s", content)
	}
}
