package docfill

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	docxml "github.com/docfill/go-docfill/pkg/docfill/xml"
)

const (
	// 914400 EMU per inch: 36000 per millimetre, 9525 per pixel at 96 DPI.
	emuPerMillimeter = 36000
	emuPerPixel      = 9525

	wpDrawingNamespace = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	drawingNamespace   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	pictureNamespace   = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	officeRelNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// imageContentTypes maps the format names reported by image.DecodeConfig to
// the content types registered for embedded media.
var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

// imageSpec is a decoded image token value: the file to embed and optional
// explicit dimensions in millimetres. Zero leaves an axis at natural size.
type imageSpec struct {
	path     string
	widthMM  float64
	heightMM float64
}

// parseImageValue interprets an evaluated image token value. A bare string
// is a path embedded at natural size; a three-element slice is
// (path, width, height) in millimetres with nil for unset. Any other shape
// reports ok=false and the handler skips the insertion silently.
func parseImageValue(v interface{}) (imageSpec, bool) {
	switch val := v.(type) {
	case string:
		return imageSpec{path: val}, true
	case []interface{}:
		if len(val) != 3 {
			return imageSpec{}, false
		}
		path, ok := val[0].(string)
		if !ok || path == "" {
			return imageSpec{}, false
		}
		width, ok := asMillimeters(val[1])
		if !ok {
			return imageSpec{}, false
		}
		height, ok := asMillimeters(val[2])
		if !ok {
			return imageSpec{}, false
		}
		return imageSpec{path: path, widthMM: width, heightMM: height}, true
	default:
		return imageSpec{}, false
	}
}

func asMillimeters(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// loadImage reads and probes an image file, returning its bytes, decoded
// dimensions, and format name. Registered decoders cover png, jpeg, gif,
// bmp, and tiff.
func loadImage(path string, maxBytes int64) ([]byte, image.Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, image.Config{}, "", &ImageError{Path: path, Cause: err}
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, image.Config{}, "", &ImageError{
			Path:  path,
			Cause: fmt.Errorf("image is %d bytes, limit is %d", len(data), maxBytes),
		}
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, image.Config{}, "", &ImageError{Path: path, Cause: err}
	}
	if _, ok := imageContentTypes[format]; !ok {
		return nil, image.Config{}, "", &ImageError{
			Path:  path,
			Cause: fmt.Errorf("unsupported image format %q", format),
		}
	}
	return data, cfg, format, nil
}

// computeExtent resolves the drawing extent in EMU. Explicit dimensions
// win; a single explicit dimension scales the other to keep the image's
// aspect ratio; with neither, the natural pixel size at 96 DPI is used.
func computeExtent(cfg image.Config, widthMM, heightMM float64) (cx, cy int64) {
	naturalCx := int64(cfg.Width) * emuPerPixel
	naturalCy := int64(cfg.Height) * emuPerPixel
	switch {
	case widthMM > 0 && heightMM > 0:
		return mmToEMU(widthMM), mmToEMU(heightMM)
	case widthMM > 0:
		cx = mmToEMU(widthMM)
		cy = naturalCy
		if cfg.Width > 0 {
			cy = int64(math.Round(float64(cx) * float64(cfg.Height) / float64(cfg.Width)))
		}
		return cx, cy
	case heightMM > 0:
		cy = mmToEMU(heightMM)
		cx = naturalCx
		if cfg.Height > 0 {
			cx = int64(math.Round(float64(cy) * float64(cfg.Width) / float64(cfg.Height)))
		}
		return cx, cy
	default:
		return naturalCx, naturalCy
	}
}

func mmToEMU(mm float64) int64 {
	return int64(math.Round(mm * emuPerMillimeter))
}

// buildInlineDrawing generates the w:drawing markup for an embedded image.
// Namespace declarations are carried on the generated elements themselves,
// so the drawing stays valid in documents whose root does not declare the
// drawing namespaces.
func buildInlineDrawing(relID string, drawingID int, name string, cx, cy int64) *docxml.RawXMLElement {
	name = escapeAttrValue(name)
	var b strings.Builder
	fmt.Fprintf(&b, `<wp:inline xmlns:wp=%q distT="0" distB="0" distL="0" distR="0">`, wpDrawingNamespace)
	fmt.Fprintf(&b, `<wp:extent cx="%d" cy="%d"></wp:extent>`, cx, cy)
	b.WriteString(`<wp:effectExtent l="0" t="0" r="0" b="0"></wp:effectExtent>`)
	fmt.Fprintf(&b, `<wp:docPr id="%d" name="%s"></wp:docPr>`, drawingID, name)
	fmt.Fprintf(&b, `<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a=%q noChangeAspect="1"></a:graphicFrameLocks></wp:cNvGraphicFramePr>`, drawingNamespace)
	fmt.Fprintf(&b, `<a:graphic xmlns:a=%q><a:graphicData uri=%q>`, drawingNamespace, pictureNamespace)
	fmt.Fprintf(&b, `<pic:pic xmlns:pic=%q>`, pictureNamespace)
	fmt.Fprintf(&b, `<pic:nvPicPr><pic:cNvPr id="%d" name="%s"></pic:cNvPr><pic:cNvPicPr></pic:cNvPicPr></pic:nvPicPr>`, drawingID, name)
	fmt.Fprintf(&b, `<pic:blipFill><a:blip xmlns:r=%q r:embed="%s"></a:blip><a:stretch><a:fillRect></a:fillRect></a:stretch></pic:blipFill>`, officeRelNamespace, relID)
	fmt.Fprintf(&b, `<pic:spPr><a:xfrm><a:off x="0" y="0"></a:off><a:ext cx="%d" cy="%d"></a:ext></a:xfrm><a:prstGeom prst="rect"><a:avLst></a:avLst></a:prstGeom></pic:spPr>`, cx, cy)
	b.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline>`)
	return &docxml.RawXMLElement{Name: "w:drawing", Content: []byte(b.String())}
}

func escapeAttrValue(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
