package docfill

import (
	"encoding/xml"
	"strings"
)

// tableStyleID is the style generated tables reference.
const tableStyleID = "TableGrid"

// tableGridStyle is the standard Word "Table Grid" definition, injected
// into styles.xml when the template does not define it.
const tableGridStyle = `<w:style w:type="table" w:styleId="TableGrid">` +
	`<w:name w:val="Table Grid"></w:name>` +
	`<w:basedOn w:val="TableNormal"></w:basedOn>` +
	`<w:uiPriority w:val="39"></w:uiPriority>` +
	`<w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"></w:spacing></w:pPr>` +
	`<w:tblPr><w:tblBorders>` +
	`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"></w:top>` +
	`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"></w:left>` +
	`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"></w:bottom>` +
	`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"></w:right>` +
	`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"></w:insideH>` +
	`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"></w:insideV>` +
	`</w:tblBorders></w:tblPr>` +
	`</w:style>`

// documentStyles is a shallow view of word/styles.xml, just enough to see
// which style IDs the template defines.
type documentStyles struct {
	XMLName xml.Name        `xml:"styles"`
	Styles  []documentStyle `xml:"style"`
}

type documentStyle struct {
	Type    string `xml:"type,attr"`
	StyleID string `xml:"styleId,attr"`
}

// ensureTableStyle splices the TableGrid style definition into styles.xml
// when it is not already defined. It reports whether the bytes changed;
// unparsable input or a missing closing tag leaves the part untouched.
func ensureTableStyle(stylesXML []byte) ([]byte, bool) {
	var styles documentStyles
	if err := xml.Unmarshal(stylesXML, &styles); err != nil {
		return stylesXML, false
	}
	for _, s := range styles.Styles {
		if s.StyleID == tableStyleID {
			return stylesXML, false
		}
	}
	content := string(stylesXML)
	idx := strings.LastIndex(content, "</w:styles>")
	if idx < 0 {
		return stylesXML, false
	}
	return []byte(content[:idx] + tableGridStyle + content[idx:]), true
}
