package docfill

import (
	"regexp"
	"strings"
)

// tokenPattern recognizes embedded expression tokens: an @ marker followed
// by an identifier/accessor chain, optionally wrapped in braces, optionally
// suffixed with a !modifier of lowercase letters. Examples: @name,
// @{data['key']}, @photo!img, @grid!tbl.
var tokenPattern = regexp.MustCompile(`(@\{?[\w.\[\]'"()]+\}?)(![a-z]+)?`)

// Token is one recognized expression token inside a run's text. Tokens are
// transient: they are discovered, evaluated, and consumed within a single
// compilation pass.
type Token struct {
	// Raw is the full matched text, expression and modifier included. The
	// replace and erase operations substitute exactly this substring.
	Raw string

	// Expression is the expression body with the @ marker and any brace
	// wrapping stripped.
	Expression string

	// Modifier is the modifier suffix including its ! marker, or empty.
	Modifier string

	// Start and End are byte offsets of the match in the scanned text.
	Start int
	End   int
}

// FindTokens scans text and returns all tokens in match order. Matching is
// performed against the given text only; tokens split across run
// boundaries are never recognized.
func FindTokens(text string) []Token {
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	logger := GetLogger()
	debug := logger.IsDebugEnabled()

	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tok := Token{
			Raw:   text[m[0]:m[1]],
			Start: m[0],
			End:   m[1],
		}
		expr := text[m[2]:m[3]]
		tok.Expression = strings.Trim(expr[1:], "{}")
		if m[4] >= 0 {
			tok.Modifier = text[m[4]:m[5]]
		}
		if debug {
			logger.Debug("found token %q expr=%q modifier=%q at %d", tok.Raw, tok.Expression, tok.Modifier, tok.Start)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// HasToken reports whether text contains at least one token. Paragraph
// processing uses it as the gate before any run is scanned.
func HasToken(text string) bool {
	return tokenPattern.MatchString(text)
}
