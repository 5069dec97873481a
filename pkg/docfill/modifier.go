package docfill

import "strings"

// ModifierKind selects the mutation a token performs. The set is closed:
// dispatch is over this enum, and unknown modifier suffixes fall back to
// plain replacement rather than failing.
type ModifierKind uint8

const (
	// ModifierReplace substitutes the token with the value's string form.
	ModifierReplace ModifierKind = iota

	// ModifierImage strips the token and embeds the referenced image at
	// the run's position.
	ModifierImage

	// ModifierTable strips the token and splices a table built from a
	// matrix value after the run's paragraph.
	ModifierTable
)

func (k ModifierKind) String() string {
	switch k {
	case ModifierImage:
		return "img"
	case ModifierTable:
		return "tbl"
	default:
		return "replace"
	}
}

// ParseModifierKind maps a token's modifier suffix (with or without its !
// marker) to its kind. Absent and unknown modifiers resolve to
// ModifierReplace.
func ParseModifierKind(modifier string) ModifierKind {
	switch strings.TrimPrefix(modifier, "!") {
	case "img":
		return ModifierImage
	case "tbl":
		return ModifierTable
	default:
		return ModifierReplace
	}
}
