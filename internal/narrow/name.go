package narrow

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	prefixNullOr = "nullOr"
	prefixAll    = "all"
)

// Names of the per-element negated assertions.
const (
	AllNotNull       = "allNotNull"
	AllNotInstanceOf = "allNotInstanceOf"
	AllNotSame       = "allNotSame"
)

// allNotMinArgs holds the argument count each allNot assertion needs.
var allNotMinArgs = map[string]int{
	AllNotNull:       1,
	AllNotInstanceOf: 2,
	AllNotSame:       2,
}

// Variant describes the structural form of an assertion call.
type Variant struct {
	// NullTolerant is set by the nullOr prefix: null also passes.
	NullTolerant bool
	// PerElement is set by the all prefix: the check applies to every
	// element of a container argument.
	PerElement bool
	// PerElementNegated marks allNotNull, allNotInstanceOf and allNotSame.
	PerElementNegated bool
}

func (v Variant) String() string {
	var parts []string
	if v.NullTolerant {
		parts = append(parts, "null-tolerant")
	}
	if v.PerElementNegated {
		parts = append(parts, "per-element-negated")
	} else if v.PerElement {
		parts = append(parts, "per-element")
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, ",")
}

// Normalize strips the nullOr prefix and then the all prefix from raw and
// lowercases the first character of the rest. After nullOr the all prefix
// is matched in its camel-cased form (nullOrAllString). Normalize never
// sets PerElementNegated.
func Normalize(raw string) (string, Variant) {
	var v Variant
	rest := raw
	if strings.HasPrefix(rest, prefixNullOr) {
		v.NullTolerant = true
		rest = rest[len(prefixNullOr):]
	}
	all := prefixAll
	if v.NullTolerant {
		all = "All"
	}
	if strings.HasPrefix(rest, all) {
		v.PerElement = true
		rest = rest[len(all):]
	}
	return lowerFirst(rest), v
}

// Describe is Normalize plus detection of the fixed allNot assertions.
func Describe(raw string) (string, Variant) {
	canonical, v := Normalize(raw)
	if _, ok := allNotMinArgs[raw]; ok {
		v.PerElementNegated = true
	}
	return canonical, v
}

// isNegatedPerElement reports whether the name is an all-prefixed negation,
// like allNotFalse. Only the fixed allNot assertions handle those.
func isNegatedPerElement(canonical string, v Variant) bool {
	if !v.PerElement || !strings.HasPrefix(canonical, "not") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(canonical[len("not"):])
	return unicode.IsUpper(r)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
