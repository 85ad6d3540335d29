// Package encoding provides quoting and splicing helpers for modifier
// values embedded in sequence titles.
//
// Inside a title the characters '[', ']' and '=' delimit modifiers and an
// unescaped '"' opens a quoted span. A value holding any of them is stored
// wrapped in double quotes with embedded quotes written as \".
package encoding

import "strings"

// reserved lists the characters that force a value to be quoted.
const reserved = "[]="

// NeedsQuoting reports whether v must be quoted before it is written into
// a title.
func NeedsQuoting(v string) bool {
	if IsQuoted(v) {
		return false
	}
	return strings.ContainsAny(v, reserved) || hasUnescapedQuote(v)
}

// IsQuoted reports whether v is already a safely quoted value: it starts and
// ends with an unescaped '"' and holds no other unescaped quote.
func IsQuoted(v string) bool {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return false
	}
	if v[len(v)-2] == '\\' && len(v) > 2 {
		return false
	}
	return !hasUnescapedQuote(v[1 : len(v)-1])
}

// QuoteValue wraps v in double quotes, escaping every embedded quote, when
// it contains reserved characters. Values that need no quoting and values
// that are already safely quoted are returned unchanged, so QuoteValue is
// idempotent.
func QuoteValue(v string) string {
	if !NeedsQuoting(v) {
		return v
	}

	var sb strings.Builder
	sb.Grow(len(v) + 4)
	sb.WriteByte('"')
	for i := 0; i < len(v); i++ {
		if v[i] == '"' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(v[i])
	}
	// A backslash before the closing quote would escape it. The padding
	// space is added whenever the value ends in a backslash followed by
	// spaces, so UnquoteValue can always drop exactly one.
	if endsInBackslashSpaces(v, 0) {
		sb.WriteByte(' ')
	}
	sb.WriteByte('"')
	return sb.String()
}

// UnquoteValue reverses QuoteValue. Values that are not safely quoted are
// returned unchanged.
func UnquoteValue(v string) string {
	if !IsQuoted(v) {
		return v
	}
	inner := v[1 : len(v)-1]
	if endsInBackslashSpaces(inner, 1) {
		inner = inner[:len(inner)-1]
	}
	return strings.ReplaceAll(inner, `\"`, `"`)
}

// endsInBackslashSpaces reports whether s ends in a backslash followed by
// at least atLeast spaces and nothing else.
func endsInBackslashSpaces(s string, atLeast int) bool {
	t := strings.TrimRight(s, " ")
	return len(s)-len(t) >= atLeast && strings.HasSuffix(t, "\\")
}

// hasUnescapedQuote reports whether s contains a '"' that is not directly
// preceded by a backslash.
func hasUnescapedQuote(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			return true
		}
	}
	return false
}
