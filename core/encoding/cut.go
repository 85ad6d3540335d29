package encoding

import "strings"

// Cut removes s[start:end] and collapses the spaces and tabs around the
// hole to at most one space. Nothing is left at either end of the result.
func Cut(s string, start, end int) string {
	left, right := s[:start], s[end:]
	l := strings.TrimRight(left, " \t")
	r := strings.TrimLeft(right, " \t")
	if l == "" || r == "" {
		return l + r
	}
	if len(l) != len(left) || len(r) != len(right) {
		return l + " " + r
	}
	return l + r
}
