// Package defline edits the modifier pairs of a sequence title.
//
// Every function is pure: it takes a title and returns a new one. A title
// may hold several [organism=...] tags; each opens a scope that owns the
// modifiers up to the next organism tag. The first scope also owns any
// modifiers written before the first organism tag.
package defline

import (
	"strings"

	"github.com/FocuswithJustin/seqmod/core/bracket"
	"github.com/FocuswithJustin/seqmod/core/encoding"
	"github.com/FocuswithJustin/seqmod/core/modifier"
)

// Pair is a parsed modifier and where it sits in the title.
type Pair struct {
	modifier.Modifier
	modifier.Span
}

// Scope is the window of a title owned by one organism tag.
type Scope struct {
	Organism string // organism name as written in the tag
	Tag      int    // offset of the organism tag's '['
	Start    int    // first offset owned by the scope
	End      int    // offset of the next organism tag, or len(title)
}

// Pairs returns every well-formed pair of title in order. Malformed
// bracket runs are skipped, so an editing call still sees the pairs that
// follow them.
func Pairs(title string) []Pair {
	var pairs []Pair
	pos := 0
	for pos < len(title) {
		tok, ok := bracket.NextToken(title, pos)
		if !ok || tok.Kind == bracket.UnmatchedQuote {
			break
		}
		if tok.Kind != bracket.Open {
			pos = tok.Offset + 1
			continue
		}
		m, span, ok := modifier.ParseOne(title, tok.Offset)
		if !ok {
			pos = tok.Offset + 1
			continue
		}
		pairs = append(pairs, Pair{Modifier: m, Span: span})
		pos = span.End
	}
	return pairs
}

// Find returns the first pair named name anywhere in title, ignoring
// organism scopes. Aliases and case are folded.
func Find(title, name string) (Pair, bool) {
	return findIn(Pairs(title), name, 0, len(title))
}

// Value returns the value of the first pair named name.
func Value(title, name string) (string, bool) {
	p, ok := Find(title, name)
	return p.Value, ok
}

// Values returns the values of every pair named name, in order.
func Values(title, name string) []string {
	var out []string
	for _, p := range Pairs(title) {
		if modifier.SameName(p.Raw, name) {
			out = append(out, p.Value)
		}
	}
	return out
}

// OrganismScopes splits title into one scope per organism tag. A title
// without organism tags has no scopes.
func OrganismScopes(title string) []Scope {
	var scopes []Scope
	for _, p := range Pairs(title) {
		if p.Kind != modifier.Organism {
			continue
		}
		if n := len(scopes); n > 0 {
			scopes[n-1].End = p.Start
		}
		start := p.Start
		if len(scopes) == 0 {
			start = 0
		}
		scopes = append(scopes, Scope{Organism: p.Value, Tag: p.Start, Start: start, End: len(title)})
	}
	return scopes
}

// scopeFor resolves an organism anchor. An empty organism selects the
// whole title.
func scopeFor(title, organism string) (Scope, bool) {
	organism = strings.TrimSpace(organism)
	if organism == "" {
		return Scope{Tag: -1, Start: 0, End: len(title)}, true
	}
	for _, s := range OrganismScopes(title) {
		if strings.EqualFold(strings.TrimSpace(s.Organism), organism) {
			return s, true
		}
	}
	return Scope{}, false
}

func findIn(pairs []Pair, name string, start, end int) (Pair, bool) {
	for _, p := range pairs {
		if p.Start >= start && p.End <= end && modifier.SameName(p.Raw, name) {
			return p, true
		}
	}
	return Pair{}, false
}

// ValueForOrganism returns the value of name inside the scope of organism.
func ValueForOrganism(title, name, organism string) (string, bool) {
	s, ok := scopeFor(title, organism)
	if !ok {
		return "", false
	}
	return ValueInScope(title, s, name)
}

// ValueInScope returns the value of the first pair named name inside s.
func ValueInScope(title string, s Scope, name string) (string, bool) {
	p, ok := findIn(Pairs(title), name, s.Start, s.End)
	return p.Value, ok
}

// Replace sets the value of the first pair named name, appending a new
// pair when there is none. An empty value removes the pair. Replacing a
// value with itself returns title unchanged.
func Replace(title, name, value string) string {
	return ReplaceInScope(title, Scope{Tag: -1, Start: 0, End: len(title)}, name, value)
}

// ReplaceForOrganism is Replace restricted to the scope of organism. A
// missing pair is inserted just before the next organism tag. The title is
// returned unchanged when organism has no tag.
func ReplaceForOrganism(title, name, value, organism string) string {
	s, ok := scopeFor(title, organism)
	if !ok {
		return title
	}
	return ReplaceInScope(title, s, name, value)
}

// ReplaceInScope is Replace restricted to the window s.
func ReplaceInScope(title string, s Scope, name, value string) string {
	value = strings.TrimSpace(value)
	p, found := findIn(Pairs(title), name, s.Start, s.End)
	if !found {
		if value == "" {
			return title
		}
		return insertAt(title, s.End, formatPair(strings.TrimSpace(name), value))
	}
	if value == "" {
		return encoding.Cut(title, p.Start, p.End)
	}
	if p.Value == value {
		return title
	}
	if p.Eq < 0 {
		return title[:p.Start] + formatPair(p.Raw, value) + title[p.End:]
	}
	vs, ve := p.ValueBounds(title)
	return title[:vs] + encoding.QuoteValue(value) + title[ve:]
}

// Remove deletes the first pair named name.
func Remove(title, name string) string {
	p, ok := Find(title, name)
	if !ok {
		return title
	}
	return encoding.Cut(title, p.Start, p.End)
}

// RemoveForOrganism deletes the first pair named name inside the scope of
// organism.
func RemoveForOrganism(title, name, organism string) string {
	s, ok := scopeFor(title, organism)
	if !ok {
		return title
	}
	p, ok := findIn(Pairs(title), name, s.Start, s.End)
	if !ok {
		return title
	}
	return encoding.Cut(title, p.Start, p.End)
}

// RemoveAll deletes every pair named name.
func RemoveAll(title, name string) string {
	pairs := Pairs(title)
	for i := len(pairs) - 1; i >= 0; i-- {
		if modifier.SameName(pairs[i].Raw, name) {
			title = encoding.Cut(title, pairs[i].Start, pairs[i].End)
		}
	}
	return title
}

func formatPair(name, value string) string {
	return "[" + name + "=" + encoding.QuoteValue(value) + "]"
}

// insertAt places pair at offset at, separated from neighbouring text by a
// single space.
func insertAt(title string, at int, pair string) string {
	left, right := title[:at], title[at:]
	var sb strings.Builder
	sb.Grow(len(title) + len(pair) + 2)
	sb.WriteString(left)
	if left != "" && !strings.HasSuffix(left, " ") {
		sb.WriteByte(' ')
	}
	sb.WriteString(pair)
	if right != "" && !strings.HasPrefix(right, " ") {
		sb.WriteByte(' ')
	}
	sb.WriteString(right)
	return sb.String()
}
