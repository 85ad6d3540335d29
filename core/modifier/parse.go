// Package modifier parses the [name=value] pairs embedded in sequence
// titles and knows what every modifier name means.
package modifier

import (
	"strings"

	"github.com/FocuswithJustin/seqmod/core/bracket"
	"github.com/FocuswithJustin/seqmod/core/encoding"
)

// Modifier is one parsed bracket pair.
type Modifier struct {
	Name     string  // canonical name, or the trimmed raw name when unrecognized
	Raw      string  // name as spelled in the title
	Subtype  Subtype // SubtypeUnrecognized when the name matched nothing
	Kind     Kind
	Value    string // unquoted value; the implied value for flag pairs
	HasValue bool   // false for flag pairs such as [dna]
}

// Recognized reports whether the modifier name resolved to a known name.
func (m Modifier) Recognized() bool {
	return m.Subtype != SubtypeUnrecognized
}

// Definition returns the canonical table entry of a recognized modifier.
func (m Modifier) Definition() (Definition, bool) {
	if m.Subtype < 1 || int(m.Subtype) > len(canonical) {
		return Definition{}, false
	}
	return canonical[m.Subtype-1], true
}

// Span locates a bracket pair in its title. Start is the offset of '[',
// End the offset just past ']', and Eq the offset of '=' or -1 for a flag.
type Span struct {
	Start int
	End   int
	Eq    int
}

// ValueBounds returns the byte range of the raw value text between '=' and
// ']', surrounding whitespace excluded. Flags have an empty range at the
// closing bracket.
func (s Span) ValueBounds(title string) (int, int) {
	if s.Eq < 0 {
		return s.End - 1, s.End - 1
	}
	start, end := s.Eq+1, s.End-1
	for start < end && isSpace(title[start]) {
		start++
	}
	for end > start && isSpace(title[end-1]) {
		end--
	}
	return start, end
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// New builds a modifier from a raw name and value, resolving the name
// through the alias table.
func New(raw, value string, hasValue bool) Modifier {
	m := Modifier{
		Raw:      strings.TrimSpace(raw),
		Value:    value,
		HasValue: hasValue,
		Subtype:  SubtypeUnrecognized,
		Kind:     SourceQualifier,
	}
	m.Name = m.Raw
	if def, ok := Lookup(raw); ok {
		m.Name = def.Name
		m.Subtype = def.Subtype
		m.Kind = def.Kind
		if !hasValue && def.Flag != "" {
			m.Value = def.Flag
		}
	}
	return m
}

// ParseOne parses the first bracket pair at or after from. It does not
// validate the title: anything other than a well-formed pair starting at
// the next significant token yields false.
func ParseOne(title string, from int) (Modifier, Span, bool) {
	open, ok := bracket.NextToken(title, from)
	if !ok || open.Kind != bracket.Open {
		return Modifier{}, Span{}, false
	}
	next, ok := bracket.NextToken(title, open.Offset+1)
	if !ok {
		return Modifier{}, Span{}, false
	}

	switch next.Kind {
	case bracket.Close:
		name := title[open.Offset+1 : next.Offset]
		if !bracket.IsFlagWord(name) {
			return Modifier{}, Span{}, false
		}
		span := Span{Start: open.Offset, End: next.Offset + 1, Eq: -1}
		return New(name, "", false), span, true

	case bracket.Equals:
		name := title[open.Offset+1 : next.Offset]
		if strings.TrimSpace(name) == "" {
			return Modifier{}, Span{}, false
		}
		closing, ok := bracket.NextToken(title, next.Offset+1)
		if !ok || closing.Kind != bracket.Close {
			return Modifier{}, Span{}, false
		}
		value := strings.TrimSpace(title[next.Offset+1 : closing.Offset])
		if encoding.IsQuoted(value) {
			value = encoding.UnquoteValue(value)
		}
		span := Span{Start: open.Offset, End: closing.Offset + 1, Eq: next.Offset}
		return New(name, value, true), span, true
	}
	return Modifier{}, Span{}, false
}

// ParseAll returns every bracket pair of title in order. Parsing stops at
// the first remainder that does not begin with a well-formed pair.
func ParseAll(title string) []Modifier {
	mods, _ := ParseAllWithSpans(title)
	return mods
}

// ParseAllWithSpans is ParseAll that also reports where each pair sits.
func ParseAllWithSpans(title string) ([]Modifier, []Span) {
	var (
		mods  []Modifier
		spans []Span
	)
	pos := 0
	for pos < len(title) {
		m, span, ok := ParseOne(title, pos)
		if !ok {
			break
		}
		mods = append(mods, m)
		spans = append(spans, span)
		pos = span.End
	}
	return mods, spans
}
