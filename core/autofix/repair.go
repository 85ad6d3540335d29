package autofix

import (
	"strings"

	"github.com/FocuswithJustin/seqmod/core/bracket"
	"github.com/FocuswithJustin/seqmod/core/encoding"
)

// PlaceholderName is inserted into pairs written without a name.
const PlaceholderName = "note"

// maxRepairs bounds RepairAllBrackets before it falls back to quoting.
const maxRepairs = 64

// Action is the edit a bracket repair made.
type Action int

// Action values.
const (
	InsertClose Action = iota + 1
	InsertOpen
	DropToken
	RemoveEmptyPair
	InsertEquals
	InsertName
	QuoteValue
	EscapeQuote
	QuoteRemainder
)

func (a Action) String() string {
	switch a {
	case InsertClose:
		return "insert ']'"
	case InsertOpen:
		return "insert '['"
	case DropToken:
		return "drop duplicated token"
	case RemoveEmptyPair:
		return "remove empty pair"
	case InsertEquals:
		return "insert '='"
	case InsertName:
		return "insert placeholder name"
	case QuoteValue:
		return "quote value"
	case EscapeQuote:
		return "escape quote"
	case QuoteRemainder:
		return "quote unparseable remainder"
	default:
		return "no repair"
	}
}

// Repair describes one bracket repair.
type Repair struct {
	Defect bracket.Error // defect that was repaired
	Action Action
	Offset int // where the edit was made, in the input title
}

// RepairBrackets applies exactly one minimal repair for the first bracket
// defect of title. It returns false when title has no defect.
func RepairBrackets(title string) (string, Repair, bool) {
	d := bracket.Check(title)
	r := Repair{Defect: d.Err}

	switch d.Err {
	case bracket.NoError:
		return title, Repair{}, false

	case bracket.MismatchedQuotes:
		r.Action, r.Offset = EscapeQuote, d.Offset
		return title[:d.Offset] + `\` + title[d.Offset:], r, true

	case bracket.NoModifierName:
		r.Action, r.Offset = InsertName, d.Offset
		return title[:d.Offset] + PlaceholderName + title[d.Offset:], r, true

	case bracket.MissingEquals:
		// [name value] -> [name=value]; [name] -> [name=]
		nameStart := skipSpace(title, d.Open+1, d.Offset)
		nameEnd := nameStart
		for nameEnd < d.Offset && !isSpace(title[nameEnd]) {
			nameEnd++
		}
		rest := skipSpace(title, nameEnd, d.Offset)
		r.Action, r.Offset = InsertEquals, nameEnd
		return title[:nameEnd] + "=" + title[rest:], r, true

	case bracket.MultipleEquals:
		return repairMultipleEquals(title, d, r)

	case bracket.MismatchedBrackets:
		return repairMismatched(title, d, r)
	}
	return title, Repair{}, false
}

func repairMultipleEquals(title string, d bracket.Defect, r Repair) (string, Repair, bool) {
	var first, prev = -1, -1
	next := bracket.Token{Kind: bracket.EndOfInput}
	for _, tok := range bracket.Scan(title) {
		switch {
		case tok.Offset <= d.Open:
		case tok.Offset < d.Offset && tok.Kind == bracket.Equals:
			if first < 0 {
				first = tok.Offset
			}
			prev = tok.Offset
		case tok.Offset > d.Offset && tok.Kind != bracket.Equals && next.Kind == bracket.EndOfInput:
			next = tok
		}
	}

	// "==": the second sign is a duplicate.
	if prev >= 0 && isBlank(title[prev+1:d.Offset]) {
		r.Action, r.Offset = DropToken, d.Offset
		return dropRun(title, d.Offset, '='), r, true
	}

	// [name=a=b]: the value holds '='.
	if first >= 0 && next.Kind == bracket.Close {
		vs := skipSpace(title, first+1, next.Offset)
		ve := next.Offset
		for ve > vs && isSpace(title[ve-1]) {
			ve--
		}
		r.Action, r.Offset = QuoteValue, vs
		return title[:vs] + encoding.QuoteValue(title[vs:ve]) + title[ve:], r, true
	}

	r.Action, r.Offset = DropToken, d.Offset
	return dropRun(title, d.Offset, '='), r, true
}

func repairMismatched(title string, d bracket.Defect, r Repair) (string, Repair, bool) {
	switch d.Got {
	case bracket.Open:
		if d.Expected == bracket.Equals {
			// "[[" or "[ [": keep only the last bracket of the run.
			end := d.Open
			for i := d.Open; i < len(title) && (title[i] == '[' || isSpace(title[i])); i++ {
				if title[i] == '[' {
					end = i
				}
			}
			r.Action, r.Offset = DropToken, d.Open
			return title[:d.Open] + title[end:], r, true
		}
		at := d.Offset
		for at > d.Open+1 && isSpace(title[at-1]) {
			at--
		}
		r.Action, r.Offset = InsertClose, at
		return title[:at] + "]" + title[at:], r, true

	case bracket.Close:
		if d.Expected == bracket.Equals {
			r.Action, r.Offset = RemoveEmptyPair, d.Open
			return encoding.Cut(title, d.Open, d.Offset+1), r, true
		}
		r.Action, r.Offset = DropToken, d.Offset
		return dropRun(title, d.Offset, ']'), r, true

	case bracket.Equals:
		// A name written before a stray '=' gets its missing '['.
		start := d.Offset
		for start > 0 && isSpace(title[start-1]) {
			start--
		}
		end := start
		for start > 0 && isNameByte(title[start-1]) {
			start--
		}
		if start == end {
			r.Action, r.Offset = DropToken, d.Offset
			return dropRun(title, d.Offset, '='), r, true
		}
		r.Action, r.Offset = InsertOpen, start
		return title[:start] + "[" + title[start:], r, true

	default:
		if d.Expected == bracket.Equals && isBlank(title[d.Open+1:]) {
			r.Action, r.Offset = DropToken, d.Open
			return encoding.Cut(title, d.Open, len(title)), r, true
		}
		trimmed := strings.TrimRight(title, " \t")
		r.Action, r.Offset = InsertClose, len(trimmed)
		return trimmed + "]", r, true
	}
}

// RepairAllBrackets repairs title until it has no bracket defect. When the
// repairs stop converging, the unparseable remainder is wrapped in quotes
// so that the grammar ignores it.
func RepairAllBrackets(title string) string {
	t, _ := repairAll(title)
	return t
}

func repairAll(title string) (string, []Repair) {
	var repairs []Repair
	for i := 0; i < maxRepairs; i++ {
		next, r, ok := RepairBrackets(title)
		if !ok {
			return title, repairs
		}
		repairs = append(repairs, r)
		if next == title {
			break
		}
		title = next
	}

	d := bracket.Check(title)
	if d.Err == bracket.NoError {
		return title, repairs
	}
	start := d.Offset
	if d.Expected != bracket.Open && d.Open >= 0 {
		start = d.Open
	}
	repairs = append(repairs, Repair{Defect: d.Err, Action: QuoteRemainder, Offset: start})
	return title[:start] + encoding.QuoteValue(title[start:]), repairs
}

// dropRun removes the run of c starting at at, including whitespace
// between repeats, leaving at most one space behind.
func dropRun(title string, at int, c byte) string {
	end := at
	for end < len(title) && title[end] == c {
		end++
		if next := skipSpace(title, end, len(title)); next < len(title) && title[next] == c {
			end = next
		}
	}
	return encoding.Cut(title, at, end)
}

func skipSpace(s string, from, to int) int {
	for from < to && isSpace(s[from]) {
		from++
	}
	return from
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isNameByte(b byte) bool {
	return !isSpace(b) && b != '[' && b != ']' && b != '=' && b != '"'
}
