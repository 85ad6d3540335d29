package bracket

import (
	"strings"
)

// Error classifies the bracket structure of a title. It is a value, never
// returned as a Go error: every defect is recoverable.
type Error int

// Error values. Exactly one is reported per title: the first defect in
// scan order.
const (
	NoError Error = iota
	MismatchedBrackets
	MissingEquals
	MultipleEquals
	NoModifierName
	MismatchedQuotes
)

func (e Error) String() string {
	switch e {
	case NoError:
		return "no error"
	case MismatchedBrackets:
		return "mismatched brackets"
	case MissingEquals:
		return "missing equals sign"
	case MultipleEquals:
		return "multiple equals signs"
	case NoModifierName:
		return "missing modifier name"
	case MismatchedQuotes:
		return "mismatched quotes"
	default:
		return "unknown bracket error"
	}
}

// Defect locates the first grammar defect of a title.
type Defect struct {
	Err      Error
	Offset   int       // offset of the offending token, len(title) at end of input, -1 for NoError
	Got      TokenKind // token received; EndOfInput when the title ended with a pair open
	Expected TokenKind // token the grammar was waiting for
	Open     int       // offset of the most recent '[', -1 if none
}

// flagWords are the valueless modifiers written without '='.
var flagWords = map[string]bool{
	"dna": true,
	"rna": true,
	"orf": true,
}

// IsFlagWord reports whether s (trimmed, case-insensitive) is one of the
// valueless flag modifiers dna, rna or orf.
func IsFlagWord(s string) bool {
	return flagWords[strings.ToLower(strings.TrimSpace(s))]
}

// Detect returns the first bracket defect of title, or NoError.
func Detect(title string) Error {
	return Check(title).Err
}

// Check runs the bracket grammar state machine over title and returns the
// first defect together with its position.
func Check(title string) Defect {
	tokens := Scan(title)
	expected := Open
	lastOpen := -1

	fail := func(err Error, tok Token) Defect {
		return Defect{Err: err, Offset: tok.Offset, Got: tok.Kind, Expected: expected, Open: lastOpen}
	}

	for i, tok := range tokens {
		switch tok.Kind {
		case UnmatchedQuote:
			return fail(MismatchedQuotes, tok)

		case Open:
			switch expected {
			case Open:
				lastOpen = tok.Offset
				var next *Token
				if i+1 < len(tokens) {
					next = &tokens[i+1]
				}
				expected = expectAfterOpen(title, lastOpen, next)
			case Equals:
				return fail(gapError(title, lastOpen, tok.Offset), tok)
			default:
				return fail(MismatchedBrackets, tok)
			}

		case Equals:
			switch expected {
			case Equals:
				if isBlank(title[lastOpen+1 : tok.Offset]) {
					return fail(NoModifierName, tok)
				}
				expected = Close
			case Close:
				return fail(MultipleEquals, tok)
			default:
				return fail(MismatchedBrackets, tok)
			}

		case Close:
			switch expected {
			case Close:
				expected = Open
			case Equals:
				return fail(gapError(title, lastOpen, tok.Offset), tok)
			default:
				return fail(MismatchedBrackets, tok)
			}
		}
	}

	if expected != Open {
		return Defect{Err: MismatchedBrackets, Offset: len(title), Got: EndOfInput, Expected: expected, Open: lastOpen}
	}
	return Defect{Err: NoError, Offset: -1, Expected: Open, Open: -1}
}

// expectAfterOpen decides what must follow the '[' at open: the closing
// bracket for the dna/rna/orf flags, '=' for everything else.
func expectAfterOpen(title string, open int, next *Token) TokenKind {
	if next != nil && next.Kind == Close && IsFlagWord(title[open+1:next.Offset]) {
		return Close
	}
	return Equals
}

// gapError classifies a bracket received while '=' was expected: an empty
// gap since the last '[' is a bracket mismatch, anything else is a name
// that lacks its '='.
func gapError(title string, open, at int) Error {
	if isBlank(title[open+1 : at]) {
		return MismatchedBrackets
	}
	return MissingEquals
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
