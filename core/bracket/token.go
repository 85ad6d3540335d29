// Package bracket tokenizes sequence titles and validates the bracket
// grammar of the modifiers embedded in them.
//
// A title is free text interleaved with bracket pairs:
//
//	>seq1 [organism=Homo sapiens] [strain=B6] [note="has [brackets]"] [dna]
//
// Only four tokens are significant: '[', '=', ']' and an unescaped '"'
// that is never closed. Everything inside a quoted span is skipped, and a
// quote directly preceded by a backslash is never a span boundary.
package bracket

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// TokenKind identifies a significant title token.
type TokenKind int

// TokenKind values. The zero value means "no token" (end of input).
const (
	EndOfInput TokenKind = iota
	Open
	Equals
	Close
	UnmatchedQuote
)

func (k TokenKind) String() string {
	switch k {
	case Open:
		return "["
	case Equals:
		return "="
	case Close:
		return "]"
	case UnmatchedQuote:
		return `"`
	default:
		return "end of input"
	}
}

// Token is a significant token and its byte offset in the scanned title.
type Token struct {
	Kind   TokenKind
	Offset int
}

// titleLexer splits a title into quoted spans, stray quotes, the three
// bracket-grammar punctuators, and runs of ordinary text. Rules are tried
// in order, so a quoted span wins over a lone quote.
var titleLexer = lexer.MustSimple([]lexer.SimpleRule{
	// "..." where every backslash run is followed by a non-backslash, so
	// the closing quote is never an escaped one.
	{Name: "Quoted", Pattern: `"(?:[^"\\]|\\+"|\\+[^"\\])*"`},
	{Name: "Quote", Pattern: `"`},
	{Name: "Open", Pattern: `\[`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Close", Pattern: `\]`},
	{Name: "Text", Pattern: `(?:\\+"|[^\[\]="])+`},
})

var (
	symbols   = titleLexer.Symbols()
	symQuote  = symbols["Quote"]
	symOpen   = symbols["Open"]
	symEquals = symbols["Equals"]
	symClose  = symbols["Close"]
)

// kindOf maps a lexer token to a significant TokenKind. Text and quoted
// spans map to EndOfInput and are skipped by callers.
func kindOf(tok lexer.Token) TokenKind {
	switch tok.Type {
	case symOpen:
		return Open
	case symEquals:
		return Equals
	case symClose:
		return Close
	case symQuote:
		return UnmatchedQuote
	default:
		return EndOfInput
	}
}

// Scan returns every significant token of text in order. Scanning stops
// after the first unmatched quote, whose offset is the opening quote's
// position.
func Scan(text string) []Token {
	lex, err := titleLexer.LexString("", text)
	if err != nil {
		return nil
	}

	var tokens []Token
	for {
		tok, err := lex.Next()
		if err != nil || tok.EOF() {
			return tokens
		}
		kind := kindOf(tok)
		if kind == EndOfInput {
			continue
		}
		tokens = append(tokens, Token{Kind: kind, Offset: tok.Pos.Offset})
		if kind == UnmatchedQuote {
			return tokens
		}
	}
}

// NextToken returns the first significant token at or after byte offset
// from. The scan assumes from is outside any quoted span.
func NextToken(text string, from int) (Token, bool) {
	if from < 0 {
		from = 0
	}
	if from >= len(text) {
		return Token{}, false
	}

	lex, err := titleLexer.LexString("", text[from:])
	if err != nil {
		return Token{}, false
	}
	for {
		tok, err := lex.Next()
		if err != nil || tok.EOF() {
			return Token{}, false
		}
		if kind := kindOf(tok); kind != EndOfInput {
			return Token{Kind: kind, Offset: from + tok.Pos.Offset}, true
		}
	}
}
