package parser

import "strconv"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Contains reports whether offset lies in [Start, End].
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset <= s.End.Offset
}

func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenText

	// Markup outside of tags
	TokenComment
	TokenCDATA
	TokenDoctype
	TokenProcInst

	// Tag structure
	TokenTagOpen      // "<" or "</"
	TokenName         // tag or attribute name
	TokenEquals       // "="
	TokenString       // quoted attribute value, quotes included
	TokenTagClose     // ">"
	TokenTagSelfClose // "/>"
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:          "EOF",
	TokenError:        "Error",
	TokenWhitespace:   "Whitespace",
	TokenText:         "Text",
	TokenComment:      "Comment",
	TokenCDATA:        "CDATA",
	TokenDoctype:      "Doctype",
	TokenProcInst:     "ProcInst",
	TokenTagOpen:      "TagOpen",
	TokenName:         "Name",
	TokenEquals:       "=",
	TokenString:       "String",
	TokenTagClose:     ">",
	TokenTagSelfClose: "/>",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
	// Unterminated is set on strings, comments and other delimited tokens
	// that ran into the end of input (or, for strings, into a '<').
	Unterminated bool
}
