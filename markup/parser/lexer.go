package parser

import "strings"

// Lexer splits markup into tokens. It switches between text mode and tag
// mode; a '<' seen while in tag mode ends the tag without consuming the
// '<', which is how unterminated tags are recovered.
type Lexer struct {
	input  string
	file   string
	pos    int
	line   int
	column int
	inTag  bool
}

func NewLexer(input string, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

// InTag reports whether the lexer is between a tag opener and its '>'.
func (l *Lexer) InTag() bool {
	return l.inTag
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: l.Position()},
		Literal: l.input[start.Offset:l.pos],
	}
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	if l.inTag {
		return l.nextTagToken(startPos)
	}
	return l.nextTextToken(startPos)
}

func (l *Lexer) nextTextToken(start Position) Token {
	if l.peek() != '<' {
		for l.pos < len(l.input) && l.peek() != '<' {
			l.advance()
		}
		return l.token(TokenText, start)
	}

	switch {
	case l.hasPrefix("<!--"):
		return l.scanDelimited(start, TokenComment, 4, "-->")
	case l.hasPrefix("<![CDATA["):
		return l.scanDelimited(start, TokenCDATA, 9, "]]>")
	case l.hasPrefix("<!"):
		return l.scanDelimited(start, TokenDoctype, 2, ">")
	case l.hasPrefix("<?"):
		return l.scanDelimited(start, TokenProcInst, 2, "?>")
	case l.hasPrefix("</"):
		l.advanceN(2)
		l.inTag = true
		return l.token(TokenTagOpen, start)
	default:
		l.advance()
		l.inTag = true
		return l.token(TokenTagOpen, start)
	}
}

func (l *Lexer) scanDelimited(start Position, kind TokenKind, openLen int, terminator string) Token {
	l.advanceN(openLen)
	idx := strings.Index(l.input[l.pos:], terminator)
	if idx < 0 {
		l.advanceN(len(l.input) - l.pos)
		tok := l.token(kind, start)
		tok.Unterminated = true
		return tok
	}
	l.advanceN(idx + len(terminator))
	return l.token(kind, start)
}

func (l *Lexer) nextTagToken(start Position) Token {
	ch := l.peek()

	switch {
	case isWhitespace(ch):
		for isWhitespace(l.peek()) && l.pos < len(l.input) {
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	case ch == '<':
		// unterminated tag: leave the '<' for text mode
		l.inTag = false
		return l.NextToken()
	case ch == '>':
		l.advance()
		l.inTag = false
		return l.token(TokenTagClose, start)
	case ch == '/' && l.peekN(1) == '>':
		l.advanceN(2)
		l.inTag = false
		return l.token(TokenTagSelfClose, start)
	case ch == '=':
		l.advance()
		return l.token(TokenEquals, start)
	case ch == '"' || ch == '\'':
		return l.scanString(start, ch)
	case isNameByte(ch):
		for l.pos < len(l.input) && isNameByte(l.peek()) {
			l.advance()
		}
		return l.token(TokenName, start)
	default:
		l.advance()
		return l.token(TokenError, start)
	}
}

// scanString reads a quoted value. Markup forbids '<' inside attribute
// values, so a '<' before the closing quote ends the value unterminated.
func (l *Lexer) scanString(start Position, quote byte) Token {
	l.advance()
	for l.pos < len(l.input) {
		ch := l.peek()
		if ch == quote {
			l.advance()
			return l.token(TokenString, start)
		}
		if ch == '<' {
			break
		}
		l.advance()
	}
	tok := l.token(TokenString, start)
	tok.Unterminated = true
	return tok
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isNameByte(ch byte) bool {
	switch ch {
	case 0, ' ', '\t', '\r', '\n', '=', '>', '<', '/', '"', '\'':
		return false
	}
	return true
}
