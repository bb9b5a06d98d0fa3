package parser

import (
	"fmt"
	"sort"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Problem records one place where the input was malformed and the parser
// had to recover.
type Problem struct {
	Message string
	Span    Span
}

// Document is the immutable result of parsing one text. Tags lists every
// start and end tag in source order; Root holds the element tree.
type Document struct {
	File     string
	Text     string
	Root     *Node
	Tags     []*Node
	Problems []Problem
}

// Degraded reports whether the tree was recovered from malformed input.
func (d *Document) Degraded() bool {
	return len(d.Problems) > 0
}

// TagAt returns the start or end tag whose interior contains offset: after
// the marker and at or before the closing '>'.
func (d *Document) TagAt(offset int) *Node {
	i := sort.Search(len(d.Tags), func(i int) bool {
		return d.Tags[i].TagSpan.Start.Offset >= offset
	})
	if i == 0 {
		return nil
	}
	tag := d.Tags[i-1]
	if tag.InTag(offset) {
		return tag
	}
	return nil
}

// ElementAt returns the innermost element whose span contains offset.
func (d *Document) ElementAt(offset int) *Node {
	var found *Node
	node := d.Root
	for node != nil {
		var next *Node
		for _, child := range node.Children {
			if child.Kind != KindElement {
				continue
			}
			if offset > child.Span.Start.Offset && offset <= child.Span.End.Offset {
				next = child
				break
			}
		}
		if next != nil {
			found = next
		}
		node = next
	}
	return found
}

type Parser struct {
	file   string
	input  string
	lexer  *Lexer
	tokens []Token
	pos    int
	stack  []*Node
	doc    *Document
}

// Parse builds a best-effort tree. It never fails; problems found on the
// way are recorded on the returned Document.
func Parse(text string, opts ...Option) *Document {
	p := &Parser{input: text}
	for _, opt := range opts {
		opt(p)
	}
	p.lexer = NewLexer(text, p.file)
	p.tokenize()
	return p.parseDocument()
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			return
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) skipWhitespace() {
	for p.peek().Kind == TokenWhitespace {
		p.next()
	}
}

func (p *Parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) problem(span Span, format string, args ...any) {
	p.doc.Problems = append(p.doc.Problems, Problem{
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

func (p *Parser) parseDocument() *Document {
	eof := p.tokens[len(p.tokens)-1].Span.End
	root := &Node{
		Kind: KindDocument,
		Span: Span{Start: Position{File: p.file, Line: 1, Column: 1}, End: eof},
	}
	p.doc = &Document{File: p.file, Text: p.input, Root: root}
	p.stack = []*Node{root}

	for p.peek().Kind != TokenEOF {
		tok := p.next()
		switch tok.Kind {
		case TokenTagOpen:
			p.parseTag(tok)
		case TokenText:
			p.top().AddChild(&Node{Kind: KindText, Span: tok.Span, Text: tok.Literal})
		case TokenComment, TokenCDATA, TokenDoctype, TokenProcInst:
			p.top().AddChild(&Node{Kind: leafKind(tok.Kind), Span: tok.Span, Text: tok.Literal})
			if tok.Unterminated {
				p.problem(tok.Span, "unterminated %s", tok.Kind)
			}
		default:
			p.problem(tok.Span, "unexpected %s", tok.Kind)
		}
	}

	for len(p.stack) > 1 {
		el := p.top()
		p.stack = p.stack[:len(p.stack)-1]
		el.Span.End = eof
		p.problem(el.TagSpan, "element <%s> is not closed", el.Name)
	}
	return p.doc
}

func leafKind(kind TokenKind) NodeKind {
	switch kind {
	case TokenComment:
		return KindComment
	case TokenCDATA:
		return KindCDATA
	case TokenDoctype:
		return KindDoctype
	case TokenProcInst:
		return KindProcInst
	}
	return KindError
}

func (p *Parser) parseTag(open Token) {
	node := &Node{
		Kind:    KindElement,
		Marker:  open.Literal,
		TagSpan: open.Span,
	}
	if open.Literal == "</" {
		node.Kind = KindEndTag
	}

	end := open.Span.End
	if p.peek().Kind == TokenName {
		name := p.next()
		node.Name = name.Literal
		node.NameSpan = name.Span
		end = name.Span.End
	} else {
		node.NameSpan = Span{Start: end, End: end}
		p.problem(open.Span, "missing tag name")
	}

loop:
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenWhitespace:
			p.next()
			end = tok.Span.End
		case TokenName:
			attr, attrEnd := p.parseAttr()
			node.Attrs = append(node.Attrs, attr)
			end = attrEnd
		case TokenEquals, TokenString, TokenError:
			p.next()
			end = tok.Span.End
			p.problem(tok.Span, "unexpected %q in <%s>", tok.Literal, node.Name)
		case TokenTagClose, TokenTagSelfClose:
			p.next()
			node.Closed = true
			node.SelfClosing = tok.Kind == TokenTagSelfClose
			node.CloseOffset = tok.Span.Start.Offset
			end = tok.Span.End
			break loop
		default:
			break loop
		}
	}

	node.TagSpan.End = end
	node.Span = Span{Start: open.Span.Start, End: end}
	if !node.Closed {
		node.CloseOffset = end.Offset
		p.problem(node.TagSpan, "tag <%s> is not terminated", node.Name)
	}
	p.doc.Tags = append(p.doc.Tags, node)

	if node.Kind == KindEndTag {
		node.Parent = p.top()
		p.closeElement(node)
		return
	}

	p.top().AddChild(node)
	if !node.SelfClosing {
		p.stack = append(p.stack, node)
	}
}

// closeElement pops the stack up to the element end closes. Elements
// skipped on the way are implicitly closed where end starts.
func (p *Parser) closeElement(end *Node) {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].Name != end.Name {
			continue
		}
		for j := len(p.stack) - 1; j > i; j-- {
			el := p.stack[j]
			el.Span.End = end.Span.Start
			p.problem(el.TagSpan, "element <%s> is not closed", el.Name)
		}
		el := p.stack[i]
		el.EndTag = end
		el.Span.End = end.Span.End
		p.stack = p.stack[:i]
		return
	}
	p.problem(end.TagSpan, "unmatched end tag </%s>", end.Name)
}

func (p *Parser) parseAttr() (*Attr, Position) {
	name := p.next()
	attr := &Attr{Name: name.Literal, NameSpan: name.Span}
	end := name.Span.End

	save := p.pos
	p.skipWhitespace()
	if p.peek().Kind != TokenEquals {
		p.pos = save
		return attr, end
	}
	eq := p.next()
	attr.HasValue = true
	end = eq.Span.End

	save = p.pos
	p.skipWhitespace()
	switch v := p.peek(); v.Kind {
	case TokenString:
		p.next()
		attr.Quote = v.Literal[0]
		attr.Unterminated = v.Unterminated
		start := shift(v.Span.Start, 1)
		if v.Unterminated {
			attr.Value = v.Literal[1:]
			attr.ValueSpan = Span{Start: start, End: v.Span.End}
			p.problem(v.Span, "unterminated value for %s", attr.Name)
		} else {
			attr.Value = v.Literal[1 : len(v.Literal)-1]
			attr.ValueSpan = Span{Start: start, End: shift(v.Span.End, -1)}
		}
		end = v.Span.End
	case TokenName:
		p.next()
		attr.Value = v.Literal
		attr.ValueSpan = v.Span
		end = v.Span.End
		p.problem(v.Span, "unquoted value for %s", attr.Name)
	default:
		p.pos = save
		attr.ValueSpan = Span{Start: end, End: end}
		p.problem(eq.Span, "missing value for %s", attr.Name)
	}
	return attr, end
}

// shift moves a position by n bytes on the same line.
func shift(pos Position, n int) Position {
	pos.Offset += n
	pos.Column += n
	return pos
}
