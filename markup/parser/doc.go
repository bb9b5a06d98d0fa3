// Package parser provides an error-tolerant parser for XML-like markup.
//
// # Overview
//
// Editors ask for completions while the document is being typed, so the
// input is usually malformed: tags without '>', values without a closing
// quote, end tags that match nothing. Parse never fails on such input. It
// returns a Document whose tree is the best reading of the text, plus a
// list of Problems describing every recovery it made.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│    Text     │────▶│    Lexer    │────▶│   Parser    │
//	│  (string)   │     │  (tokens)   │     │ (Document)  │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// # Recovery rules
//
//   - A '<' met inside a tag ends that tag; the tag is recorded with
//     Closed == false and CloseOffset at the end of its last token.
//   - A quoted value runs to its closing quote, or up to the next '<' or
//     end of input when the quote is missing.
//   - An end tag closes the nearest open element with the same name and
//     implicitly closes everything opened after it.
//   - Elements still open at end of input extend to end of input.
//
// # Positions
//
// Every node carries Spans of byte offsets plus 1-based line and column:
//
//	type Position struct {
//	    File   string
//	    Offset int // byte offset from start of text
//	    Line   int // 1-based
//	    Column int // 1-based, in bytes
//	}
//
// A Document is never modified after Parse returns, so it can be shared
// by readers without locking.
package parser
