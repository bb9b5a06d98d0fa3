package markup

import "strings"

// IsIdentifierByte reports whether ch can be part of a tag, attribute or
// value token. ':' is not included; it separates a namespace from a name.
func IsIdentifierByte(ch byte) bool {
	return ch >= 'a' && ch <= 'z' ||
		ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' ||
		ch == '_' || ch == '-' || ch == '.' || ch >= 0x80
}

// PartialIdentifier returns the longest run of identifier bytes ending at
// offset.
func PartialIdentifier(text string, offset int) string {
	offset = clamp(offset, len(text))
	start := offset
	for start > 0 && IsIdentifierByte(text[start-1]) {
		start--
	}
	return text[start:offset]
}

// FullIdentifier is PartialIdentifier plus the "ns:" segment directly in
// front of it, if there is one.
func FullIdentifier(text string, offset int) string {
	offset = clamp(offset, len(text))
	partial := PartialIdentifier(text, offset)
	start := offset - len(partial)
	if start == 0 || text[start-1] != ':' {
		return partial
	}
	ns := PartialIdentifier(text, start-1)
	return ns + ":" + partial
}

// AttributeNameBefore scans backward from the opening quote of a value,
// past '=' and any whitespace, and returns the qualified attribute name.
// It returns "" when the text before quote is not `name=`.
func AttributeNameBefore(text string, quote int) string {
	i := clamp(quote, len(text)) - 1
	for i >= 0 && isSpace(text[i]) {
		i--
	}
	if i < 0 || text[i] != '=' {
		return ""
	}
	i--
	for i >= 0 && isSpace(text[i]) {
		i--
	}
	end := i + 1
	for i >= 0 && (IsIdentifierByte(text[i]) || text[i] == ':') {
		i--
	}
	return text[i+1 : end]
}

// SplitQualified splits "ns:name" into its parts. ok is false when there
// is no ':'.
func SplitQualified(s string) (ns, name string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return "", s, false
	}
	return s[:i], s[i+1:], true
}

// ShortName returns the text after the last '.'.
func ShortName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func clamp(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}
