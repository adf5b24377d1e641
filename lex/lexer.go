// Package lex implements the pure tokenizer: source text in, a finite
// token sequence out, one token per recognized line (plus a NewLine
// token between logical lines and a trailing EndOfFile).
//
// It intentionally carries no block-nesting state: that belongs to the
// block parser (package parser). Tokenize's per-line classification
// order is fixed and documented on Tokenize itself.
package lex

import (
	"bytes"
	"strings"

	"github.com/adocgo/adoc/token"
)

var admonitionLabels = []string{"NOTE", "TIP", "IMPORTANT", "WARNING", "CAUTION"}

// Tokenize scans src into a token sequence. Line terminators may be LF or
// CRLF; a leading UTF-8 BOM is stripped. Per-line classification is first
// match wins, in this order:
//
//  1. Empty/whitespace-only -> EmptyLine
//  2. Block delimiter line (====, ----, ____, ****, --, |===) -> the
//     matching delimiter kind
//  3. Attribute entry (:name: value) -> AttributeLine
//  4. Attribute block ([...]) on its own line -> AttributeBlockLine
//     (a bracketed line of the anchor form [[id]] is checked first and
//     becomes Anchor, see 8)
//  5. Header line (= through ====== + space + title) -> Header
//  6. Block macro (name::target[attrs]) at column 1 -> BlockMacro
//  7. Admonition (NOTE:/TIP:/IMPORTANT:/WARNING:/CAUTION: + text) -> AdmonitionBlock
//  8. Anchor ([[id]]) on its own line -> Anchor (recognized within step 4)
//  9. List item (bullet/ordinal/description marker) -> ListItem or DescriptionListItem
//  10. Table row (leading |) -> TableRow
//  11. Otherwise -> Text
func Tokenize(src string) []token.Token {
	src = stripBOM(src)

	var (
		toks   []token.Token
		offset int
		line   int = 1
	)
	for len(src) > 0 {
		raw, rest := splitLine(src)
		content := trimNewline([]byte(raw))
		tok := classifyLine(string(content))
		tok.Pos = token.Position{Line: line, Column: 1, Offset: offset, Length: len(content)}
		toks = append(toks, tok)

		nlLen := len(raw) - len(content)
		if nlLen > 0 {
			toks = append(toks, token.Token{
				Kind: token.NewLine,
				Value: raw[len(content):],
				Pos: token.Position{
					Line: line, Column: len(content) + 1,
					Offset: offset + len(content), Length: nlLen,
				},
			})
		}

		offset += len(raw)
		line++
		src = rest
	}

	toks = append(toks, token.Token{
		Kind: token.EndOfFile,
		Pos:  token.Position{Line: line, Column: 1, Offset: offset},
	})
	return toks
}

func stripBOM(s string) string {
	const bom = "\xef\xbb\xbf"
	return strings.TrimPrefix(s, bom)
}

// splitLine returns the next line (including its terminator, if any) and
// the remaining source.
func splitLine(src string) (line, rest string) {
	if i := strings.IndexByte(src, '\n'); i >= 0 {
		return src[:i+1], src[i+1:]
	}
	return src, ""
}

func classifyLine(content string) token.Token {
	line := []byte(content)
	tail := bytes.TrimRight(line, " \t")

	if len(bytes.TrimSpace(line)) == 0 {
		return token.Token{Kind: token.EmptyLine, Value: content}
	}

	if kind, ok := classifyDelimiter(tail); ok {
		return token.Token{Kind: kind, Value: content}
	}

	if ok := isAttributeLine(tail); ok {
		return token.Token{Kind: token.AttributeLine, Value: content}
	}

	if len(tail) >= 2 && tail[0] == '[' && tail[len(tail)-1] == ']' {
		if isAnchorLine(tail) {
			return token.Token{Kind: token.Anchor, Value: content}
		}
		return token.Token{Kind: token.AttributeBlockLine, Value: content}
	}

	if _, ok := headerLevel(line); ok {
		return token.Token{Kind: token.Header, Value: content}
	}

	if isBlockMacro(line) {
		return token.Token{Kind: token.BlockMacro, Value: content}
	}

	if isAdmonition(line) {
		return token.Token{Kind: token.AdmonitionBlock, Value: content}
	}

	if isDescriptionListItem(line) {
		return token.Token{Kind: token.DescriptionListItem, Value: content}
	}

	if isListItem(line) {
		return token.Token{Kind: token.ListItem, Value: content}
	}

	if len(line) > 0 && line[0] == '|' {
		return token.Token{Kind: token.TableRow, Value: content}
	}

	return token.Token{Kind: token.Text, Value: content}
}

func classifyDelimiter(tail []byte) (token.Kind, bool) {
	if len(tail) == 0 {
		return 0, false
	}
	if bytes.HasPrefix(tail, []byte("|===")) && len(bytes.TrimRight(tail[4:], "=")) == 0 {
		return token.TableDelimiter, true
	}
	if exactRun(tail, '-', 2) {
		return token.OpenDelimiter, true
	}
	switch tail[0] {
	case '=':
		if _, ok := runDelimiter(tail, '=', 4); ok {
			return token.ExampleDelimiter, true
		}
	case '-':
		if _, ok := runDelimiter(tail, '-', 4); ok {
			return token.CodeBlockDelimiter, true
		}
	case '_':
		if _, ok := runDelimiter(tail, '_', 4); ok {
			return token.BlockQuoteDelimiter, true
		}
	case '*':
		if _, ok := runDelimiter(tail, '*', 4); ok {
			return token.SidebarDelimiter, true
		}
	}
	return 0, false
}

func isAttributeLine(line []byte) bool {
	if len(line) < 3 || line[0] != ':' {
		return false
	}
	rest := line[1:]
	if rest[0] == '!' {
		rest = rest[1:]
	}
	i := bytes.IndexByte(rest, ':')
	if i <= 0 {
		return false
	}
	name := rest[:i]
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

func isAnchorLine(line []byte) bool {
	return len(line) >= 4 && line[0] == '[' && line[1] == '[' &&
		line[len(line)-1] == ']' && line[len(line)-2] == ']'
}

// HeaderLevel reports the header level (count of leading '=') of a raw
// line previously classified as token.Header, for the block parser's use
// when it needs the level without re-deriving it by hand.
func HeaderLevel(content string) (int, bool) {
	return headerLevel([]byte(content))
}

func headerLevel(line []byte) (int, bool) {
	delim, width, tail := delimiter(line, 6, '=')
	if delim == 0 || len(tail) == 0 || tail[0] != ' ' {
		return 0, false
	}
	if len(bytes.TrimSpace(tail)) == 0 {
		return 0, false
	}
	return width, true
}

func isBlockMacro(line []byte) bool {
	i := bytes.Index(line, []byte("::"))
	if i <= 0 {
		return false
	}
	name := line[:i]
	if bytes.ContainsAny(name, " \t") {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	rest := line[i+2:]
	lb := bytes.IndexByte(rest, '[')
	if lb < 0 || rest[len(rest)-1] != ']' {
		return false
	}
	target := rest[:lb]
	return !bytes.ContainsAny(target, " \t")
}

func isAdmonition(line []byte) bool {
	s := string(line)
	for _, label := range admonitionLabels {
		if strings.HasPrefix(s, label+": ") || s == label+":" {
			return true
		}
	}
	return false
}

func isDescriptionListItem(line []byte) bool {
	i := bytes.Index(line, []byte("::"))
	if i <= 0 {
		return false
	}
	rest := line[i+2:]
	return len(rest) == 0 || rest[0] == ' ' || rest[0] == '\t'
}

func isListItem(line []byte) bool {
	if delim, _, _ := delimiter(line, 5, '*', '-', '+'); delim != 0 {
		return true
	}
	if delim, _, _ := ordinal(line); delim != 0 {
		return true
	}
	if delim, _, _ := delimiter(line, 6, '.'); delim != 0 {
		return true
	}
	return false
}

// ListMarker reports the bullet (repeated *, -, + for nesting depth) or
// ordinal (digits followed by . or ), or repeated .) marker beginning
// content, if any (letter and roman ordinals are not recognized),
// returning the marker byte, its width (bullet run length, or digit+
// punctuation length for ordinals), and the text following the marker's
// mandatory trailing space.
func ListMarker(content string) (delim byte, width int, rest string) {
	b := []byte(content)
	if d, w, tail := delimiter(b, 5, '*', '-', '+'); d != 0 {
		return d, w, string(bytes.TrimLeft(tail, " \t"))
	}
	if d, w, tail := ordinal(b); d != 0 {
		return d, w, string(bytes.TrimLeft(tail, " \t"))
	}
	if d, w, tail := delimiter(b, 6, '.'); d != 0 {
		return d, w, string(bytes.TrimLeft(tail, " \t"))
	}
	return 0, 0, content
}

// DescriptionTerm splits content previously classified as
// token.DescriptionListItem into its term and inline description.
func DescriptionTerm(content string) (term, desc string) {
	i := bytes.Index([]byte(content), []byte("::"))
	if i < 0 {
		return content, ""
	}
	term = strings.TrimSpace(content[:i])
	desc = strings.TrimSpace(content[i+2:])
	return term, desc
}
