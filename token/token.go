// Package token defines the lexical vocabulary shared by the line
// tokenizer (package lex) and the block parser (package parser).
package token

import "fmt"

// Kind classifies a Token. The block-level kinds are produced by
// lex.Tokenize. The inline kinds (Emphasis, Strong, ...) complete the
// vocabulary but are not produced by Tokenize; the inline parser builds
// ast elements directly rather than emitting tokens.
type Kind int

// Token kinds, per the line classification order the lexer applies and
// the inline constructs the parser re-scans for.
const (
	Unknown Kind = iota
	EndOfFile
	NewLine
	Text
	Header
	ListItem
	DescriptionListItem
	EmptyLine
	CodeBlockDelimiter
	CodeContent
	Emphasis
	Strong
	Highlight
	Superscript
	Subscript
	InlineCode
	Link
	Image
	TableDelimiter
	TableRow
	BlockQuoteDelimiter
	SidebarDelimiter
	ExampleDelimiter
	OpenDelimiter // "--", needed to distinguish Open blocks from CodeBlock delimiters
	AttributeLine
	AttributeBlockLine
	AdmonitionBlock
	Anchor
	CrossReference
	BlockMacro
	InlineMacro
	TableOfContents
	Footnote
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case EndOfFile:
		return "EndOfFile"
	case NewLine:
		return "NewLine"
	case Text:
		return "Text"
	case Header:
		return "Header"
	case ListItem:
		return "ListItem"
	case DescriptionListItem:
		return "DescriptionListItem"
	case EmptyLine:
		return "EmptyLine"
	case CodeBlockDelimiter:
		return "CodeBlockDelimiter"
	case CodeContent:
		return "CodeContent"
	case Emphasis:
		return "Emphasis"
	case Strong:
		return "Strong"
	case Highlight:
		return "Highlight"
	case Superscript:
		return "Superscript"
	case Subscript:
		return "Subscript"
	case InlineCode:
		return "InlineCode"
	case Link:
		return "Link"
	case Image:
		return "Image"
	case TableDelimiter:
		return "TableDelimiter"
	case TableRow:
		return "TableRow"
	case BlockQuoteDelimiter:
		return "BlockQuoteDelimiter"
	case SidebarDelimiter:
		return "SidebarDelimiter"
	case ExampleDelimiter:
		return "ExampleDelimiter"
	case OpenDelimiter:
		return "OpenDelimiter"
	case AttributeLine:
		return "AttributeLine"
	case AttributeBlockLine:
		return "AttributeBlockLine"
	case AdmonitionBlock:
		return "AdmonitionBlock"
	case Anchor:
		return "Anchor"
	case CrossReference:
		return "CrossReference"
	case BlockMacro:
		return "BlockMacro"
	case InlineMacro:
		return "InlineMacro"
	case TableOfContents:
		return "TableOfContents"
	case Footnote:
		return "Footnote"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Position locates a Token within the original source.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based absolute byte offset
	Length int // byte length of the token's raw value
}

// Token is an immutable lexical unit produced by the tokenizer.
type Token struct {
	Kind  Kind
	Value string
	Pos   Position
}

func (t Token) String() string {
	return fmt.Sprintf("%v(%d:%d) %q", t.Kind, t.Pos.Line, t.Pos.Column, t.Value)
}
