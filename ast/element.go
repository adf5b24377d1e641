// Package ast defines the document tree: a closed set of tagged Element
// kinds sharing one struct, rather than a deep inheritance hierarchy.
// One struct carries a Kind tag, a children sequence, and an
// accept-a-visitor Walk method returning a WalkStatus that can skip
// children or stop the whole traversal.
package ast

// Kind is the closed tag set of document elements.
type Kind int

// Element kinds.
const (
	Document Kind = iota
	Header
	Section
	Paragraph
	Text
	CodeBlock
	List
	ListItem
	DescriptionList
	DescriptionListItem
	Table
	TableRow
	TableCell
	BlockQuote
	Sidebar
	Example
	Verse
	Open
	Admonition
	Image
	Link
	Anchor
	CrossReference
	Footnote
	Macro
	TableOfContents
	TableOfContentsEntry
	Comment
	LineBreak
	HorizontalRule
	AttributeEntry

	// Emphasis-family inline kinds, produced only by the inline parser.
	Emphasis
	Strong
	Highlight
	Superscript
	Subscript
	InlineCode
)

func (k Kind) String() string {
	switch k {
	case Document:
		return "Document"
	case Header:
		return "Header"
	case Section:
		return "Section"
	case Paragraph:
		return "Paragraph"
	case Text:
		return "Text"
	case CodeBlock:
		return "CodeBlock"
	case List:
		return "List"
	case ListItem:
		return "ListItem"
	case DescriptionList:
		return "DescriptionList"
	case DescriptionListItem:
		return "DescriptionListItem"
	case Table:
		return "Table"
	case TableRow:
		return "TableRow"
	case TableCell:
		return "TableCell"
	case BlockQuote:
		return "BlockQuote"
	case Sidebar:
		return "Sidebar"
	case Example:
		return "Example"
	case Verse:
		return "Verse"
	case Open:
		return "Open"
	case Admonition:
		return "Admonition"
	case Image:
		return "Image"
	case Link:
		return "Link"
	case Anchor:
		return "Anchor"
	case CrossReference:
		return "CrossReference"
	case Footnote:
		return "Footnote"
	case Macro:
		return "Macro"
	case TableOfContents:
		return "TableOfContents"
	case TableOfContentsEntry:
		return "TableOfContentsEntry"
	case Comment:
		return "Comment"
	case LineBreak:
		return "LineBreak"
	case HorizontalRule:
		return "HorizontalRule"
	case AttributeEntry:
		return "AttributeEntry"
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
	default:
		return "InvalidKind"
	}
}

// Element is a node in the document tree. Every kind of node (block and
// inline alike) is represented by this one struct; the Kind field
// determines which of the other fields are meaningful.
type Element struct {
	Kind Kind

	ID    string
	Attrs *Attributes

	Children []*Element

	// Text holds raw content for leaf-like elements: Text (literal run,
	// pre- or post-inline-parse depending on context), CodeBlock/Verse
	// (raw block content), Comment, AttributeEntry (the whole raw
	// attribute line).
	Text string

	// Level is the header/section depth (1-based) for Header and
	// Section.
	Level int

	// Delim is the rune that opened a delimited block or list
	// item/marker.
	Delim byte

	// Title is an optional block title (admonition/sidebar/example/
	// table/image caption).
	Title string

	// Target is the href/src/xref-id/footnote-id a Link, Image,
	// CrossReference, Footnote, or Macro element points at.
	Target string

	// Label is admonition kind (NOTE/TIP/...), macro name (kbd/btn/...),
	// or list ordinal/bullet style, depending on Kind.
	Label string

	// Masquerade is the block kind an Open block styles itself as
	// (sidebar/source/quote/verse), per the glossary's "masquerade
	// type".
	Masquerade string

	// ResolvedTarget is the element a CrossReference was bound to by
	// the cross-reference resolver; nil if unresolved. Not serialized
	// to avoid creating a reference cycle in any code that walks the
	// tree generically.
	ResolvedTarget *Element

	// IsReference marks a Footnote as a reference-only occurrence
	// (footnoteref:[id] with no Text).
	IsReference bool

	// Unterminated marks a delimited block that was implicitly closed
	// at end-of-document.
	Unterminated bool

	// Unresolved marks a CrossReference whose target id never bound.
	Unresolved bool
}

// New returns an Element of the given kind with an initialized, empty
// attribute bag.
func New(kind Kind) *Element {
	return &Element{Kind: kind, Attrs: NewAttributes()}
}

// Append adds children to the end of el's child sequence.
func (el *Element) Append(children ...*Element) {
	el.Children = append(el.Children, children...)
}

// WalkStatus is returned by a Visitor to control traversal.
type WalkStatus int

// WalkStatus values.
const (
	WalkContinue WalkStatus = iota
	WalkSkipChildren
	WalkStop
)

// Visitor is called twice per node during a Walk: once with entering
// true before descending into children, once with entering false after.
// Its return value on the entering call controls whether children are
// visited at all; on the leaving call only WalkStop has further effect.
type Visitor func(el *Element, entering bool) WalkStatus

// Walk performs a depth-first traversal of el and its children, calling
// v on each node as described on Visitor. It is the one traversal
// primitive the whole package builds on: dispatch is a switch on the
// tag with a default recursion helper — here Walk is that helper, and
// callers switch on el.Kind inside their Visitor.
func (el *Element) Walk(v Visitor) WalkStatus {
	status := v(el, true)
	if status == WalkStop {
		return WalkStop
	}
	if status != WalkSkipChildren {
		for _, child := range el.Children {
			if child.Walk(v) == WalkStop {
				return WalkStop
			}
		}
	}
	if status2 := v(el, false); status2 == WalkStop {
		return WalkStop
	}
	return WalkContinue
}
