// Package convert implements the visitor-driven converter framework and
// the HTML reference converter: a polymorphic tree traversal carrying a
// mutable context stack, producing formatted output under
// options-controlled formatting.
package convert

import (
	"fmt"

	"github.com/adocgo/adoc/ast"
)

// Options controls a Converter's output.
type Options struct {
	OutputEncoding     string
	PrettyPrint        bool
	OutputFullDocument bool
	MaxTOCDepth        int
	AllowedURLSchemes  []string
	CustomProperties   map[string]string
}

// DefaultOptions returns sensible defaults: UTF-8, compact output,
// fragment-only, a 2-level TOC, and an http(s)/mailto scheme allowlist.
func DefaultOptions() Options {
	return Options{
		OutputEncoding:     "UTF-8",
		PrettyPrint:        false,
		OutputFullDocument: false,
		MaxTOCDepth:        2,
		AllowedURLSchemes:  []string{"http", "https", "mailto"},
		CustomProperties:   map[string]string{},
	}
}

// Option mutates an Options in place, matching this module's functional-
// options idiom used for parser.Options too.
type Option func(*Options)

// WithPrettyPrint toggles indented, multi-line output.
func WithPrettyPrint(pretty bool) Option { return func(o *Options) { o.PrettyPrint = pretty } }

// WithFullDocument toggles a complete HTML shell versus a fragment.
func WithFullDocument(full bool) Option { return func(o *Options) { o.OutputFullDocument = full } }

// WithMaxTOCDepth bounds generated table-of-contents nesting.
func WithMaxTOCDepth(n int) Option { return func(o *Options) { o.MaxTOCDepth = n } }

// WithAllowedURLSchemes replaces the link/image URL scheme allowlist.
func WithAllowedURLSchemes(schemes ...string) Option {
	return func(o *Options) { o.AllowedURLSchemes = schemes }
}

// WithCustomProperty sets one entry of the free-form custom-properties
// bag a converter may consult (e.g. a stylesheet link, a site title).
func WithCustomProperty(key, value string) Option {
	return func(o *Options) {
		if o.CustomProperties == nil {
			o.CustomProperties = map[string]string{}
		}
		o.CustomProperties[key] = value
	}
}

// Visitor is implemented by a concrete converter (e.g. the HTML
// converter). Visit is called once per element per entering/leaving
// edge, exactly like ast.Visitor, but additionally receives the shared
// Context so it can emit into the context's buffer and consult the
// element stack.
type Visitor interface {
	Visit(ctx *Context, el *ast.Element, entering bool) ast.WalkStatus
}

// Context bundles the document, options, output buffer, and element
// stack a Visitor pushes/pops as it descends and ascends the tree.
type Context struct {
	Doc  *ast.Doc
	Opts Options

	buf   []byte
	stack []*ast.Element
	depth int
}

func newContext(doc *ast.Doc, opts Options) *Context {
	return &Context{Doc: doc, Opts: opts}
}

// Push enters el, recording it on the stack. Called by the framework's
// Walk callback before the Visitor runs on the entering edge.
func (c *Context) push(el *ast.Element) {
	c.stack = append(c.stack, el)
	c.depth++
}

// Pop leaves el. It panics if el is not the element on top of the
// stack: push/pop imbalance is a programming error in a Visitor
// implementation, not a user-content error, so it is not reported
// through diagnostics.
func (c *Context) pop(el *ast.Element) {
	if len(c.stack) == 0 || c.stack[len(c.stack)-1] != el {
		panic(fmt.Sprintf("convert: unbalanced push/pop at %v", el.Kind))
	}
	c.stack = c.stack[:len(c.stack)-1]
	c.depth--
}

// Parent returns the element above el on the stack, or nil at the root.
func (c *Context) Parent() *ast.Element {
	if len(c.stack) < 2 {
		return nil
	}
	return c.stack[len(c.stack)-2]
}

// Depth returns the current nesting depth (1 at the Document itself).
func (c *Context) Depth() int { return c.depth }

// WriteString appends s to the output buffer, the only way a Visitor
// should produce output.
func (c *Context) WriteString(s string) { c.buf = append(c.buf, s...) }

// Indent writes a newline and this-depth-proportional indentation when
// Opts.PrettyPrint is set; a no-op otherwise, so compact and pretty
// output agree byte-for-byte apart from this whitespace.
func (c *Context) Indent() {
	if !c.Opts.PrettyPrint {
		return
	}
	c.buf = append(c.buf, '\n')
	for i := 0; i < c.depth; i++ {
		c.buf = append(c.buf, ' ', ' ')
	}
}

// Converter drives one Visitor over a document.
type Converter struct {
	visitor Visitor
}

// New returns a Converter driven by v.
func New(v Visitor) *Converter {
	return &Converter{visitor: v}
}

// Convert walks doc with the configured Visitor and returns the
// accumulated output (the HTML converter is the only reference target).
func (c *Converter) Convert(doc *ast.Doc, opts ...Option) (string, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	ctx := newContext(doc, o)

	walk := func(el *ast.Element, entering bool) ast.WalkStatus {
		if entering {
			ctx.push(el)
		}
		status := c.visitor.Visit(ctx, el, entering)
		if !entering {
			ctx.pop(el)
		}
		return status
	}

	// doc.Header (the document title/byline) is rendered by the Visitor
	// directly off ctx.Doc.Header rather than through this Walk: it sits
	// logically inside the Document's opening tag (<article><h1>...),
	// not alongside it as a sibling, so it needs no entering/leaving
	// edge of its own.
	doc.Element.Walk(walk)
	return string(ctx.buf), nil
}
