// Package parser implements the block-structured parser, the inline
// re-scanner, the include resolver, and the cross-reference resolver. It
// consumes the token stream produced by package lex and assembles the
// ast.Doc tree.
package parser

import (
	"strings"

	"github.com/adocgo/adoc/ast"
	"github.com/adocgo/adoc/internal/diag"
	"github.com/adocgo/adoc/internal/fsx"
	"github.com/adocgo/adoc/lex"
	"github.com/adocgo/adoc/token"
)

// Parser parses source text into an ast.Doc.
type Parser struct {
	opts Options
}

// New returns a Parser configured by opts, starting from DefaultOptions.
func New(opts ...Option) *Parser {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{opts: o}
}

// Parse parses text into a document tree, plus the diagnostics
// accumulated along the way. Parsing never fails on malformed user
// content: the only errors returned are argument errors.
func (p *Parser) Parse(text string) (*ast.Doc, []diag.Record, error) {
	if text == "" {
		return nil, nil, errEmptyInput
	}
	st := newState(p.opts)
	doc := st.parseDocument(text)
	doc.BuildIndex()
	resolveCrossReferences(doc, st.diags)
	return doc, st.diags.Records(), nil
}

// ParseFile reads path through the configured sandbox and parses it.
func (p *Parser) ParseFile(path string) (*ast.Doc, []diag.Record, error) {
	sb := fsx.NewSandbox(p.opts.FS, p.opts.BaseDirectory)
	_, content, err := sb.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return p.Parse(content)
}

// state carries everything needed across one parse invocation, including
// any nested child parses performed by the include resolver: a
// tree-building cursor over classified lines, plus the pending-
// attribute-bag and include-stack bookkeeping the block parser and
// include resolver require.
type state struct {
	opts    Options
	diags   *diag.List
	lines   []line
	pos     int
	attrs   *ast.Attributes // document-wide attributes, shared with nested include parses
	sandbox *fsx.Sandbox
	include []string // active include path stack, for circular detection
	depth   int      // nesting depth, bounded by MaxNestingDepth
}

func newState(opts Options) *state {
	return &state{
		opts:    opts,
		diags:   &diag.List{},
		attrs:   ast.NewAttributes(),
		sandbox: fsx.NewSandbox(opts.FS, opts.BaseDirectory),
	}
}

// childState builds a state for a nested include parse, sharing
// diagnostics and document attributes with the parent but carrying its
// own line cursor and an extended include stack.
func (st *state) childState(sandbox *fsx.Sandbox, path string) *state {
	return &state{
		opts:    st.opts,
		diags:   st.diags,
		attrs:   st.attrs,
		sandbox: sandbox,
		include: append(append([]string{}, st.include...), path),
		depth:   st.depth,
	}
}

func (st *state) parseDocument(text string) *ast.Doc {
	doc := ast.NewDoc()
	doc.Attrs = st.attrs
	st.lines = linesFromTokens(lex.Tokenize(text))
	st.pos = 0

	st.parseHeaderPhase(doc)
	children := st.parseBlockSequence(0)
	doc.Append(children...)
	return doc
}

// parseHeaderPhase consumes leading AttributeLines, a level-1 Header
// (the document title), and an optional immediately-following author
// line.
func (st *state) parseHeaderPhase(doc *ast.Doc) {
	for st.peek().kind == token.AttributeLine {
		st.applyAttributeLine(doc.Attrs, st.next().text)
	}
	if st.peek().kind != token.Header {
		return
	}
	level, ok := lex.HeaderLevel(st.peek().text)
	if !ok || level != 1 {
		return
	}
	l := st.next()
	header := ast.New(ast.Header)
	header.Level = 1
	header.Text = headerTitle(l.text)
	doc.Header = header

	if st.peek().kind == token.Text {
		header.Attrs.Set("author", st.next().text)
	}
	for st.peek().kind == token.AttributeLine {
		st.applyAttributeLine(doc.Attrs, st.next().text)
	}
}

func headerTitle(raw string) string {
	i := strings.IndexByte(raw, ' ')
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(raw[i+1:])
}

func (st *state) applyAttributeLine(bag *ast.Attributes, raw string) {
	body := raw[1:]
	unset := false
	if strings.HasPrefix(body, "!") {
		unset = true
		body = body[1:]
	}
	i := strings.IndexByte(body, ':')
	if i < 0 {
		return
	}
	name := body[:i]
	value := strings.TrimSpace(body[i+1:])
	if unset {
		bag.Del(name)
		return
	}
	bag.Set(name, value)
}

func (st *state) peek() line {
	if st.pos >= len(st.lines) {
		return line{kind: token.EndOfFile}
	}
	return st.lines[st.pos]
}

func (st *state) peekAt(offset int) line {
	i := st.pos + offset
	if i >= len(st.lines) {
		return line{kind: token.EndOfFile}
	}
	return st.lines[i]
}

func (st *state) next() line {
	l := st.peek()
	if st.pos < len(st.lines) {
		st.pos++
	}
	return l
}

var errEmptyInput = &argError{"parser: text must not be empty"}

type argError struct{ msg string }

func (e *argError) Error() string { return e.msg }
