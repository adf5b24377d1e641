package convert

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/shurcooL/sanitized_anchor_name"

	"github.com/adocgo/adoc/ast"
)

// HTMLConverter is the reference converter: a structural mapping from
// the element tree to HTML, HTML-escaping every user-originated string,
// and allowlisting URL schemes on href/src attributes.
type HTMLConverter struct {
	footnotes []footnoteEntry
	anchors   map[*ast.Element]string
	tbodyOpen map[*ast.Element]bool
}

type footnoteEntry struct {
	id   string
	body string
}

// NewHTML returns a ready-to-use HTML converter. Each HTMLConverter
// accumulates footnote state across one Convert call and should not be
// reused concurrently across documents — callers should construct one
// per Convert, keeping no shared mutable state across concurrent
// conversions.
func NewHTML() *HTMLConverter {
	return &HTMLConverter{
		anchors:   map[*ast.Element]string{},
		tbodyOpen: map[*ast.Element]bool{},
	}
}

// Convert runs a fresh HTMLConverter over doc, handling the
// output_full_document shell and the trailing footnote list that only
// exist once the whole tree has been walked.
func Convert(doc *ast.Doc, opts ...Option) (string, error) {
	h := NewHTML()
	body, err := New(h).Convert(doc, opts...)
	if err != nil {
		return "", err
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if len(h.footnotes) > 0 {
		body += h.renderFootnotes(o)
	}
	if !o.OutputFullDocument {
		return body, nil
	}
	return h.wrapFullDocument(doc, body, o), nil
}

func (h *HTMLConverter) wrapFullDocument(doc *ast.Doc, body string, o Options) string {
	title := "Untitled"
	if doc.Header != nil && doc.Header.Text != "" {
		title = doc.Header.Text
	}
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString(fmt.Sprintf("<meta charset=%q>\n", o.OutputEncoding))
	sb.WriteString("<title>" + escape(title) + "</title>\n")
	for _, key := range sortedKeys(o.CustomProperties) {
		sb.WriteString(fmt.Sprintf("<meta name=%q content=%q>\n", escapeAttr(key), escapeAttr(o.CustomProperties[key])))
	}
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("\n</body>\n</html>")
	return sb.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Visit implements the Visitor interface with a switch over el.Kind,
// dispatching by tag to one render method per element kind.
func (h *HTMLConverter) Visit(ctx *Context, el *ast.Element, entering bool) ast.WalkStatus {
	switch el.Kind {
	case ast.Document:
		h.visitDocument(ctx, el, entering)
	case ast.Section:
		h.visitSection(ctx, el, entering)
	case ast.Paragraph:
		h.tag(ctx, "p", el, entering)
	case ast.Text:
		if entering {
			ctx.WriteString(escape(el.Text))
		}
	case ast.CodeBlock:
		h.visitCodeBlock(ctx, el, entering)
	case ast.List:
		h.visitList(ctx, el, entering)
	case ast.ListItem:
		h.tag(ctx, "li", el, entering)
	case ast.DescriptionList:
		h.tag(ctx, "dl", el, entering)
	case ast.DescriptionListItem:
		h.visitDescriptionItem(ctx, el, entering)
	case ast.Table:
		h.visitTable(ctx, el, entering)
	case ast.TableRow:
		h.visitTableRow(ctx, el, entering)
	case ast.TableCell:
		h.visitTableCell(ctx, el, entering)
	case ast.BlockQuote:
		h.visitBlockQuote(ctx, el, entering)
	case ast.Sidebar:
		h.visitDiv(ctx, "sidebar", el, entering)
	case ast.Example:
		h.visitDiv(ctx, "example", el, entering)
	case ast.Admonition:
		h.visitAdmonition(ctx, el, entering)
	case ast.Verse:
		h.visitVerse(ctx, el, entering)
	case ast.Open:
		return h.visitOpen(ctx, el, entering)
	case ast.Image:
		if entering {
			h.writeImage(ctx, el)
		}
		return ast.WalkSkipChildren
	case ast.Link:
		h.visitLink(ctx, el, entering)
	case ast.Anchor:
		if entering {
			ctx.WriteString(fmt.Sprintf(`<a id=%q></a>`, escapeAttr(el.ID)))
		}
	case ast.CrossReference:
		h.visitCrossReference(ctx, el, entering)
	case ast.Footnote:
		if entering {
			h.visitFootnote(ctx, el)
		}
		return ast.WalkSkipChildren
	case ast.Macro:
		if entering {
			h.writeInlineMacro(ctx, el)
		}
	case ast.TableOfContents:
		if entering {
			ctx.WriteString(h.renderTOC(ctx))
		}
	case ast.LineBreak:
		if entering {
			ctx.WriteString("<br>")
		}
	case ast.HorizontalRule:
		if entering {
			ctx.WriteString("<hr>")
		}
	case ast.Emphasis:
		h.inlineTag(ctx, "em", el, entering)
	case ast.Strong:
		h.inlineTag(ctx, "strong", el, entering)
	case ast.Highlight:
		h.inlineTag(ctx, "mark", el, entering)
	case ast.Superscript:
		h.inlineLiteral(ctx, "sup", el, entering)
	case ast.Subscript:
		h.inlineLiteral(ctx, "sub", el, entering)
	case ast.InlineCode:
		h.inlineLiteral(ctx, "code", el, entering)
	case ast.AttributeEntry, ast.Comment:
		// produce no output
	default:
		h.tag(ctx, "div", el, entering)
	}
	return ast.WalkContinue
}

func (h *HTMLConverter) tag(ctx *Context, name string, el *ast.Element, entering bool) {
	if entering {
		ctx.Indent()
		ctx.WriteString("<" + name + h.attrString(el) + ">")
	} else {
		ctx.WriteString("</" + name + ">")
	}
}

// inlineTag is tag without the pretty-print indentation: inline markup
// sits mid-sentence, where an injected newline would alter the text.
func (h *HTMLConverter) inlineTag(ctx *Context, name string, el *ast.Element, entering bool) {
	if entering {
		ctx.WriteString("<" + name + ">")
	} else {
		ctx.WriteString("</" + name + ">")
	}
}

func (h *HTMLConverter) inlineLiteral(ctx *Context, name string, el *ast.Element, entering bool) {
	if entering {
		ctx.WriteString("<" + name + ">" + escape(el.Text) + "</" + name + ">")
	}
}

func (h *HTMLConverter) visitDiv(ctx *Context, class string, el *ast.Element, entering bool) {
	if entering {
		ctx.Indent()
		ctx.WriteString(fmt.Sprintf(`<div class=%q%s>`, class, h.attrString(el)))
		if el.Title != "" {
			ctx.WriteString(`<div class="title">` + escape(el.Title) + "</div>")
		}
	} else {
		ctx.WriteString("</div>")
	}
}

func (h *HTMLConverter) attrString(el *ast.Element) string {
	id := h.anchorID(el)
	if id == "" {
		return ""
	}
	return fmt.Sprintf(` id=%q`, escapeAttr(id))
}

// anchorID returns el's explicit id, or lazily synthesizes one for
// Section elements via sanitized_anchor_name so cross-references and
// the generated TOC always have something to point at. The document
// Header gets no synthesized id: nothing links to it.
func (h *HTMLConverter) anchorID(el *ast.Element) string {
	if el.ID != "" {
		return el.ID
	}
	if el.Kind != ast.Section {
		return ""
	}
	if id, ok := h.anchors[el]; ok {
		return id
	}
	id := sanitized_anchor_name.Create(el.Text)
	h.anchors[el] = id
	return id
}

func (h *HTMLConverter) visitDocument(ctx *Context, el *ast.Element, entering bool) {
	if entering {
		ctx.WriteString("<article>")
		if ctx.Doc.Header != nil {
			h.writeHeader(ctx, ctx.Doc.Header)
		}
	} else {
		ctx.WriteString("</article>")
	}
}

func (h *HTMLConverter) writeHeader(ctx *Context, header *ast.Element) {
	ctx.WriteString(fmt.Sprintf("<h1%s>", h.attrString(header)) + escape(header.Text) + "</h1>")
	if author, ok := header.Attrs.Get("author"); ok {
		ctx.WriteString(`<div class="byline">` + escape(author) + "</div>")
	}
}

func (h *HTMLConverter) visitSection(ctx *Context, el *ast.Element, entering bool) {
	htag := fmt.Sprintf("h%d", el.Level+1)
	if entering {
		ctx.Indent()
		ctx.WriteString(fmt.Sprintf(`<section%s>`, h.attrString(el)))
		ctx.WriteString("<" + htag + ">" + escape(el.Text) + "</" + htag + ">")
	} else {
		ctx.WriteString("</section>")
	}
}

func (h *HTMLConverter) visitCodeBlock(ctx *Context, el *ast.Element, entering bool) {
	if !entering {
		return
	}
	class := ""
	if el.Label != "" {
		class = fmt.Sprintf(` class="language-%s"`, escapeAttr(el.Label))
	}
	ctx.WriteString(fmt.Sprintf(`<pre%s><code%s>`, h.attrString(el), class))
	ctx.WriteString(escape(stripCallouts(el.Text)))
	ctx.WriteString("</code></pre>")
}

// stripCallouts removes trailing " <N>" callout markers from code
// content lines for display purposes; the markers themselves are
// matched against a following DescriptionList by the callout-list
// convention, not rendered literally in the code.
func stripCallouts(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		trimmed := strings.TrimRight(l, " \t")
		if idx := strings.LastIndex(trimmed, " <"); idx >= 0 && strings.HasSuffix(trimmed, ">") {
			if isCalloutMarker(trimmed[idx+2 : len(trimmed)-1]) {
				lines[i] = trimmed[:idx]
			}
		}
	}
	return strings.Join(lines, "\n")
}

func isCalloutMarker(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func (h *HTMLConverter) visitList(ctx *Context, el *ast.Element, entering bool) {
	name := "ul"
	if el.Label == "ordered" {
		name = "ol"
	}
	h.tag(ctx, name, el, entering)
}

func (h *HTMLConverter) visitDescriptionItem(ctx *Context, el *ast.Element, entering bool) {
	if entering {
		ctx.Indent()
		ctx.WriteString("<dt>" + escape(el.Label) + "</dt><dd>")
	} else {
		ctx.WriteString("</dd>")
	}
}

func (h *HTMLConverter) visitTable(ctx *Context, el *ast.Element, entering bool) {
	if entering {
		ctx.Indent()
		ctx.WriteString(fmt.Sprintf(`<table%s>`, h.attrString(el)))
		if el.Title != "" {
			ctx.WriteString(`<caption>` + escape(el.Title) + "</caption>")
		}
		ctx.WriteString(h.colGroup(el))
	} else {
		if h.tbodyOpen[el] {
			ctx.WriteString("</tbody>")
		}
		ctx.WriteString("</table>")
	}
}

// visitTableRow opens <tbody> lazily before the first body row so a
// header row (marked by the parser when the table carries the header
// option) can precede it inside <thead>.
func (h *HTMLConverter) visitTableRow(ctx *Context, el *ast.Element, entering bool) {
	if el.Label == "header" {
		if entering {
			ctx.Indent()
			ctx.WriteString("<thead><tr>")
		} else {
			ctx.WriteString("</tr></thead>")
		}
		return
	}
	if entering {
		if table := ctx.Parent(); table != nil && !h.tbodyOpen[table] {
			h.tbodyOpen[table] = true
			ctx.WriteString("<tbody>")
		}
		ctx.Indent()
		ctx.WriteString("<tr>")
	} else {
		ctx.WriteString("</tr>")
	}
}

func (h *HTMLConverter) visitTableCell(ctx *Context, el *ast.Element, entering bool) {
	name := "td"
	if row := ctx.Parent(); row != nil && row.Label == "header" {
		name = "th"
	}
	if entering {
		ctx.WriteString("<" + name + ">")
	} else {
		ctx.WriteString("</" + name + ">")
	}
}

func (h *HTMLConverter) colGroup(el *ast.Element) string {
	spec, ok := el.Attrs.Get("cols")
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<colgroup>")
	for _, col := range strings.Split(spec, ",") {
		col = strings.TrimSpace(col)
		align := ""
		switch {
		case strings.Contains(col, "<"):
			align = ` style="text-align:left"`
		case strings.Contains(col, ">"):
			align = ` style="text-align:right"`
		case strings.Contains(col, "^"):
			align = ` style="text-align:center"`
		}
		sb.WriteString("<col" + align + ">")
	}
	sb.WriteString("</colgroup>")
	return sb.String()
}

func (h *HTMLConverter) visitBlockQuote(ctx *Context, el *ast.Element, entering bool) {
	if entering {
		ctx.Indent()
		ctx.WriteString(fmt.Sprintf(`<blockquote%s>`, h.attrString(el)))
	} else {
		if attribution, ok := el.Attrs.Get("attribution"); ok {
			ctx.WriteString("<cite>" + escape(attribution) + "</cite>")
		}
		ctx.WriteString("</blockquote>")
	}
}

func (h *HTMLConverter) visitVerse(ctx *Context, el *ast.Element, entering bool) {
	if !entering {
		return
	}
	ctx.Indent()
	ctx.WriteString(fmt.Sprintf(`<pre class="verse"%s>`, h.attrString(el)))
	ctx.WriteString(escape(el.Text))
	ctx.WriteString("</pre>")
	if attribution, ok := el.Attrs.Get("attribution"); ok {
		ctx.WriteString("<cite>" + escape(attribution) + "</cite>")
	}
}

func (h *HTMLConverter) visitAdmonition(ctx *Context, el *ast.Element, entering bool) {
	if entering {
		ctx.Indent()
		ctx.WriteString(fmt.Sprintf(`<div class="admonition %s"%s><div class="label">%s</div>`,
			strings.ToLower(el.Label), h.attrString(el), escape(el.Label)))
	} else {
		ctx.WriteString("</div>")
	}
}

func (h *HTMLConverter) visitOpen(ctx *Context, el *ast.Element, entering bool) ast.WalkStatus {
	switch el.Masquerade {
	case "sidebar":
		h.visitDiv(ctx, "sidebar", el, entering)
	case "quote":
		h.visitBlockQuote(ctx, el, entering)
	case "source":
		// An Open block holds parsed children, not raw Text, so the
		// source masquerade flattens them back to literal content.
		if entering {
			ctx.Indent()
			ctx.WriteString(fmt.Sprintf(`<pre%s><code>`, h.attrString(el)))
			ctx.WriteString(escape(plainText(el)))
			ctx.WriteString("</code></pre>")
		}
		return ast.WalkSkipChildren
	case "verse":
		if entering {
			ctx.Indent()
			ctx.WriteString(fmt.Sprintf(`<pre class="verse"%s>`, h.attrString(el)))
			ctx.WriteString(escape(plainText(el)))
			ctx.WriteString("</pre>")
		}
		return ast.WalkSkipChildren
	default:
		h.visitDiv(ctx, "openblock", el, entering)
	}
	return ast.WalkContinue
}

func (h *HTMLConverter) writeImage(ctx *Context, el *ast.Element) {
	src := escapeAttr(el.Target)
	if !allowedScheme(el.Target, ctx.Opts.AllowedURLSchemes) {
		src = ""
	}
	ctx.WriteString(fmt.Sprintf(`<img src=%q alt=%q>`, src, escapeAttr(el.Label)))
}

func (h *HTMLConverter) visitLink(ctx *Context, el *ast.Element, entering bool) {
	if entering {
		href := el.Target
		if !allowedScheme(href, ctx.Opts.AllowedURLSchemes) {
			href = "#"
		}
		ctx.WriteString(fmt.Sprintf(`<a href=%q>`, escapeAttr(href)))
		if len(el.Children) == 0 {
			ctx.WriteString(escape(el.Text))
		}
	} else {
		ctx.WriteString("</a>")
	}
}

func (h *HTMLConverter) visitCrossReference(ctx *Context, el *ast.Element, entering bool) {
	if !entering {
		return
	}
	label := el.Text
	if label == "" {
		label = el.Target
	}
	ctx.WriteString(fmt.Sprintf(`<a href="#%s">%s</a>`, escapeAttr(el.Target), escape(label)))
}

func (h *HTMLConverter) visitFootnote(ctx *Context, el *ast.Element) {
	id := el.Target
	if id == "" {
		id = fmt.Sprintf("_footnote_%d", len(h.footnotes)+1)
	}
	if !el.IsReference {
		h.footnotes = append(h.footnotes, footnoteEntry{id: id, body: plainText(el)})
	}
	n := h.footnoteNumber(id)
	ctx.WriteString(fmt.Sprintf(`<sup><a href="#fn-%s">[%d]</a></sup>`, escapeAttr(id), n))
}

func (h *HTMLConverter) footnoteNumber(id string) int {
	for i, f := range h.footnotes {
		if f.id == id {
			return i + 1
		}
	}
	return len(h.footnotes) + 1
}

func (h *HTMLConverter) renderFootnotes(_ Options) string {
	var sb strings.Builder
	sb.WriteString(`<div class="footnotes"><hr><ol>`)
	for _, f := range h.footnotes {
		sb.WriteString(fmt.Sprintf(`<li id="fn-%s">%s</li>`, escapeAttr(f.id), escape(f.body)))
	}
	sb.WriteString("</ol></div>")
	return sb.String()
}

func (h *HTMLConverter) writeInlineMacro(ctx *Context, el *ast.Element) {
	switch el.Label {
	case "kbd":
		for i, key := range strings.Split(el.Text, "+") {
			if i > 0 {
				ctx.WriteString("+")
			}
			ctx.WriteString("<kbd>" + escape(strings.TrimSpace(key)) + "</kbd>")
		}
	case "btn":
		ctx.WriteString(`<b class="button">` + escape(el.Text) + "</b>")
	case "menu":
		parts := strings.Split(el.Text, ",")
		for i, p := range parts {
			if i > 0 {
				ctx.WriteString(` &#8594; `)
			}
			ctx.WriteString(`<b class="menuref">` + escape(strings.TrimSpace(p)) + "</b>")
		}
	case "pass":
		ctx.WriteString(el.Text)
	default:
		ctx.WriteString(escape(el.Text))
	}
}

// renderTOC builds a nested list of links to every Section up to
// Opts.MaxTOCDepth, honoring the document's toc/toclevels attributes.
func (h *HTMLConverter) renderTOC(ctx *Context) string {
	if v, ok := ctx.Doc.Attrs.Get("toc"); ok && v == "false" {
		return ""
	}
	maxDepth := ctx.Opts.MaxTOCDepth
	if v, ok := ctx.Doc.Attrs.Get("toclevels"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			maxDepth = n
		}
	}
	var sb strings.Builder
	sb.WriteString(`<div class="toc">`)
	h.renderTOCLevel(&sb, ctx.Doc.Element.Children, maxDepth)
	sb.WriteString("</div>")
	return sb.String()
}

func (h *HTMLConverter) renderTOCLevel(sb *strings.Builder, els []*ast.Element, maxDepth int) {
	var sections []*ast.Element
	for _, el := range els {
		if el.Kind == ast.Section {
			sections = append(sections, el)
		}
	}
	if len(sections) == 0 {
		return
	}
	sb.WriteString("<ul>")
	for _, s := range sections {
		sb.WriteString(fmt.Sprintf(`<li><a href="#%s">%s</a>`, escapeAttr(h.anchorID(s)), escape(s.Text)))
		if s.Level < maxDepth {
			h.renderTOCLevel(sb, s.Children, maxDepth)
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
}

func plainText(el *ast.Element) string {
	var sb strings.Builder
	el.Walk(func(n *ast.Element, entering bool) ast.WalkStatus {
		if entering && (n.Kind == ast.Text || n.Kind == ast.InlineCode) {
			sb.WriteString(n.Text)
		}
		return ast.WalkContinue
	})
	return sb.String()
}

func escape(s string) string {
	return html.EscapeString(s)
}

func escapeAttr(s string) string {
	return html.EscapeString(s)
}

func allowedScheme(url string, allowed []string) bool {
	i := strings.Index(url, ":")
	if i < 0 {
		return true // scheme-relative or relative paths are always fine
	}
	scheme := strings.ToLower(url[:i])
	for _, a := range allowed {
		if scheme == strings.ToLower(a) {
			return true
		}
	}
	return false
}
