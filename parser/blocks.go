package parser

import (
	"strings"

	"github.com/adocgo/adoc/ast"
	"github.com/adocgo/adoc/internal/diag"
	"github.com/adocgo/adoc/lex"
	"github.com/adocgo/adoc/token"
)

var admonitionLabels = []string{"NOTE", "TIP", "IMPORTANT", "WARNING", "CAUTION"}

var delimiterKinds = map[token.Kind]bool{
	token.CodeBlockDelimiter:  true,
	token.ExampleDelimiter:    true,
	token.SidebarDelimiter:    true,
	token.BlockQuoteDelimiter: true,
	token.OpenDelimiter:       true,
	token.TableDelimiter:      true,
}

func (st *state) pos1(l line) diag.Position { return diag.Position{Line: l.pos.Line, Column: l.pos.Column} }

// parseBlockSequence is the top-level entry used by the document and by
// section recursion: it gathers children until end-of-stream or a
// Header whose level is <= minLevel (minLevel 0 means "never stop on a
// header", used at the document root where every Header opens a
// section).
func (st *state) parseBlockSequence(minLevel int) []*ast.Element {
	return st.parseBlocks(func(l line) bool {
		if l.kind != token.Header {
			return false
		}
		level, ok := lex.HeaderLevel(l.text)
		return ok && minLevel > 0 && level <= minLevel
	})
}

// parseBlocks is the block-structured parser's main dispatch loop: it
// maintains a pending attribute bag and a pending anchor id, attaching
// them to the next content-producing element, and recurses for every
// construct that contains further blocks (sections, list items,
// delimited containers).
func (st *state) parseBlocks(stop func(line) bool) []*ast.Element {
	var result []*ast.Element
	var pendingAttrs *ast.Attributes
	var pendingID string
	var pendingPos diag.Position
	havePending := false

	takeAttrs := func() (*ast.Attributes, string) {
		a, id := pendingAttrs, pendingID
		pendingAttrs, pendingID, havePending = nil, "", false
		return a, id
	}

	if st.depth > st.opts.MaxNestingDepth {
		st.diags.Add(diag.Warning, diag.MaxNestingExceeded, st.pos1(st.peek()), "")
		return nil
	}
	st.depth++
	defer func() { st.depth-- }()

	for {
		l := st.peek()
		if l.isEOF() || stop(l) {
			break
		}
		switch l.kind {
		case token.EmptyLine:
			st.next()

		case token.AttributeBlockLine:
			st.next()
			if pendingAttrs == nil {
				pendingAttrs = ast.NewAttributes()
			}
			pendingAttrs.Merge(parseAttributeBlock(l.text))
			havePending = true
			pendingPos = st.pos1(l)

		case token.Anchor:
			st.next()
			pendingID = parseAnchorID(l.text)
			havePending = true
			pendingPos = st.pos1(l)

		case token.AttributeLine:
			st.next()
			st.applyAttributeLine(st.attrs, l.text)
			entry := ast.New(ast.AttributeEntry)
			entry.Text = l.text
			result = append(result, entry)

		case token.Header:
			st.next()
			level, _ := lex.HeaderLevel(l.text)
			section := ast.New(ast.Section)
			section.Level = level
			section.Text = headerTitle(l.text)
			st.inlineParseField(&section.Text)
			a, id := takeAttrs()
			attach(section, a, id)
			section.Append(st.parseBlockSequence(level)...)
			result = append(result, section)

		case token.CodeBlockDelimiter, token.ExampleDelimiter, token.SidebarDelimiter, token.BlockQuoteDelimiter, token.OpenDelimiter:
			a, id := takeAttrs()
			result = append(result, st.parseDelimitedBlock(l, a, id))

		case token.TableDelimiter:
			a, id := takeAttrs()
			result = append(result, st.parseTable(a, id))

		case token.ListItem:
			a, id := takeAttrs()
			list := st.parseList()
			kind := list.Label // attach would overwrite the ordered/unordered marker
			attach(list, a, id)
			list.Label = kind
			result = append(result, list)

		case token.DescriptionListItem:
			a, id := takeAttrs()
			dl := st.parseDescriptionList()
			attach(dl, a, id)
			result = append(result, dl)

		case token.AdmonitionBlock:
			a, id := takeAttrs()
			result = append(result, st.parseAdmonition(l, a, id))

		case token.BlockMacro:
			st.next()
			result = append(result, st.parseBlockMacro(l)...)

		default: // Text, stray TableRow
			a, id := takeAttrs()
			if el := st.parseParagraph(a, id); el != nil {
				result = append(result, el)
			}
		}
	}

	if havePending {
		st.diags.Add(diag.Warning, diag.DanglingAttributes, pendingPos, "")
	}
	return result
}

func attach(el *ast.Element, attrs *ast.Attributes, id string) {
	if attrs != nil {
		el.Attrs.Merge(attrs)
		if len(attrs.Positional) > 0 {
			el.Label = attrs.Positional[0]
		}
	}
	if id != "" {
		el.ID = id
	} else if el.Attrs.ID != "" {
		el.ID = el.Attrs.ID
	}
	if t, ok := el.Attrs.Get("title"); ok {
		el.Title = t
	}
}

// parseAttributeBlock parses the contents of a "[...]" attribute block
// line into positional and named attributes: comma-separated entries,
// name="value" or name=value for named ones, bare tokens positional.
func parseAttributeBlock(raw string) *ast.Attributes {
	inner := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "["), "]")
	bag := ast.NewAttributes()
	for _, part := range splitAttributeList(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i := strings.IndexByte(part, '='); i > 0 {
			name := strings.TrimSpace(part[:i])
			value := strings.Trim(strings.TrimSpace(part[i+1:]), `"`)
			bag.Set(name, value)
		} else {
			bag.Positional = append(bag.Positional, strings.Trim(part, `"`))
		}
	}
	if id, ok := bag.Get("id"); ok && id != "" {
		bag.ID = id
	}
	return bag
}

// splitAttributeList splits a comma-separated attribute list while
// honoring double-quoted values that may themselves contain commas.
func splitAttributeList(s string) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

func parseAnchorID(raw string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "[["), "]]")
	if i := strings.IndexByte(inner, ','); i >= 0 {
		inner = inner[:i]
	}
	return strings.TrimSpace(inner)
}

// --- delimited blocks -------------------------------------------------

func (st *state) parseDelimitedBlock(l line, attrs *ast.Attributes, id string) *ast.Element {
	openKind := l.kind
	st.next()

	switch openKind {
	case token.CodeBlockDelimiter:
		el := ast.New(ast.CodeBlock)
		el.Delim = '-'
		content, terminated := st.consumeLiteralUntil(openKind)
		el.Text = content
		el.Unterminated = !terminated
		attach(el, attrs, id)
		if lang, ok := sourceLanguage(attrs); ok {
			el.Label = lang
		}
		if !terminated {
			st.diags.Add(diag.Warning, diag.UnterminatedBlock, st.pos1(l), "code block")
		}
		return el

	case token.ExampleDelimiter:
		el := ast.New(ast.Example)
		el.Delim = '='
		attach(el, attrs, id)
		children, terminated := st.parseContainerUntil(openKind, false)
		el.Append(children...)
		el.Unterminated = !terminated
		if !terminated {
			st.diags.Add(diag.Warning, diag.UnterminatedBlock, st.pos1(l), "example block")
		}
		return el

	case token.SidebarDelimiter:
		el := ast.New(ast.Sidebar)
		el.Delim = '*'
		attach(el, attrs, id)
		children, terminated := st.parseContainerUntil(openKind, false)
		el.Append(children...)
		el.Unterminated = !terminated
		if !terminated {
			st.diags.Add(diag.Warning, diag.UnterminatedBlock, st.pos1(l), "sidebar block")
		}
		return el

	case token.BlockQuoteDelimiter:
		if lbl, _ := firstPositional(attrs); strings.EqualFold(lbl, "verse") {
			el := ast.New(ast.Verse)
			el.Delim = '_'
			content, terminated := st.consumeLiteralUntil(openKind)
			el.Text = content
			el.Unterminated = !terminated
			attach(el, attrs, id)
			if attrs != nil && len(attrs.Positional) > 1 {
				el.Attrs.Set("attribution", attrs.Positional[1])
			}
			if !terminated {
				st.diags.Add(diag.Warning, diag.UnterminatedBlock, st.pos1(l), "verse block")
			}
			return el
		}
		el := ast.New(ast.BlockQuote)
		el.Delim = '_'
		attach(el, attrs, id)
		children, terminated := st.parseContainerUntil(openKind, false)
		el.Append(children...)
		el.Unterminated = !terminated
		if attrs != nil && len(attrs.Positional) > 1 {
			el.Attrs.Set("attribution", attrs.Positional[1])
		}
		if !terminated {
			st.diags.Add(diag.Warning, diag.UnterminatedBlock, st.pos1(l), "blockquote")
		}
		return el

	default: // token.OpenDelimiter
		el := ast.New(ast.Open)
		if lbl, ok := firstPositional(attrs); ok {
			el.Masquerade = strings.ToLower(lbl)
		}
		attach(el, attrs, id)
		children, terminated := st.parseContainerUntil(openKind, true)
		el.Append(children...)
		el.Unterminated = !terminated
		if !terminated {
			st.diags.Add(diag.Warning, diag.UnterminatedBlock, st.pos1(l), "open block")
		}
		return el
	}
}

func firstPositional(attrs *ast.Attributes) (string, bool) {
	if attrs == nil || len(attrs.Positional) == 0 {
		return "", false
	}
	return attrs.Positional[0], true
}

// sourceLanguage extracts the highlight language from a code block's
// attribute list: [source,go] carries it in the second position, a bare
// [go] in the first.
func sourceLanguage(attrs *ast.Attributes) (string, bool) {
	if v, ok := attrs.Get("language"); ok {
		return v, true
	}
	first, ok := firstPositional(attrs)
	if !ok {
		return "", false
	}
	if strings.EqualFold(first, "source") {
		if len(attrs.Positional) > 1 {
			return attrs.Positional[1], true
		}
		return "", false
	}
	return first, true
}

func (st *state) consumeLiteralUntil(closeKind token.Kind) (string, bool) {
	var sb strings.Builder
	for {
		l := st.peek()
		if l.isEOF() {
			return sb.String(), false
		}
		if l.kind == closeKind {
			st.next()
			return sb.String(), true
		}
		st.next()
		sb.WriteString(l.text)
		sb.WriteByte('\n')
	}
}

func (st *state) parseContainerUntil(closeKind token.Kind, isOpen bool) ([]*ast.Element, bool) {
	stop := func(l line) bool {
		if l.kind == closeKind {
			return true
		}
		return isOpen && l.kind == token.OpenDelimiter
	}
	children := st.parseBlocks(stop)
	if st.peek().isEOF() {
		return children, false
	}
	st.next() // consume the closer
	return children, true
}

// --- admonitions --------------------------------------------------------

func (st *state) parseAdmonition(l line, attrs *ast.Attributes, id string) *ast.Element {
	st.next()
	var label, rest string
	for _, lbl := range admonitionLabels {
		if strings.HasPrefix(l.text, lbl+":") {
			label = lbl
			rest = strings.TrimPrefix(l.text, lbl+":")
			break
		}
	}
	el := ast.New(ast.Admonition)
	el.Label = label
	attach(el, attrs, id)

	var lines []string
	if s := strings.TrimSpace(rest); s != "" {
		lines = append(lines, s)
	}
	for st.peek().kind == token.Text {
		lines = append(lines, strings.TrimSpace(st.next().text))
	}
	para := ast.New(ast.Paragraph)
	para.Text = strings.Join(lines, " ")
	st.inlineParseField(&para.Text)
	para.Children = st.inlineChildren(para.Text)
	el.Append(para)
	return el
}

// --- paragraphs ---------------------------------------------------------

func (st *state) parseParagraph(attrs *ast.Attributes, id string) *ast.Element {
	var lines []string
	var seps []string // separator following each line: "\n" after a trailing "+", else " "
	for {
		l := st.peek()
		if l.kind != token.Text && l.kind != token.TableRow {
			break
		}
		st.next()
		text := l.text
		sep := " "
		if strings.HasSuffix(strings.TrimRight(text, " \t"), "+") && l.kind == token.Text {
			sep = "\n"
			text = strings.TrimRight(strings.TrimRight(text, " \t"), "+")
		}
		lines = append(lines, text)
		seps = append(seps, sep)
	}
	if len(lines) == 0 {
		return nil
	}
	para := ast.New(ast.Paragraph)
	attach(para, attrs, id)
	for i := 1; i < len(lines); i++ {
		lines[i] = seps[i-1] + lines[i]
	}
	para.Text = strings.Join(lines, "")
	para.Children = st.inlineChildren(para.Text)
	return para
}

// --- block macros ---------------------------------------------------------

type macroCall struct {
	name   string
	target string
	attrs  *ast.Attributes
}

func parseMacroCall(raw string) macroCall {
	i := strings.Index(raw, "::")
	name := raw[:i]
	rest := raw[i+2:]
	lb := strings.IndexByte(rest, '[')
	target := rest[:lb]
	attrsRaw := rest[lb:]
	return macroCall{name: name, target: target, attrs: parseAttributeBlock(attrsRaw)}
}

func (st *state) parseBlockMacro(l line) []*ast.Element {
	call := parseMacroCall(l.text)
	switch call.name {
	case "include":
		return st.resolveInclude(call, l)
	case "toc":
		el := ast.New(ast.TableOfContents)
		return []*ast.Element{el}
	case "image":
		el := ast.New(ast.Image)
		el.Target = call.target
		attach(el, call.attrs, "")
		if alt, ok := firstPositional(call.attrs); ok {
			el.Label = alt
		}
		return []*ast.Element{el}
	case "ifdef", "ifndef":
		return st.evalConditional(call, l)
	case "endif":
		return nil
	default:
		el := ast.New(ast.Macro)
		el.Label = call.name
		el.Target = call.target
		attach(el, call.attrs, "")
		return []*ast.Element{el}
	}
}

// evalConditional implements ifdef::/ifndef::[attr] ... endif::[] by
// recursively parsing the guarded region and discarding it unless the
// named attribute's presence matches the macro's sense. This is
// intentionally limited to a single presence/absence test, not a general
// expression language.
func (st *state) evalConditional(call macroCall, l line) []*ast.Element {
	want := call.name == "ifdef"
	has := st.attrs.Has(call.target)
	children := st.parseBlocks(func(l line) bool {
		return l.kind == token.BlockMacro && strings.HasPrefix(l.text, "endif::")
	})
	if !st.peek().isEOF() {
		st.next() // consume endif::[]
	}
	if has == want {
		return children
	}
	return nil
}

// --- lists ---------------------------------------------------------------

func (st *state) parseList() *ast.Element {
	first := st.peek()
	delim, width, _ := lex.ListMarker(first.text)

	listEl := ast.New(ast.List)
	listEl.Delim = delim
	if isOrderedDelim(delim) {
		listEl.Label = "ordered"
	} else {
		listEl.Label = "unordered"
	}

	for {
		l := st.peek()
		if l.isEOF() || l.kind != token.ListItem {
			break
		}
		d, w, _ := lex.ListMarker(l.text)
		if d != delim || w != width {
			break
		}
		listEl.Append(st.parseListItem(delim, width))

		if st.peek().kind != token.EmptyLine {
			continue
		}
		nxt := st.peekAt(1)
		if nxt.kind == token.ListItem {
			if nd, nw, _ := lex.ListMarker(nxt.text); nd == delim && nw == width {
				st.next() // absorb the separating blank, keep the list open
				continue
			}
		}
		break
	}
	return listEl
}

func isOrderedDelim(d byte) bool {
	return d == '.' || d == ')'
}

func (st *state) parseListItem(delim byte, width int) *ast.Element {
	l := st.next()
	_, _, text := lex.ListMarker(l.text)

	item := ast.New(ast.ListItem)
	item.Delim = delim

	stop := func(l line) bool {
		switch l.kind {
		case token.Header, token.DescriptionListItem:
			return true
		}
		if delimiterKinds[l.kind] {
			return true
		}
		if l.kind == token.ListItem {
			d, w, _ := lex.ListMarker(l.text)
			return d == delim && w == width
		}
		return false
	}

	var lines []string
	if s := strings.TrimSpace(text); s != "" {
		lines = append(lines, s)
	}
	for st.peek().kind == token.Text && !stop(st.peek()) {
		lines = append(lines, strings.TrimSpace(st.next().text))
	}
	if len(lines) > 0 {
		para := ast.New(ast.Paragraph)
		para.Text = strings.Join(lines, " ")
		para.Children = st.inlineChildren(para.Text)
		item.Append(para)
	}

	for isContinuation(st.peek()) {
		st.next()
		item.Append(st.parseAttachedBlock(stop)...)
	}

	item.Append(st.parseBlocks(stop)...)
	return item
}

// isContinuation reports a lone "+" line, the list-continuation marker
// that attaches the following block to the preceding list item.
func isContinuation(l line) bool {
	return l.kind == token.ListItem && strings.TrimSpace(l.text) == "+"
}

// parseAttachedBlock parses exactly one block following a list
// continuation marker. The marker overrides the item's usual stop
// conditions for delimited blocks (that is the point of writing "+"),
// but never steals a header or a sibling list item.
func (st *state) parseAttachedBlock(stop func(line) bool) []*ast.Element {
	l := st.peek()
	if l.isEOF() || l.kind == token.Header {
		return nil
	}
	switch l.kind {
	case token.EmptyLine:
		st.next()
		return st.parseAttachedBlock(stop)
	case token.CodeBlockDelimiter, token.ExampleDelimiter, token.SidebarDelimiter, token.BlockQuoteDelimiter, token.OpenDelimiter:
		return []*ast.Element{st.parseDelimitedBlock(l, nil, "")}
	case token.TableDelimiter:
		return []*ast.Element{st.parseTable(nil, "")}
	case token.ListItem:
		if stop(l) {
			return nil
		}
		return []*ast.Element{st.parseList()}
	case token.DescriptionListItem:
		return []*ast.Element{st.parseDescriptionList()}
	case token.AdmonitionBlock:
		return []*ast.Element{st.parseAdmonition(l, nil, "")}
	default:
		if el := st.parseParagraph(nil, ""); el != nil {
			return []*ast.Element{el}
		}
		st.next()
		return nil
	}
}

// --- description lists ----------------------------------------------------

func (st *state) parseDescriptionList() *ast.Element {
	dl := ast.New(ast.DescriptionList)
	for {
		l := st.peek()
		if l.isEOF() || l.kind != token.DescriptionListItem {
			break
		}
		dl.Append(st.parseDescriptionListItem())
	}
	return dl
}

func (st *state) parseDescriptionListItem() *ast.Element {
	l := st.next()
	term, desc := lex.DescriptionTerm(l.text)

	item := ast.New(ast.DescriptionListItem)
	item.Label = term

	stop := func(l line) bool {
		return l.kind == token.Header || l.kind == token.DescriptionListItem || delimiterKinds[l.kind]
	}

	var lines []string
	if desc != "" {
		lines = append(lines, desc)
	}
	for st.peek().kind == token.Text && !stop(st.peek()) {
		lines = append(lines, strings.TrimSpace(st.next().text))
	}
	if len(lines) > 0 {
		para := ast.New(ast.Paragraph)
		para.Text = strings.Join(lines, " ")
		para.Children = st.inlineChildren(para.Text)
		item.Append(para)
	}
	item.Append(st.parseBlocks(stop)...)
	return item
}

// --- tables ---------------------------------------------------------------

func (st *state) parseTable(attrs *ast.Attributes, id string) *ast.Element {
	st.next() // consume opening |===
	table := ast.New(ast.Table)
	attach(table, attrs, id)

	cols := 0
	if v, ok := table.Attrs.Get("cols"); ok {
		cols = len(splitAttributeList(v))
	}

	// Cells accumulate across row lines: a line starting with | whose
	// cell count is below the column count continues the current row,
	// per the row-continuation rule, so rows are flushed every cols
	// cells rather than per source line.
	var pending []string
	flushRow := func(cells []string) {
		row := ast.New(ast.TableRow)
		for _, c := range cells {
			cell := ast.New(ast.TableCell)
			cell.Text = strings.TrimSpace(c)
			cell.Children = st.inlineChildren(cell.Text)
			row.Append(cell)
		}
		table.Append(row)
	}

	for {
		l := st.peek()
		if l.isEOF() || l.kind == token.TableDelimiter {
			if !l.isEOF() {
				st.next()
			} else {
				table.Unterminated = true
				st.diags.Add(diag.Warning, diag.UnterminatedBlock, st.pos1(l), "table")
			}
			break
		}
		if l.kind != token.TableRow {
			st.next() // tolerate blank lines between rows
			continue
		}
		st.next()
		cells := splitTableCells(l.text)
		if cols == 0 {
			cols = len(cells) // first row fixes the column count
		}
		pending = append(pending, cells...)
		for cols > 0 && len(pending) >= cols {
			flushRow(pending[:cols])
			pending = pending[cols:]
		}
	}
	if len(pending) > 0 {
		flushRow(pending)
	}

	if table.Attrs.HasOption("header") && len(table.Children) > 0 {
		table.Children[0].Label = "header"
	}
	return table
}

// splitTableCells splits a row line on unescaped |, dropping the leading
// separator; \| embeds a literal pipe in a cell.
func splitTableCells(raw string) []string {
	var cells []string
	var cur strings.Builder
	started := false
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; {
		case c == '\\' && i+1 < len(raw) && raw[i+1] == '|':
			cur.WriteByte('|')
			i++
		case c == '|':
			if !started {
				started = true
				continue
			}
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	cells = append(cells, cur.String())
	return cells
}
