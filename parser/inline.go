package parser

import (
	"strings"

	"github.com/adocgo/adoc/ast"
)

// inlineParseField substitutes document attribute references ({name})
// into a plain scalar field (section titles, admonition text) without
// building a child element tree — those fields are rendered as-is by
// converters; attribute substitution runs independently of markup
// recognition.
func (st *state) inlineParseField(s *string) {
	*s = st.substituteAttributes(*s)
}

// substituteAttributes replaces {name} with the named document attribute's
// value, left untouched if name is not set — asciidoc's convention, kept
// here rather than erroring since content never fails the parse.
func (st *state) substituteAttributes(s string) string {
	if !strings.ContainsRune(s, '{') {
		return s
	}
	var sb strings.Builder
	for {
		i := strings.IndexByte(s, '{')
		if i < 0 {
			sb.WriteString(s)
			break
		}
		j := strings.IndexByte(s[i:], '}')
		if j < 0 {
			sb.WriteString(s)
			break
		}
		name := s[i+1 : i+j]
		if v, ok := st.attrs.Get(name); ok && isAttributeName(name) {
			sb.WriteString(s[:i])
			sb.WriteString(v)
		} else {
			sb.WriteString(s[:i+j+1])
		}
		s = s[i+j+1:]
	}
	return sb.String()
}

func isAttributeName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// inlineChildren is the inline re-scanner's entry point: it takes
// already-joined paragraph/cell/title text (one or more lines joined by
// "\n" where a trailing "+" requested a hard break) and returns the
// sequence of inline Element children a converter walks.
func (st *state) inlineChildren(text string) []*ast.Element {
	text = st.substituteAttributes(text)
	var out []*ast.Element
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			out = append(out, ast.New(ast.LineBreak))
		}
		out = append(out, st.scanInline(part, 0)...)
	}
	return out
}

// scanInline recognizes the inline constructs in a single forward pass,
// falling back to literal text and continuing whenever a construct turns
// out to be malformed (unterminated delimiter, bad macro syntax) rather
// than aborting — backtracking is "resume scanning past the offending
// character", not full re-parse.
func (st *state) scanInline(s string, depth int) []*ast.Element {
	if depth > st.opts.MaxNestingDepth {
		return []*ast.Element{textEl(s)}
	}
	var out []*ast.Element
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			out = append(out, textEl(lit.String()))
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '`':
			if el, n, ok := scanSimpleDelimited(s[i:], '`', ast.InlineCode, false); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case c == '*':
			if el, n, ok := st.scanEmphasisFamily(s[i:], '*', ast.Strong, depth, isWordStart(s, i)); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case c == '_':
			if el, n, ok := st.scanEmphasisFamily(s[i:], '_', ast.Emphasis, depth, isWordStart(s, i)); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case c == '#':
			if el, n, ok := st.scanEmphasisFamily(s[i:], '#', ast.Highlight, depth, isWordStart(s, i)); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case c == '^':
			if el, n, ok := scanSimpleDelimited(s[i:], '^', ast.Superscript, true); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case c == '~':
			if el, n, ok := scanSimpleDelimited(s[i:], '~', ast.Subscript, true); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case c == '<' && strings.HasPrefix(s[i:], "<<"):
			if el, n, ok := st.scanXref(s[i:]); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case c == '[' && strings.HasPrefix(s[i:], "[["):
			if el, n, ok := scanInlineAnchor(s[i:]); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case isWordStart(s, i) && startsMacro(s[i:]):
			if el, n, ok := st.scanMacro(s[i:], depth); ok {
				flush()
				out = append(out, el)
				i += n
				continue
			}

		case isWordStart(s, i) && startsBareURL(s[i:]):
			el, n := st.scanBareURL(s[i:])
			flush()
			out = append(out, el)
			i += n
			continue
		}

		lit.WriteByte(c)
		i++
	}
	flush()
	return out
}

func textEl(s string) *ast.Element {
	el := ast.New(ast.Text)
	el.Text = s
	return el
}

func isWordStart(s string, i int) bool {
	if i == 0 {
		return true
	}
	c := s[i-1]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

// scanSimpleDelimited matches the smallest span between two identical
// delimiter bytes with no recursive inline content inside (inline code,
// superscript, subscript all take their content literally).
func scanSimpleDelimited(s string, d byte, kind ast.Kind, constrained bool) (*ast.Element, int, bool) {
	if len(s) < 3 || s[0] != d {
		return nil, 0, false
	}
	end := strings.IndexByte(s[1:], d)
	if end <= 0 {
		return nil, 0, false
	}
	end++ // index within s
	content := s[1:end]
	if content == "" {
		return nil, 0, false
	}
	if constrained && end+1 < len(s) && isWordChar(s[end+1]) {
		return nil, 0, false
	}
	el := ast.New(kind)
	el.Text = content
	return el, end + 1, true
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// scanEmphasisFamily handles the doubled (unconstrained, e.g. **bold**)
// and single (constrained, word-boundary-delimited, e.g. *bold*) forms
// of the emphasis-family markers, recursing into the matched span for
// nested markup.
func (st *state) scanEmphasisFamily(s string, d byte, kind ast.Kind, depth int, atWordStart bool) (*ast.Element, int, bool) {
	if len(s) >= 2 && s[1] == d {
		// unconstrained doubled form: **...**
		closer := string([]byte{d, d})
		end := strings.Index(s[2:], closer)
		if end < 0 {
			return nil, 0, false
		}
		end += 2
		content := s[2:end]
		if content == "" {
			return nil, 0, false
		}
		el := ast.New(kind)
		el.Children = st.scanInline(content, depth+1)
		return el, end + 2, true
	}

	// constrained single form: *bold* — must not be preceded or followed
	// by a word character, so it doesn't fire inside snake_case_words.
	if !atWordStart {
		return nil, 0, false
	}
	end := strings.IndexByte(s[1:], d)
	if end <= 0 {
		return nil, 0, false
	}
	end++
	content := s[1:end]
	if content == "" || content[0] == ' ' || content[len(content)-1] == ' ' {
		return nil, 0, false
	}
	if end+1 < len(s) && isWordChar(s[end+1]) {
		return nil, 0, false
	}
	el := ast.New(kind)
	el.Children = st.scanInline(content, depth+1)
	return el, end + 1, true
}

// scanXref matches <<id>> or <<id,label>>.
func (st *state) scanXref(s string) (*ast.Element, int, bool) {
	end := strings.Index(s, ">>")
	if end < 0 {
		return nil, 0, false
	}
	inner := s[2:end]
	id, label := inner, ""
	if i := strings.IndexByte(inner, ','); i >= 0 {
		id = strings.TrimSpace(inner[:i])
		label = strings.TrimSpace(inner[i+1:])
	}
	if id == "" {
		return nil, 0, false
	}
	el := ast.New(ast.CrossReference)
	el.Target = id
	el.Text = label
	return el, end + 2, true
}

func scanInlineAnchor(s string) (*ast.Element, int, bool) {
	end := strings.Index(s, "]]")
	if end < 0 {
		return nil, 0, false
	}
	id := s[2:end]
	if id == "" || strings.ContainsAny(id, " \t") {
		return nil, 0, false
	}
	el := ast.New(ast.Anchor)
	el.ID = id
	return el, end + 2, true
}

var macroPrefixes = []string{"kbd:", "btn:", "menu:", "pass:", "footnote:", "footnoteref:", "image:", "link:"}

func startsMacro(s string) bool {
	for _, p := range macroPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// scanMacro handles the inline macro forms that share the name:target[...]
// or name:[...] shape: kbd:/btn:/menu:/pass: (the bracketed key
// combination / label / passthrough text is held as Text; any text
// between the colon and "[" is not kept), image: (inline image), and
// footnote:/footnoteref: (the two footnote forms).
func (st *state) scanMacro(s string, depth int) (*ast.Element, int, bool) {
	colon := strings.IndexByte(s, ':')
	name := s[:colon]
	rest := s[colon+1:]
	lb := strings.IndexByte(rest, '[')
	if lb < 0 {
		return nil, 0, false
	}
	target := rest[:lb]
	rb := matchingBracket(rest, lb)
	if rb < 0 {
		return nil, 0, false
	}
	inner := rest[lb+1 : rb]
	consumed := colon + 1 + rb + 1

	switch name {
	case "footnote":
		el := ast.New(ast.Footnote)
		el.Children = st.scanInline(inner, depth+1)
		return el, consumed, true
	case "footnoteref":
		parts := splitAttributeList(inner)
		el := ast.New(ast.Footnote)
		el.Target = strings.TrimSpace(parts[0])
		el.IsReference = len(parts) < 2
		if len(parts) >= 2 {
			el.Children = st.scanInline(strings.TrimSpace(parts[1]), depth+1)
		}
		return el, consumed, true
	case "image":
		el := ast.New(ast.Image)
		el.Target = target
		if alt, _ := firstPositional(parseAttributeBlock("[" + inner + "]")); alt != "" {
			el.Label = alt
		}
		return el, consumed, true
	case "link":
		el := ast.New(ast.Link)
		el.Target = target
		el.Text = inner
		if inner != "" {
			el.Children = st.scanInline(inner, depth+1)
		}
		return el, consumed, true
	default: // kbd, btn, menu, pass
		el := ast.New(ast.Macro)
		el.Label = name
		el.Text = inner
		return el, consumed, true
	}
}

func matchingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

var bareURLSchemes = []string{"https://", "http://", "ftp://", "mailto:"}

func startsBareURL(s string) bool {
	for _, scheme := range bareURLSchemes {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}

// scanBareURL matches a bare URL optionally followed by an asciidoc
// [label] suffix. Without a label, the URL text itself is both Target
// and the rendered label.
func (st *state) scanBareURL(s string) (*ast.Element, int) {
	end := len(s)
	for i, c := range s {
		if c == ' ' || c == '\t' || c == '[' {
			end = i
			break
		}
	}
	url := strings.TrimRight(s[:end], ".,;:!?)")
	end = len(url)

	el := ast.New(ast.Link)
	el.Target = url
	el.Text = url

	if end < len(s) && s[end] == '[' {
		if rb := matchingBracket(s, end); rb >= 0 {
			label := s[end+1 : rb]
			if label != "" {
				el.Text = label
				el.Children = st.scanInline(label, 0)
			}
			return el, rb + 1
		}
	}
	return el, end
}
