package parser

import (
	"strconv"
	"strings"

	"github.com/adocgo/adoc/ast"
	"github.com/adocgo/adoc/internal/diag"
	"github.com/adocgo/adoc/lex"
)

// resolveInclude implements the include resolver: it resolves the
// target through the active sandbox, guards against circular and
// over-deep include chains, reads and optionally filters the target's
// content, recursively parses it with a child state, and splices the
// resulting elements in place of the include:: macro line. Every failure
// mode here is a diagnostic, never a parse abort.
func (st *state) resolveInclude(call macroCall, l line) []*ast.Element {
	pos := st.pos1(l)

	if !st.opts.IncludeDirectivesEnabled || st.opts.SafeMode >= Secure {
		// Render the directive as literal text rather than silently
		// dropping content the author asked for.
		el := ast.New(ast.Paragraph)
		el.Text = l.text
		el.Append(textEl(l.text))
		return []*ast.Element{el}
	}

	if len(st.include) >= st.opts.MaxIncludeDepth {
		st.diags.Add(diag.Error, diag.IncludeDepthExceeded, pos, call.target)
		return nil
	}

	resolved, err := st.sandbox.Resolve(call.target)
	if err != nil {
		tmpl := diag.IncludeIOError
		if isEscapeErr(err) {
			tmpl = diag.IncludePathEscapes
		}
		st.diags.Add(diag.Error, tmpl, pos, call.target+": "+err.Error())
		return nil
	}
	for _, active := range st.include {
		if active == resolved {
			st.diags.Add(diag.Error, diag.CircularInclude, pos, call.target)
			return nil
		}
	}

	_, content, err := st.sandbox.ReadFile(call.target)
	if err != nil {
		tmpl := diag.IncludeIOError
		switch {
		case isEscapeErr(err):
			tmpl = diag.IncludePathEscapes
		case isNotExistErr(err):
			tmpl = diag.IncludeNotFound
		}
		st.diags.Add(diag.Error, tmpl, pos, call.target+": "+err.Error())
		return nil
	}

	content = applyIncludeFilters(content, call.attrs)

	child := st.childState(st.sandbox.Dir(call.target), resolved)
	child.lines = linesFromTokens(lex.Tokenize(content))
	child.pos = 0
	children := child.parseBlockSequence(0)

	if off, ok := call.attrs.Get("leveloffset"); ok {
		applyLevelOffset(children, parseLevelOffset(off))
	}
	return children
}

func isEscapeErr(err error) bool {
	return strings.Contains(err.Error(), "escapes base directory") || strings.Contains(err.Error(), "absolute paths")
}

func isNotExistErr(err error) bool {
	return strings.Contains(err.Error(), "no such file") || strings.Contains(err.Error(), "does not exist") ||
		strings.Contains(err.Error(), "file does not exist")
}

// applyIncludeFilters applies the lines= and tags= partial-include
// attributes: lines= selects a comma-separated set of 1-based line
// ranges ("1..5,9"); tags= selects regions bracketed by "tag::name[]" /
// "end::name[]" marker comments in the target.
func applyIncludeFilters(content string, attrs *ast.Attributes) string {
	if attrs == nil {
		return content
	}
	lines := strings.Split(content, "\n")

	if spec, ok := attrs.Get("lines"); ok {
		lines = filterByLineRanges(lines, spec)
	}
	if tag, ok := attrs.Get("tags"); ok {
		lines = filterByTag(lines, tag)
	} else if tag, ok := attrs.Get("tag"); ok {
		lines = filterByTag(lines, tag)
	}
	return strings.Join(lines, "\n")
}

func filterByLineRanges(lines []string, spec string) []string {
	type span struct{ lo, hi int }
	var spans []span
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i := strings.Index(part, ".."); i >= 0 {
			lo, errLo := strconv.Atoi(strings.TrimSpace(part[:i]))
			hiRaw := strings.TrimSpace(part[i+2:])
			if errLo != nil {
				continue
			}
			if hiRaw == "" {
				spans = append(spans, span{lo, len(lines)})
				continue
			}
			hi, errHi := strconv.Atoi(hiRaw)
			if errHi != nil {
				continue
			}
			spans = append(spans, span{lo, hi})
		} else if n, err := strconv.Atoi(part); err == nil {
			spans = append(spans, span{n, n})
		}
	}
	if len(spans) == 0 {
		return lines
	}
	var out []string
	for i, l := range lines {
		n := i + 1
		for _, sp := range spans {
			if n >= sp.lo && n <= sp.hi {
				out = append(out, l)
				break
			}
		}
	}
	return out
}

func filterByTag(lines []string, tag string) []string {
	var out []string
	inRegion := false
	for _, l := range lines {
		trimmed := strings.TrimSpace(l)
		switch {
		case strings.HasPrefix(trimmed, "tag::"+tag+"[") || strings.HasPrefix(trimmed, "// tag::"+tag+"["):
			inRegion = true
			continue
		case strings.HasPrefix(trimmed, "end::"+tag+"[") || strings.HasPrefix(trimmed, "// end::"+tag+"["):
			inRegion = false
			continue
		case strings.HasPrefix(trimmed, "tag::") || strings.HasPrefix(trimmed, "end::"):
			continue
		}
		if inRegion {
			out = append(out, l)
		}
	}
	return out
}

func parseLevelOffset(raw string) int {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "+")
	n, _ := strconv.Atoi(raw)
	return n
}

func applyLevelOffset(els []*ast.Element, offset int) {
	if offset == 0 {
		return
	}
	for _, el := range els {
		if el.Kind == ast.Section {
			el.Level += offset
		}
		applyLevelOffset(el.Children, offset)
	}
}
