package parser

import (
	"github.com/adocgo/adoc/ast"
	"github.com/adocgo/adoc/internal/diag"
)

// resolveCrossReferences is a post-parse pass over the fully built tree
// that binds each CrossReference's ResolvedTarget against the document's
// id index, built once the whole tree (including any spliced-in include
// content) exists. Unbound ids are not parse errors; they are reported
// as warnings and marked Unresolved, and the HTML converter renders them
// as a link to the raw id labelled with that id.
func resolveCrossReferences(doc *ast.Doc, diags *diag.List) {
	doc.Element.Walk(func(el *ast.Element, entering bool) ast.WalkStatus {
		if !entering || el.Kind != ast.CrossReference {
			return ast.WalkContinue
		}
		target, ok := doc.Lookup(el.Target)
		if !ok {
			el.Unresolved = true
			diags.Add(diag.Warning, diag.UnresolvedXref, diag.Position{}, el.Target)
			return ast.WalkContinue
		}
		el.ResolvedTarget = target
		if el.Text == "" {
			el.Text = xrefDefaultLabel(target)
		}
		return ast.WalkContinue
	})
}

// xrefDefaultLabel derives the label an unlabeled <<id>> cross-reference
// renders with: a section/header's title, or its kind name as a last
// resort fallback.
func xrefDefaultLabel(target *ast.Element) string {
	switch target.Kind {
	case ast.Section, ast.Header:
		if target.Text != "" {
			return target.Text
		}
	case ast.Table:
		if target.Title != "" {
			return target.Title
		}
	}
	if target.Title != "" {
		return target.Title
	}
	return target.Kind.String()
}
