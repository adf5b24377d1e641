package parser_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adocgo/adoc/ast"
	"github.com/adocgo/adoc/parser"
)

func TestParseSectionNesting(t *testing.T) {
	src := "== A\n\ntext\n\n=== B\n\nmore\n\n== C\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Children, 2)

	a := doc.Children[0]
	assert.Equal(t, ast.Section, a.Kind)
	assert.Equal(t, 2, a.Level)
	assert.Equal(t, "A", a.Text)
	require.Len(t, a.Children, 2)
	b := a.Children[1]
	assert.Equal(t, ast.Section, b.Kind)
	assert.Equal(t, 3, b.Level)
	assert.Equal(t, "B", b.Text)

	c := doc.Children[1]
	assert.Equal(t, ast.Section, c.Kind)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, "C", c.Text)
}

func TestParseCodeBlockLiteral(t *testing.T) {
	src := "----\ncode *stays* literal\n----\n"
	doc, diags, err := parser.New().Parse(src)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, doc.Children, 1)
	code := doc.Children[0]
	assert.Equal(t, ast.CodeBlock, code.Kind)
	assert.Equal(t, "code *stays* literal\n", code.Text)
	assert.False(t, code.Unterminated)
}

func TestParseUnresolvedCrossReference(t *testing.T) {
	doc, diags, err := parser.New().Parse("See <<missing>>.\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "missing", diags[0].Detail)

	para := doc.Children[0]
	var xref *ast.Element
	for _, c := range para.Children {
		if c.Kind == ast.CrossReference {
			xref = c
		}
	}
	require.NotNil(t, xref)
	assert.True(t, xref.Unresolved)
	assert.Nil(t, xref.ResolvedTarget)
}

func TestParseCircularInclude(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/docs/a.adoc", []byte("include::a.adoc[]\n"), 0o644))

	p := parser.New(parser.WithFS(mem), parser.WithBaseDirectory("/docs"))
	_, diags, err := p.ParseFile("a.adoc")
	require.NoError(t, err)

	var found bool
	for _, d := range diags {
		if d.Template == "circular-include" {
			found = true
		}
	}
	assert.True(t, found, "expected a circular-include diagnostic, got %+v", diags)
}

func TestParseVerseWithAttribution(t *testing.T) {
	src := "[verse, Sandburg]\n____\nline one\nline two\n____\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	verse := doc.Children[0]
	assert.Equal(t, ast.Verse, verse.Kind)
	assert.Equal(t, "line one\nline two\n", verse.Text)
	attribution, ok := verse.Attrs.Get("attribution")
	require.True(t, ok)
	assert.Equal(t, "Sandburg", attribution)
}

func TestParseUnorderedList(t *testing.T) {
	src := "* one\n* two\n* three\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	list := doc.Children[0]
	assert.Equal(t, ast.List, list.Kind)
	assert.Equal(t, "unordered", list.Label)
	require.Len(t, list.Children, 3)
	assert.Equal(t, ast.ListItem, list.Children[0].Kind)
}

func TestParseOrderedListAndDescriptionList(t *testing.T) {
	doc, _, err := parser.New().Parse("1. first\n2. second\n")
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, "ordered", doc.Children[0].Label)

	doc, _, err = parser.New().Parse("term:: definition\n")
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	dl := doc.Children[0]
	assert.Equal(t, ast.DescriptionList, dl.Kind)
	require.Len(t, dl.Children, 1)
	assert.Equal(t, "term", dl.Children[0].Label)
}

func TestParseTableWithColsAttribute(t *testing.T) {
	src := "[cols=\"2,1\"]\n|===\n|a|b\n|c|d\n|===\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	table := doc.Children[0]
	assert.Equal(t, ast.Table, table.Kind)
	require.Len(t, table.Children, 2)
	assert.Len(t, table.Children[0].Children, 2)
}

func TestParseUnterminatedBlockDiagnostic(t *testing.T) {
	_, diags, err := parser.New().Parse("----\nunterminated\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "unterminated-block", string(diags[0].Template))
}

func TestParseIncludeLinesFilter(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/docs/snippet.adoc", []byte("one\ntwo\nthree\n"), 0o644))
	require.NoError(t, afero.WriteFile(mem, "/docs/main.adoc", []byte("include::snippet.adoc[lines=2]\n"), 0o644))

	p := parser.New(parser.WithFS(mem), parser.WithBaseDirectory("/docs"))
	doc, _, err := p.ParseFile("main.adoc")
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, "two", doc.Children[0].Text)
}

func TestParseIfdefConditional(t *testing.T) {
	src := ":flag:\n\nifdef::flag[]\nshown\nendif::flag[]\n\nifndef::flag[]\nhidden\nendif::flag[]\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, "shown", doc.Children[0].Text)
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, _, err := parser.New().Parse("")
	assert.Error(t, err)
}

func TestParseListContinuationAttachesBlock(t *testing.T) {
	src := "* one\n+\n----\ncode\n----\n* two\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	list := doc.Children[0]
	require.Len(t, list.Children, 2)

	one := list.Children[0]
	require.Len(t, one.Children, 2)
	assert.Equal(t, ast.Paragraph, one.Children[0].Kind)
	assert.Equal(t, ast.CodeBlock, one.Children[1].Kind)
	assert.Equal(t, "code\n", one.Children[1].Text)
}

func TestParseSourceBlockLanguage(t *testing.T) {
	doc, _, err := parser.New().Parse("[source,go]\n----\nfmt.Println(1)\n----\n")
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, "go", doc.Children[0].Label)
}

func TestParseTableRowContinuationAndEscapedPipe(t *testing.T) {
	src := "[cols=\"1,1\"]\n|===\n|a\n|b\n|c|d \\| e\n|===\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	table := doc.Children[0]
	require.Len(t, table.Children, 2, "cells below the column count must continue the open row")
	assert.Equal(t, "a", table.Children[0].Children[0].Text)
	assert.Equal(t, "b", table.Children[0].Children[1].Text)
	assert.Equal(t, "d | e", table.Children[1].Children[1].Text)
}

func TestParseTableHeaderOption(t *testing.T) {
	src := "[options=\"header\"]\n|===\n|Name|Age\n|Ann|40\n|===\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	table := doc.Children[0]
	require.Len(t, table.Children, 2)
	assert.Equal(t, "header", table.Children[0].Label)
	assert.Empty(t, table.Children[1].Label)
}

func TestParseAttributeUnset(t *testing.T) {
	src := ":icons: font\n:!icons:\n\nifdef::icons[]\nhidden\nendif::icons[]\ntext\n"
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	assert.False(t, doc.Attrs.Has("icons"))

	var texts []string
	for _, c := range doc.Children {
		if c.Kind == ast.Paragraph {
			texts = append(texts, c.Text)
		}
	}
	assert.NotContains(t, texts, "hidden")
}

func TestParseConstrainedEmphasisNeedsWordBoundary(t *testing.T) {
	doc, _, err := parser.New().Parse("snake_case_name stays literal\n")
	require.NoError(t, err)
	para := doc.Children[0]
	for _, c := range para.Children {
		assert.NotEqual(t, ast.Emphasis, c.Kind)
	}
}

func TestParseIncludeDisabledKeepsDirectiveText(t *testing.T) {
	p := parser.New(parser.WithIncludeDirectivesEnabled(false))
	doc, diags, err := p.Parse("include::missing.adoc[]\n")
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Len(t, doc.Children, 1)
	para := doc.Children[0]
	require.Len(t, para.Children, 1)
	assert.Equal(t, "include::missing.adoc[]", para.Children[0].Text)
}
