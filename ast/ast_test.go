package ast_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adocgo/adoc/ast"
)

func TestAttributesInsertionOrderAndCaseInsensitivity(t *testing.T) {
	a := ast.NewAttributes()
	a.Set("Source-Highlighter", "pygments")
	a.Set("role", "lead important")
	a.Set("options", "step, nofollow")

	v, ok := a.Get("SOURCE-HIGHLIGHTER")
	require.True(t, ok)
	assert.Equal(t, "pygments", v)

	pairs := a.All()
	require.Len(t, pairs, 3)
	assert.Equal(t, "Source-Highlighter", pairs[0].Name)

	a.Set("source-highlighter", "rouge")
	assert.Equal(t, "rouge", a.GetDefault("source-highlighter", ""))
	assert.Len(t, a.All(), 3, "overwriting an existing key must not grow the order slice")
}

func TestAttributesDeriveConvenience(t *testing.T) {
	a := ast.NewAttributes()
	a.Set("role", "lead important")
	a.Set("options", "step,nofollow")
	a.Set("id", "intro")
	merged := ast.NewAttributes()
	merged.Merge(a)

	assert.Equal(t, []string{"lead", "important"}, merged.Role)
	assert.True(t, merged.HasOption("step"))
	assert.True(t, merged.HasOption("nofollow"))
	assert.False(t, merged.HasOption("missing"))
	assert.Equal(t, "intro", merged.ID)
}

func TestWalkOrderAndSkip(t *testing.T) {
	root := ast.New(ast.Document)
	sec := ast.New(ast.Section)
	para1 := ast.New(ast.Paragraph)
	para2 := ast.New(ast.Paragraph)
	sec.Append(para1)
	root.Append(sec, para2)

	var entered, left []ast.Kind
	root.Walk(func(el *ast.Element, entering bool) ast.WalkStatus {
		if entering {
			entered = append(entered, el.Kind)
		} else {
			left = append(left, el.Kind)
		}
		return ast.WalkContinue
	})

	assert.Equal(t, []ast.Kind{ast.Document, ast.Section, ast.Paragraph, ast.Paragraph}, entered)
	assert.Equal(t, []ast.Kind{ast.Paragraph, ast.Section, ast.Paragraph, ast.Document}, left)

	var visited int
	root.Walk(func(el *ast.Element, entering bool) ast.WalkStatus {
		if entering {
			visited++
			if el.Kind == ast.Section {
				return ast.WalkSkipChildren
			}
		}
		return ast.WalkContinue
	})
	assert.Equal(t, 3, visited, "section's paragraph child must not be entered")
}

func TestWalkStop(t *testing.T) {
	root := ast.New(ast.Document)
	root.Append(ast.New(ast.Paragraph), ast.New(ast.Paragraph))

	var seen int
	status := root.Walk(func(el *ast.Element, entering bool) ast.WalkStatus {
		if entering {
			seen++
			if el.Kind == ast.Paragraph {
				return ast.WalkStop
			}
		}
		return ast.WalkContinue
	})
	assert.Equal(t, ast.WalkStop, status)
	assert.Equal(t, 2, seen)
}

func TestDocBuildIndex(t *testing.T) {
	doc := ast.NewDoc()
	sec := ast.New(ast.Section)
	sec.ID = "intro"
	doc.Append(sec)
	doc.BuildIndex()

	el, ok := doc.Lookup("intro")
	require.True(t, ok)
	assert.Same(t, sec, el)

	_, ok = doc.Lookup("missing")
	assert.False(t, ok)
}

func TestElementFormat(t *testing.T) {
	el := ast.New(ast.Header)
	el.Level = 2
	assert.Equal(t, "Header", fmt.Sprintf("%v", el))
	assert.Contains(t, fmt.Sprintf("%+v", el), "level=2")
}
