package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adocgo/adoc/ast"
)

type recordingVisitor struct{ calls int }

func (v *recordingVisitor) Visit(ctx *Context, el *ast.Element, entering bool) ast.WalkStatus {
	v.calls++
	if entering {
		ctx.WriteString("<" + el.Kind.String() + ">")
	} else {
		ctx.WriteString("</" + el.Kind.String() + ">")
	}
	return ast.WalkContinue
}

func TestConverterWalksEveryElement(t *testing.T) {
	doc := ast.NewDoc()
	p := ast.New(ast.Paragraph)
	p.Append(ast.New(ast.Text))
	doc.Append(p)

	v := &recordingVisitor{}
	out, err := New(v).Convert(doc)
	assert.NoError(t, err)
	assert.Equal(t, "<Document><Paragraph><Text></Text></Paragraph></Document>", out)
	assert.Equal(t, 6, v.calls)
}

func TestContextPopPanicsOnImbalance(t *testing.T) {
	ctx := newContext(ast.NewDoc(), DefaultOptions())
	a := ast.New(ast.Paragraph)
	b := ast.New(ast.Text)
	ctx.push(a)
	assert.Panics(t, func() { ctx.pop(b) })
}

func TestContextDepthTracksStack(t *testing.T) {
	ctx := newContext(ast.NewDoc(), DefaultOptions())
	assert.Equal(t, 0, ctx.Depth())
	el := ast.New(ast.Paragraph)
	ctx.push(el)
	assert.Equal(t, 1, ctx.Depth())
	ctx.pop(el)
	assert.Equal(t, 0, ctx.Depth())
}
