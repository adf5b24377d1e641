package convert_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adocgo/adoc/convert"
	"github.com/adocgo/adoc/parser"
)

func render(t *testing.T, src string, opts ...convert.Option) string {
	t.Helper()
	doc, _, err := parser.New().Parse(src)
	require.NoError(t, err)
	out, err := convert.Convert(doc, opts...)
	require.NoError(t, err)
	return out
}

func TestConvertHeaderAndStrongText(t *testing.T) {
	out := render(t, "= Title\n\nHello *world*.\n")
	assert.Equal(t, `<article><h1>Title</h1><p>Hello <strong>world</strong>.</p></article>`, out)
}

func TestConvertUnresolvedCrossReference(t *testing.T) {
	out := render(t, "See <<missing>>.\n")
	assert.Contains(t, out, `<a href="#missing">missing</a>`)
}

func TestConvertVersePreservesNewlines(t *testing.T) {
	src := "[verse, Sandburg]\n____\nline one\nline two\n____\n"
	out := render(t, src)
	assert.Contains(t, out, "line one\nline two")
	assert.Contains(t, out, "<cite>Sandburg</cite>")
}

func TestConvertEscapesHTML(t *testing.T) {
	out := render(t, "5 < 6 & 7 > 4\n")
	assert.Contains(t, out, "5 &lt; 6 &amp; 7 &gt; 4")
}

func TestConvertDisallowedLinkScheme(t *testing.T) {
	out := render(t, "link:javascript:alert(1)[click]\n")
	assert.NotContains(t, out, `href="javascript:`)
}

func TestConvertPrettyPrintIsWhitespaceOnlyDifference(t *testing.T) {
	compact := render(t, "== Heading\n\nbody text\n")
	pretty := render(t, "== Heading\n\nbody text\n", convert.WithPrettyPrint(true))
	assert.Equal(t, strings.ReplaceAll(strings.ReplaceAll(pretty, "\n", ""), "  ", ""), compact)
}

func TestConvertFullDocumentShell(t *testing.T) {
	out := render(t, "= My Title\n\nbody\n", convert.WithFullDocument(true))
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>My Title</title>")
}

func TestConvertCodeBlockLanguageClass(t *testing.T) {
	out := render(t, "[source,go]\n----\nfmt.Println(1)\n----\n")
	assert.Contains(t, out, `class="language-go"`)
}

func TestConvertTableWithHeaderRow(t *testing.T) {
	src := "[options=\"header\"]\n|===\n|Name|Age\n|Ann|40\n|===\n"
	out := render(t, src)
	assert.Contains(t, out, "<thead><tr><th>Name</th><th>Age</th></tr></thead>")
	assert.Contains(t, out, "<tbody><tr><td>Ann</td><td>40</td></tr></tbody>")
}

func TestConvertOpenBlockMasquerade(t *testing.T) {
	out := render(t, "[source]\n--\nx := 1\n--\n")
	assert.Contains(t, out, "<pre><code>x := 1</code></pre>")

	out = render(t, "--\nplain\n--\n")
	assert.Contains(t, out, `<div class="openblock">`)
}

func TestConvertTableOfContents(t *testing.T) {
	out := render(t, "toc::[]\n\n== One\n\ntext\n\n== Two\n\nmore\n")
	assert.Contains(t, out, `class="toc"`)
	assert.Contains(t, out, "One")
	assert.Contains(t, out, "Two")
}
