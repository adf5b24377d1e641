package lex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adocgo/adoc/lex"
	"github.com/adocgo/adoc/token"
)

func kinds(toks []token.Token) []token.Kind {
	var ks []token.Kind
	for _, t := range toks {
		if t.Kind == token.NewLine {
			continue
		}
		ks = append(ks, t.Kind)
	}
	return ks
}

func TestTokenizeClassification(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		want []token.Kind
	}{
		{"empty", "\n", []token.Kind{token.EmptyLine, token.EndOfFile}},
		{"header", "= Title\n", []token.Kind{token.Header, token.EndOfFile}},
		{"section", "== A\n", []token.Kind{token.Header, token.EndOfFile}},
		{"codefence", "----\n", []token.Kind{token.CodeBlockDelimiter, token.EndOfFile}},
		{"example", "====\n", []token.Kind{token.ExampleDelimiter, token.EndOfFile}},
		{"sidebar", "****\n", []token.Kind{token.SidebarDelimiter, token.EndOfFile}},
		{"quote", "____\n", []token.Kind{token.BlockQuoteDelimiter, token.EndOfFile}},
		{"open", "--\n", []token.Kind{token.OpenDelimiter, token.EndOfFile}},
		{"table", "|===\n", []token.Kind{token.TableDelimiter, token.EndOfFile}},
		{"attribute", ":toc: macro\n", []token.Kind{token.AttributeLine, token.EndOfFile}},
		{"attribute unset", ":!icons:\n", []token.Kind{token.AttributeLine, token.EndOfFile}},
		{"attribute block", "[source,go]\n", []token.Kind{token.AttributeBlockLine, token.EndOfFile}},
		{"anchor", "[[intro]]\n", []token.Kind{token.Anchor, token.EndOfFile}},
		{"block macro", "include::a.adoc[]\n", []token.Kind{token.BlockMacro, token.EndOfFile}},
		{"admonition", "NOTE: careful\n", []token.Kind{token.AdmonitionBlock, token.EndOfFile}},
		{"bullet", "* item\n", []token.Kind{token.ListItem, token.EndOfFile}},
		{"ordinal", "1. item\n", []token.Kind{token.ListItem, token.EndOfFile}},
		{"description", "term:: body\n", []token.Kind{token.DescriptionListItem, token.EndOfFile}},
		{"table row", "|cell one|cell two\n", []token.Kind{token.TableRow, token.EndOfFile}},
		{"text", "just a paragraph\n", []token.Kind{token.Text, token.EndOfFile}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			toks := lex.Tokenize(tt.src)
			assert.Equal(t, tt.want, kinds(toks))
		})
	}
}

func TestTokenizeNoTrailingNewline(t *testing.T) {
	toks := lex.Tokenize("abc")
	require.Len(t, toks, 2)
	assert.Equal(t, token.Text, toks[0].Kind)
	assert.Equal(t, "abc", toks[0].Value)
	assert.Equal(t, token.EndOfFile, toks[1].Kind)
}

func TestTokenizePositions(t *testing.T) {
	toks := lex.Tokenize("= Title\n\nbody\n")
	require.True(t, len(toks) >= 5)
	assert.Equal(t, token.Header, toks[0].Kind)
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 0, toks[0].Pos.Offset)
}

func TestHeaderLevel(t *testing.T) {
	lvl, ok := lex.HeaderLevel("=== Three")
	require.True(t, ok)
	assert.Equal(t, 3, lvl)

	_, ok = lex.HeaderLevel("not a header")
	assert.False(t, ok)
}

func TestBOMStripped(t *testing.T) {
	toks := lex.Tokenize("\xef\xbb\xbf= Title\n")
	require.NotEmpty(t, toks)
	assert.Equal(t, token.Header, toks[0].Kind)
	assert.Equal(t, "= Title", toks[0].Value)
}
