package parser

import "github.com/adocgo/adoc/token"

// line is one classified, newline-stripped logical line, the unit the
// block parser's cursor advances over. NewLine tokens from the lexer are
// folded away here since the block parser only ever needs to know where
// one line ends and the next begins, not the literal terminator bytes.
type line struct {
	kind token.Kind
	text string
	pos  token.Position
}

// linesFromTokens drops NewLine tokens and keeps everything else,
// including the trailing EndOfFile sentinel line.
func linesFromTokens(toks []token.Token) []line {
	lines := make([]line, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.NewLine {
			continue
		}
		lines = append(lines, line{kind: t.Kind, text: t.Value, pos: t.Pos})
	}
	return lines
}

func (l line) isEOF() bool { return l.kind == token.EndOfFile }
