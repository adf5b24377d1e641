package lex

// The helpers below are line-local pattern matchers: each takes a byte
// slice positioned at the start of some candidate markup and reports
// whether it matched, how wide the match was, and what bytes remain after
// it. They run against one classified line at a time rather than against
// a running block-continuation stack, since tokenization here is a pure
// per-line function with no carried state; nesting is entirely the block
// parser's concern.

func isByte(b byte, any ...byte) bool {
	for _, ab := range any {
		if b == ab {
			return true
		}
	}
	return false
}

// trimNewline strips a trailing \r?\n from line.
func trimNewline(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
		if n > 0 && line[n-1] == '\r' {
			n--
		}
	}
	return line[:n]
}

// runDelimiter reports whether line consists solely of >=min repetitions
// of mark (aside from the trailing newline), as required for a block
// delimiter line (====, ----, ____, ****, |===).
func runDelimiter(line []byte, mark byte, min int) (width int, ok bool) {
	tail := trimNewline(line)
	for width < len(tail) && tail[width] == mark {
		width++
	}
	if width < min || width != len(tail) {
		return 0, false
	}
	return width, true
}

// exactRun reports whether tail equals exactly n copies of mark.
func exactRun(tail []byte, mark byte, n int) bool {
	if len(tail) != n {
		return false
	}
	for _, c := range tail {
		if c != mark {
			return false
		}
	}
	return true
}

// trimIndent consumes up to limit columns of leading space/tab indent
// (tabs counted as advancing to the next 4-column stop), returning the
// consumed width and the remaining bytes.
func trimIndent(line []byte, limit int) (n int, tail []byte) {
	for tail = line; n < limit && len(tail) > 0; tail = tail[1:] {
		switch tail[0] {
		case ' ':
			n++
		case '\t':
			if m := n + 4 - (n % 4); m > limit {
				return n, tail
			} else {
				n = m
			}
		default:
			return n, tail
		}
	}
	return n, tail
}

// delimiter matches a run of 1..maxWidth of one of marks, followed by a
// space/tab or end of line; used for list bullet markers (-, *) and
// blockquote/admonition sigils.
func delimiter(line []byte, maxWidth int, marks ...byte) (delim byte, width int, tail []byte) {
	if len(line) == 0 {
		return 0, 0, nil
	}
	if delim = line[0]; !isByte(delim, marks...) {
		return 0, 0, nil
	}
	width = 1
	tail = line[1:]
	for {
		if len(tail) == 0 {
			return delim, width, tail
		}
		switch tail[0] {
		case delim:
			if width++; width > maxWidth {
				return 0, 0, nil
			}
			tail = tail[1:]
		case ' ', '\t':
			return delim, width, tail
		default:
			return 0, 0, nil
		}
	}
}

// ordinal matches a numbered list marker "<digits>." or "<digits>)".
func ordinal(line []byte) (delim byte, width int, tail []byte) {
	tail = line
	for len(tail) > 0 {
		switch c := tail[0]; {
		case c >= '0' && c <= '9':
			width++
			tail = tail[1:]
			continue
		case c == '.' || c == ')':
			delim = c
			tail = tail[1:]
		}
		break
	}
	if delim == 0 || width < 1 || width > 9 {
		return 0, 0, nil
	}
	width++
	return delim, width, tail
}
