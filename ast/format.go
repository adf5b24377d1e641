package ast

import (
	"fmt"
	"io"
)

// Format writes a textual representation of the receiver, providing
// improved fmt.Printf display: a terse "Kind" form normally, and a
// verbose "Kind attr=value" form under `%+v`.
func (el *Element) Format(f fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprintf(f, fmt.FormatString(f, verb), el.Kind)
		return
	}
	if !f.Flag('+') {
		io.WriteString(f, el.Kind.String())
		return
	}
	fmt.Fprintf(f, "%v", el.Kind)
	if el.ID != "" {
		fmt.Fprintf(f, " id=%q", el.ID)
	}
	switch el.Kind {
	case Header, Section:
		fmt.Fprintf(f, " level=%v", el.Level)
	case CodeBlock, Verse, BlockQuote, Sidebar, Example:
		if el.Title != "" {
			fmt.Fprintf(f, " title=%q", el.Title)
		}
	case Link, Image, CrossReference, Footnote, Macro:
		fmt.Fprintf(f, " target=%q", el.Target)
	case List, ListItem:
		if el.Delim != 0 {
			fmt.Fprintf(f, " delim=%q", el.Delim)
		}
	case Open:
		if el.Masquerade != "" {
			fmt.Fprintf(f, " as=%v", el.Masquerade)
		}
	}
	fmt.Fprintf(f, " children=%d", len(el.Children))
}
