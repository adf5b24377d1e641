package ast

// Doc wraps the root Document element with the extra bookkeeping the
// document carries: an optional Header kept separate from content
// children, document-wide attributes, and a flat id -> element index
// built by the cross-reference resolver.
type Doc struct {
	*Element // Kind == Document; Children are content elements only

	Header *Element // Kind == Header, or nil
	Attrs  *Attributes

	ids map[string]*Element
}

// NewDoc returns an empty document ready for the block parser to fill in.
func NewDoc() *Doc {
	return &Doc{
		Element: New(Document),
		Attrs:   NewAttributes(),
		ids:     make(map[string]*Element),
	}
}

// Index records el under id, the first writer for a given id wins (a
// duplicate id is not a parse error; it simply never becomes a second
// resolvable target).
func (d *Doc) Index(id string, el *Element) {
	if id == "" {
		return
	}
	if _, exists := d.ids[id]; !exists {
		d.ids[id] = el
	}
}

// Lookup returns the element registered under id, if any.
func (d *Doc) Lookup(id string) (*Element, bool) {
	el, ok := d.ids[id]
	return el, ok
}

// BuildIndex walks the full tree (content and Header) and (re)populates
// the id index from every element carrying a non-empty ID. Safe to call
// repeatedly; it does not clear prior entries, so the first occurrence
// of a given id always wins.
func (d *Doc) BuildIndex() {
	visit := func(el *Element, entering bool) WalkStatus {
		if entering && el.ID != "" {
			d.Index(el.ID, el)
		}
		return WalkContinue
	}
	if d.Header != nil {
		d.Header.Walk(visit)
	}
	d.Element.Walk(visit)
}
