package ast

import "strings"

// Pair is one (name, value) entry of an Attributes bag, kept around so
// that iteration can preserve author-visible insertion order.
type Pair struct {
	Name  string
	Value string
}

// Attributes is the attribute bag carried by every Element: a
// case-insensitive mapping from name to value, an ordered list of
// positional (unnamed) attributes, and derived convenience fields
// (ID, Role, Options).
type Attributes struct {
	order []Pair
	index map[string]int // lower(name) -> index into order

	Positional []string
	ID         string
	Role       []string
	Options    map[string]bool
}

// NewAttributes returns an empty, ready-to-use Attributes bag.
func NewAttributes() *Attributes {
	return &Attributes{index: make(map[string]int)}
}

// Set assigns name=value, overwriting any prior value for name while
// preserving its original insertion position. Lookup is case-insensitive;
// the first-seen casing of name is what All returns.
func (a *Attributes) Set(name, value string) {
	key := strings.ToLower(name)
	if i, ok := a.index[key]; ok {
		a.order[i].Value = value
		return
	}
	a.index[key] = len(a.order)
	a.order = append(a.order, Pair{Name: name, Value: value})
}

// Get looks up name case-insensitively.
func (a *Attributes) Get(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	i, ok := a.index[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return a.order[i].Value, true
}

// Del removes name from the bag, if present.
func (a *Attributes) Del(name string) {
	key := strings.ToLower(name)
	i, ok := a.index[key]
	if !ok {
		return
	}
	a.order = append(a.order[:i], a.order[i+1:]...)
	delete(a.index, key)
	for k, j := range a.index {
		if j > i {
			a.index[k] = j - 1
		}
	}
}

// GetDefault is Get with a fallback for the not-found case.
func (a *Attributes) GetDefault(name, fallback string) string {
	if v, ok := a.Get(name); ok {
		return v
	}
	return fallback
}

// Has reports whether name is present, regardless of value (used for
// ifdef::/ifndef:: presence tests).
func (a *Attributes) Has(name string) bool {
	_, ok := a.Get(name)
	return ok
}

// All returns the (name, value) pairs in insertion order.
func (a *Attributes) All() []Pair {
	if a == nil {
		return nil
	}
	return a.order
}

// HasOption reports whether name is set in the options convenience set
// (populated from the "options"/"opts" attribute, comma-separated).
func (a *Attributes) HasOption(name string) bool {
	return a != nil && a.Options[name]
}

// deriveConvenience populates ID, Role, and Options from the underlying
// bag; called by the parser after all attribute sources (positional,
// named) for a pending bag have been merged.
func (a *Attributes) deriveConvenience() {
	if v, ok := a.Get("role"); ok {
		a.Role = strings.Fields(v)
	}
	a.Options = map[string]bool{}
	for _, key := range []string{"options", "opts"} {
		if v, ok := a.Get(key); ok {
			for _, opt := range strings.Split(v, ",") {
				if opt = strings.TrimSpace(opt); opt != "" {
					a.Options[opt] = true
				}
			}
		}
	}
	if v, ok := a.Get("id"); ok && a.ID == "" {
		a.ID = v
	}
}

// Merge copies other's entries into a, overwriting duplicates, then
// re-derives the convenience fields. Used when a pending attribute block
// is attached to the element it decorates.
func (a *Attributes) Merge(other *Attributes) {
	if other == nil {
		return
	}
	for _, p := range other.order {
		a.Set(p.Name, p.Value)
	}
	a.Positional = append(a.Positional, other.Positional...)
	if other.ID != "" {
		a.ID = other.ID
	}
	a.deriveConvenience()
}
