package shell

import "bytes"

// DefaultCompletions is the catalog of the blink shell
var DefaultCompletions = []string{"clear", "blink ", "help", "help pinout"}

// Completer is a source of completion candidates
type Completer interface {
	// Suggest calls yield with every candidate that starts with prefix,
	// in order, until yield returns false
	Suggest(prefix []byte, yield func(candidate []byte) bool)
}

// Catalog is a fixed, ordered set of completion candidates
type Catalog struct {
	entries [][]byte
}

// NewCatalog creates a catalog. Entries are copied once here so that
// Suggest never allocates.
func NewCatalog(entries ...string) *Catalog {
	c := &Catalog{entries: make([][]byte, len(entries))}
	for i, e := range entries {
		c.entries[i] = []byte(e)
	}
	return c
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Suggest implements Completer
func (c *Catalog) Suggest(prefix []byte, yield func(candidate []byte) bool) {
	for _, e := range c.entries {
		if bytes.HasPrefix(e, prefix) && !yield(e) {
			return
		}
	}
}
