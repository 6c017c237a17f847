// Package layer holds the table of version-wrapper constructors. A wrapper
// carries no fields of its own: it marks which protocol revision produced
// the single value that follows it.
package layer

import "github.com/danmuck/tlvdump/internal/protocol"

// invokeWithLayer1 .. invokeWithLayer18
var defaultTags = [...]protocol.Tag{
	0x53835315,
	0x289dd1f6,
	0xb7475268,
	0xdea0d430,
	0x417a57ae,
	0x3a64d54d,
	0xa5be56d3,
	0xe9abd9fd,
	0x76715a63,
	0x39620c41,
	0xa6b88fdf,
	0xdda60d3c,
	0x427c8ea2,
	0x2b9b08fa,
	0xb4418b64,
	0xcf5f0987,
	0x50858a19,
	0x1c900537,
}

var defaultTable = New(defaultTags[:]...)

// Table is an immutable ordered list of wrapper tags. Index i wraps values
// produced by layer i+1.
type Table struct {
	tags  []protocol.Tag
	index map[protocol.Tag]int
}

// New copies tags into a fresh table. A repeated tag keeps its first index.
func New(tags ...protocol.Tag) *Table {
	t := &Table{
		tags:  make([]protocol.Tag, len(tags)),
		index: make(map[protocol.Tag]int, len(tags)),
	}
	copy(t.tags, tags)
	for i, tag := range t.tags {
		if _, ok := t.index[tag]; !ok {
			t.index[tag] = i
		}
	}
	return t
}

// Default returns the shared table of known invokeWithLayer wrappers.
func Default() *Table {
	return defaultTable
}

// Extend returns a new table holding t's tags followed by extra.
func (t *Table) Extend(extra ...protocol.Tag) *Table {
	all := make([]protocol.Tag, 0, t.Len()+len(extra))
	all = append(all, t.Tags()...)
	all = append(all, extra...)
	return New(all...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.tags)
}

func (t *Table) At(i int) protocol.Tag {
	return t.tags[i]
}

// Tags returns a copy of the table contents.
func (t *Table) Tags() []protocol.Tag {
	if t == nil {
		return nil
	}
	out := make([]protocol.Tag, len(t.tags))
	copy(out, t.tags)
	return out
}

// Lookup returns the first index holding tag.
func (t *Table) Lookup(tag protocol.Tag) (int, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[tag]
	return i, ok
}

// Version is the layer number rendered for index i.
func Version(i int) int {
	return i + 1
}
