package child

import "errors"

// Index is a stable handle into a Table. Handles stay valid until the slot is
// removed; holders must treat a nil result from At as a removed child.
type Index int

// None is the null handle.
const None Index = -1

var ErrTableFull = errors.New("child table full")

type entry struct {
	used  bool
	child Child
}

// Table is a fixed-capacity arena of child records. Iteration order is slot
// order, which doubles as the scheduler's tie-break order.
type Table struct {
	slots []entry
}

func NewTable(capacity int) *Table {
	return &Table{slots: make([]entry, capacity)}
}

// Add claims the lowest free slot for a new child with the given short
// address and returns its handle.
func (t *Table) Add(rloc16 uint16) (Index, error) {
	for i := range t.slots {
		if !t.slots[i].used {
			t.slots[i] = entry{used: true, child: Child{Rloc16: rloc16}}
			return Index(i), nil
		}
	}
	return None, ErrTableFull
}

// At resolves a handle, returning nil for None, out-of-range or freed slots.
func (t *Table) At(ix Index) *Child {
	if ix < 0 || int(ix) >= len(t.slots) || !t.slots[ix].used {
		return nil
	}
	return &t.slots[ix].child
}

// Remove frees the slot, invalidating the handle.
func (t *Table) Remove(ix Index) {
	if ix < 0 || int(ix) >= len(t.slots) {
		return
	}
	t.slots[ix] = entry{}
}

// ForEach calls fn for every live child in slot order.
func (t *Table) ForEach(fn func(Index, *Child)) {
	for i := range t.slots {
		if t.slots[i].used {
			fn(Index(i), &t.slots[i].child)
		}
	}
}

func (t *Table) Count() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].used {
			n++
		}
	}
	return n
}
