package tui

// Selectable is a collection with a selection cursor. The cursor is -1 when
// the collection is empty and otherwise stays within [0, Len()-1].
type Selectable[T any] struct {
	items  []T
	cursor int
}

// NewSelectable returns a selectable over a copy of items.
func NewSelectable[T any](items []T) Selectable[T] {
	var s Selectable[T]
	s.Replace(items)
	return s
}

// Replace swaps in a new collection and clamps the cursor.
func (s *Selectable[T]) Replace(items []T) {
	s.items = append([]T(nil), items...)
	s.clamp()
}

// Append adds one item without moving the cursor, except that an empty
// collection selects its first item.
func (s *Selectable[T]) Append(item T) {
	s.items = append(s.items, item)
	s.clamp()
}

// Clear empties the collection.
func (s *Selectable[T]) Clear() {
	s.items = nil
	s.cursor = -1
}

func (s *Selectable[T]) clamp() {
	switch {
	case len(s.items) == 0:
		s.cursor = -1
	case s.cursor < 0:
		s.cursor = 0
	case s.cursor >= len(s.items):
		s.cursor = len(s.items) - 1
	}
}

// Items returns the collection. Callers must not modify it.
func (s Selectable[T]) Items() []T { return s.items }

func (s Selectable[T]) Len() int { return len(s.items) }

// Cursor returns the selected index, or -1 when empty.
func (s Selectable[T]) Cursor() int {
	if len(s.items) == 0 {
		return -1
	}
	return s.cursor
}

// Selected returns the item under the cursor.
func (s Selectable[T]) Selected() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[s.cursor], true
}

// Next moves the cursor down, wrapping to the top.
func (s *Selectable[T]) Next() {
	if len(s.items) == 0 {
		s.cursor = -1
		return
	}
	s.cursor = (s.cursor + 1) % len(s.items)
}

// Prev moves the cursor up, wrapping to the bottom.
func (s *Selectable[T]) Prev() {
	if len(s.items) == 0 {
		s.cursor = -1
		return
	}
	s.cursor = (s.cursor - 1 + len(s.items)) % len(s.items)
}

// Move shifts the cursor by delta without wrapping.
func (s *Selectable[T]) Move(delta int) {
	if len(s.items) == 0 {
		s.cursor = -1
		return
	}
	s.cursor = min(max(s.cursor+delta, 0), len(s.items)-1)
}

// navigable is the cursor part of a Selectable, independent of item type.
type navigable interface {
	Next()
	Prev()
	Move(delta int)
	Len() int
}
