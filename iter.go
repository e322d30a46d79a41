package oaf

import "iter"

// Iterator is a double-ended cursor over an archive's records.
//
// Next and NextBack consume the same shrinking window from opposite ends, so
// the two directions together visit each record exactly once. The zero value
// is not useful; obtain an Iterator from [Archive.Iter].
type Iterator struct {
	a     *Archive
	front int
	back  int
}

// Iter returns an iterator over the archive's records in table order.
func (a *Archive) Iter() *Iterator {
	return &Iterator{a: a, back: a.Len()}
}

// Len returns the number of records not yet consumed from either end.
func (it *Iterator) Len() int {
	return it.back - it.front
}

// Next returns the next record from the front of the remaining window, or
// ok=false when the window is empty.
//
// Every record was validated by FromBytes, so materialization cannot fail
// on archives obtained from it; a failure here means the archive bypassed
// parse-time validation, and Next panics with the materialization error to
// signal a defect in this package rather than bad input.
func (it *Iterator) Next() (Entry, bool) {
	if it.front >= it.back {
		return Entry{}, false
	}
	e, err := it.a.Entry(it.front)
	if err != nil {
		panic(err)
	}
	it.front++
	return e, true
}

// NextBack returns the next record from the back of the remaining window, or
// ok=false when the window is empty. Materialization failures panic as for
// Next.
func (it *Iterator) NextBack() (Entry, bool) {
	if it.front >= it.back {
		return Entry{}, false
	}
	e, err := it.a.Entry(it.back - 1)
	if err != nil {
		panic(err)
	}
	it.back--
	return e, true
}

// Entries returns a range iterator over all records in table order.
//
// The yielded views are only valid while the archive buffer remains alive.
func (a *Archive) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		it := a.Iter()
		for {
			e, ok := it.Next()
			if !ok {
				return
			}
			if !yield(e) {
				return
			}
		}
	}
}

// EntriesBack returns a range iterator over all records in reverse table
// order.
func (a *Archive) EntriesBack() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		it := a.Iter()
		for {
			e, ok := it.NextBack()
			if !ok {
				return
			}
			if !yield(e) {
				return
			}
		}
	}
}
