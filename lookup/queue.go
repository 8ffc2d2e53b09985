package lookup

import "github.com/gaurav-prasanna/wikipipe/core"

// completion is one finished network operation, delivered to the
// collector loop.
type completion struct {
	idx  int
	page *core.PageResult
	err  error
}

// querySlot tracks one in-flight query term.
type querySlot struct {
	term string
	done bool
	page *core.PageResult
	err  error
}

// pendingQueue holds one slot per query term in submission order
// (primary word first, then alternates). Slots leave only from the
// front, and only once complete: draining a maximal contiguous prefix
// of completed queries is what keeps output order equal to submission
// order under out-of-order network completion.
type pendingQueue struct {
	slots []querySlot
	head  int
}

func newPendingQueue(terms []string) *pendingQueue {
	q := &pendingQueue{slots: make([]querySlot, len(terms))}
	for i, term := range terms {
		q.slots[i].term = term
	}
	return q
}

// markDone records a completion by its submission index. It returns
// false for stale or foreign events: indexes out of range, already
// drained, or already marked.
func (q *pendingQueue) markDone(idx int, page *core.PageResult, err error) bool {
	if idx < q.head || idx >= len(q.slots) || q.slots[idx].done {
		return false
	}
	q.slots[idx].done = true
	q.slots[idx].page = page
	q.slots[idx].err = err
	return true
}

// frontDone reports whether the queue is non-empty with a completed
// front element.
func (q *pendingQueue) frontDone() bool {
	return q.head < len(q.slots) && q.slots[q.head].done
}

// pop removes and returns the front slot.
func (q *pendingQueue) pop() querySlot {
	slot := q.slots[q.head]
	q.slots[q.head] = querySlot{} // drop the body early
	q.head++
	return slot
}

// empty reports whether every slot has been drained.
func (q *pendingQueue) empty() bool {
	return q.head == len(q.slots)
}

// pageIDSet filters out duplicate articles when the API redirects the
// main word and alternates to the same page. Insertion doubles as the
// membership check; a linear scan beats tree and hash containers at
// the few-element cardinality seen here.
type pageIDSet struct {
	ids []int64
}

// insert adds id and reports true, or reports false if already present.
func (s *pageIDSet) insert(id int64) bool {
	for _, have := range s.ids {
		if have == id {
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}
