// Package ringset provides a fixed-capacity set of strings that overwrites
// its oldest entry once full. Used to remember recent anonymous community
// gift origin IDs so the follow-up per-recipient gifts can be attributed.
package ringset

const minCapacity = 10

// Set is a bounded overwrite-oldest string set. It is not safe for
// concurrent use; callers serialize access.
type Set struct {
	slots []string
	next  int
}

// New returns a Set holding at most capacity entries. Capacities below 10
// are clamped up to 10.
func New(capacity int) *Set {
	if capacity < minCapacity {
		capacity = minCapacity
	}
	return &Set{slots: make([]string, capacity)}
}

// Add records v, overwriting the oldest entry when the set is full.
// Duplicates are not collapsed.
func (s *Set) Add(v string) {
	s.slots[s.next] = v
	s.next = (s.next + 1) % len(s.slots)
}

// Contains reports whether v was recorded and not yet overwritten.
// Unfilled slots never match.
func (s *Set) Contains(v string) bool {
	if v == "" {
		return false
	}
	for _, slot := range s.slots {
		if slot == v {
			return true
		}
	}
	return false
}
