// Package sparse provides a sparse set of small non-negative integers.
//
// A sparse set supports O(1) insertion, membership testing and clearing while
// keeping a dense list of its members in insertion order. The matcher uses it
// to collect distinct atom ids without allocating a map per query.
package sparse

// Set is a set of ints in the universe [0, capacity).
type Set struct {
	sparse []int32 // value -> index in dense
	dense  []int32 // members in insertion order
}

// New creates an empty set over the universe [0, capacity).
func New(capacity int) *Set {
	return &Set{
		sparse: make([]int32, capacity),
		dense:  make([]int32, 0, min(capacity, 64)),
	}
}

// Insert adds v to the set and reports whether it was absent.
// Panics if v is outside the universe.
func (s *Set) Insert(v int) bool {
	if s.Contains(v) {
		return false
	}
	s.sparse[v] = int32(len(s.dense))
	s.dense = append(s.dense, int32(v))
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v int) bool {
	if v < 0 || v >= len(s.sparse) {
		return false
	}
	idx := int(s.sparse[v])
	return idx < len(s.dense) && int(s.dense[idx]) == v
}

// Clear removes every member in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool {
	return len(s.dense) == 0
}

// Capacity returns the size of the universe.
func (s *Set) Capacity() int {
	return len(s.sparse)
}

// AppendTo appends the members, in insertion order, to dst.
func (s *Set) AppendTo(dst []int) []int {
	for _, v := range s.dense {
		dst = append(dst, int(v))
	}
	return dst
}
