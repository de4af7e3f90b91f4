package ratmat

import (
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// IndexSet is an ordered set of 1-based row indices. The zero value is the
// empty set. Iteration order is always ascending, which the search driver
// relies on for reproducibility.
type IndexSet struct {
	ix []int
}

// NewIndexSet builds an IndexSet from the given indices, deduplicating and
// sorting them.
func NewIndexSet(indices ...int) IndexSet {
	if len(indices) == 0 {
		return IndexSet{}
	}
	seen := make(map[int]struct{}, len(indices))
	ix := make([]int, 0, len(indices))
	for _, i := range indices {
		if _, ok := seen[i]; !ok {
			seen[i] = struct{}{}
			ix = append(ix, i)
		}
	}
	sort.Ints(ix)

	return IndexSet{ix: ix}
}

// FullIndexSet returns the set {1..n}.
func FullIndexSet(n int) IndexSet {
	ix := make([]int, n)
	for i := range ix {
		ix[i] = i + 1
	}

	return IndexSet{ix: ix}
}

// Count returns the number of indices in s.
func (s IndexSet) Count() int { return len(s.ix) }

// IsEmpty reports whether s has no indices.
func (s IndexSet) IsEmpty() bool { return len(s.ix) == 0 }

// Contains reports whether i is a member of s.
func (s IndexSet) Contains(i int) bool {
	k := sort.SearchInts(s.ix, i)

	return k < len(s.ix) && s.ix[k] == i
}

// Indices returns the members of s in ascending order. The returned slice
// is a copy.
func (s IndexSet) Indices() []int {
	out := make([]int, len(s.ix))
	copy(out, s.ix)

	return out
}

// With returns s ∪ {i}.
func (s IndexSet) With(i int) IndexSet {
	if s.Contains(i) {
		return s
	}
	out := make([]int, 0, len(s.ix)+1)
	out = append(out, s.ix...)
	out = append(out, i)
	sort.Ints(out)

	return IndexSet{ix: out}
}

// Without returns s \ {i}.
func (s IndexSet) Without(i int) IndexSet {
	if !s.Contains(i) {
		return s
	}
	out := make([]int, 0, len(s.ix)-1)
	for _, j := range s.ix {
		if j != i {
			out = append(out, j)
		}
	}

	return IndexSet{ix: out}
}

// Union returns s ∪ t.
func (s IndexSet) Union(t IndexSet) IndexSet {
	return NewIndexSet(append(s.Indices(), t.ix...)...)
}

// Minus returns s \ t.
func (s IndexSet) Minus(t IndexSet) IndexSet {
	out := make([]int, 0, len(s.ix))
	for _, i := range s.ix {
		if !t.Contains(i) {
			out = append(out, i)
		}
	}

	return IndexSet{ix: out}
}

// Intersect returns s ∩ t.
func (s IndexSet) Intersect(t IndexSet) IndexSet {
	out := make([]int, 0, len(s.ix))
	for _, i := range s.ix {
		if t.Contains(i) {
			out = append(out, i)
		}
	}

	return IndexSet{ix: out}
}

// Equal reports whether s and t contain the same indices.
func (s IndexSet) Equal(t IndexSet) bool {
	if len(s.ix) != len(t.ix) {
		return false
	}
	for i := range s.ix {
		if s.ix[i] != t.ix[i] {
			return false
		}
	}

	return true
}

// Key returns a deterministic string form usable as a map key,
// e.g. "{1 3 5}".
func (s IndexSet) Key() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, x := range s.ix {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(x))
	}
	b.WriteByte('}')

	return b.String()
}

// Hash returns a deterministic 64-bit hash of s.
func (s IndexSet) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.Key()))

	return h.Sum64()
}

// String renders s in its key form.
func (s IndexSet) String() string { return s.Key() }
