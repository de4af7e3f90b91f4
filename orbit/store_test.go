package orbit_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyray/symrev/gram"
	"github.com/polyray/symrev/orbit"
	"github.com/polyray/symrev/ratmat"
)

func vd(coords ratmat.Vec, inc, cob ratmat.IndexSet) *orbit.VertexData {
	return orbit.NewVertexData(coords, inc, cob, big.NewRat(1, 1), gram.Matrix{})
}

func TestStore_AddVertex_Idempotent(t *testing.T) {
	s := orbit.NewStore(false)
	a := vd(ratmat.VecFromInts(1, 0, 0), ratmat.NewIndexSet(1, 3), ratmat.NewIndexSet(1, 3))
	b := vd(ratmat.VecFromInts(1, 0, 0), ratmat.NewIndexSet(1, 3), ratmat.NewIndexSet(1, 3))

	first, isNew := s.AddVertex(a)
	assert.True(t, isNew)
	assert.Same(t, a, first)

	winner, isNew := s.AddVertex(b)
	assert.False(t, isNew)
	assert.Same(t, a, winner, "losers receive the stored representative")
	assert.Equal(t, 1, s.VertexCount())
}

func TestStore_LookupVertex(t *testing.T) {
	s := orbit.NewStore(false)
	a := vd(ratmat.VecFromInts(1, 2, 3), ratmat.NewIndexSet(1), ratmat.NewIndexSet(1))
	s.AddVertex(a)

	got, ok := s.LookupVertex(ratmat.VecFromInts(1, 2, 3))
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = s.LookupVertex(ratmat.VecFromInts(9, 9, 9))
	assert.False(t, ok)
}

func TestStore_AddBasis_AttachesAndDedups(t *testing.T) {
	s := orbit.NewStore(true)
	a := vd(ratmat.VecFromInts(1, 0), ratmat.NewIndexSet(1, 2), ratmat.NewIndexSet(1, 2))
	s.AddVertex(a)
	require.True(t, s.AddBasis(ratmat.NewIndexSet(1, 2), "g1", a))

	more := ratmat.NewIndexSet(2, 3)
	assert.True(t, s.AddBasis(more, "g1", a))
	assert.False(t, s.AddBasis(more, "g1", a), "re-adding is a no-op")

	assert.Equal(t, 2, s.BasisCount())
	assert.Contains(t, a.Cobs, more.Key())

	owner, ok := s.LookupBasis(more)
	require.True(t, ok)
	assert.Same(t, a, owner)
}

func TestStore_CandidateQueries_GramMode(t *testing.T) {
	s := orbit.NewStore(true)
	a := vd(ratmat.VecFromInts(1, 0), ratmat.NewIndexSet(1, 2), ratmat.NewIndexSet(1, 2))
	a.Gram = gram.FromInts([][]int{{1}})
	b := vd(ratmat.VecFromInts(1, 1), ratmat.NewIndexSet(3, 4), ratmat.NewIndexSet(3, 4))
	b.Gram = gram.FromInts([][]int{{2}})
	s.AddVertex(a)
	s.AddVertex(b)
	s.AddBasis(ratmat.NewIndexSet(1, 2), "k1", a)
	s.AddBasis(ratmat.NewIndexSet(3, 4), "k2", b)

	verts := s.CandidateVerticesBy(a.Gram.Key())
	require.Len(t, verts, 1)
	assert.Same(t, a, verts[0])

	bases := s.CandidateBasesBy("k1", 2)
	require.Len(t, bases, 1)
	assert.True(t, bases[0].Cob.Equal(ratmat.NewIndexSet(1, 2)))

	// incidence-count filter applies
	assert.Empty(t, s.CandidateBasesBy("k1", 3))
}

func TestStore_CandidateQueries_NoGramScansAll(t *testing.T) {
	s := orbit.NewStore(false)
	a := vd(ratmat.VecFromInts(1, 0), ratmat.NewIndexSet(1, 2), ratmat.NewIndexSet(1, 2))
	b := vd(ratmat.VecFromInts(1, 1), ratmat.NewIndexSet(3, 4), ratmat.NewIndexSet(3, 4))
	s.AddVertex(a)
	s.AddVertex(b)

	assert.Len(t, s.CandidateVerticesBy("anything"), 2)
}

func TestStore_AppendVertexIfCurrent_Protocol(t *testing.T) {
	s := orbit.NewStore(false)
	a := vd(ratmat.VecFromInts(1, 0), ratmat.NewIndexSet(1), ratmat.NewIndexSet(1))
	b := vd(ratmat.VecFromInts(1, 1), ratmat.NewIndexSet(2), ratmat.NewIndexSet(2))

	// a current cursor appends
	appended, tail, size := s.AppendVertexIfCurrent(a, 0)
	assert.True(t, appended)
	assert.Empty(t, tail)
	assert.Equal(t, 1, size)

	// a stale cursor copies the unseen tail instead
	appended, tail, size = s.AppendVertexIfCurrent(b, 0)
	assert.False(t, appended)
	require.Len(t, tail, 1)
	assert.Same(t, a, tail[0])
	assert.Equal(t, 1, size)

	// after catching up, the append lands
	appended, _, size = s.AppendVertexIfCurrent(b, 1)
	assert.True(t, appended)
	assert.Equal(t, 2, size)
}

func TestStore_ConcurrentAddVertex_OneWinner(t *testing.T) {
	s := orbit.NewStore(false)
	coords := ratmat.VecFromInts(1, 7)

	var wg sync.WaitGroup
	winners := make([]*orbit.VertexData, 16)
	news := make([]bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, isNew := s.AddVertex(vd(coords.Clone(), ratmat.NewIndexSet(1), ratmat.NewIndexSet(1)))
			winners[i], news[i] = w, isNew
		}(i)
	}
	wg.Wait()

	wins := 0
	for i := range news {
		if news[i] {
			wins++
		}
		assert.Same(t, winners[0], winners[i], "every thread observes the same winner")
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, s.VertexCount())
}
