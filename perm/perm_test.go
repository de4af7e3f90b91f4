package perm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/ratmat"
)

func mustCycles(t *testing.T, n int, cycles ...[]int) *perm.Perm {
	t.Helper()
	p, err := perm.FromCycles(n, cycles)
	require.NoError(t, err)

	return p
}

func TestFromCycles_Image(t *testing.T) {
	p := mustCycles(t, 4, []int{1, 2}, []int{3, 4})
	assert.Equal(t, 2, p.Image(1))
	assert.Equal(t, 1, p.Image(2))
	assert.Equal(t, 4, p.Image(3))
	assert.Equal(t, 3, p.Image(4))
}

func TestFromCycles_OutOfRange(t *testing.T) {
	_, err := perm.FromCycles(3, [][]int{{1, 4}})
	assert.ErrorIs(t, err, perm.ErrCycleOutOfRange)
}

func TestNewPerm_NotBijective(t *testing.T) {
	_, err := perm.NewPerm([]int{0, 0, 2})
	assert.ErrorIs(t, err, perm.ErrNotBijective)
}

func TestPerm_ComposeInverse(t *testing.T) {
	p := mustCycles(t, 3, []int{1, 2, 3})
	q := p.Inverse()
	assert.True(t, p.Compose(q).IsIdentity())
	assert.True(t, q.Compose(p).IsIdentity())

	// composition applies the right operand first
	r := mustCycles(t, 3, []int{1, 2})
	pr := p.Compose(r) // 1→2→3 under p∘r: r(1)=2, p(2)=3
	assert.Equal(t, 3, pr.Image(1))
}

func TestPerm_Cycles_RoundTrip(t *testing.T) {
	p := mustCycles(t, 6, []int{1, 3, 5}, []int{2, 6})
	cycles := p.Cycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, []int{1, 3, 5}, cycles[0])
	assert.Equal(t, []int{2, 6}, cycles[1])

	q, err := perm.FromCycles(6, cycles)
	require.NoError(t, err)
	assert.True(t, p.Equal(q))
}

func TestPerm_String(t *testing.T) {
	p := mustCycles(t, 4, []int{1, 2}, []int{3, 4})
	assert.Equal(t, "1 2 , 3 4", p.String())
	assert.Equal(t, "()", perm.Identity(4).String())
}

func TestPerm_ApplySet(t *testing.T) {
	p := mustCycles(t, 4, []int{1, 2, 3})
	s := ratmat.NewIndexSet(1, 3)
	assert.Equal(t, ratmat.NewIndexSet(2, 1), p.ApplySet(s))
}
