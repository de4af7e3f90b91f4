package orbit

import (
	"math/big"

	"github.com/polyray/symrev/gram"
	"github.com/polyray/symrev/ratmat"
)

// VertexData is the joint record of one discovered vertex or ray: its
// rationalized coordinates, the full incidence set, the cobases known to
// realise it, and the invariants used for orbit matching. Coords, Inc, Det
// and Gram never change after construction; Cobs is append-only under the
// owning Store's lock.
type VertexData struct {
	// Coords are the rationalized coordinates (leading 1 for a vertex,
	// leading 0 for a ray direction).
	Coords ratmat.Vec

	// Inc is the full incidence set of the vertex.
	Inc ratmat.IndexSet

	// Cobs are the cobases realising this vertex, keyed by IndexSet.Key.
	Cobs map[string]ratmat.IndexSet

	// Det is the absolute determinant of the defining dictionary.
	Det *big.Rat

	// Gram is the sorted Gram restriction of Inc; empty when Gram
	// fingerprinting is off.
	Gram gram.Matrix
}

// NewVertexData builds a record with a single realising cobasis.
func NewVertexData(coords ratmat.Vec, inc ratmat.IndexSet, cob ratmat.IndexSet,
	det *big.Rat, g gram.Matrix) *VertexData {

	return &VertexData{
		Coords: coords,
		Inc:    inc,
		Cobs:   map[string]ratmat.IndexSet{cob.Key(): cob},
		Det:    new(big.Rat).Abs(det),
		Gram:   g,
	}
}

// IncCount returns the incidence count invariant.
func (v *VertexData) IncCount() int { return v.Inc.Count() }
