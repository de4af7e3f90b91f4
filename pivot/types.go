package pivot

import (
	"errors"
	"math/big"

	"github.com/polyray/symrev/ratmat"
)

var (
	// ErrNoFirstBasis is returned when no feasible basis exists.
	ErrNoFirstBasis = errors.New("pivot: no first basis found")

	// ErrBadCobasis is returned for a caller-supplied cobasis that is out of
	// range, duplicated, overlapping a linearity, or singular.
	ErrBadCobasis = errors.New("pivot: invalid cobasis")

	// ErrBadPivot is returned for a pivot whose leaving index is not in the
	// cobasis, whose entering index cannot enter, or whose result is
	// singular.
	ErrBadPivot = errors.New("pivot: invalid pivot")

	// ErrUnbounded is returned when a phase-one walk escapes to infinity,
	// which indicates inconsistent input.
	ErrUnbounded = errors.New("pivot: unbounded objective")

	// ErrLineality is returned when the feasible region contains a line and
	// therefore has no vertices.
	ErrLineality = errors.New("pivot: feasible region contains a line")
)

// Option configures a Dict.
type Option func(*Options)

// Options holds dictionary configuration.
//   - VRepresentation: rows are points of a V-representation; the dictionary
//     operates on the polar system, whose vertices correspond to facets.
//   - Arrangement: rows are hyperplanes; feasibility is not enforced and the
//     arrangement ratio rule applies.
type Options struct {
	VRepresentation bool
	Arrangement     bool
}

// DefaultOptions returns H-representation polytope mode.
func DefaultOptions() Options {
	return Options{VRepresentation: false, Arrangement: false}
}

// WithVRepresentation returns an Option marking the input as a
// V-representation.
func WithVRepresentation() Option {
	return func(o *Options) { o.VRepresentation = true }
}

// WithArrangement returns an Option marking the input as a hyperplane
// arrangement.
func WithArrangement() Option {
	return func(o *Options) { o.Arrangement = true }
}

// Cobasis is the extracted state of a dictionary position: the cobasis
// index set, the determinant of the defining system, the ray index (0 when
// the position is a vertex), the total incidence count, and the tight rows
// beyond the cobasis itself.
type Cobasis struct {
	Cob      ratmat.IndexSet
	Det      *big.Rat
	Ray      int
	TotalInc int
	ExtraInc ratmat.IndexSet
}
