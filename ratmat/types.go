// Package ratmat declares the shared types and sentinel errors for exact
// rational linear algebra.
package ratmat

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrDimensionMismatch indicates two operands of incompatible dimensions.
	ErrDimensionMismatch = errors.New("ratmat: dimension mismatch")

	// ErrNotSquare indicates a square-matrix operation on a rectangular matrix.
	ErrNotSquare = errors.New("ratmat: matrix is not square")

	// ErrSingular indicates a zero pivot during inversion or solving.
	ErrSingular = errors.New("ratmat: singular matrix")
)

// SingularError wraps ErrSingular with the offending pivot row, so callers
// can surface which constraint made the Q-matrix non-invertible.
type SingularError struct {
	// Row is the zero-based row at which elimination found no pivot.
	Row int
}

func (e SingularError) Error() string {
	return fmt.Sprintf("ratmat: singular matrix at row %d", e.Row)
}

// Unwrap lets errors.Is(err, ErrSingular) match a SingularError.
func (e SingularError) Unwrap() error { return ErrSingular }

// Vec is a dense vector of rationals. Entries are owned by the vector;
// operations never alias their inputs into results.
type Vec []*big.Rat

// Mat is a dense, row-major matrix of rationals.
// Rows returns the number of rows, Cols the row dimension.
type Mat struct {
	rows, cols int
	data       []*big.Rat
}

// ratZero returns a fresh zero rational.
func ratZero() *big.Rat { return new(big.Rat) }

// ratCopy returns a fresh copy of x.
func ratCopy(x *big.Rat) *big.Rat { return new(big.Rat).Set(x) }
