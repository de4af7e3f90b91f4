package gram

import (
	"fmt"
	"math/big"

	"github.com/polyray/symrev/ratmat"
)

// Metric selects the inner-product strategy used to build the angle matrix.
type Metric int

const (
	// MetricRaw labels plain inner products. Only meaningful for inputs of
	// full column rank.
	MetricRaw Metric = iota
	// MetricEuclidean labels exact normalised inner products
	// ⟨rᵢ,rⱼ⟩/√(‖rᵢ‖²‖rⱼ‖²).
	MetricEuclidean
	// MetricQ labels inner products transformed by Q⁻¹, Q = Σ rᵢᵀrᵢ.
	MetricQ
	// MetricAugmentedQ augments the input to full column rank before the
	// Q-metric. This is the default.
	MetricAugmentedQ
)

// FromRat labels a square rational matrix: the same |label| for equal
// absolute values, opposite labels for exact negatives, 0 for zero. Labels
// are assigned in first-seen row-major order.
func FromRat(m ratmat.Mat) Matrix {
	n := m.Rows()
	g := NewMatrix(n, 1)
	reps := map[string]int{new(big.Rat).RatString(): 0}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			val := m.At(i, j)
			key := new(big.Rat).Abs(val).RatString()
			rep, ok := reps[key]
			if !ok {
				rep = g.k
				g.k++
				reps[key] = rep
			}
			g.data[i*n+j] = rep * val.Sign()
		}
	}

	return g
}

// FromRad labels a square radical matrix by the same rules as FromRat.
func FromRad(m ratmat.RadMat) Matrix {
	n := m.Dim()
	g := NewMatrix(n, 1)
	reps := map[string]int{ratmat.RadZero().Key(): 0}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			val := m.At(i, j)
			key := val.Abs().Key()
			rep, ok := reps[key]
			if !ok {
				rep = g.k
				g.k++
				reps[key] = rep
			}
			g.data[i*n+j] = rep * val.Sign()
		}
	}

	return g
}

// Build constructs the angle matrix of m under the chosen metric. signedAug
// controls sign-pairing of augment rows for MetricAugmentedQ: true for
// polytopes, false for arrangements.
//
// The augmented metrics label the n×n restriction to the original rows; the
// augment rows only shape the Q-matrix.
func Build(m ratmat.Mat, metric Metric, signedAug bool) (Matrix, error) {
	switch metric {
	case MetricRaw:
		return FromRat(ratmat.InnerProdMat(m)), nil

	case MetricEuclidean:
		rm, err := ratmat.NormedInnerProdMat(m)
		if err != nil {
			return Matrix{}, fmt.Errorf("gram: euclidean metric: %w", err)
		}

		return FromRad(rm), nil

	case MetricQ:
		return qMetric(m, m)

	case MetricAugmentedQ:
		return qMetric(m, ratmat.OrthoAugment(m, signedAug))

	default:
		return Matrix{}, fmt.Errorf("gram: unknown metric %d", metric)
	}
}

// qMetric labels M·Q⁻¹·Mᵀ where Q is accumulated over the rows of qSrc.
func qMetric(m, qSrc ratmat.Mat) (Matrix, error) {
	qInv, err := ratmat.InvQMat(qSrc)
	if err != nil {
		return Matrix{}, fmt.Errorf("gram: q metric: %w", err)
	}
	p, err := ratmat.TransformedInnerProdMat(m, qInv)
	if err != nil {
		return Matrix{}, fmt.Errorf("gram: q metric: %w", err)
	}

	return FromRat(p), nil
}
