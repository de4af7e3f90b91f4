package search

import (
	"time"

	"github.com/google/uuid"

	"github.com/polyray/symrev/funddomain"
	"github.com/polyray/symrev/orbit"
	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/ratmat"
)

// Result is the outcome of one enumeration run.
type Result struct {
	// RunID tags this run in logs and reports.
	RunID uuid.UUID

	// Dimension is the ambient dimension of the problem.
	Dimension int

	// InitialCobasis anchors the search tree.
	InitialCobasis ratmat.IndexSet

	// BasisOrbits holds one registered cobasis per basis orbit, with its
	// owning vertex record, in discovery order.
	BasisOrbits []orbit.BasisCandidate

	// VertexOrbits holds one vertex record per vertex orbit.
	VertexOrbits []*orbit.VertexData

	// RayOrbits holds one record per extreme-ray orbit.
	RayOrbits []*orbit.VertexData

	// TotalBasisDegree sums the out-degrees of the basis orbit
	// representatives.
	TotalBasisDegree int

	// GeneratorsUsed is the minimised generator set of the symmetry group
	// the run consulted; nil when symmetry was bypassed.
	GeneratorsUsed []*perm.Perm

	// FundamentalDomain is the halfspace set accumulated during the run.
	FundamentalDomain *funddomain.Domain

	// Finished is false when the basis cap truncated the enumeration.
	Finished bool

	// Duration is the wall time of the run.
	Duration time.Duration
}
