package search

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"

	"github.com/polyray/symrev/ratmat"
)

var (
	// ErrKernel wraps failures of the pivot kernel: no first basis, or a
	// pivot that should have been valid.
	ErrKernel = errors.New("search: pivot kernel failure")

	// ErrBadFirstCobasis is returned when the caller-supplied starting
	// cobasis is rejected by the kernel.
	ErrBadFirstCobasis = errors.New("search: invalid first cobasis")
)

// Mode selects the representation and pivoting rule.
type Mode int

const (
	// PolytopeH explores vertices of an H-representation.
	PolytopeH Mode = iota
	// PolytopeV explores the polar dictionary of a V-representation.
	PolytopeV
	// ArrangementMode explores vertices of a hyperplane arrangement.
	ArrangementMode
)

// Option configures the driver. Use with New(a, lin, group, gram, opts...).
type Option func(*Options)

// Options holds configurable parameters for the reverse search.
type Options struct {
	// Mode chooses the ratio-test rule and sign handling.
	Mode Mode

	// BasisLimit caps the number of basis orbit representatives before
	// early termination. Zero returns immediately with an unfinished,
	// empty result.
	BasisLimit int

	// CacheSize is the capacity of the recently-seen cobasis cache.
	CacheSize int

	// DualFacetTrick prunes all pivots out of a basis whose vertex is a
	// strict symmetric image of a known one.
	DualFacetTrick bool

	// GramVec enables Gram-restriction fingerprinting of candidates.
	GramVec bool

	// StabSearch widens failed image searches to setwise stabilizers.
	// Stabilizer construction usually costs more than it saves.
	StabSearch bool

	// LexOnly restricts pivoting to the lexicographic entering index.
	// This breaks the orbit-coverage guarantee; it exists for comparison
	// runs only.
	LexOnly bool

	// FundDomainLimit caps the number of fundamental-domain halfspaces.
	// Zero disables the fundamental domain.
	FundDomainLimit int

	// AssumeNoSymmetry bypasses every group query.
	AssumeNoSymmetry bool

	// FirstCobasis, if non-empty, is adopted instead of the kernel's own
	// first basis.
	FirstCobasis ratmat.IndexSet

	// PrintBasis, PrintRay, PrintVertex are progress-report intervals in
	// numbers of new orbit representatives; zero never reports.
	PrintBasis, PrintRay, PrintVertex int

	// PrintNew includes each new representative in progress reports.
	PrintNew bool

	// Trace logs every traversal decision.
	Trace bool

	// Workers above one selects the parallel variant.
	Workers int

	// Ctx carries cooperative cancellation, checked at work-item
	// boundaries.
	Ctx context.Context

	// Logger receives progress, trace, and summary output.
	Logger zerolog.Logger
}

// DefaultOptions returns the options the driver assumes when none are
// given: H-mode, unlimited bases, cache of 1000, dual facet trick and Gram
// fingerprints on, everything else off, single-threaded, no logging.
func DefaultOptions() Options {
	return Options{
		Mode:            PolytopeH,
		BasisLimit:      math.MaxInt,
		CacheSize:       1000,
		DualFacetTrick:  true,
		GramVec:         true,
		StabSearch:      false,
		LexOnly:         false,
		FundDomainLimit: 0,
		Workers:         1,
		Ctx:             context.Background(),
		Logger:          zerolog.Nop(),
	}
}

// WithMode returns an Option selecting the representation mode.
func WithMode(m Mode) Option {
	return func(o *Options) { o.Mode = m }
}

// WithBasisLimit returns an Option capping basis orbit representatives.
func WithBasisLimit(limit int) Option {
	return func(o *Options) { o.BasisLimit = limit }
}

// WithCacheSize returns an Option sizing the cobasis cache.
func WithCacheSize(size int) Option {
	return func(o *Options) { o.CacheSize = size }
}

// WithoutDualFacetTrick returns an Option disabling the dual facet trick.
func WithoutDualFacetTrick() Option {
	return func(o *Options) { o.DualFacetTrick = false }
}

// WithoutGramVec returns an Option disabling Gram fingerprinting.
func WithoutGramVec() Option {
	return func(o *Options) { o.GramVec = false }
}

// WithStabSearch returns an Option enabling stabilizer-widened searches.
func WithStabSearch() Option {
	return func(o *Options) { o.StabSearch = true }
}

// WithLexOnly returns an Option restricting to lexicographic pivots.
// The resulting enumeration does not satisfy the orbit-coverage invariant.
func WithLexOnly() Option {
	return func(o *Options) { o.LexOnly = true }
}

// WithFundDomainLimit returns an Option capping the fundamental domain.
func WithFundDomainLimit(limit int) Option {
	return func(o *Options) { o.FundDomainLimit = limit }
}

// WithAssumeNoSymmetry returns an Option bypassing all group queries.
func WithAssumeNoSymmetry() Option {
	return func(o *Options) { o.AssumeNoSymmetry = true }
}

// WithFirstCobasis returns an Option adopting a starting cobasis.
func WithFirstCobasis(cob ratmat.IndexSet) Option {
	return func(o *Options) { o.FirstCobasis = cob }
}

// WithProgress returns an Option setting all three progress intervals.
func WithProgress(n int) Option {
	return func(o *Options) { o.PrintBasis, o.PrintRay, o.PrintVertex = n, n, n }
}

// WithPrintNew returns an Option echoing new representatives in reports.
func WithPrintNew() Option {
	return func(o *Options) { o.PrintNew = true }
}

// WithTrace returns an Option logging every traversal decision.
func WithTrace() Option {
	return func(o *Options) { o.Trace = true }
}

// WithWorkers returns an Option selecting the parallel variant.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithContext returns an Option installing a cancellation context.
// A nil context keeps the background default.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithLogger returns an Option installing the driver's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// pivotItem is one queued edge: the cobasis it must be applied from and the
// leaving/entering pair.
type pivotItem struct {
	cob   ratmat.IndexSet
	leave int
	enter int
}

// pivotPair is one applied pivot on the backtracking path stack.
type pivotPair struct {
	leave int
	enter int
}
