// Command symrev enumerates the orbits of vertices, extreme rays, and bases
// of a polyhedron or hyperplane arrangement under a symmetry group, by
// symmetric reverse search.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/polyray/symrev/parse"
	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/ratmat"
	"github.com/polyray/symrev/search"
	"github.com/polyray/symrev/symmetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		inPath     = flag.String("i", "", "input file (default stdin)")
		outPath    = flag.String("o", "", "output file (default stdout)")
		groupPath  = flag.String("group", "", "write the used generator set to this file")
		vRep       = flag.Bool("v-representation", false, "force V-representation")
		aRep       = flag.Bool("arrangement", false, "force A-representation")
		noSym      = flag.Bool("assume-no-symmetry", false, "bypass all group queries")
		noDual     = flag.Bool("no-dual-facet", false, "disable the dual facet trick")
		noGram     = flag.Bool("no-gram-vec", false, "disable Gram fingerprinting")
		stabSearch = flag.Bool("stab-search", false, "widen image searches to set stabilizers")
		lexOnly    = flag.Bool("lex-only", false, "lexicographic pivots only (breaks orbit coverage)")
		basisLimit = flag.Int("basis-limit", 0, "cap on basis orbits, 0 = unlimited")
		cacheSize  = flag.Int("cache-size", 1000, "cobasis cache capacity")
		fundLimit  = flag.Int("fund-domain-limit", 0, "fundamental domain halfspace cap")
		firstCob   = flag.String("first-cobasis", "", "starting cobasis, comma-separated 1-based rows")
		printBasis = flag.Int("print-basis", 0, "progress interval in new cobases")
		printRay   = flag.Int("print-ray", 0, "progress interval in new rays")
		printVert  = flag.Int("print-vertex", 0, "progress interval in new vertices")
		printNew   = flag.Bool("print-new", false, "echo new representatives in progress reports")
		trace      = flag.Bool("trace", false, "trace every traversal decision")
		workers    = flag.Int("workers", 1, "worker count; above 1 runs the parallel variant")
		quiet      = flag.Bool("quiet", false, "suppress all logging")
		preprocess = flag.Bool("preprocess", false, "parse, re-emit canonical form, and exit")
		verifyLift = flag.Bool("verify-lift", false, "report the arrangement-automorphism lift order check")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if *quiet {
		logger = zerolog.Nop()
	} else if *trace {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	in := io.Reader(os.Stdin)
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			logger.Error().Err(err).Msg("opening input")

			return 1
		}
		defer f.Close()
		in = f
	}
	out := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error().Err(err).Msg("opening output")

			return 1
		}
		defer f.Close()
		out = f
	}

	problem, err := parse.Parse(in)
	if err != nil {
		logger.Error().Err(err).Msg("parsing input")

		return 1
	}
	if *vRep {
		problem.Rep = parse.RepV
	}
	if *aRep {
		problem.Rep = parse.RepArrangement
	}

	if *preprocess {
		if err := problem.Write(out); err != nil {
			logger.Error().Err(err).Msg("writing canonical form")

			return 1
		}

		return 0
	}

	gmat, err := problem.BuildGram()
	if err != nil {
		logger.Error().Err(err).Msg("building gram matrix")

		return 1
	}

	mode := symmetry.Polytope
	if problem.Rep == parse.RepArrangement {
		mode = symmetry.Arrangement
	}

	if *verifyLift {
		rep := symmetry.VerifyArrangementLift(gmat)
		fmt.Fprintf(out, "* lift order %s, doubled order %s, expected %s, complete %v\n",
			rep.LiftedOrder, rep.DoubledOrder, rep.Expected, rep.Complete())
	}

	group := problem.Group()
	if group == nil && !*noSym && !gmat.IsEmpty() {
		// symmetry auto (or omitted): compute from the Gram matrix
		group = symmetry.FromGramMatrix(gmat, mode)
	}
	if group == nil {
		group = perm.Trivial(problem.Matrix.Rows())
	}
	oracle := symmetry.NewOracle(group)

	opts := []search.Option{
		search.WithCacheSize(*cacheSize),
		search.WithLogger(logger),
		search.WithWorkers(*workers),
	}
	switch problem.Rep {
	case parse.RepV:
		opts = append(opts, search.WithMode(search.PolytopeV))
	case parse.RepArrangement:
		opts = append(opts, search.WithMode(search.ArrangementMode))
	}
	if *basisLimit > 0 {
		opts = append(opts, search.WithBasisLimit(*basisLimit))
	}
	if *noSym {
		opts = append(opts, search.WithAssumeNoSymmetry())
	}
	if *noDual {
		opts = append(opts, search.WithoutDualFacetTrick())
	}
	if *noGram {
		opts = append(opts, search.WithoutGramVec())
	}
	if *stabSearch {
		opts = append(opts, search.WithStabSearch())
	}
	if *lexOnly {
		opts = append(opts, search.WithLexOnly())
	}
	if *fundLimit > 0 {
		opts = append(opts, search.WithFundDomainLimit(*fundLimit))
	}
	if *firstCob != "" {
		cob, err := parseCobasis(*firstCob)
		if err != nil {
			logger.Error().Err(err).Msg("parsing first cobasis")

			return 1
		}
		opts = append(opts, search.WithFirstCobasis(cob))
	}
	if *printBasis > 0 {
		opts = append(opts, func(o *search.Options) { o.PrintBasis = *printBasis })
	}
	if *printRay > 0 {
		opts = append(opts, func(o *search.Options) { o.PrintRay = *printRay })
	}
	if *printVert > 0 {
		opts = append(opts, func(o *search.Options) { o.PrintVertex = *printVert })
	}
	if *printNew {
		opts = append(opts, search.WithPrintNew())
	}
	if *trace {
		opts = append(opts, search.WithTrace())
	}

	driver, err := search.New(problem.Matrix, problem.Linearity, oracle, gmat, opts...)
	if err != nil {
		logger.Error().Err(err).Msg("setting up search")

		return 1
	}
	res, err := driver.Run()
	if err != nil {
		logger.Error().Err(err).Msg("running search")

		return 1
	}

	writeResult(out, res)
	if *groupPath != "" {
		if err := writeGroup(*groupPath, res.GeneratorsUsed); err != nil {
			logger.Error().Err(err).Msg("writing group file")

			return 1
		}
	}

	if !res.Finished {
		return 2
	}

	return 0
}

// parseCobasis reads a comma-separated list of 1-based row indices.
func parseCobasis(s string) (ratmat.IndexSet, error) {
	parts := strings.Split(s, ",")
	ix := make([]int, 0, len(parts))
	for _, part := range parts {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || i < 1 {
			return ratmat.IndexSet{}, fmt.Errorf("bad cobasis index %q", part)
		}
		ix = append(ix, i)
	}

	return ratmat.NewIndexSet(ix...), nil
}

// writeResult prints the structured result block.
func writeResult(w io.Writer, res *search.Result) {
	fmt.Fprintf(w, "* run %s\n", res.RunID)
	fmt.Fprintf(w, "* dimension %d\n", res.Dimension)
	fmt.Fprintf(w, "* initial cobasis %s\n", res.InitialCobasis)
	fmt.Fprintf(w, "* finished %v\n", res.Finished)
	fmt.Fprintf(w, "* elapsed %s\n", res.Duration)

	fmt.Fprintln(w, "generators begin")
	for _, g := range res.GeneratorsUsed {
		fmt.Fprintln(w, g)
	}
	fmt.Fprintln(w, "generators end")

	fmt.Fprintf(w, "basis orbits %d, total degree %d\n", len(res.BasisOrbits), res.TotalBasisDegree)
	for _, b := range res.BasisOrbits {
		fmt.Fprintf(w, "  %s det %s\n", b.Cob, b.Data.Det.RatString())
	}

	fmt.Fprintf(w, "vertex orbits %d\n", len(res.VertexOrbits))
	for _, v := range res.VertexOrbits {
		fmt.Fprintf(w, "  %s inc %s\n", v.Coords, v.Inc)
	}

	fmt.Fprintf(w, "ray orbits %d\n", len(res.RayOrbits))
	for _, r := range res.RayOrbits {
		fmt.Fprintf(w, "  %s inc %s\n", r.Coords, r.Inc)
	}
}

// writeGroup writes the used generator set, one cycle form per line.
func writeGroup(path string, gens []*perm.Perm) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, g := range gens {
		if _, err := fmt.Fprintln(f, g); err != nil {
			return err
		}
	}

	return nil
}
