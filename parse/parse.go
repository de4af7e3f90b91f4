package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/polyray/symrev/gram"
	"github.com/polyray/symrev/perm"
	"github.com/polyray/symrev/ratmat"
)

// ErrParse is the sentinel for malformed input.
var ErrParse = errors.New("parse: malformed input")

// Error is a parse failure with line context.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("parse: line %d: %s", e.Line, e.Msg)
}

// Unwrap lets errors.Is(err, ErrParse) match an *Error.
func (e *Error) Unwrap() error { return ErrParse }

// Representation tells how the constraint matrix is to be interpreted.
type Representation int

const (
	// RepH: each row is a halfspace.
	RepH Representation = iota
	// RepV: each row is a point.
	RepV
	// RepArrangement: each row is a hyperplane.
	RepArrangement
)

// SymmetryState records how the symmetry section was given.
type SymmetryState int

const (
	SymOmitted SymmetryState = iota
	SymProvided
	SymAuto
)

// GramState records how the gram section was given.
type GramState int

const (
	GramOmitted GramState = iota
	GramProvided
	GramNone
	GramAuto
	GramQ
	GramNoAugment
	GramEuclidean
	GramNoNorm
)

// Problem is the parsed input.
type Problem struct {
	Name      string
	Rep       Representation
	Matrix    ratmat.Mat
	Linearity ratmat.IndexSet

	SymState   SymmetryState
	Generators []*perm.Perm

	GramState GramState
	Gram      gram.Matrix

	// Comments are the '*' and '#' lines, preserved verbatim.
	Comments []string
}

// lineReader walks input lines, collecting comments and tracking position.
type lineReader struct {
	sc       *bufio.Scanner
	line     int
	comments *[]string
}

func (lr *lineReader) next() (string, bool) {
	for lr.sc.Scan() {
		lr.line++
		text := strings.TrimSpace(lr.sc.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "*") || strings.HasPrefix(text, "#") {
			*lr.comments = append(*lr.comments, text)
			continue
		}

		return text, true
	}

	return "", false
}

func (lr *lineReader) fail(format string, args ...interface{}) error {
	return &Error{Line: lr.line, Msg: fmt.Sprintf(format, args...)}
}

// Parse reads one problem from r.
func Parse(r io.Reader) (*Problem, error) {
	p := &Problem{}
	lr := &lineReader{sc: bufio.NewScanner(r), comments: &p.Comments}
	lr.sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	// 1. Header: optional name, representation, optional linearity
	if err := parseHeader(lr, p); err != nil {
		return nil, err
	}

	// 2. Matrix block
	if err := parseMatrix(lr, p); err != nil {
		return nil, err
	}

	// 3. Optional trailing sections in any order
	for {
		line, ok := lr.next()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "symmetry":
			if err := parseSymmetry(lr, p, fields); err != nil {
				return nil, err
			}
		case "gram":
			if err := parseGram(lr, p, fields); err != nil {
				return nil, err
			}
		default:
			return nil, lr.fail("unexpected %q after matrix block", fields[0])
		}
	}

	return p, nil
}

func parseHeader(lr *lineReader, p *Problem) error {
	sawRep := false
	for {
		line, ok := lr.next()
		if !ok {
			return lr.fail("missing begin")
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "H-representation":
			p.Rep, sawRep = RepH, true
		case "V-representation":
			p.Rep, sawRep = RepV, true
		case "A-representation":
			p.Rep, sawRep = RepArrangement, true
		case "linearity":
			if len(fields) < 2 {
				return lr.fail("linearity needs a count")
			}
			k, err := strconv.Atoi(fields[1])
			if err != nil || len(fields) != 2+k {
				return lr.fail("linearity count mismatch")
			}
			ix := make([]int, 0, k)
			for _, f := range fields[2:] {
				i, err := strconv.Atoi(f)
				if err != nil || i < 1 {
					return lr.fail("bad linearity index %q", f)
				}
				ix = append(ix, i)
			}
			p.Linearity = ratmat.NewIndexSet(ix...)
		case "begin":
			if !sawRep {
				p.Rep = RepH
			}

			return nil
		default:
			if p.Name != "" || sawRep {
				return lr.fail("unexpected %q before begin", fields[0])
			}
			p.Name = line
		}
	}
}

func parseMatrix(lr *lineReader, p *Problem) error {
	dims, ok := lr.next()
	if !ok {
		return lr.fail("missing matrix dimensions")
	}
	fields := strings.Fields(dims)
	if len(fields) < 2 {
		return lr.fail("matrix dimensions need rows and columns")
	}
	n, err1 := strconv.Atoi(fields[0])
	d, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || n < 1 || d < 1 {
		return lr.fail("bad matrix dimensions %q", dims)
	}

	m := ratmat.NewMat(n, d)
	row, col := 0, 0
	for row < n {
		line, ok := lr.next()
		if !ok {
			return lr.fail("matrix ended after %d of %d rows", row, n)
		}
		for _, f := range strings.Fields(line) {
			if row == n {
				return lr.fail("too many matrix entries")
			}
			x, good := new(big.Rat).SetString(f)
			if !good {
				return lr.fail("bad rational %q", f)
			}
			m.Set(row, col, x)
			col++
			if col == d {
				col = 0
				row++
			}
		}
	}

	end, ok := lr.next()
	if !ok || end != "end" {
		return lr.fail("missing end after matrix")
	}
	for _, i := range p.Linearity.Indices() {
		if i > n {
			return lr.fail("linearity index %d exceeds %d rows", i, n)
		}
	}
	p.Matrix = m

	return nil
}

func parseSymmetry(lr *lineReader, p *Problem, fields []string) error {
	if len(fields) == 2 && fields[1] == "auto" {
		p.SymState = SymAuto

		return nil
	}
	if len(fields) != 2 || fields[1] != "begin" {
		return lr.fail("symmetry wants auto or begin")
	}
	n := p.Matrix.Rows()
	for {
		line, ok := lr.next()
		if !ok {
			return lr.fail("missing symmetry end")
		}
		if f := strings.Fields(line); len(f) == 2 && f[0] == "symmetry" && f[1] == "end" {
			p.SymState = SymProvided

			return nil
		}
		g, err := parseCycles(n, line)
		if err != nil {
			return lr.fail("bad generator: %v", err)
		}
		p.Generators = append(p.Generators, g)
	}
}

// parseCycles reads one permutation as comma-separated cycles of
// whitespace-separated 1-indexed elements.
func parseCycles(n int, line string) (*perm.Perm, error) {
	var cycles [][]int
	for _, part := range strings.Split(line, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		cycle := make([]int, 0, len(fields))
		for _, f := range fields {
			x, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("bad cycle element %q", f)
			}
			cycle = append(cycle, x)
		}
		cycles = append(cycles, cycle)
	}

	return perm.FromCycles(n, cycles)
}

func parseGram(lr *lineReader, p *Problem, fields []string) error {
	if len(fields) != 2 {
		return lr.fail("gram wants a keyword or begin")
	}
	switch fields[1] {
	case "begin":
		return parseGramMatrix(lr, p)
	case "none":
		p.GramState = GramNone
	case "auto":
		p.GramState = GramAuto
	case "Q":
		p.GramState = GramQ
	case "no-augment":
		p.GramState = GramNoAugment
	case "Euclidean":
		p.GramState = GramEuclidean
	case "no-norm":
		p.GramState = GramNoNorm
	default:
		return lr.fail("unknown gram keyword %q", fields[1])
	}

	return nil
}

func parseGramMatrix(lr *lineReader, p *Problem) error {
	n := p.Matrix.Rows()
	rows := make([][]int, 0, n)
	cur := make([]int, 0, n)
	for len(rows) < n {
		line, ok := lr.next()
		if !ok {
			return lr.fail("gram matrix ended after %d of %d rows", len(rows), n)
		}
		for _, f := range strings.Fields(line) {
			x, err := strconv.Atoi(f)
			if err != nil {
				return lr.fail("bad gram entry %q", f)
			}
			cur = append(cur, x)
			if len(cur) == n {
				rows = append(rows, cur)
				cur = make([]int, 0, n)
			}
		}
	}
	end, ok := lr.next()
	if !ok {
		return lr.fail("missing gram end")
	}
	if f := strings.Fields(end); len(f) != 2 || f[0] != "gram" || f[1] != "end" {
		return lr.fail("missing gram end")
	}
	p.Gram = gram.FromInts(rows)
	p.GramState = GramProvided

	return nil
}

// BuildGram resolves the problem's gram section into a concrete matrix:
// the provided one, or the metric construction the keyword selects.
// GramNone yields the empty matrix.
func (p *Problem) BuildGram() (gram.Matrix, error) {
	signed := p.Rep != RepArrangement
	switch p.GramState {
	case GramProvided:
		return p.Gram, nil
	case GramNone:
		return gram.Matrix{}, nil
	case GramNoAugment:
		return gram.Build(p.Matrix, gram.MetricQ, signed)
	case GramEuclidean:
		return gram.Build(p.Matrix, gram.MetricEuclidean, signed)
	case GramNoNorm:
		return gram.Build(p.Matrix, gram.MetricRaw, signed)
	default:
		// omitted, auto, and Q all take the augmented Q-metric
		return gram.Build(p.Matrix, gram.MetricAugmentedQ, signed)
	}
}

// Group resolves the provided generators into a group; when the symmetry
// section was omitted or auto, the caller decides (trivial group or
// automorphism computation) and this returns nil.
func (p *Problem) Group() *perm.Group {
	if p.SymState != SymProvided {
		return nil
	}

	return perm.NewGroup(p.Matrix.Rows(), p.Generators)
}
