package parse

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Write pretty-prints the problem in canonical form: preserved comments
// first, then name, representation, linearity, the matrix block, and the
// symmetry and gram sections as they were given.
func (p *Problem) Write(w io.Writer) error {
	var b strings.Builder

	for _, c := range p.Comments {
		b.WriteString(c)
		b.WriteByte('\n')
	}
	if p.Name != "" {
		b.WriteString(p.Name)
		b.WriteByte('\n')
	}
	switch p.Rep {
	case RepV:
		b.WriteString("V-representation\n")
	case RepArrangement:
		b.WriteString("A-representation\n")
	default:
		b.WriteString("H-representation\n")
	}
	if !p.Linearity.IsEmpty() {
		ix := p.Linearity.Indices()
		b.WriteString("linearity ")
		b.WriteString(strconv.Itoa(len(ix)))
		for _, i := range ix {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(i))
		}
		b.WriteByte('\n')
	}

	n, d := p.Matrix.Rows(), p.Matrix.Cols()
	fmt.Fprintf(&b, "begin\n%d %d rational\n", n, d)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(p.Matrix.At(i, j).RatString())
		}
		b.WriteByte('\n')
	}
	b.WriteString("end\n")

	switch p.SymState {
	case SymAuto:
		b.WriteString("symmetry auto\n")
	case SymProvided:
		b.WriteString("symmetry begin\n")
		for _, g := range p.Generators {
			b.WriteString(g.String())
			b.WriteByte('\n')
		}
		b.WriteString("symmetry end\n")
	}

	switch p.GramState {
	case GramProvided:
		b.WriteString("gram begin\n")
		gn := p.Gram.Dim()
		for i := 0; i < gn; i++ {
			for j := 0; j < gn; j++ {
				if j > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(strconv.Itoa(p.Gram.At(i, j)))
			}
			b.WriteByte('\n')
		}
		b.WriteString("gram end\n")
	case GramNone:
		b.WriteString("gram none\n")
	case GramAuto:
		b.WriteString("gram auto\n")
	case GramQ:
		b.WriteString("gram Q\n")
	case GramNoAugment:
		b.WriteString("gram no-augment\n")
	case GramEuclidean:
		b.WriteString("gram Euclidean\n")
	case GramNoNorm:
		b.WriteString("gram no-norm\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}
