package builder

import (
	"errors"

	"gonum.org/v1/gonum/mat"

	"github.com/MichaelWang1028/gtsam/core"
)

// Sentinel errors for QP assembly.
var (
	// ErrShape indicates coefficient shapes disagreeing with the key list.
	ErrShape = errors.New("builder: coefficient shape mismatch")

	// ErrEmptyGraph indicates Graph() was called before any factor was added.
	ErrEmptyGraph = errors.New("builder: no factors added")
)

// Builder accumulates factors of a scalar-variable QP. The zero value is not
// usable; construct with New. Not safe for concurrent use.
type Builder struct {
	graph *core.FactorGraph
	err   error
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{graph: core.NewFactorGraph()}
}

// Quadratic appends the objective term 0.5·xᵀGx − gᵀx + 0.5·f over the given
// scalar variables. G must be a symmetric len(keys)×len(keys) matrix given
// row-wise; only its upper triangle is read.
func (b *Builder) Quadratic(keys []core.Key, G [][]float64, g []float64, f float64) *Builder {
	if b.err != nil {
		return b
	}
	n := len(keys)
	if len(G) != n || len(g) != n {
		b.err = ErrShape
		return b
	}
	upper := make([]*mat.Dense, 0, n*(n+1)/2)
	lin := make([]*mat.VecDense, n)
	for i := 0; i < n; i++ {
		if len(G[i]) != n {
			b.err = ErrShape
			return b
		}
		lin[i] = mat.NewVecDense(1, []float64{g[i]})
		for j := i; j < n; j++ {
			upper = append(upper, mat.NewDense(1, 1, []float64{G[i][j]}))
		}
	}
	h, err := core.NewHessianFactor(keys, upper, lin, f)
	if err != nil {
		b.err = err
		return b
	}
	b.err = b.graph.Add(h)

	return b
}

// Constraints appends one constraint factor with len(rhs) rows over the
// given scalar variables: row r is Σ A[r][i]·keys[i] − rhs[r], tagged
// kinds[r]. A is given row-wise, len(rhs)×len(keys).
func (b *Builder) Constraints(keys []core.Key, A [][]float64, rhs []float64, kinds []core.RowKind) *Builder {
	if b.err != nil {
		return b
	}
	n, rows := len(keys), len(rhs)
	if len(A) != rows || len(kinds) != rows {
		b.err = ErrShape
		return b
	}
	blocks := make([]*mat.Dense, n)
	for i := 0; i < n; i++ {
		blocks[i] = mat.NewDense(rows, 1, nil)
	}
	for r := 0; r < rows; r++ {
		if len(A[r]) != n {
			b.err = ErrShape
			return b
		}
		for i := 0; i < n; i++ {
			blocks[i].Set(r, 0, A[r][i])
		}
	}
	j, err := core.NewJacobianFactor(keys, blocks, mat.NewVecDense(rows, append([]float64(nil), rhs...)), kinds)
	if err != nil {
		b.err = err
		return b
	}
	b.err = b.graph.Add(j)

	return b
}

// Graph returns the assembled factor graph, or the first error any chained
// call produced.
func (b *Builder) Graph() (*core.FactorGraph, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.graph.Len() == 0 {
		return nil, ErrEmptyGraph
	}

	return b.graph, nil
}
