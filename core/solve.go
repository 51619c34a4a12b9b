package core

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// kktSystem is the dense assembly of a factor graph: the quadratic part
// (G, g), the hard-equality part (A, b), and the sorted key → column map
// that fixes the canonical evaluation order.
type kktSystem struct {
	keys   []Key
	offset map[Key]int
	n      int // total variable dimension
	g0     *mat.Dense
	gv     *mat.VecDense
	aRows  [][]float64 // one dense coefficient row per hard row
	bRows  []float64
}

// Solve returns the exact minimizer of the graph, treating every factor as
// an unconstrained quadratic or a hard equality: least-squares rows fold into
// the quadratic part via normal equations, equality and inequality rows both
// enter the equality block of the KKT system. The constraint multipliers of
// the KKT solve are discarded; duals come from a dedicated dual graph.
//
// Returns ErrSingularSystem when the system has no unique solution.
func (g *FactorGraph) Solve() (*VectorValues, error) {
	sys, err := g.assemble()
	if err != nil {
		return nil, err
	}
	if sys.n == 0 {
		return NewVectorValues(), nil
	}

	m := len(sys.aRows)
	size := sys.n + m
	kkt := mat.NewDense(size, size, nil)
	rhs := mat.NewVecDense(size, nil)

	// ⎡ G  Aᵀ ⎤ ⎡x⎤   ⎡g⎤
	// ⎣ A  0  ⎦ ⎣ν⎦ = ⎣b⎦
	for i := 0; i < sys.n; i++ {
		for j := 0; j < sys.n; j++ {
			kkt.Set(i, j, sys.g0.At(i, j))
		}
		rhs.SetVec(i, sys.gv.AtVec(i))
	}
	for r, row := range sys.aRows {
		for j, a := range row {
			kkt.Set(sys.n+r, j, a)
			kkt.Set(j, sys.n+r, a)
		}
		rhs.SetVec(sys.n+r, sys.bRows[r])
	}

	var sol mat.VecDense
	if err := sol.SolveVec(kkt, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("core: kkt solve: %w", ErrSingularSystem)
		}
	}

	out := NewVectorValues()
	for _, k := range sys.keys {
		d := g.dims[k]
		off := sys.offset[k]
		xk := mat.NewVecDense(d, nil)
		for i := 0; i < d; i++ {
			xk.SetVec(i, sol.AtVec(off+i))
		}
		if err := out.Insert(k, xk); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// assemble flattens the graph into dense (G, g) and hard rows (A, b) over the
// sorted key order.
func (g *FactorGraph) assemble() (*kktSystem, error) {
	sys := &kktSystem{keys: g.Keys(), offset: make(map[Key]int)}
	for _, k := range sys.keys {
		sys.offset[k] = sys.n
		sys.n += g.dims[k]
	}
	if sys.n == 0 {
		return sys, nil
	}
	sys.g0 = mat.NewDense(sys.n, sys.n, nil)
	sys.gv = mat.NewVecDense(sys.n, nil)

	for _, f := range g.factors {
		switch t := f.(type) {
		case *HessianFactor:
			sys.addHessian(t)
		case *JacobianFactor:
			sys.addJacobian(t)
		default:
			return nil, fmt.Errorf("core: assemble: %w: %T", ErrUnsupportedFactor, f)
		}
	}

	return sys, nil
}

// addHessian scatters the factor's blocks into the dense quadratic part.
func (s *kktSystem) addHessian(h *HessianFactor) {
	keys := h.keys
	for i, ki := range keys {
		oi := s.offset[ki]
		gi := h.Linear(i)
		for r := 0; r < h.dims[i]; r++ {
			s.gv.SetVec(oi+r, s.gv.AtVec(oi+r)+gi.AtVec(r))
		}
		for j := i; j < len(keys); j++ {
			oj := s.offset[keys[j]]
			blk := h.Block(i, j)
			for r := 0; r < h.dims[i]; r++ {
				for c := 0; c < h.dims[j]; c++ {
					v := blk.At(r, c)
					s.g0.Set(oi+r, oj+c, s.g0.At(oi+r, oj+c)+v)
					if i != j {
						s.g0.Set(oj+c, oi+r, s.g0.At(oj+c, oi+r)+v)
					}
				}
			}
		}
	}
}

// addJacobian folds least-squares rows into (G, g) via normal equations and
// appends hard rows to (A, b). Inequality rows are treated as equalities: the
// caller restricts the graph to its working set before solving.
func (s *kktSystem) addJacobian(j *JacobianFactor) {
	for r := 0; r < j.Rows(); r++ {
		row := make([]float64, s.n)
		for i, k := range j.keys {
			off := s.offset[k]
			for c := 0; c < j.dims[i]; c++ {
				row[off+c] = j.a[i].At(r, c)
			}
		}
		b := j.b.AtVec(r)
		if j.kinds[r] == RowLeastSquares {
			// G += aᵣaᵣᵀ , g += aᵣ·bᵣ
			for p, ap := range row {
				if ap == 0 {
					continue
				}
				s.gv.SetVec(p, s.gv.AtVec(p)+ap*b)
				for q, aq := range row {
					if aq != 0 {
						s.g0.Set(p, q, s.g0.At(p, q)+ap*aq)
					}
				}
			}
		} else {
			s.aRows = append(s.aRows, row)
			s.bRows = append(s.bRows, b)
		}
	}
}
