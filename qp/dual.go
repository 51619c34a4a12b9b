package qp

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/MichaelWang1028/gtsam/core"
)

// Duals maps a constraint-factor index to one Lagrange multiplier per row of
// that factor. Rows outside the working set carry zero.
type Duals map[int][]float64

// DualKey names the multiplier vector of the constraint factor at position i
// in the dual graph.
func DualKey(i int) core.Key { return core.Key(fmt.Sprintf("dual:%d", i)) }

// BuildDualGraph constructs the auxiliary factor graph whose solution is the
// Lagrange multipliers of the working set at the point x. For every variable
// v touched by an active constraint row, the stationarity condition of the
// Lagrangian contributes one least-squares block row
//
//	Σ_c A_c[active, v]ᵀ·λ_c = ∇_v f(x)
//
// with the objective gradient ∇f = Gx − g on the right-hand side. Solving
// the returned graph with core's Solve yields λ keyed by DualKey(factor).
//
// The working set's subproblem must be solvable; an underdetermined dual
// system surfaces as ErrSingularSubproblem from the subsequent solve, never
// as a silently wrong multiplier.
func (s *Solver) BuildDualGraph(ws *WorkingSet, x *core.VectorValues) (*core.FactorGraph, error) {
	if ws == nil {
		return nil, ErrRowOutOfRange
	}
	if err := s.validatePoint(x); err != nil {
		return nil, err
	}

	grad, err := s.graph.Gradient(x)
	if err != nil {
		return nil, err
	}

	// variables touched by at least one active row, in canonical order
	touched := make(map[core.Key]struct{})
	for _, c := range s.consIdx {
		if len(ws.ActiveRows(c)) == 0 {
			continue
		}
		for _, k := range s.constraints[c].Keys() {
			touched[k] = struct{}{}
		}
	}
	vars := make([]core.Key, 0, len(touched))
	for k := range touched {
		vars = append(vars, k)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

	dual := core.NewFactorGraph()
	for _, v := range vars {
		gv, ok := grad.At(v)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrIncompletePoint, v)
		}
		dim := gv.Len()

		var dualKeys []core.Key
		var blocks []*mat.Dense
		for _, c := range s.consIdx {
			rows := ws.ActiveRows(c)
			if len(rows) == 0 {
				continue
			}
			cf := s.constraints[c]
			pos := scopePosition(cf.Keys(), v)
			if pos < 0 {
				continue
			}
			// block: ∂(stationarity of v)/∂λ_c = A_c[rows, v]ᵀ
			ablk := cf.Block(pos)
			m := mat.NewDense(dim, len(rows), nil)
			for d := 0; d < dim; d++ {
				for idx, r := range rows {
					m.Set(d, idx, ablk.At(r, d))
				}
			}
			dualKeys = append(dualKeys, DualKey(c))
			blocks = append(blocks, m)
		}
		if len(dualKeys) == 0 {
			continue
		}

		kinds := make([]core.RowKind, dim)
		f, err := core.NewJacobianFactor(dualKeys, blocks, mat.VecDenseCopyOf(gv), kinds)
		if err != nil {
			return nil, err
		}
		if err := dual.Add(f); err != nil {
			return nil, err
		}
	}

	return dual, nil
}

// ExtractDuals maps a dual-graph solution back to per-(factor, row)
// multipliers: active rows take their solved λ, inactive rows zero.
func (s *Solver) ExtractDuals(ws *WorkingSet, sol *core.VectorValues) (Duals, error) {
	duals := make(Duals, len(s.consIdx))
	for _, c := range s.consIdx {
		lam := make([]float64, s.constraints[c].Rows())
		rows := ws.ActiveRows(c)
		if len(rows) > 0 {
			v, ok := sol.At(DualKey(c))
			if !ok || v.Len() != len(rows) {
				return nil, fmt.Errorf("%w: no multipliers for factor %d", ErrSingularSubproblem, c)
			}
			for idx, r := range rows {
				lam[r] = v.AtVec(idx)
			}
		}
		duals[c] = lam
	}

	return duals, nil
}

// FindWorstViolatedActiveIneq returns the (factor index, row index) of the
// inequality row with the most positive multiplier in duals — the active
// constraint whose removal improves the objective the most — or (−1, −1)
// when no inequality multiplier is positive. Ties break to the lowest factor
// index, then the lowest row index. Factor indices in duals that are not
// constraint factors of the graph are ignored.
func (s *Solver) FindWorstViolatedActiveIneq(duals Duals) (int, int) {
	worstF, worstR := -1, -1
	var worst float64
	for _, c := range s.consIdx {
		lam, ok := duals[c]
		if !ok {
			continue
		}
		cf := s.constraints[c]
		for r := 0; r < cf.Rows() && r < len(lam); r++ {
			if cf.Kind(r) != core.RowInequality {
				continue
			}
			if lam[r] > worst {
				worst = lam[r]
				worstF, worstR = c, r
			}
		}
	}

	return worstF, worstR
}

// scopePosition returns the index of k in keys, or −1.
func scopePosition(keys []core.Key, k core.Key) int {
	for i, key := range keys {
		if key == k {
			return i
		}
	}

	return -1
}
