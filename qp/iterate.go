package qp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/MichaelWang1028/gtsam/core"
)

// Iterate advances the active-set method by one step, mutating the point and
// the working set in place, and reports whether x is a KKT point of the full
// problem. Exactly one of three things happens per call:
//
//   - the point moves toward the minimizer of the equality-restricted
//     subproblem (possibly activating one blocking inequality row), or
//   - one active inequality row with a positive multiplier leaves the
//     working set while the point stays put, or
//   - nothing changes and converged = true is reported.
//
// Returns ErrSingularSubproblem when the restricted subproblem or the dual
// system has no unique solution for the current working set.
func (s *Solver) Iterate(ws *WorkingSet, x *core.VectorValues) (bool, error) {
	if ws == nil {
		return false, ErrRowOutOfRange
	}
	if err := s.validatePoint(x); err != nil {
		return false, err
	}

	candidate, err := s.solveRestricted(ws)
	if err != nil {
		return false, err
	}

	if candidate.Equals(x, s.opts.Epsilon) {
		// x already minimizes the restricted problem: consult the duals.
		return s.dropWorstActive(ws, x)
	}

	return false, s.stepToward(ws, x, candidate)
}

// solveRestricted builds and solves the equality-restricted subproblem: the
// full objective plus every working-set row as a hard equality, original
// inequality signs ignored.
func (s *Solver) solveRestricted(ws *WorkingSet) (*core.VectorValues, error) {
	sub := core.NewFactorGraph()
	for _, f := range s.objectives {
		if err := sub.Add(f); err != nil {
			return nil, err
		}
	}
	for _, c := range s.consIdx {
		rows := ws.ActiveRows(c)
		if len(rows) == 0 {
			continue
		}
		restricted, err := restrictToRows(s.constraints[c], rows)
		if err != nil {
			return nil, err
		}
		if err := sub.Add(restricted); err != nil {
			return nil, err
		}
	}

	candidate, err := sub.Solve()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSubproblem, err)
	}

	return candidate, nil
}

// dropWorstActive computes multipliers at x and removes the single active
// inequality row with the most positive one; with none positive, x is a KKT
// point of the full problem.
func (s *Solver) dropWorstActive(ws *WorkingSet, x *core.VectorValues) (bool, error) {
	dual, err := s.BuildDualGraph(ws, x)
	if err != nil {
		return false, err
	}
	sol, err := dual.Solve()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrSingularSubproblem, err)
	}
	duals, err := s.ExtractDuals(ws, sol)
	if err != nil {
		return false, err
	}

	f, r := s.FindWorstViolatedActiveIneq(duals)
	if f < 0 {
		return true, nil
	}
	if err := ws.Remove(f, r); err != nil {
		return false, err
	}

	return false, nil
}

// stepToward performs the constrained line search from x toward candidate:
// the largest α ∈ [0,1] keeping every inactive inequality row feasible. The
// first row blocking below a full step joins the working set.
func (s *Solver) stepToward(ws *WorkingSet, x, candidate *core.VectorValues) error {
	alpha := 1.0
	blockF, blockR := -1, -1
	for _, c := range s.consIdx {
		cf := s.constraints[c]
		for r := 0; r < cf.Rows(); r++ {
			if cf.Kind(r) != core.RowInequality || ws.Contains(c, r) {
				continue
			}
			e0, err := cf.RowDot(r, x)
			if err != nil {
				return err
			}
			e1, err := cf.RowDot(r, candidate)
			if err != nil {
				return err
			}
			slope := e1 - e0 // aᵣᵀ(candidate − x)
			if slope <= s.opts.Epsilon {
				// the step does not ascend this row
				continue
			}
			step := -e0 / slope
			if step < 0 {
				step = 0
			}
			if step < alpha {
				alpha = step
				blockF, blockR = c, r
			}
		}
	}

	if err := x.MoveToward(candidate, alpha); err != nil {
		return err
	}
	if blockF >= 0 {
		return ws.Add(blockF, blockR)
	}

	return nil
}

// restrictToRows copies the listed rows of a constraint factor into a new
// factor whose rows are all hard equalities.
func restrictToRows(cf *core.JacobianFactor, rows []int) (*core.JacobianFactor, error) {
	keys := cf.Keys()
	blocks := make([]*mat.Dense, len(keys))
	for i := range keys {
		src := cf.Block(i)
		dst := mat.NewDense(len(rows), cf.Dim(i), nil)
		for idx, r := range rows {
			for c := 0; c < cf.Dim(i); c++ {
				dst.Set(idx, c, src.At(r, c))
			}
		}
		blocks[i] = dst
	}
	b := mat.NewVecDense(len(rows), nil)
	for idx, r := range rows {
		b.SetVec(idx, cf.RHS().AtVec(r))
	}
	kinds := make([]core.RowKind, len(rows))
	for i := range kinds {
		kinds[i] = core.RowEquality
	}

	return core.NewJacobianFactor(keys, blocks, b, kinds)
}
