package qp

import (
	"fmt"

	"github.com/MichaelWang1028/gtsam/core"
)

// Optimize runs the active-set method from the initial point until a KKT
// point is reached and returns the final primal point. The initial point
// must assign exactly the variables of the graph; the working set starts
// with all equality rows and no inequality rows.
//
// The loop is bounded by MaxIterations + IterationsPerInequality × (total
// inequality rows); exhausting the budget reports ErrIterationLimit —
// cycling or a degenerate problem — distinctly from ErrSingularSubproblem.
//
// The input point is not mutated; each call owns an independent clone and
// working set, so concurrent Optimize calls on one Solver are safe.
func (s *Solver) Optimize(initial *core.VectorValues) (*core.VectorValues, error) {
	if err := s.validatePoint(initial); err != nil {
		return nil, err
	}

	x := initial.Clone()
	ws := s.NewWorkingSet()
	limit := s.opts.MaxIterations + s.opts.IterationsPerInequality*s.ineqRows

	for i := 0; i < limit; i++ {
		converged, err := s.Iterate(ws, x)
		if err != nil {
			return nil, err
		}
		if converged {
			return x, nil
		}
	}

	return nil, fmt.Errorf("%w: after %d iterations", ErrIterationLimit, limit)
}
