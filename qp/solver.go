package qp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/MichaelWang1028/gtsam/core"
)

// Solver is an active-set QP solver over a constrained factor graph.
// It classifies the graph's factors once at construction and is read-only
// afterwards; all per-solve mutation lives in a WorkingSet and point owned
// by the caller of Iterate, or created internally by Optimize.
type Solver struct {
	graph *core.FactorGraph
	opts  Options

	// classification results, decided once (never re-checked per access)
	objectives  []core.Factor // quadratic factors and pure least-squares factors
	constraints map[int]*core.JacobianFactor
	consIdx     []int // ordered constraint-factor positions
	ineqRows    int   // total inequality row count across the graph
}

// NewSolver classifies graph and returns a solver over it. The graph is
// treated as read-only for the life of the solver.
//
// Returns ErrNilGraph for a nil graph and ErrMalformedConstraint when a
// constraint factor mixes least-squares rows with hard rows; zero-row
// factors are already rejected by core at construction.
func NewSolver(graph *core.FactorGraph, opts ...Option) (*Solver, error) {
	if graph == nil {
		return nil, ErrNilGraph
	}

	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Solver{
		graph:       graph,
		opts:        cfg,
		constraints: make(map[int]*core.JacobianFactor),
	}

	for i := 0; i < graph.Len(); i++ {
		f, err := graph.At(i)
		if err != nil {
			return nil, err
		}
		switch t := f.(type) {
		case *core.HessianFactor:
			s.objectives = append(s.objectives, t)
		case *core.JacobianFactor:
			if !t.IsConstraint() {
				// pure least-squares factor: part of the objective
				s.objectives = append(s.objectives, t)
				continue
			}
			if t.Rows() == 0 {
				return nil, fmt.Errorf("%w: factor %d has no rows", ErrMalformedConstraint, i)
			}
			for r := 0; r < t.Rows(); r++ {
				switch t.Kind(r) {
				case core.RowLeastSquares:
					return nil, fmt.Errorf("%w: factor %d mixes soft and hard rows", ErrMalformedConstraint, i)
				case core.RowInequality:
					s.ineqRows++
				}
			}
			s.constraints[i] = t
			s.consIdx = append(s.consIdx, i)
		default:
			return nil, fmt.Errorf("qp: %w: %T", core.ErrUnsupportedFactor, f)
		}
	}

	return s, nil
}

// Graph returns the underlying factor graph.
func (s *Solver) Graph() *core.FactorGraph { return s.graph }

// ConstraintIndices returns the positions of constraint factors — factors
// carrying at least one equality or inequality row — in insertion order of
// the graph.
func (s *Solver) ConstraintIndices() []int {
	return append([]int(nil), s.consIdx...)
}

// FreeHessiansOfConstrainedVars returns the quadratic factors whose scope
// touches a variable constrained by some inequality row, each with its
// scalar offset reduced by the squared linear terms of the touched keys —
// the part of the objective that inequality constraints have leverage over,
// separated out for validation and partial re-solves. Pure query.
func (s *Solver) FreeHessiansOfConstrainedVars() (*core.FactorGraph, error) {
	constrained := make(map[core.Key]struct{})
	for _, i := range s.consIdx {
		c := s.constraints[i]
		hasIneq := false
		for r := 0; r < c.Rows(); r++ {
			if c.Kind(r) == core.RowInequality {
				hasIneq = true
				break
			}
		}
		if !hasIneq {
			continue
		}
		for _, k := range c.Keys() {
			constrained[k] = struct{}{}
		}
	}

	free := core.NewFactorGraph()
	for _, f := range s.objectives {
		h, ok := f.(*core.HessianFactor)
		if !ok {
			continue
		}
		keys := h.Keys()
		touched := false
		for _, k := range keys {
			if _, in := constrained[k]; in {
				touched = true
				break
			}
		}
		if !touched {
			continue
		}

		// rebuild with the offset of the touched linear terms removed
		n := len(keys)
		upper := make([]*mat.Dense, 0, n*(n+1)/2)
		lin := make([]*mat.VecDense, n)
		offset := h.Constant()
		for i := 0; i < n; i++ {
			lin[i] = h.Linear(i)
			if _, in := constrained[keys[i]]; in {
				offset -= mat.Dot(lin[i], lin[i])
			}
			for j := i; j < n; j++ {
				upper = append(upper, h.Block(i, j))
			}
		}
		reduced, err := core.NewHessianFactor(keys, upper, lin, offset)
		if err != nil {
			return nil, err
		}
		if err := free.Add(reduced); err != nil {
			return nil, err
		}
	}

	return free, nil
}

// validatePoint checks that x assigns exactly the keys of the graph.
func (s *Solver) validatePoint(x *core.VectorValues) error {
	if x == nil {
		return ErrIncompletePoint
	}
	keys := s.graph.Keys()
	for _, k := range keys {
		if !x.Has(k) {
			return fmt.Errorf("%w: missing %q", ErrIncompletePoint, k)
		}
	}
	if x.Len() != len(keys) {
		for _, k := range x.Keys() {
			if _, ok := s.graph.Dim(k); !ok {
				return fmt.Errorf("%w: %q", ErrUnknownKey, k)
			}
		}
	}

	return nil
}
